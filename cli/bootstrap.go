package cli

import (
	"github.com/aaron-seq/cmldb/internal/bootstrap"
	"github.com/aaron-seq/cmldb/internal/postgres"
	"github.com/aaron-seq/cmldb/pkg/logger"
	"github.com/spf13/cobra"
)

// BootstrapCmd provisions the database on container startup: it ensures the
// UUID-generation extension and grants privileges on the application
// database to the application role. Any failure exits non-zero with the
// engine's error text.
func BootstrapCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bootstrap",
		Short: "Ensure database extensions and privilege grants",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cfg, err := setupContext(cmd)
			if err != nil {
				return err
			}
			log := logger.FromContext(ctx)

			store, err := postgres.NewStore(ctx, storeConfig(&cfg.Database))
			if err != nil {
				return err
			}
			defer func() {
				if err := store.Close(ctx); err != nil {
					log.Warn("Failed to close store", "error", err)
				}
			}()

			provisioner := bootstrap.New(store.Pool(), bootstrap.Options{
				Extensions:    cfg.Bootstrap.Extensions,
				GrantDatabase: cfg.Bootstrap.GrantDatabase,
				GrantRole:     cfg.Bootstrap.GrantRole,
				LockTimeout:   cfg.Bootstrap.LockTimeout,
			})
			if err := provisioner.Run(ctx); err != nil {
				log.Error("Bootstrap failed", "error", err)
				return err
			}
			return nil
		},
	}
}
