package cli

import (
	"github.com/aaron-seq/cmldb/internal/postgres"
	"github.com/aaron-seq/cmldb/pkg/logger"
	"github.com/spf13/cobra"
)

// HealthCmd verifies the configured database is reachable.
func HealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check database connectivity",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cfg, err := setupContext(cmd)
			if err != nil {
				return err
			}
			log := logger.FromContext(ctx)

			store, err := postgres.NewStore(ctx, storeConfig(&cfg.Database))
			if err != nil {
				log.Error("Database not reachable", "error", err)
				return err
			}
			defer func() {
				if err := store.Close(ctx); err != nil {
					log.Warn("Failed to close store", "error", err)
				}
			}()

			if err := store.HealthCheck(ctx); err != nil {
				log.Error("Database health check failed", "error", err)
				return err
			}
			log.Info("Database connected", "db_name", cfg.Database.DBName)
			return nil
		},
	}
}
