package cli

import (
	"github.com/aaron-seq/cmldb/internal/postgres"
	"github.com/aaron-seq/cmldb/internal/seed"
	"github.com/aaron-seq/cmldb/pkg/logger"
	"github.com/spf13/cobra"
)

// SeedCmd loads CML master data from the Excel workbook, or a CSV export
// of it, into the database.
func SeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load CML master data into the database",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cfg, err := setupContext(cmd)
			if err != nil {
				return err
			}
			log := logger.FromContext(ctx)

			file := cfg.Seed.File
			if cmd.Flags().Changed("file") {
				if file, err = cmd.Flags().GetString("file"); err != nil {
					return err
				}
			}
			keepExisting := cfg.Seed.KeepExisting
			if cmd.Flags().Changed("keep-existing") {
				if keepExisting, err = cmd.Flags().GetBool("keep-existing"); err != nil {
					return err
				}
			}

			store, err := postgres.NewStore(ctx, storeConfig(&cfg.Database))
			if err != nil {
				return err
			}
			defer func() {
				if err := store.Close(ctx); err != nil {
					log.Warn("Failed to close store", "error", err)
				}
			}()

			seeder := seed.New(store.Pool(), seed.Options{
				BatchSize:    cfg.Seed.BatchSize,
				KeepExisting: keepExisting,
			})
			result, err := seeder.SeedFile(ctx, file)
			if err != nil {
				log.Error("Seeding failed", "error", err)
				return err
			}
			log.Info("Seeding finished", "successful", result.Inserted, "failed", result.Failed)
			return nil
		},
	}

	cmd.Flags().String("file", "", "workbook or CSV file with CML master data (overrides SEED_FILE)")
	cmd.Flags().Bool("keep-existing", false, "Keep existing rows instead of clearing first")

	return cmd
}
