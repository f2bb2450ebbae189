package cli

import (
	"github.com/spf13/cobra"
)

func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "cmldb",
		Short:         "Database bootstrap and seeding for the CML optimization platform",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	root.PersistentFlags().Bool("log-json", false, "Emit logs as JSON")
	root.PersistentFlags().Bool("log-source", false, "Report caller locations in logs")
	root.PersistentFlags().String("env-file", "", "Path to an env file loaded before reading configuration")

	root.AddCommand(
		BootstrapCmd(),
		SeedCmd(),
		HealthCmd(),
	)

	return root
}
