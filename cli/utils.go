package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/aaron-seq/cmldb/internal/postgres"
	"github.com/aaron-seq/cmldb/pkg/config"
	"github.com/aaron-seq/cmldb/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// setupContext prepares an invocation: loads the env file, loads
// configuration, configures the logger, and returns a context carrying
// the logger. An explicit --log-level wins over RUNTIME_LOG_LEVEL, which
// wins over the flag default.
func setupContext(cmd *cobra.Command) (context.Context, *config.Config, error) {
	if err := loadEnvFile(cmd); err != nil {
		return nil, nil, err
	}

	logLevel, logJSON, logSource, err := logger.GetLoggerConfig(cmd)
	if err != nil {
		return nil, nil, err
	}

	cfg, err := config.NewLoader().Load(cmd.Context())
	if err != nil {
		return nil, nil, err
	}
	logger.SetupLogger(resolveLogLevel(cmd, logLevel, cfg), logJSON, logSource)

	ctx := logger.ContextWithLogger(cmd.Context(), logger.GetDefault())
	return ctx, cfg, nil
}

// resolveLogLevel picks the effective log level: the flag when set
// explicitly, otherwise the configured runtime level, otherwise the
// flag default.
func resolveLogLevel(cmd *cobra.Command, flagLevel string, cfg *config.Config) string {
	if cmd.Flags().Changed("log-level") {
		return flagLevel
	}
	if cfg.Runtime.LogLevel != "" {
		return cfg.Runtime.LogLevel
	}
	return flagLevel
}

// loadEnvFile loads the --env-file when given, or .env when present.
// A missing explicit file is an error; a missing default .env is not.
func loadEnvFile(cmd *cobra.Command) error {
	envFile, err := cmd.Flags().GetString("env-file")
	if err != nil {
		return fmt.Errorf("failed to get env-file flag: %w", err)
	}
	if envFile == "" {
		if _, statErr := os.Stat(".env"); statErr != nil {
			return nil
		}
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", envFile, err)
	}
	return nil
}

// storeConfig maps the application database configuration onto the driver.
func storeConfig(db *config.DatabaseConfig) *postgres.Config {
	return &postgres.Config{
		ConnString: db.ConnString,
		Host:       db.Host,
		Port:       db.Port,
		User:       db.User,
		Password:   db.Password.Value(),
		DBName:     db.DBName,
		SSLMode:    db.SSLMode,
	}
}
