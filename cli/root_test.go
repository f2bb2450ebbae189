package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aaron-seq/cmldb/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd(t *testing.T) {
	t.Run("Should register the provisioning subcommands", func(t *testing.T) {
		cmd := RootCmd()

		names := make([]string, 0, 3)
		for _, sub := range cmd.Commands() {
			names = append(names, sub.Name())
		}
		assert.Contains(t, names, "bootstrap")
		assert.Contains(t, names, "seed")
		assert.Contains(t, names, "health")
	})

	t.Run("Should expose the logging flags", func(t *testing.T) {
		cmd := RootCmd()

		assert.NotNil(t, cmd.PersistentFlags().Lookup("log-level"))
		assert.NotNil(t, cmd.PersistentFlags().Lookup("log-json"))
		assert.NotNil(t, cmd.PersistentFlags().Lookup("log-source"))
		assert.NotNil(t, cmd.PersistentFlags().Lookup("env-file"))
	})
}

func TestLoadEnvFile(t *testing.T) {
	t.Run("Should load variables from an explicit env file", func(t *testing.T) {
		dir := t.TempDir()
		envPath := filepath.Join(dir, "test.env")
		require.NoError(t, os.WriteFile(envPath, []byte("DB_NAME=cml_from_file\n"), 0o600))
		t.Setenv("DB_NAME", "")
		os.Unsetenv("DB_NAME")

		cmd := RootCmd()
		require.NoError(t, cmd.ParseFlags([]string{"--env-file", envPath}))

		require.NoError(t, loadEnvFile(cmd))
		assert.Equal(t, "cml_from_file", os.Getenv("DB_NAME"))
	})

	t.Run("Should fail when the explicit env file is missing", func(t *testing.T) {
		cmd := RootCmd()
		require.NoError(t, cmd.ParseFlags([]string{"--env-file", "does-not-exist.env"}))

		assert.Error(t, loadEnvFile(cmd))
	})
}

func TestResolveLogLevel(t *testing.T) {
	t.Run("Should prefer an explicit flag over the runtime config", func(t *testing.T) {
		cmd := RootCmd()
		require.NoError(t, cmd.ParseFlags([]string{"--log-level", "warn"}))
		cfg := config.Default()
		cfg.Runtime.LogLevel = "debug"

		assert.Equal(t, "warn", resolveLogLevel(cmd, "warn", cfg))
	})

	t.Run("Should fall back to the configured runtime level", func(t *testing.T) {
		cmd := RootCmd()
		require.NoError(t, cmd.ParseFlags(nil))
		cfg := config.Default()
		cfg.Runtime.LogLevel = "debug"

		assert.Equal(t, "debug", resolveLogLevel(cmd, "info", cfg))
	})

	t.Run("Should apply RUNTIME_LOG_LEVEL from the environment", func(t *testing.T) {
		t.Setenv("RUNTIME_LOG_LEVEL", "error")
		cmd := RootCmd()
		require.NoError(t, cmd.ParseFlags(nil))

		cfg, err := config.NewLoader().Load(t.Context())
		require.NoError(t, err)
		assert.Equal(t, "error", resolveLogLevel(cmd, "info", cfg))
	})

	t.Run("Should keep the flag default when nothing is configured", func(t *testing.T) {
		cmd := RootCmd()
		require.NoError(t, cmd.ParseFlags(nil))
		cfg := config.Default()
		cfg.Runtime.LogLevel = ""

		assert.Equal(t, "info", resolveLogLevel(cmd, "info", cfg))
	})
}
