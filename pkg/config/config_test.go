package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader_Load(t *testing.T) {
	t.Run("Should load built-in defaults", func(t *testing.T) {
		cfg, err := NewLoader().Load(t.Context())
		require.NoError(t, err)

		assert.Equal(t, []string{"uuid-ossp"}, cfg.Bootstrap.Extensions)
		assert.Equal(t, "cml_optimization", cfg.Bootstrap.GrantDatabase)
		assert.Equal(t, "cml_user", cfg.Bootstrap.GrantRole)
		assert.Equal(t, 45*time.Second, cfg.Bootstrap.LockTimeout)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, "5432", cfg.Database.Port)
		assert.Equal(t, 50, cfg.Seed.BatchSize)
		assert.Equal(t, "info", cfg.Runtime.LogLevel)
	})

	t.Run("Should apply environment overrides over defaults", func(t *testing.T) {
		t.Setenv("DB_HOST", "db.internal")
		t.Setenv("DB_PASSWORD", "s3cret")
		t.Setenv("BOOTSTRAP_GRANT_ROLE", "inspection_rw")
		t.Setenv("SEED_BATCH_SIZE", "200")

		cfg, err := NewLoader().Load(t.Context())
		require.NoError(t, err)

		assert.Equal(t, "db.internal", cfg.Database.Host)
		assert.Equal(t, "s3cret", cfg.Database.Password.Value())
		assert.Equal(t, "inspection_rw", cfg.Bootstrap.GrantRole)
		assert.Equal(t, 200, cfg.Seed.BatchSize)
	})

	t.Run("Should split comma-separated extension lists", func(t *testing.T) {
		t.Setenv("BOOTSTRAP_EXTENSIONS", "uuid-ossp,pgcrypto")

		cfg, err := NewLoader().Load(t.Context())
		require.NoError(t, err)

		assert.Equal(t, []string{"uuid-ossp", "pgcrypto"}, cfg.Bootstrap.Extensions)
	})

	t.Run("Should reject invalid log level", func(t *testing.T) {
		t.Setenv("RUNTIME_LOG_LEVEL", "verbose")

		_, err := NewLoader().Load(t.Context())
		assert.Error(t, err)
	})

	t.Run("Should reject non-positive seed batch size", func(t *testing.T) {
		t.Setenv("SEED_BATCH_SIZE", "0")

		_, err := NewLoader().Load(t.Context())
		assert.Error(t, err)
	})
}

func TestSensitiveString(t *testing.T) {
	t.Run("Should redact in string rendering but keep raw value", func(t *testing.T) {
		s := SensitiveString("hunter2")
		assert.Equal(t, "[REDACTED]", s.String())
		assert.Equal(t, "hunter2", s.Value())
	})

	t.Run("Should render empty string as empty", func(t *testing.T) {
		assert.Equal(t, "", SensitiveString("").String())
	})
}

func TestGenerateEnvMappings(t *testing.T) {
	t.Run("Should map env tags to nested config paths", func(t *testing.T) {
		m := GenerateEnvToConfigMap()

		assert.Equal(t, "database.host", m["DB_HOST"])
		assert.Equal(t, "bootstrap.grant_database", m["BOOTSTRAP_GRANT_DATABASE"])
		assert.Equal(t, "seed.keep_existing", m["SEED_KEEP_EXISTING"])
		assert.Equal(t, "runtime.log_level", m["RUNTIME_LOG_LEVEL"])
	})
}
