package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startTestDatabase creates a PostgreSQL container and returns its
// connection string.
func startTestDatabase(ctx context.Context, t *testing.T) string {
	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("cml_optimization"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		terminateCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := pgContainer.Terminate(terminateCtx); err != nil {
			t.Logf("Warning: failed to terminate container: %s", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	return connStr
}

func TestStore_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx := context.Background()
	connStr := startTestDatabase(ctx, t)

	t.Run("Should report a healthy database", func(t *testing.T) {
		store, err := NewStore(ctx, &Config{
			ConnString:         connStr,
			HealthCheckTimeout: time.Second,
		})
		require.NoError(t, err)
		defer store.Close(ctx)

		assert.NoError(t, store.HealthCheck(ctx))
	})

	t.Run("Should report failure once the pool is closed", func(t *testing.T) {
		store, err := NewStore(ctx, &Config{ConnString: connStr})
		require.NoError(t, err)
		require.NoError(t, store.Close(ctx))

		err = store.HealthCheck(ctx)
		require.Error(t, err)
		assert.ErrorContains(t, err, "health check failed")
	})

	t.Run("Should bound the health check by its timeout", func(t *testing.T) {
		store, err := NewStore(ctx, &Config{
			ConnString:         connStr,
			HealthCheckTimeout: time.Second,
		})
		require.NoError(t, err)
		defer store.Close(ctx)

		expired, cancel := context.WithCancel(ctx)
		cancel()
		err = store.HealthCheck(expired)
		require.Error(t, err)
		assert.ErrorContains(t, err, "health check failed")
	})

	t.Run("Should refuse to initialize against an unreachable database", func(t *testing.T) {
		_, err := NewStore(ctx, &Config{
			Host:           "127.0.0.1",
			Port:           "1",
			ConnectTimeout: time.Second,
			PingTimeout:    time.Second,
		})
		require.Error(t, err)
		assert.ErrorContains(t, err, "postgres: ping")
	})
}
