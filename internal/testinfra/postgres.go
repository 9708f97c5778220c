package testinfra

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/deartisahub/backend/internal/db"
)

// StartPostgres16 starts a Postgres 16 container and returns a DSN. If
// INTEGRATION_TEST_PG_DSN is set, it reuses that database instead.
func StartPostgres16(ctx context.Context) (*postgres.PostgresContainer, string, error) {
	if dsn := os.Getenv("INTEGRATION_TEST_PG_DSN"); dsn != "" {
		return nil, dsn, nil
	}

	pgC, err := postgres.Run(ctx,
		"postgres:16",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		return nil, "", err
	}

	dsn, err := pgC.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = pgC.Terminate(ctx)
		return nil, "", err
	}
	return pgC, dsn, nil
}

// SetupDB boots a throwaway Postgres, points the shared pool at it, and
// applies the schema. Skips the test when no container runtime is
// available.
func SetupDB(t *testing.T) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pgC, dsn, err := StartPostgres16(ctx)
	if err != nil {
		t.Skipf("postgres container unavailable: %v", err)
	}
	if pgC != nil {
		t.Cleanup(func() { _ = pgC.Terminate(context.Background()) })
	}

	t.Setenv("DATABASE_URL", dsn)
	db.Init()
	t.Cleanup(func() { db.Conn.Close() })
}
