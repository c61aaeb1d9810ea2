package database

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	tclog "github.com/testcontainers/testcontainers-go/log"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

const (
	testImage    = "postgres:16-alpine"
	testDatabase = "catalog"
	testRole     = "catalog"

	// enough connections for a variant stage running with its default workers
	testPoolSize = 8
)

type quietLogger struct{}

func (quietLogger) Printf(string, ...any) {}

var _ tclog.Logger = quietLogger{}

// SetupTestDB starts a throwaway Postgres, proves the schema migrates down
// and back up cleanly, and returns a pool whose sessions run in UTC.
// The returned func stops the container.
func SetupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx, testImage,
		postgres.WithDatabase(testDatabase),
		postgres.WithUsername(testRole),
		postgres.WithPassword(testRole),
		postgres.BasicWaitStrategies(),
		tc.WithLogger(quietLogger{}),
	)
	require.NoError(t, err)

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	require.NoError(t, migrateRoundTrip(connStr))

	poolCfg, err := pgxpool.ParseConfig(connStr)
	require.NoError(t, err)
	poolCfg.MaxConns = testPoolSize
	poolCfg.ConnConfig.RuntimeParams["timezone"] = "UTC"

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	require.NoError(t, err)

	return pool, func() {
		pool.Close()
		tc.CleanupContainer(t, container)
	}
}

// migrateRoundTrip applies every migration, rolls all of them back and
// applies them again, failing on a dirty version at any point.
func migrateRoundTrip(connStr string) error {
	steps := []struct {
		name string
		run  func() error
	}{
		{"up", func() error { return MigrateUp(connStr) }},
		{"down", func() error { return MigrateDown(connStr, 0) }},
		{"up again", func() error { return MigrateUp(connStr) }},
	}
	for _, step := range steps {
		if err := step.run(); err != nil {
			return fmt.Errorf("migrate %s: %w", step.name, err)
		}
		_, dirty, err := GetVersion(connStr)
		if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
			return fmt.Errorf("migrate %s: %w", step.name, err)
		}
		if dirty {
			return fmt.Errorf("migrate %s left a dirty schema", step.name)
		}
	}
	return nil
}
