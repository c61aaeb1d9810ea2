package database

import (
	"context"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrations(t *testing.T) {
	t.Parallel()

	pool, cleanupFunc := SetupTestDB(t)
	t.Cleanup(cleanupFunc)

	connString := pool.Config().ConnString()

	m, err := NewFromConnectionString(connString)
	require.NoError(t, err)
	defer func() { _, _ = m.Close() }()

	fnames, err := fs.Glob(migrationsFS, "migrations/*.up.sql")
	require.NoError(t, err)
	require.NotEmpty(t, fnames)

	version, dirty, err := m.Version()
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.Equal(t, uint(len(fnames)), version)

	// step all the way down and back up again
	require.NoError(t, m.Steps(-len(fnames)))
	require.NoError(t, m.Steps(len(fnames)))

	var count int
	err = pool.QueryRow(context.Background(),
		`SELECT count(*) FROM information_schema.tables WHERE table_name = ANY($1)`,
		[]string{"city", "brand", "car_model", "variant", "feature", "variant_feature", "sync_run", "sync_unit"},
	).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 8, count)
}
