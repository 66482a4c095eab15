package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/fwojciec/modsdump/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db := sqlite.NewDB(":memory:")
	require.NoError(t, db.Open())
	t.Cleanup(func() { db.Close() })
	return db
}

func TestDB_Open(t *testing.T) {
	t.Parallel()

	t.Run("migrates the manifest tables", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)

		for _, table := range []string{"runs", "files"} {
			var name string
			err := db.QueryRowContext(context.Background(),
				"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
			require.NoError(t, err, table)
		}
	})

	t.Run("reopening an existing file keeps its rows", func(t *testing.T) {
		t.Parallel()

		// Given: a database file with one run
		path := filepath.Join(t.TempDir(), "manifest.db")
		first := sqlite.NewDB(path)
		require.NoError(t, first.Open())
		_, err := first.ExecContext(context.Background(),
			"INSERT INTO runs (id, origin, output_dir, started_at) VALUES ('r1', 'https://example.com', '/tmp/out', '2024-01-01T00:00:00Z')")
		require.NoError(t, err)
		require.NoError(t, first.Close())

		// When: it is opened again
		second := sqlite.NewDB(path)
		require.NoError(t, second.Open())
		defer second.Close()

		// Then: the schema migration leaves the row alone and WAL is on
		var count int
		require.NoError(t, second.QueryRowContext(context.Background(), "SELECT COUNT(*) FROM runs").Scan(&count))
		assert.Equal(t, 1, count)

		var mode string
		require.NoError(t, second.QueryRowContext(context.Background(), "PRAGMA journal_mode").Scan(&mode))
		assert.Equal(t, "wal", mode)
	})

	t.Run("enforces foreign keys", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)

		_, err := db.ExecContext(context.Background(),
			"INSERT INTO files (id, run_id, item_url, download_url, name, created_at) VALUES ('f1', 'missing', '', '', 'a.zip', '')")

		assert.Error(t, err)
	})

	t.Run("fails when the directory does not exist", func(t *testing.T) {
		t.Parallel()

		db := sqlite.NewDB(filepath.Join(t.TempDir(), "missing", "manifest.db"))

		assert.Error(t, db.Open())
	})

	t.Run("close without open is a no-op", func(t *testing.T) {
		t.Parallel()

		assert.NoError(t, sqlite.NewDB(":memory:").Close())
	})
}
