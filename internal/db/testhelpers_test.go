package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// openTestSQLite открывает SQLite в temp dir и закрывает её по завершении теста.
func openTestSQLite(t *testing.T) *SQLitePropertyRepository {
	t.Helper()

	repo, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "arenafield.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}
