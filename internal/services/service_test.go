package services

import (
	"database/sql"
	"testing"

	"github.com/juliebook/juliebook-be/internal/database"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// newTestDB opens a fresh in-memory database with the full schema applied.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// An in-memory sqlite database exists per connection; keep exactly one.
	db.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { db.Close() })
	return db
}
