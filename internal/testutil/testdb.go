package testutil

import (
	"database/sql"
	"testing"

	"github.com/hjaltland/rota/internal/db"
)

// NewTestDB opens an in-memory task store with the full schema applied,
// including the seeded default settings row. It is closed when the test
// finishes.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() {
		database.Close()
	})
	return database
}

// NewTestUoW wraps a test store in a UnitOfWork for aggregator tests.
func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}
