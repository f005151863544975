// Package databasetest provides migrated in-memory databases for tests.
package databasetest

import (
	"testing"

	"github.com/taskflow/core/internal/infrastructure/config"
	"github.com/taskflow/core/internal/infrastructure/database"
)

// New opens a fresh in-memory sqlite database with the full schema applied.
// The database is closed when the test ends.
func New(t testing.TB) *database.DB {
	t.Helper()

	db, err := database.New(config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Path:   ":memory:",
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	return db
}
