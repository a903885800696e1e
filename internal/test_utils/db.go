package test_utils

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/thewell/wellcal/internal/database"
)

// SetupTestDB returns a migrated SQLite database private to the test.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	return openMigratedSQLite(t, ":memory:")
}

// SetupTestDBFile is SetupTestDB backed by a file in the test's temp dir, for tests
// that reopen the database.
func SetupTestDBFile(t *testing.T) (*sql.DB, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wellcal-test.db")
	return openMigratedSQLite(t, path), path
}

func openMigratedSQLite(t *testing.T, path string) *sql.DB {
	t.Helper()

	db, err := database.OpenSQLite(path)
	if err != nil {
		t.Fatalf("Failed to open sqlite database: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
	})

	if err := database.MigrateSQLite(db); err != nil {
		t.Fatalf("Failed to apply migrations: %v", err)
	}
	return db
}
