// Package testutil provides shared helpers for package tests.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/aibek-k/erp-admin/internal/database"
)

// NewTestDB opens a throwaway SQLite database with all migrations
// applied. The file lives in the test's temp dir and the connection is
// closed when the test completes.
func NewTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("closing test database: %v", err)
		}
	})

	return db
}
