package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/aibek-k/erp-admin/internal/config"
)

// ConnectDB opens (or creates) the embedded SQLite database at the
// configured path, enables WAL mode and foreign keys, and applies any
// pending schema migrations.
func ConnectDB(cfg *config.Config) (*sqlx.DB, error) {
	return Open(cfg.DBPath)
}

// Open opens the database at dbPath and prepares it for use.
func Open(dbPath string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}

	// WAL gives better concurrent read behavior for the dashboard's
	// polling reads.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %v", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %v", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	logrus.WithField("path", dbPath).Info("Database ready")
	return db, nil
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func runMigrations(db *sqlx.DB) error {
	currentVersion := 0

	var tableCount int
	err := db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("failed to check schema_version table: %v", err)
	}

	if tableCount > 0 {
		err = db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("failed to read schema version: %v", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := db.Exec(m.sql); err != nil {
			return fmt.Errorf("failed to apply migration v%d: %v", m.version, err)
		}
		logrus.Infof("Applied schema migration v%d", m.version)
	}

	return nil
}
