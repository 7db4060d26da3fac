// Package storage caches parsed dataset records in SQLite. The CSV stays the
// source of truth; the cache is rebuilt whenever its fingerprint changes.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection.
type DB struct {
	db *sql.DB
}

// selectRecordFields contains the standard field list for SELECT queries.
const selectRecordFields = `year, state, location, dependency, stage,
	approval_rate, failure_rate, dropout_rate,
	approval_count, failure_count, dropout_count`

// Metadata keys.
const (
	metaFingerprint = "source_fingerprint"
	metaRebuiltAt   = "rebuilt_at"
)

// OpenDB opens or creates a SQLite database at the given path.
func OpenDB(path string) (*DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("creating cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// createSchema creates the database schema if it doesn't exist.
func createSchema(db *sql.DB) error {
	schema := `
		-- One row per CSV record; seq keeps file order
		CREATE TABLE IF NOT EXISTS records (
			seq INTEGER PRIMARY KEY,
			year INTEGER NOT NULL,
			state TEXT NOT NULL,
			location TEXT NOT NULL,
			dependency TEXT NOT NULL,
			stage TEXT NOT NULL DEFAULT '',
			approval_rate REAL NOT NULL DEFAULT 0,
			failure_rate REAL NOT NULL DEFAULT 0,
			dropout_rate REAL NOT NULL DEFAULT 0,
			approval_count INTEGER NOT NULL DEFAULT 0,
			failure_count INTEGER NOT NULL DEFAULT 0,
			dropout_count INTEGER NOT NULL DEFAULT 0
		);

		CREATE INDEX IF NOT EXISTS idx_records_year_state ON records(year, state);

		CREATE TABLE IF NOT EXISTS metadata (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`

	_, err := db.Exec(schema)
	return err
}

// getMeta returns the value for key, or "" if it is unset.
func (d *DB) getMeta(key string) (string, error) {
	var value string
	err := d.db.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", fmt.Errorf("reading metadata %s: %w", key, err)
	}
	return value, nil
}
