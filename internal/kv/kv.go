// Package kv provides a small string-keyed blob store backed by SQLite.
//
// The playlist store keeps its durable snapshot under a single constant
// key; the schema is deliberately a bare key/value table so the snapshot
// format can evolve without migrations.
package kv

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver

	dbutil "github.com/mlefeuvre/tonearm/internal/db"
)

// Store is the durable storage contract.
type Store interface {
	// Get returns the value for key, or nil if the key is absent.
	Get(key string) ([]byte, error)
	// Set writes value under key, replacing any previous value.
	Set(key string, value []byte) error
	Close() error
}

// SQLite implements Store on a SQLite database file.
type SQLite struct {
	db *sql.DB
}

// Verify SQLite implements Store at compile time.
var _ Store = (*SQLite)(nil)

// Open opens (creating if needed) the database at path.
func Open(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

// OpenMemory opens an in-memory database, for tests.
func OpenMemory() (*SQLite, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, err
	}
	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLite{db: db}, nil
}

func initSchema(db *sql.DB) error {
	return dbutil.WithTx(db, func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			CREATE TABLE IF NOT EXISTS kv (
				key TEXT PRIMARY KEY,
				value BLOB NOT NULL
			);

			CREATE TABLE IF NOT EXISTS schema_version (
				version INTEGER PRIMARY KEY
			);
		`)
		if err != nil {
			return err
		}
		_, err = tx.Exec(`INSERT OR IGNORE INTO schema_version (version) VALUES (1)`)
		return err
	})
}

func (s *SQLite) Get(key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (s *SQLite) Set(key string, value []byte) error {
	_, err := s.db.Exec(`
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
