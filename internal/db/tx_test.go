package db

import (
	"database/sql"
	"errors"
	"testing"

	_ "modernc.org/sqlite"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	d, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	t.Cleanup(func() { d.Close() })

	if _, err := d.Exec(`CREATE TABLE items (id INTEGER PRIMARY KEY, name TEXT)`); err != nil {
		t.Fatalf("failed to create table: %v", err)
	}
	return d
}

func countItems(t *testing.T, d *sql.DB) int {
	t.Helper()
	var n int
	if err := d.QueryRow(`SELECT COUNT(*) FROM items`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func TestWithTx_CommitsOnSuccess(t *testing.T) {
	d := setupTestDB(t)

	err := WithTx(d, func(tx *sql.Tx) error {
		_, err := tx.Exec(`INSERT INTO items (name) VALUES (?)`, "a")
		return err
	})
	if err != nil {
		t.Fatalf("WithTx() error = %v", err)
	}

	if n := countItems(t, d); n != 1 {
		t.Errorf("count = %d, want 1", n)
	}
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	d := setupTestDB(t)
	boom := errors.New("boom")

	err := WithTx(d, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`INSERT INTO items (name) VALUES (?)`, "a"); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("WithTx() error = %v, want boom", err)
	}

	if n := countItems(t, d); n != 0 {
		t.Errorf("count = %d, want 0 after rollback", n)
	}
}
