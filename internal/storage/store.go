// Package storage is the embedded sqlite store backing kron. All schedule
// state lives in one database file; multi-statement mutations run inside a
// single transaction via WithTx.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS profiles (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	name     TEXT NOT NULL,
	timezone TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS sounds (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	name      TEXT NOT NULL,
	file_name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS schedules (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	profile_id INTEGER NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
	sound_id   INTEGER REFERENCES sounds(id) ON DELETE SET NULL,
	name       TEXT NOT NULL,
	time       INTEGER NOT NULL CHECK (time BETWEEN 0 AND 1439),
	start_date TEXT NOT NULL,
	end_date   TEXT,
	repeat     TEXT NOT NULL DEFAULT 'once' CHECK (repeat IN ('once', 'daily', 'weekly')),
	is_active  INTEGER NOT NULL DEFAULT 1,
	created_at TEXT NOT NULL,
	updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_schedules_profile ON schedules(profile_id);

CREATE TABLE IF NOT EXISTS schedule_days (
	schedule_id INTEGER NOT NULL REFERENCES schedules(id) ON DELETE CASCADE,
	day_of_week INTEGER NOT NULL CHECK (day_of_week BETWEEN 1 AND 7),
	PRIMARY KEY (schedule_id, day_of_week)
);

CREATE TABLE IF NOT EXISTS schedule_overrides (
	schedule_id   INTEGER NOT NULL REFERENCES schedules(id) ON DELETE CASCADE,
	original_date TEXT NOT NULL,
	new_name      TEXT,
	new_sound_id  INTEGER REFERENCES sounds(id) ON DELETE SET NULL,
	new_date      TEXT,
	new_time      INTEGER,
	is_cancelled  INTEGER NOT NULL DEFAULT 0,
	created_at    TEXT NOT NULL,
	updated_at    TEXT,
	PRIMARY KEY (schedule_id, original_date)
);
CREATE INDEX IF NOT EXISTS idx_overrides_new_date ON schedule_overrides(new_date);
`

type Store struct {
	path string
	db   *sql.DB
}

// Open opens (or creates) the database at path and ensures the schema
// exists. Use ":memory:" for an ephemeral store in tests.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// One connection: sqlite has a single writer anyway, and a lone
	// connection keeps the foreign_keys pragma in force for every statement.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{path: path, db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Ping verifies the database answers queries. Used by doctor.
func (s *Store) Ping() error {
	var one int
	if err := s.db.QueryRow("SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("query database: %w", err)
	}
	return nil
}

// dbtx is the subset of database/sql shared by *sql.DB and *sql.Tx, so row
// operations can run standalone or inside a transaction.
type dbtx interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// Tx exposes row operations scoped to one transaction.
type Tx struct {
	tx *sql.Tx
}

// WithTx runs fn inside a transaction. Any error from fn rolls the whole
// transaction back; partial application is never observable.
func (s *Store) WithTx(fn func(*Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&Tx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
