// Package sqlite provides a SQLite-backed modsdump.Manifest.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// memoryPath opens a private in-memory database.
const memoryPath = ":memory:"

// DB is a single-connection SQLite handle holding the run manifest.
type DB struct {
	db   *sql.DB
	path string
}

// NewDB returns a DB for the database file at path. Use ":memory:" for an
// in-memory database.
func NewDB(path string) *DB {
	return &DB{path: path}
}

// Open connects to the database and migrates the schema.
func (db *DB) Open() error {
	conn, err := sql.Open("sqlite3", db.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	// One writer at a time; concurrent download workers queue on this.
	conn.SetMaxOpenConns(1)

	if err := db.configure(conn); err != nil {
		conn.Close()
		return err
	}
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return fmt.Errorf("failed to create schema: %w", err)
	}

	db.db = conn
	return nil
}

func (db *DB) configure(conn *sql.DB) error {
	if err := conn.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	pragmas := []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	// WAL is unavailable for in-memory databases.
	if db.path != memoryPath {
		pragmas = append(pragmas, "PRAGMA journal_mode = WAL")
	}
	for _, p := range pragmas {
		if _, err := conn.Exec(p); err != nil {
			return fmt.Errorf("failed to apply %q: %w", p, err)
		}
	}
	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.db == nil {
		return nil
	}
	return db.db.Close()
}

// QueryRowContext executes a query that returns a single row.
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.db.QueryRowContext(ctx, query, args...)
}

// QueryContext executes a query that returns rows.
func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.db.QueryContext(ctx, query, args...)
}

// ExecContext executes a statement that doesn't return rows.
func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.db.ExecContext(ctx, query, args...)
}

// Timestamps are RFC 3339 text; an unfinished run has an empty finished_at.
const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	origin TEXT NOT NULL,
	output_dir TEXT NOT NULL,
	started_at TEXT NOT NULL,
	finished_at TEXT NOT NULL DEFAULT '',
	discovered INTEGER NOT NULL DEFAULT 0,
	downloaded INTEGER NOT NULL DEFAULT 0,
	duplicates INTEGER NOT NULL DEFAULT 0,
	failed INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS files (
	id TEXT PRIMARY KEY,
	run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	item_url TEXT NOT NULL,
	download_url TEXT NOT NULL,
	name TEXT NOT NULL,
	size INTEGER NOT NULL DEFAULT 0,
	checksum TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_files_run_id ON files(run_id);
CREATE INDEX IF NOT EXISTS idx_files_name ON files(name);
`
