// Package sqlite implements the repository interfaces using SQLite as the
// storage backend.
//
// modernc.org/sqlite is a pure Go translation of SQLite — no CGo, no C
// compiler, cross-compiles anywhere Go does. The database is a single file
// (or ":memory:" in tests).
package sqlite

import (
	"database/sql"
	"fmt"

	// Side-effect import: registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and provides repository methods.
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
//
// dbPath examples:
//   - "data/patchwork.db" — file-based, persistent
//   - ":memory:"          — in-memory, lost on close (tests)
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Each pool connection to ":memory:" would get its own private
	// database, so the pool must stay at one connection in that mode.
	if dbPath == ":memory:" {
		conn.SetMaxOpenConns(1)
	}

	// sql.Open is lazy; Ping forces a real connection so a bad path or
	// permission problem surfaces here instead of on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL allows concurrent reads while a write is in flight. The default
	// rollback journal locks the whole database during writes, which stalls
	// a web server under even light concurrency.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool, flushing the WAL.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps it idempotent.
//
// github_id is UNIQUE — each GitHub account maps to exactly one row, and the
// constraint is what makes Upsert's ON CONFLICT clause (and the no-duplicate
// guarantee under concurrent first logins) work at all.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id                TEXT PRIMARY KEY,
			github_id         INTEGER NOT NULL UNIQUE,
			login             TEXT NOT NULL,
			email             TEXT NOT NULL,
			tier              TEXT NOT NULL DEFAULT 'free',
			name              TEXT NOT NULL DEFAULT '',
			avatar_url        TEXT NOT NULL DEFAULT '',
			html_url          TEXT NOT NULL DEFAULT '',
			company           TEXT NOT NULL DEFAULT '',
			location          TEXT NOT NULL DEFAULT '',
			bio               TEXT NOT NULL DEFAULT '',
			followers         INTEGER NOT NULL DEFAULT 0,
			twitter_username  TEXT NOT NULL DEFAULT '',
			github_created_at DATETIME,
			created_at        DATETIME NOT NULL,
			updated_at        DATETIME NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	return nil
}
