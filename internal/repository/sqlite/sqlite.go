// Package sqlite implements the repository interfaces using SQLite as the
// storage backend.
//
// WHY SQLITE?
// SQLite is an embedded database — it lives inside the Go binary as a single
// file. No separate database server to install, configure, or manage. The
// original deployment used a document store, but the records here are three
// flat collections with at most a uniqueness pre-check each, which a
// single-file database covers with far less operational surface.
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo (calls C code from Go), which means a C compiler
// is required and cross-compilation becomes painful. modernc.org/sqlite is a
// pure Go translation of SQLite — works everywhere Go works.
//
// The pattern is always:
//  1. sql.Open(driverName, dataSourceName) → creates a pool
//  2. db.QueryContext / db.ExecContext     → runs queries
//  3. rows.Scan(&field1, &field2)          → reads results into Go variables
package sqlite

import (
	"database/sql"
	"fmt"

	// BLANK IMPORT:
	// Side-effect only — the driver's init() registers itself with
	// database/sql under the name "sqlite". After this import,
	// sql.Open("sqlite", ...) knows how to talk to SQLite.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool.
//
// The three repositories (users, locations, facts) share the pool but are
// exposed as separate sub-repository types via Users(), Locations(), and
// Facts() — the method sets (Create, List, ...) would collide on a single
// receiver, and the split keeps each table's SQL in its own file. The server
// owns the DB and closes it during graceful shutdown.
type DB struct {
	conn *sql.DB
}

// Users returns the UserRepository backed by this database.
func (db *DB) Users() *UserDB { return &UserDB{conn: db.conn} }

// Locations returns the LocationRepository backed by this database.
func (db *DB) Locations() *LocationDB { return &LocationDB{conn: db.conn} }

// Facts returns the FactRepository backed by this database.
func (db *DB) Facts() *FactDB { return &FactDB{conn: db.conn} }

// New creates a new SQLite database connection and runs migrations.
//
// dbPath examples:
//   - "data/weather.db" → file-based database (persistent)
//   - ":memory:"        → in-memory database (used by the tests, lost on close)
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Ping verifies the connection actually works. Without this, a bad path
	// or permissions issue would only surface on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL mode allows concurrent reads while a write is happening — the home
	// page reads both catalogs on every request.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the three tables. CREATE TABLE IF NOT EXISTS keeps this
// idempotent — safe to run on every startup.
//
// The UNIQUE constraints on users.username and (locations.city,
// locations.country) are a storage backstop only: the service layer still
// runs its check-then-act pre-checks first, and those pre-checks are what
// produce the user-facing duplicate messages. A concurrent request racing
// past a pre-check hits the constraint and surfaces as a generic failure.
// The fact cap has no such backstop — that race is reproduced as-is.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			username      TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS locations (
			id         TEXT PRIMARY KEY,
			city       TEXT NOT NULL,
			country    TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(city, country)
		);
	`)
	if err != nil {
		return fmt.Errorf("creating locations table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS facts (
			id         TEXT PRIMARY KEY,
			text       TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_facts_created_at ON facts(created_at);
	`)
	if err != nil {
		return fmt.Errorf("creating facts table: %w", err)
	}

	return nil
}
