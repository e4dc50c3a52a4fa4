package database

import (
	"context"
	"database/sql"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver
)

// OpenSQLite creates a new SQLite connection pool. SQLite allows a single
// writer, and an in-memory database exists per connection, so the pool is
// capped at one connection.
func OpenSQLite(path string) (*sql.DB, error) {
	dsn := path
	if !strings.Contains(dsn, "?") {
		dsn += "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// MigrateSQLite runs the SQL statements to set up the database schema.
func MigrateSQLite(ctx context.Context, db *sql.DB) error {
	const sqlStmt = `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT NOT NULL PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS events (
		id TEXT NOT NULL PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		price REAL NOT NULL,
		date TEXT NOT NULL, -- RFC 3339, UTC
		creator TEXT NOT NULL REFERENCES users(id),
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- createdEvents back-references, ordered by seq
	CREATE TABLE IF NOT EXISTS user_created_events (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id TEXT NOT NULL REFERENCES users(id),
		event_id TEXT NOT NULL REFERENCES events(id),
		UNIQUE (user_id, event_id)
	);
	`
	_, err := db.ExecContext(ctx, sqlStmt)
	return err
}
