// Package db persists the run ledger in a local SQLite database.
//
// connection.go opens the database file with the pragmas the ledger
// relies on: WAL journaling, a busy timeout, and enforced foreign keys.
package db

import (
	"database/sql"
	"fmt"

	// SQLite driver (pure Go, no CGO required)
	_ "modernc.org/sqlite"
)

// busyTimeoutMS is how long SQLite waits on a locked database before
// giving up. Five seconds covers the migration connection overlapping
// the ledger connection at startup.
const busyTimeoutMS = 5000

// openSQLite opens the database file at path and applies the ledger
// pragmas.
//
// This molecule composes:
// - sql.Open with the modernc.org/sqlite driver
// - Pragma configuration via SQL statements (atoms)
// - Connection pool pinning (atom)
//
// The pool is pinned to a single connection: the run appends rows
// sequentially, and pragmas apply per connection, so one connection
// keeps them in force for every statement.
func openSQLite(path string) (*sql.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("db: database path is required")
	}

	// modernc.org/sqlite takes a plain file path as its DSN
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("db: open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("db: ping database: %w", err)
	}

	pragmas := []struct {
		name  string
		query string
	}{
		{"journal_mode", "PRAGMA journal_mode=WAL"},
		{"busy_timeout", fmt.Sprintf("PRAGMA busy_timeout=%d", busyTimeoutMS)},
		{"foreign_keys", "PRAGMA foreign_keys=ON"},
	}

	for _, p := range pragmas {
		if _, err := conn.Exec(p.query); err != nil {
			conn.Close()
			return nil, fmt.Errorf("db: set %s pragma: %w", p.name, err)
		}
	}

	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	// Some filesystems silently refuse WAL and fall back to another
	// journal mode.
	var journalMode string
	if err := conn.QueryRow("PRAGMA journal_mode").Scan(&journalMode); err != nil {
		conn.Close()
		return nil, fmt.Errorf("db: verify journal mode: %w", err)
	}
	if journalMode != "wal" {
		conn.Close()
		return nil, fmt.Errorf("db: WAL mode not enabled, got %q", journalMode)
	}

	return conn, nil
}
