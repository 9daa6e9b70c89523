// Package db persists the run ledger in a local SQLite database.
//
// migrate.go applies the embedded schema migrations with golang-migrate.
package db

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// Schema migrations ship inside the binary so the ledger can be created
// anywhere the tool runs, with no migrations directory to deploy.
//
//go:embed migrations/*.sql
var migrationFiles embed.FS

// applyMigrations brings the schema at path up to date. Re-applying on
// an already-current database is a no-op.
//
// golang-migrate takes ownership of the connection it is given and
// closes it with the migrator, so migrations run on a dedicated
// connection rather than the ledger's long-lived one.
func applyMigrations(path string) error {
	conn, err := openSQLite(path)
	if err != nil {
		return err
	}

	m, err := newMigrator(conn)
	if err != nil {
		conn.Close()
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("db: apply migrations: %w", err)
	}

	return nil
}

// SchemaVersion reports the migration version of the ledger at path and
// whether a migration previously failed partway through (dirty). A
// database with no migrations applied reports version 0.
func SchemaVersion(path string) (uint, bool, error) {
	conn, err := openSQLite(path)
	if err != nil {
		return 0, false, err
	}

	m, err := newMigrator(conn)
	if err != nil {
		conn.Close()
		return 0, false, err
	}
	defer m.Close()

	version, dirty, err := m.Version()
	if err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("db: read migration version: %w", err)
	}

	return version, dirty, nil
}

// newMigrator wires the embedded migration source to the sqlite driver.
func newMigrator(conn *sql.DB) (*migrate.Migrate, error) {
	source, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return nil, fmt.Errorf("db: load embedded migrations: %w", err)
	}

	driver, err := sqlite.WithInstance(conn, &sqlite.Config{})
	if err != nil {
		return nil, fmt.Errorf("db: create sqlite migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		return nil, fmt.Errorf("db: create migrator: %w", err)
	}

	return m, nil
}
