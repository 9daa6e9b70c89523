package db

import (
	"path/filepath"
	"testing"
)

func TestOpenSQLiteEnablesWAL(t *testing.T) {
	conn, err := openSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("openSQLite() error = %v", err)
	}
	defer conn.Close()

	var journalMode string
	if err := conn.QueryRow("PRAGMA journal_mode").Scan(&journalMode); err != nil {
		t.Fatalf("journal_mode query error = %v", err)
	}
	if journalMode != "wal" {
		t.Errorf("journal_mode = %q, want %q", journalMode, "wal")
	}
}

func TestOpenSQLiteEnforcesForeignKeys(t *testing.T) {
	conn, err := openSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("openSQLite() error = %v", err)
	}
	defer conn.Close()

	var enabled int
	if err := conn.QueryRow("PRAGMA foreign_keys").Scan(&enabled); err != nil {
		t.Fatalf("foreign_keys query error = %v", err)
	}
	if enabled != 1 {
		t.Errorf("foreign_keys = %d, want 1", enabled)
	}
}

func TestOpenSQLiteRequiresPath(t *testing.T) {
	if _, err := openSQLite(""); err == nil {
		t.Error("openSQLite(\"\") should return error")
	}
}
