package validation

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCheckFileExists(t *testing.T) {
	tempDir := t.TempDir()
	existing := filepath.Join(tempDir, "present.txt")
	if err := os.WriteFile(existing, []byte("data"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"existing file", existing, false},
		{"missing file", filepath.Join(tempDir, "absent.txt"), true},
		{"directory not file", tempDir, true},
		{"empty path", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckFileExists(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("CheckFileExists(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
			if err != nil {
				var pathErr *PathCheckError
				if !errors.As(err, &pathErr) {
					t.Errorf("error should be *PathCheckError, got %T", err)
				}
			}
		})
	}
}

func TestCheckDirExists(t *testing.T) {
	tempDir := t.TempDir()
	file := filepath.Join(tempDir, "file.txt")
	if err := os.WriteFile(file, []byte("data"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"existing directory", tempDir, false},
		{"missing directory", filepath.Join(tempDir, "absent"), true},
		{"file not directory", file, true},
		{"empty path", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckDirExists(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("CheckDirExists(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}

func TestCheckDirWritable(t *testing.T) {
	t.Run("existing directory", func(t *testing.T) {
		dir := t.TempDir()
		if err := CheckDirWritable(dir); err != nil {
			t.Errorf("CheckDirWritable(%q) = %v, want nil", dir, err)
		}
	})

	t.Run("creates missing directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "output")
		if err := CheckDirWritable(dir); err != nil {
			t.Errorf("CheckDirWritable(%q) = %v, want nil", dir, err)
		}
		if err := CheckDirExists(dir); err != nil {
			t.Errorf("directory should exist after check: %v", err)
		}
	})

	t.Run("probe file removed", func(t *testing.T) {
		dir := t.TempDir()
		if err := CheckDirWritable(dir); err != nil {
			t.Fatalf("CheckDirWritable(%q) = %v", dir, err)
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatalf("read dir: %v", err)
		}
		for _, entry := range entries {
			if strings.HasPrefix(entry.Name(), "temp_") {
				t.Errorf("probe file %s left behind", entry.Name())
			}
		}
	})

	t.Run("empty path", func(t *testing.T) {
		if err := CheckDirWritable(""); err == nil {
			t.Error("CheckDirWritable(\"\") should fail")
		}
	})
}
