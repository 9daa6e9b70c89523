package validation

import (
	"fmt"
	"os"
	"path/filepath"
)

// writeProbeName is the scratch file used to test directory writability.
// The temp_ prefix keeps a stranded probe inside the shutdown cleanup sweep.
const writeProbeName = "temp_preflight_probe"

// PathCheckError indicates a filesystem precondition that does not hold.
type PathCheckError struct {
	Path    string
	Message string
}

func (e *PathCheckError) Error() string {
	return e.Message
}

// CheckFileExists checks that path names an existing regular file.
// This is a pure existence check, no side effects.
//
// Returns nil if the file exists, or a *PathCheckError describing the failure.
func CheckFileExists(path string) error {
	if path == "" {
		return &PathCheckError{
			Path:    path,
			Message: "file path cannot be empty",
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &PathCheckError{
				Path:    path,
				Message: fmt.Sprintf("file not found: %s", path),
			}
		}
		return &PathCheckError{
			Path:    path,
			Message: fmt.Sprintf("error checking file %s: %v", path, err),
		}
	}

	if info.IsDir() {
		return &PathCheckError{
			Path:    path,
			Message: fmt.Sprintf("path is a directory, not a file: %s", path),
		}
	}

	return nil
}

// CheckDirExists checks that path names an existing directory.
func CheckDirExists(path string) error {
	if path == "" {
		return &PathCheckError{
			Path:    path,
			Message: "directory path cannot be empty",
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &PathCheckError{
				Path:    path,
				Message: fmt.Sprintf("directory not found: %s", path),
			}
		}
		return &PathCheckError{
			Path:    path,
			Message: fmt.Sprintf("error checking directory %s: %v", path, err),
		}
	}

	if !info.IsDir() {
		return &PathCheckError{
			Path:    path,
			Message: fmt.Sprintf("path is a file, not a directory: %s", path),
		}
	}

	return nil
}

// CheckDirWritable verifies that files can be created under dir by writing
// and removing a small probe file. The directory is created if it does not
// exist yet.
func CheckDirWritable(dir string) error {
	if dir == "" {
		return &PathCheckError{
			Path:    dir,
			Message: "directory path cannot be empty",
		}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &PathCheckError{
			Path:    dir,
			Message: fmt.Sprintf("cannot create directory %s: %v", dir, err),
		}
	}

	probe := filepath.Join(dir, writeProbeName)
	if err := os.WriteFile(probe, []byte("probe"), 0o644); err != nil {
		return &PathCheckError{
			Path:    dir,
			Message: fmt.Sprintf("cannot write to directory %s: %v", dir, err),
		}
	}
	if err := os.Remove(probe); err != nil {
		return &PathCheckError{
			Path:    dir,
			Message: fmt.Sprintf("cannot remove probe file in %s: %v", dir, err),
		}
	}

	return nil
}
