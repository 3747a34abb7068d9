package db

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const defaultDBPath = "~/.local/share/gdpdash/dataset.db"

// DefaultPath returns the dataset database location. XDG_DATA_HOME is used
// when set, otherwise ~/.local/share.
func DefaultPath() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".local/share")
	}
	return filepath.Join(dataDir, "gdpdash/dataset.db"), nil
}

// expandHome replaces a leading ~ with the user's home directory.
// "~/x" and "~x" both land in the home directory.
func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}

// resolvePath expands ~ or substitutes the default location for an empty path
func resolvePath(dbPath string) (string, error) {
	if dbPath == "" || dbPath == defaultDBPath {
		return DefaultPath()
	}
	return expandHome(dbPath)
}

// NormalizeDatabasePath turns a user-supplied path into an absolute one,
// expanding ~ and adding a .db extension when the name has none
func NormalizeDatabasePath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("database path cannot be empty")
	}

	path, err := expandHome(path)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path: %w", err)
	}
	if filepath.Ext(abs) == "" {
		abs += ".db"
	}
	return abs, nil
}

// ValidateDatabasePath checks that a database can be written at path:
// the path is not a directory and the file, or its parent directory when
// the file does not exist yet, is writable. A missing parent is created.
func ValidateDatabasePath(path string) error {
	info, err := os.Stat(path)
	switch {
	case err == nil && info.IsDir():
		return fmt.Errorf("path is a directory, not a file: %s", path)
	case err == nil:
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0)
		if err != nil {
			return fmt.Errorf("cannot write to existing database: %w", err)
		}
		return f.Close()
	case !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("failed to stat path: %w", err)
	}

	parent := filepath.Dir(path)
	if err := os.MkdirAll(parent, 0755); err != nil {
		return fmt.Errorf("cannot create parent directory: %w", err)
	}

	probe, err := os.CreateTemp(parent, ".gdpdash-probe-*")
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return fmt.Errorf("permission denied: cannot write to %s", parent)
		}
		return fmt.Errorf("cannot write to parent directory: %w", err)
	}
	probe.Close()
	return os.Remove(probe.Name())
}
