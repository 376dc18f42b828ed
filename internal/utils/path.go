package utils

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// ResolvePath expands `~` and returns a cleaned absolute path.
func ResolvePath(path string) (string, error) {
	if path == "" {
		return "", errors.New("path cannot be empty")
	}

	if strings.HasPrefix(path, "~") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", errors.New("failed to retrieve home directory")
		}
		path = strings.Replace(path, "~", homeDir, 1)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	return filepath.Clean(absPath), nil
}

// EnsureParent creates the parent directory of path if it doesn't exist.
func EnsureParent(path string) error {
	return EnsureDir(filepath.Dir(path))
}

// EnsureDir creates the directory if it doesn't exist.
func EnsureDir(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	return os.MkdirAll(path, 0o755)
}
