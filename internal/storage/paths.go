// Package storage persists games, player preferences and statistics.
package storage

import (
	"log"
	"os"
	"path/filepath"
	"runtime"
)

const appName = "glowfish"

// GetDataDir returns the platform-specific data directory for the application.
// - macOS: ~/Library/Application Support/glowfish/
// - Linux: $XDG_DATA_HOME/glowfish/ or ~/.local/share/glowfish/
// - Windows: %APPDATA%/glowfish/
func GetDataDir() (string, error) {
	var baseDir string

	switch runtime.GOOS {
	case "darwin":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		baseDir = filepath.Join(homeDir, "Library", "Application Support")

	case "windows":
		baseDir = os.Getenv("APPDATA")
		if baseDir == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			baseDir = filepath.Join(homeDir, "AppData", "Roaming")
		}

	default:
		baseDir = os.Getenv("XDG_DATA_HOME")
		if baseDir == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			baseDir = filepath.Join(homeDir, ".local", "share")
		}
	}

	dataDir := filepath.Join(baseDir, appName)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}
	return dataDir, nil
}

// GetDatabaseDir returns the badger directory under base, or under
// GetDataDir when base is empty. The directory is created if needed.
func GetDatabaseDir(base string) (string, error) {
	if base == "" {
		var err error
		if base, err = GetDataDir(); err != nil {
			return "", err
		}
	}

	dbDir := filepath.Join(base, "db")
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return "", err
	}

	log.Printf("[storage] database directory: %s", dbDir)
	return dbDir, nil
}
