package app

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	appDirName   = "macros"
	dbFileName   = "macros.db"
	registryFile = "registry.yaml"
)

func configDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(base, appDirName), nil
}

func DefaultDBPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, dbFileName), nil
}

// DefaultRegistryPath returns the registry extension path if that file exists,
// or "" so the built-in catalog is used.
func DefaultRegistryPath() string {
	dir, err := configDir()
	if err != nil {
		return ""
	}
	path := filepath.Join(dir, registryFile)
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

func EnsureDBDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create db directory: %w", err)
	}
	return nil
}
