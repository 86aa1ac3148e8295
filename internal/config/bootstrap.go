package config

import (
	"errors"
	"os"
	"path/filepath"
)

// DataDir resolves the client data directory: env override first, then the
// platform user-config dir, then the current directory.
func DataDir() string {
	if d := os.Getenv("JOBTRACK_DATA_DIR"); d != "" {
		return d
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(base, "jobtrack")
}

// EnsureUserConfig makes sure dataDir holds a config.yml, writing the
// defaults on first run. Returns the config path.
func EnsureUserConfig(dataDir string) (string, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return "", err
	}
	userPath := filepath.Join(dataDir, "config.yml")

	_, err := os.Stat(userPath)
	if err == nil {
		return userPath, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}

	if err := SaveAtomic(userPath, Default()); err != nil {
		return "", err
	}
	return userPath, nil
}
