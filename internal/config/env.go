package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultEnvFile is loaded on startup when present.
func DefaultEnvFile() string {
	return filepath.Join(Dir(), ".env")
}

// LoadEnvFile loads KEY=VALUE pairs from path without overriding variables
// already set in the environment. A missing default file is not an error.
func LoadEnvFile(path string) error {
	explicit := path != ""
	if !explicit {
		path = DefaultEnvFile()
	}
	if _, err := os.Stat(path); err != nil {
		if !explicit && os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("env file: %w", err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

func envProfile() string {
	return strings.TrimSpace(os.Getenv(EnvProfile))
}
