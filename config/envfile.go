package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/joho/godotenv"
)

// DefaultNodeEnv is used when NODE_ENV is not set.
const DefaultNodeEnv = "production"

var knownEnvironments = []string{"production", "staging", "test"}

// EnvFileName returns the env file the backend would load for nodeEnv:
// ".env.<env>" for known environments, ".env" otherwise.
func EnvFileName(nodeEnv string) string {
	if nodeEnv == "" {
		nodeEnv = DefaultNodeEnv
	}
	if slices.Contains(knownEnvironments, nodeEnv) {
		return ".env." + nodeEnv
	}
	return ".env"
}

// LoadEnvFile loads the env file for nodeEnv from dir into the process
// environment. Variables that are already set are left untouched. A missing
// file is not an error; the returned path is empty in that case.
func LoadEnvFile(nodeEnv, dir string) (string, error) {
	path := filepath.Join(dir, EnvFileName(nodeEnv))
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("could not stat env file %s: %w", path, err)
	}

	if err := godotenv.Load(path); err != nil {
		return "", fmt.Errorf("could not load env file %s: %w", path, err)
	}
	return path, nil
}
