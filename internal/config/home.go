package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// HomeEnv names the environment variable overriding the pathfind home directory.
const HomeEnv = "PATHFIND_HOME"

// ConfigFileName is the configuration file inside the home directory.
const ConfigFileName = "config.yaml"

// GetPathfindHome returns the pathfind home directory.
// Priority order:
//  1. PATHFIND_HOME environment variable (if set)
//  2. .pathfind in the current working directory
//
// The directory is not created.
func GetPathfindHome() (string, error) {
	if home := os.Getenv(HomeEnv); home != "" {
		return filepath.Abs(home)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	return filepath.Join(cwd, ".pathfind"), nil
}

// ConfigPath returns the configuration file to load: explicit if set,
// otherwise <home>/config.yaml.
func ConfigPath(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	home, err := GetPathfindHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ConfigFileName), nil
}
