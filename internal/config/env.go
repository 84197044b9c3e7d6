// Package config provides centralized configuration: process
// environment, the optional TOML config file, and standard paths.
package config

import (
	"os"
	"path/filepath"
	"sync"
)

// Env holds the environment variables the tool reads.
type Env struct {
	// Token is an externally supplied access token (GITHUB_USER_ACCESS_TOKEN)
	Token string

	// ClientID is the OAuth app client id for the device flow (GHDIGEST_CLIENT_ID)
	ClientID string

	// Username is the default digest user (GHDIGEST_USERNAME)
	Username string

	// APIBase overrides the GitHub API base URL (GHDIGEST_API_BASE)
	APIBase string

	// NoColor disables colored output (NO_COLOR)
	NoColor bool
}

var (
	env     *Env
	envOnce sync.Once
)

// LoadEnv returns the singleton environment configuration.
// Thread-safe, loads once on first call.
func LoadEnv() *Env {
	envOnce.Do(func() {
		env = &Env{
			Token:    os.Getenv("GITHUB_USER_ACCESS_TOKEN"),
			ClientID: os.Getenv("GHDIGEST_CLIENT_ID"),
			Username: os.Getenv("GHDIGEST_USERNAME"),
			APIBase:  os.Getenv("GHDIGEST_API_BASE"),
			NoColor:  os.Getenv("NO_COLOR") != "",
		}
	})
	return env
}

// ResetEnv resets the cached environment (for testing).
func ResetEnv() {
	envOnce = sync.Once{}
	env = nil
}

// DataDir returns the local state directory (~/.ghdigest), used for
// the repository-metadata cache and run history.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".ghdigest")
}

// EnsureDir creates a directory if it doesn't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}
