package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// File holds defaults read from the optional config file. Flags and
// environment variables take precedence over everything here.
type File struct {
	Username    string   `toml:"username"`
	ClientID    string   `toml:"client_id"`
	IncludeOrgs []string `toml:"include_orgs"`
	ExcludeOrgs []string `toml:"exclude_orgs"`
	NEvents     int      `toml:"n_events"`
	EventCutoff string   `toml:"event_cutoff"` // Go duration string, e.g. "168h"

	Cache CacheConfig `toml:"cache"`
}

type CacheConfig struct {
	Disabled bool   `toml:"disabled"`
	TTL      string `toml:"ttl"` // Go duration string, default 24h
}

// LoadFile reads the config file from the standard locations, falling
// back to an empty config when none exists.
func LoadFile() (File, error) {
	var cfg File
	for _, p := range configPaths() {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if _, err := toml.DecodeFile(p, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", p, err)
		}
		break
	}
	return cfg, nil
}

func configPaths() []string {
	var paths []string

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "ghdigest", "config.toml"))
	}

	home, _ := os.UserHomeDir()
	if home != "" {
		paths = append(paths, filepath.Join(home, ".config", "ghdigest", "config.toml"))
	}

	return paths
}
