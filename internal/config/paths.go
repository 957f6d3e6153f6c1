// Package config manages disko tool settings and the paths they live at.
//
// Settings are optional. The file is looked up at $DISKO_CONFIG, then
// $XDG_CONFIG_HOME/disko/config.toml, then ~/.config/disko/config.toml.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths contains the filesystem paths used by disko.
type Paths struct {
	// Root is the directory holding disko's own files (default: ~/.config/disko)
	Root string

	// Config is the path to the settings file
	Config string
}

// DefaultPaths returns the default paths for disko.
// Paths can be overridden with environment variables:
// - DISKO_CONFIG: Override the settings file (highest priority)
// - XDG_CONFIG_HOME: Override the base config directory
func DefaultPaths() (*Paths, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		base = filepath.Join(home, ".config")
	}

	root := filepath.Join(base, "disko")
	cfg := filepath.Join(root, "config.toml")
	if override := os.Getenv("DISKO_CONFIG"); override != "" {
		cfg = override
		root = filepath.Dir(override)
	}

	return &Paths{
		Root:   root,
		Config: cfg,
	}, nil
}
