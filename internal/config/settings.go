package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// DefaultIssueTracker is where bug reports are filed.
const DefaultIssueTracker = "https://github.com/nix-community/disko"

// ErrInvalidSettings is returned when the settings file cannot be used.
var ErrInvalidSettings = errors.New("invalid settings")

// ColorMode controls terminal colors.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// Settings are the user-tunable knobs of the tool.
type Settings struct {
	// IssueTracker is the repository URL bug reports link to
	IssueTracker string

	// NixCommand is the nix binary used for evaluation
	NixCommand string

	// LsblkCommand is the lsblk binary used for inventory
	LsblkCommand string

	// Color selects whether output is colored
	Color ColorMode

	// Theme maps semantic message categories to color names
	Theme map[string]string
}

type fileSettings struct {
	IssueTracker string            `toml:"issue_tracker"`
	NixCommand   string            `toml:"nix_command"`
	LsblkCommand string            `toml:"lsblk_command"`
	Color        string            `toml:"color"`
	Theme        map[string]string `toml:"theme"`
}

// DefaultSettings returns the settings used when no file exists.
func DefaultSettings() Settings {
	return Settings{
		IssueTracker: DefaultIssueTracker,
		NixCommand:   "nix",
		LsblkCommand: "lsblk",
		Color:        ColorAuto,
		Theme:        map[string]string{},
	}
}

// LoadSettings reads settings from path. A missing file yields defaults.
func LoadSettings(path string) (Settings, error) {
	cfg := DefaultSettings()

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}

	var raw fileSettings
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Settings{}, fmt.Errorf("%w: load %s: %w", ErrInvalidSettings, path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Settings{}, fmt.Errorf("%w: unknown key %q in %s", ErrInvalidSettings, undecoded[0].String(), path)
	}

	if meta.IsDefined("issue_tracker") {
		if tracker := strings.TrimRight(strings.TrimSpace(raw.IssueTracker), "/"); tracker != "" {
			cfg.IssueTracker = tracker
		}
	}

	if meta.IsDefined("nix_command") {
		if cmd := strings.TrimSpace(raw.NixCommand); cmd != "" {
			cfg.NixCommand = cmd
		}
	}

	if meta.IsDefined("lsblk_command") {
		if cmd := strings.TrimSpace(raw.LsblkCommand); cmd != "" {
			cfg.LsblkCommand = cmd
		}
	}

	if meta.IsDefined("color") {
		mode, err := ParseColorMode(raw.Color)
		if err != nil {
			return Settings{}, err
		}
		cfg.Color = mode
	}

	for category, color := range raw.Theme {
		cfg.Theme[category] = strings.ToLower(strings.TrimSpace(color))
	}

	return cfg, nil
}

// ParseColorMode parses auto, always or never.
func ParseColorMode(s string) (ColorMode, error) {
	switch mode := ColorMode(strings.ToLower(strings.TrimSpace(s))); mode {
	case ColorAuto, ColorAlways, ColorNever:
		return mode, nil
	default:
		return "", fmt.Errorf("%w: color must be one of auto, always, never; got %q", ErrInvalidSettings, s)
	}
}

// Load resolves the default paths and reads the settings file.
func Load() (Settings, *Paths, error) {
	paths, err := DefaultPaths()
	if err != nil {
		return Settings{}, nil, err
	}
	settings, err := LoadSettings(paths.Config)
	if err != nil {
		return Settings{}, paths, err
	}
	return settings, paths, nil
}
