// Package config handles loading and saving beadpanel configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/bdp/config.yaml
//   - State:   ~/.local/state/bdp/
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/beadpanel/pkg/sorting"
)

// BDConfig controls how the external bd executable is located and invoked.
type BDConfig struct {
	// CommandPath is an explicit path or name for bd. Empty means resolve
	// from the environment and PATH.
	CommandPath string `yaml:"command_path,omitempty"`
	// JSONLOnly prepends --no-db to every bd invocation.
	JSONLOnly bool `yaml:"jsonl_only,omitempty"`
	// AllowBrokenFallback opts into scanning fallback install locations when
	// the configured command exists but fails its version probe.
	AllowBrokenFallback bool `yaml:"allow_broken_fallback,omitempty"`
}

// ViewConfig holds view preferences for the tree shell.
type ViewConfig struct {
	// SortMode is "default" or "recent".
	SortMode string `yaml:"sort_mode,omitempty"`
	// Filter is the startup filter: all, open, ready, or recent.
	Filter string `yaml:"filter,omitempty"`
	// RecentWindowMinutes bounds the recent view; clamped to [1, 10080].
	// A pointer so an explicit 0 is distinguishable from an absent key:
	// 0 reaches the clamp (which warns and raises it to 1), absent means
	// the default window.
	RecentWindowMinutes *int `yaml:"recent_window_minutes,omitempty"`
}

// WindowMinutes returns the configured recent window, or the default when the
// key was never set. The value is handed to sorting.ClampWindow unclamped so
// out-of-range configurations produce their warning.
func (v ViewConfig) WindowMinutes() int {
	if v.RecentWindowMinutes == nil {
		return sorting.DefaultWindowMinutes
	}
	return *v.RecentWindowMinutes
}

// Config is the top-level configuration for bdp.
type Config struct {
	BD   BDConfig   `yaml:"bd,omitempty"`
	View ViewConfig `yaml:"view,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		View: ViewConfig{
			SortMode: string(sorting.ModeDefault),
			Filter:   "open",
		},
	}
}

// ConfigDir returns the XDG config directory for bdp.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "bdp")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "bdp")
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path. A missing file yields defaults
// with no error; a malformed file yields defaults plus the parse error so the
// caller can warn without dying.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parsing config: %w", err)
	}

	cfg.BD.CommandPath = expandHome(cfg.BD.CommandPath)
	return cfg, nil
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// expandHome expands a leading ~ to the user's home directory.
func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
