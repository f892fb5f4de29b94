package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vanderheijden86/beadpanel/pkg/sorting"
)

func TestLoadFromMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.View.SortMode != "default" || cfg.View.Filter != "open" {
		t.Errorf("defaults = %+v", cfg.View)
	}
	if cfg.View.RecentWindowMinutes != nil {
		t.Errorf("RecentWindowMinutes = %v, want nil for an absent key", *cfg.View.RecentWindowMinutes)
	}
	if got := cfg.View.WindowMinutes(); got != 60 {
		t.Errorf("WindowMinutes = %d, want default 60", got)
	}
}

func TestLoadFromMalformedFileReturnsDefaultsAndError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("view: [not a mapping"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err == nil {
		t.Fatal("expected a parse error")
	}
	if cfg.View.Filter != "open" {
		t.Errorf("malformed file should still yield defaults, got %+v", cfg.View)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	window := 240
	in := DefaultConfig()
	in.BD.CommandPath = "/opt/tools/bd"
	in.BD.JSONLOnly = true
	in.View.SortMode = "recent"
	in.View.RecentWindowMinutes = &window

	if err := SaveTo(in, path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	out, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if out.BD != in.BD || out.View.SortMode != in.View.SortMode || out.View.Filter != in.View.Filter {
		t.Errorf("round trip changed config:\n in: %+v\nout: %+v", in, out)
	}
	if out.View.WindowMinutes() != 240 {
		t.Errorf("WindowMinutes = %d, want 240", out.View.WindowMinutes())
	}
}

func TestLoadFromExpandsHomeInCommandPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("bd:\n  command_path: ~/bin/bd\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	home, _ := os.UserHomeDir()
	if !strings.HasPrefix(cfg.BD.CommandPath, home) || strings.Contains(cfg.BD.CommandPath, "~") {
		t.Errorf("CommandPath = %q, want ~ expanded under %q", cfg.BD.CommandPath, home)
	}
}

func TestLoadFromAbsentWindowMeansDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("view:\n  filter: all\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.View.Filter != "all" {
		t.Errorf("Filter = %q", cfg.View.Filter)
	}
	if cfg.View.RecentWindowMinutes != nil || cfg.View.WindowMinutes() != 60 {
		t.Errorf("View = %+v, want nil window defaulting to 60", cfg.View)
	}
}

// An explicit 0 is a configuration the user wrote, not an absent key: it must
// survive loading so the clamp can raise it to the minimum with a warning.
func TestLoadFromKeepsExplicitZeroWindow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("view:\n  recent_window_minutes: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.View.RecentWindowMinutes == nil || *cfg.View.RecentWindowMinutes != 0 {
		t.Fatalf("RecentWindowMinutes = %v, want explicit 0", cfg.View.RecentWindowMinutes)
	}

	var warned []string
	got := sorting.ClampWindow(cfg.View.WindowMinutes(), func(msg string) { warned = append(warned, msg) })
	if got != 1*time.Minute {
		t.Errorf("clamped window = %v, want 1 minute", got)
	}
	if len(warned) != 1 {
		t.Errorf("warnings = %v, want exactly one clamp warning", warned)
	}
}

func TestConfigDirHonorsXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	if got := ConfigDir(); got != filepath.Join(dir, "bdp") {
		t.Errorf("ConfigDir = %q", got)
	}
	if got := ConfigPath(); got != filepath.Join(dir, "bdp", "config.yaml") {
		t.Errorf("ConfigPath = %q", got)
	}
}
