package workspace

import (
	"path/filepath"
	"testing"
)

func TestBeadsDirUnderRoot(t *testing.T) {
	t.Setenv(EnvVar, "")
	got, err := BeadsDir("/work/project")
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Join("/work/project", DirName) {
		t.Errorf("BeadsDir = %q", got)
	}
}

func TestBeadsDirEnvOverrideWins(t *testing.T) {
	override := t.TempDir()
	t.Setenv(EnvVar, override)
	got, err := BeadsDir("/work/project")
	if err != nil {
		t.Fatal(err)
	}
	if got != override {
		t.Errorf("BeadsDir = %q, want env override %q", got, override)
	}
}

func TestBeadsDirEmptyRootUsesCwd(t *testing.T) {
	t.Setenv(EnvVar, "")
	dir := t.TempDir()
	t.Chdir(dir)

	got, err := BeadsDir("")
	if err != nil {
		t.Fatal(err)
	}
	// t.TempDir may sit behind a symlink (macOS /var -> /private/var), so
	// compare the trailing elements instead of the absolute prefix.
	if filepath.Base(got) != DirName || filepath.Base(filepath.Dir(got)) != filepath.Base(dir) {
		t.Errorf("BeadsDir = %q, want %s under %q", got, DirName, dir)
	}
}
