//go:build unix

package bdclient

import (
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// checkExecutable verifies the current user can execute path.
func checkExecutable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return os.ErrInvalid
	}
	return unix.Access(path, unix.X_OK)
}

// fallbackPaths lists common bd install locations, most likely first.
// Overridable so tests stay hermetic on machines that have bd installed.
var fallbackPaths = unixFallbackPaths

// unixFallbackPaths covers the typical installs: homebrew, npm, and
// `go install`.
func unixFallbackPaths() []string {
	home, _ := os.UserHomeDir()
	paths := []string{
		"/usr/local/bin/bd",
		"/opt/homebrew/bin/bd",
	}
	if home != "" {
		paths = append(paths,
			filepath.Join(home, ".local", "bin", "bd"),
			filepath.Join(home, ".npm-global", "bin", "bd"),
			filepath.Join(home, "go", "bin", "bd"),
		)
	}
	paths = append(paths, "/usr/bin/bd")
	if gopath := os.Getenv("GOPATH"); gopath != "" {
		paths = append(paths, filepath.Join(gopath, "bin", "bd"))
	}
	return paths
}
