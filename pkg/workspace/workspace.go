// Package workspace resolves where a workspace keeps its bd data. A workspace
// is "initialized" when that directory exists; fetching from an uninitialized
// workspace is a legitimate empty state, not an error.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnvVar overrides the data directory location, matching bd's own convention.
const EnvVar = "BEADS_DIR"

// DirName is the data directory bd creates inside a workspace root.
const DirName = ".beads"

// BeadsDir returns the bd data directory for a workspace root, respecting the
// BEADS_DIR environment variable. An empty root means the current directory.
func BeadsDir(root string) (string, error) {
	if envDir := os.Getenv(EnvVar); envDir != "" {
		return envDir, nil
	}

	if root == "" {
		var err error
		root, err = os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get current working directory: %w", err)
		}
	}
	return filepath.Join(root, DirName), nil
}
