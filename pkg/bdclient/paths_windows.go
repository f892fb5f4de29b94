//go:build windows

package bdclient

import (
	"os"
	"path/filepath"
)

// checkExecutable approximates an executability check on Windows, where mode
// bits carry no execute permission: existence of a regular file is the best
// signal available before actually running it.
func checkExecutable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return os.ErrInvalid
	}
	return nil
}

// fallbackPaths lists common bd install locations on Windows. Overridable so
// tests stay hermetic on machines that have bd installed.
var fallbackPaths = windowsFallbackPaths

func windowsFallbackPaths() []string {
	var paths []string
	if appData := os.Getenv("LOCALAPPDATA"); appData != "" {
		paths = append(paths, filepath.Join(appData, "Programs", "beads", "bd.exe"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, "AppData", "Roaming", "npm", "bd.cmd"),
			filepath.Join(home, "go", "bin", "bd.exe"),
		)
	}
	if gopath := os.Getenv("GOPATH"); gopath != "" {
		paths = append(paths, filepath.Join(gopath, "bin", "bd.exe"))
	}
	return paths
}
