package bdclient

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure classes callers are expected to branch on.
// Wrapped errors carry the human-readable, actionable message; raw exec
// internals never reach the user.
var (
	// ErrNotFound means the bd executable is missing from PATH and from every
	// fallback location.
	ErrNotFound = errors.New("bd executable not found")
	// ErrPermission means the executable or the workspace data directory
	// exists but is not accessible.
	ErrPermission = errors.New("permission denied")
	// ErrTimeout means the invocation exceeded its wall-clock limit.
	ErrTimeout = errors.New("bd command timed out")
	// ErrOutputTooLarge means captured stdout exceeded the configured cap.
	ErrOutputTooLarge = errors.New("bd output too large")
	// ErrBrokenExecutable means the configured command exists but failed its
	// version probe for a reason other than "not found".
	ErrBrokenExecutable = errors.New("bd executable is not working")
)

// ExitError reports a non-zero exit for a reason the taxonomy does not
// classify further. The message suggests a manual re-run since bd prints its
// own diagnostics to the terminal.
type ExitError struct {
	Code   int
	Stderr string
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("bd exited with code %d; try running the command manually to see details", e.Code)
}

// IsNotFound reports whether err is a not-found class failure.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsTimeout reports whether err is a timeout class failure.
func IsTimeout(err error) bool { return errors.Is(err, ErrTimeout) }

func notFoundError(cmd string) error {
	return fmt.Errorf("%w: %q is not installed or not on PATH; install beads (https://github.com/steveyegge/beads) or set command_path in the config", ErrNotFound, cmd)
}

func permissionError(cmd string) error {
	return fmt.Errorf("%w: %q exists but is not executable; check file permissions", ErrPermission, cmd)
}

func timeoutError(cmd string, secs float64) error {
	return fmt.Errorf("%w: %q did not finish within %.0fs", ErrTimeout, cmd, secs)
}

func outputTooLargeError(limit int64) error {
	return fmt.Errorf("%w: stdout exceeded %d MB; run 'bd compact' to shrink your data", ErrOutputTooLarge, limit/(1024*1024))
}
