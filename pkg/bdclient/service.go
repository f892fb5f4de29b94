// Package bdclient locates and runs the external bd executable. It owns the
// two process-wide caches (resolved command path, per-workspace init status)
// and classifies every failure into a small, stable taxonomy so host shells
// can show short, actionable messages instead of exec internals.
package bdclient

import (
	"context"
	"os"
	"sync"
	"time"
)

// DefaultCommand is the bare command name used when nothing else is configured.
const DefaultCommand = "bd"

// EnvCommand overrides the command when no explicit path is configured.
const EnvCommand = "BDP_BD"

// DefaultProbeTimeout bounds the version probe used during resolution.
const DefaultProbeTimeout = 5 * time.Second

// Options configures a Service. The zero value is usable.
type Options struct {
	// CommandPath is the explicitly configured command, highest priority.
	CommandPath string
	// AllowBrokenFallback opts into scanning fallback install locations when
	// the configured command exists but fails its probe. Off by default:
	// silently running a different binary than the one configured is worse
	// than failing loudly.
	AllowBrokenFallback bool
	// JSONLOnly prepends --no-db to every invocation.
	JSONLOnly bool
	// ProbeTimeout bounds the resolution probe. Zero means DefaultProbeTimeout.
	ProbeTimeout time.Duration
}

// Service resolves and invokes bd. Safe for concurrent use; the caches are
// mutex-guarded since host shells may refresh several workspaces at once.
type Service struct {
	mu       sync.Mutex
	opts     Options
	notifier Notifier

	resolvedPath string          // cached successful resolution, "" = none
	initStatus   map[string]bool // workspace root -> data dir exists
}

// NewService creates a Service. A nil notifier is replaced with NopNotifier.
func NewService(opts Options, notifier Notifier) *Service {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Service{
		opts:       opts,
		notifier:   notifier,
		initStatus: make(map[string]bool),
	}
}

// SetCommandPath updates the configured command and drops the cached
// resolution, so the next call re-resolves from scratch.
func (s *Service) SetCommandPath(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opts.CommandPath = path
	s.resolvedPath = ""
}

// InvalidatePath drops the cached resolution. Called on configuration change
// and whenever an invocation fails with a not-found error, which covers the
// "bd was just installed" race.
func (s *Service) InvalidatePath() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resolvedPath = ""
}

// Initialized reports whether the workspace has a bd data directory. Only
// definitive outcomes are cached: a directory that exists, or a stat that
// returned ENOENT. Transient errors (permission flaps, network filesystems)
// are returned but never memoized.
func (s *Service) Initialized(beadsDir string) (bool, error) {
	s.mu.Lock()
	if cached, ok := s.initStatus[beadsDir]; ok {
		s.mu.Unlock()
		return cached, nil
	}
	s.mu.Unlock()

	info, err := os.Stat(beadsDir)
	switch {
	case err == nil:
		exists := info.IsDir()
		s.rememberInit(beadsDir, exists)
		return exists, nil
	case os.IsNotExist(err):
		s.rememberInit(beadsDir, false)
		return false, nil
	case os.IsPermission(err):
		return false, permissionError(beadsDir)
	default:
		return false, err
	}
}

// InvalidateInit drops the cached init status for one workspace, e.g. after
// the host observes a `bd init` run.
func (s *Service) InvalidateInit(beadsDir string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.initStatus, beadsDir)
}

func (s *Service) rememberInit(beadsDir string, exists bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initStatus[beadsDir] = exists
}

func (s *Service) probeTimeout() time.Duration {
	if s.opts.ProbeTimeout > 0 {
		return s.opts.ProbeTimeout
	}
	return DefaultProbeTimeout
}

// cachedPath returns the memoized resolution, if any.
func (s *Service) cachedPath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolvedPath
}

func (s *Service) rememberPath(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resolvedPath = path
}

// withContextTimeout applies d unless ctx already carries an earlier deadline.
func withContextTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < d {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
