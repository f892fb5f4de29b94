// Package watcher monitors a workspace's bd data directory so shells can
// refresh the issue snapshot while the user works. fsnotify is used when the
// filesystem supports it, with a polling fallback; rapid event bursts (bd
// rewrites several files per mutation) are debounced into one change signal.
package watcher

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces bursts of filesystem events.
const DefaultDebounce = 250 * time.Millisecond

// DefaultPollInterval is the polling interval for fallback mode.
const DefaultPollInterval = 2 * time.Second

// EnvForcePoll forces polling mode, for network filesystems fsnotify
// misdetects.
const EnvForcePoll = "BDP_FORCE_POLL"

// ErrAlreadyStarted is returned by Start on a running watcher.
var ErrAlreadyStarted = errors.New("watcher already started")

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the debounce duration.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithPollInterval sets the polling interval for fallback mode.
func WithPollInterval(d time.Duration) Option {
	return func(w *Watcher) { w.pollInterval = d }
}

// WithOnError sets the callback invoked on watch errors.
func WithOnError(fn func(error)) Option {
	return func(w *Watcher) { w.onError = fn }
}

// WithForcePoll forces polling mode even if fsnotify is available.
func WithForcePoll(force bool) Option {
	return func(w *Watcher) { w.forcePoll = force }
}

// Watcher monitors one directory for changes.
type Watcher struct {
	dir          string
	debounce     time.Duration
	pollInterval time.Duration
	onError      func(error)
	forcePoll    bool

	mu        sync.Mutex
	started   bool
	polling   bool
	fsWatcher *fsnotify.Watcher
	ctx       context.Context
	cancel    context.CancelFunc
	timer     *time.Timer
	lastState pollState

	changeCh chan struct{}
}

type pollState struct {
	mtime time.Time
	count int
}

// New creates a watcher for the given directory. The directory does not have
// to exist yet; a later `bd init` shows up as a change.
func New(dir string, opts ...Option) *Watcher {
	w := &Watcher{
		dir:          dir,
		debounce:     DefaultDebounce,
		pollInterval: DefaultPollInterval,
		onError:      func(error) {},
		changeCh:     make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Changed returns a channel that receives one signal per debounced change.
// The channel has capacity 1; signals are dropped, not queued, while the
// consumer is busy.
func (w *Watcher) Changed() <-chan struct{} {
	return w.changeCh
}

// Dir returns the watched directory.
func (w *Watcher) Dir() string { return w.dir }

// IsPolling reports whether the watcher is in polling fallback mode.
func (w *Watcher) IsPolling() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.polling
}

// Start begins watching. It never fails just because fsnotify is unavailable;
// it degrades to polling instead.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		return ErrAlreadyStarted
	}
	w.ctx, w.cancel = context.WithCancel(context.Background())
	w.lastState = w.snapshotState()

	usePoll := w.forcePoll || envBool(EnvForcePoll)
	if !usePoll {
		fsw, err := fsnotify.NewWatcher()
		if err == nil {
			if err := fsw.Add(w.dir); err != nil {
				fsw.Close()
				usePoll = true
			} else {
				w.fsWatcher = fsw
				go w.runFsnotify()
			}
		} else {
			usePoll = true
		}
	}

	if usePoll {
		w.polling = true
		go w.runPolling()
	}

	w.started = true
	return nil
}

// Stop stops watching. The change channel is left open; a consumer blocked on
// it is released at process exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.started {
		return
	}
	w.cancel()
	if w.fsWatcher != nil {
		w.fsWatcher.Close()
		w.fsWatcher = nil
	}
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.started = false
}

func (w *Watcher) runFsnotify() {
	for {
		select {
		case <-w.ctx.Done():
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if relevantEvent(event) {
				w.scheduleChange()
			}
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.onError(err)
		}
	}
}

// relevantEvent filters out noise: chmods and editor swap files never mean
// the issue data changed.
func relevantEvent(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	name := event.Name
	return !strings.HasSuffix(name, ".swp") && !strings.HasSuffix(name, "~") && !strings.HasSuffix(name, ".tmp")
}

func (w *Watcher) runPolling() {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			state := w.snapshotState()
			w.mu.Lock()
			changed := state != w.lastState
			w.lastState = state
			w.mu.Unlock()
			if changed {
				w.scheduleChange()
			}
		}
	}
}

// snapshotState summarizes the directory cheaply: its own mtime plus entry
// count catches the rewrite-and-rename pattern bd uses.
func (w *Watcher) snapshotState() pollState {
	info, err := os.Stat(w.dir)
	if err != nil {
		return pollState{}
	}
	state := pollState{mtime: info.ModTime()}
	if entries, err := os.ReadDir(w.dir); err == nil {
		state.count = len(entries)
	}
	return state
}

// scheduleChange arms (or re-arms) the debounce timer.
func (w *Watcher) scheduleChange() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		select {
		case w.changeCh <- struct{}{}:
		default:
		}
	})
}

func envBool(name string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(name))) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
