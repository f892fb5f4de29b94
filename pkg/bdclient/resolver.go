package bdclient

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// shellMetaChars are rejected in configured command strings. The command is
// never passed through a shell, but a configured value containing these is
// almost certainly a copy-paste accident, and refusing it early gives a much
// clearer failure than exec would.
const shellMetaChars = ";&|<>`$\"'\\()\n\x00"

// Resolve determines the command to run for bd, caching the first success.
//
// Priority: configured path > BDP_BD environment override > "bd". The method
// only returns an error in one case: the configured command exists but fails
// its probe and AllowBrokenFallback is off. Every other miss degrades to
// returning a best-guess string so the caller gets one precise error at
// invocation time instead of two vague ones here.
func (s *Service) Resolve(ctx context.Context) (string, error) {
	if cached := s.cachedPath(); cached != "" {
		return cached, nil
	}

	requested := s.requestedCommand()

	if strings.ContainsAny(requested, shellMetaChars) {
		s.notifier.Warn(fmt.Sprintf("configured bd command %q contains shell metacharacters; using %q instead", requested, DefaultCommand))
		requested = DefaultCommand
	}

	// Absolute paths are returned as-is even when the executability check
	// errors: the invocation will produce the precise failure, and reporting
	// it twice helps nobody.
	if filepath.IsAbs(requested) {
		if err := checkExecutable(requested); err != nil {
			s.notifier.Log(fmt.Sprintf("configured bd path %q failed executability check: %v", requested, err))
		}
		s.rememberPath(requested)
		return requested, nil
	}

	probeErr := s.probeCommand(ctx, requested)
	if probeErr == nil {
		s.rememberPath(requested)
		return requested, nil
	}

	if !IsNotFound(probeErr) {
		// Found but broken. Running some other bd from a fallback directory
		// would silently change which binary version the user talks to, so
		// this fails loudly unless explicitly opted in.
		if !s.opts.AllowBrokenFallback {
			return "", fmt.Errorf("%w: %q failed its version probe: %v", ErrBrokenExecutable, requested, probeErr)
		}
		s.notifier.Warn(fmt.Sprintf("bd command %q is broken (%v); searching fallback locations", requested, probeErr))
	}

	if found := s.scanFallbackPaths(); found != "" {
		if IsNotFound(probeErr) {
			s.notifier.Log(fmt.Sprintf("bd not on PATH; using %s", found))
		} else {
			s.notifier.Warn(fmt.Sprintf("replacing broken bd command %q with %s", requested, found))
		}
		s.rememberPath(found)
		return found, nil
	}

	// Nothing worked. Hand back the requested string unchanged; the next
	// invocation fails with a precise not-found error.
	return requested, nil
}

// requestedCommand applies the configuration priority order.
func (s *Service) requestedCommand() string {
	s.mu.Lock()
	configured := s.opts.CommandPath
	s.mu.Unlock()

	if configured != "" {
		return configured
	}
	if env := os.Getenv(EnvCommand); env != "" {
		return env
	}
	return DefaultCommand
}

// probeCommand runs `cmd --version` under a short timeout to verify the
// command both exists and executes.
func (s *Service) probeCommand(ctx context.Context, command string) error {
	probeCtx, cancel := withContextTimeout(ctx, s.probeTimeout())
	defer cancel()

	cmd := exec.CommandContext(probeCtx, command, "--version")
	if err := cmd.Run(); err != nil {
		return classifyExecError(err, command, probeCtx)
	}
	return nil
}

// scanFallbackPaths probes the common install locations in order and returns
// the first executable hit, or "".
func (s *Service) scanFallbackPaths() string {
	for _, candidate := range fallbackPaths() {
		if candidate == "" {
			continue
		}
		if err := checkExecutable(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// classifyExecError maps an exec failure into the error taxonomy.
func classifyExecError(err error, command string, ctx context.Context) error {
	if ctx != nil && ctx.Err() == context.DeadlineExceeded {
		return timeoutError(command, DefaultProbeTimeout.Seconds())
	}

	var execErr *exec.Error
	if errors.As(err, &execErr) {
		if errors.Is(execErr.Err, exec.ErrNotFound) || os.IsNotExist(execErr.Err) {
			return notFoundError(command)
		}
		if os.IsPermission(execErr.Err) {
			return permissionError(command)
		}
	}
	if os.IsNotExist(err) {
		return notFoundError(command)
	}
	if os.IsPermission(err) {
		return permissionError(command)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExitError{Code: exitErr.ExitCode(), Stderr: strings.TrimSpace(string(exitErr.Stderr))}
	}
	return err
}
