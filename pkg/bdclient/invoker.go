package bdclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// DefaultTimeout is the wall-clock limit for one bd invocation.
const DefaultTimeout = 30 * time.Second

// Output caps. Exports carry the full issue history and can get big; filtered
// queries should not.
const (
	// MaxExportOutput caps `bd export` stdout.
	MaxExportOutput int64 = 64 * 1024 * 1024
	// MaxQueryOutput caps filtered queries like `bd ready`.
	MaxQueryOutput int64 = 16 * 1024 * 1024
	// maxStderr caps captured stderr; diagnostics past this are noise.
	maxStderr int64 = 1 * 1024 * 1024
)

// InvokeOptions configures a single invocation.
type InvokeOptions struct {
	Args    []string
	WorkDir string
	// Timeout bounds the invocation. Zero means DefaultTimeout.
	Timeout time.Duration
	// MaxOutput caps captured stdout. Zero means MaxQueryOutput.
	MaxOutput int64
}

// InvokeResult carries the captured output of a successful invocation.
type InvokeResult struct {
	Stdout []byte
	Stderr []byte
}

// Invoke resolves bd and runs it once with the given options. Failures come
// back classified (ErrNotFound, ErrPermission, ErrTimeout, ErrOutputTooLarge,
// *ExitError). A not-found failure also drops the cached resolution so the
// next call re-resolves, which is what heals "bd just got installed".
//
// Non-empty stderr from a successful run is advisory: it is forwarded to the
// notifier and the call still succeeds.
func (s *Service) Invoke(ctx context.Context, opts InvokeOptions) (InvokeResult, error) {
	command, err := s.Resolve(ctx)
	if err != nil {
		return InvokeResult{}, err
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	maxOutput := opts.MaxOutput
	if maxOutput <= 0 {
		maxOutput = MaxQueryOutput
	}

	args := opts.Args
	s.mu.Lock()
	jsonlOnly := s.opts.JSONLOnly
	s.mu.Unlock()
	if jsonlOnly {
		args = append([]string{"--no-db"}, args...)
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, command, args...)
	cmd.Dir = opts.WorkDir

	stdout := newCappedBuffer(maxOutput, cancel)
	stderr := newCappedBuffer(maxStderr, nil)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	runErr := cmd.Run()

	switch {
	case stdout.exceeded():
		return InvokeResult{}, outputTooLargeError(maxOutput)
	case runErr == nil:
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			s.notifier.Log(fmt.Sprintf("bd %s: %s", firstArg(args), msg))
		}
		return InvokeResult{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}, nil
	}

	classified := s.classifyRunError(runErr, command, runCtx, timeout, stderr.String())
	if IsNotFound(classified) {
		s.InvalidatePath()
	}
	return InvokeResult{}, classified
}

func (s *Service) classifyRunError(err error, command string, ctx context.Context, timeout time.Duration, stderrText string) error {
	if ctx.Err() == context.DeadlineExceeded {
		return timeoutError(command, timeout.Seconds())
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExitError{Code: exitErr.ExitCode(), Stderr: strings.TrimSpace(stderrText)}
	}
	return classifyExecError(err, command, nil)
}

func firstArg(args []string) string {
	for _, a := range args {
		if !strings.HasPrefix(a, "-") {
			return a
		}
	}
	return ""
}

// cappedBuffer collects writes up to a limit, then starts discarding and
// optionally cancels the invocation so a runaway export does not stream tens
// of MB into memory before failing.
type cappedBuffer struct {
	mu     sync.Mutex
	buf    bytes.Buffer
	limit  int64
	over   bool
	cancel context.CancelFunc
}

func newCappedBuffer(limit int64, cancel context.CancelFunc) *cappedBuffer {
	return &cappedBuffer{limit: limit, cancel: cancel}
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.over {
		return len(p), nil
	}
	if int64(b.buf.Len())+int64(len(p)) > b.limit {
		b.over = true
		if b.cancel != nil {
			b.cancel()
		}
		// Report success to the copier; the invocation is torn down via the
		// cancel above and the caller surfaces ErrOutputTooLarge.
		return len(p), nil
	}
	b.buf.Write(p)
	return len(p), nil
}

func (b *cappedBuffer) exceeded() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.over
}

func (b *cappedBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Bytes()
}

func (b *cappedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
