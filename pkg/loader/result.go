package loader

import (
	"fmt"

	"github.com/vanderheijden86/beadpanel/pkg/model"
)

// Result is the discriminated outcome of a fetch. Issues is always populated
// with whatever could be salvaged, so a shell can render best-effort data and
// attach a warning instead of going blank. Err is set whenever Success is
// false.
type Result struct {
	Success bool
	Issues  []model.Issue
	Err     error
}

// Ok wraps a fully successful fetch.
func Ok(issues []model.Issue) Result {
	return Result{Success: true, Issues: issues}
}

// Partial wraps a fetch that salvaged some data but hit errors.
func Partial(issues []model.Issue, err error) Result {
	return Result{Success: false, Issues: issues, Err: err}
}

// Fail wraps a fetch that produced nothing usable.
func Fail(err error) Result {
	return Result{Success: false, Issues: []model.Issue{}, Err: err}
}

// UnexpectedFormatError reports well-formed JSON that matches neither expected
// shape. Unlike a corrupt line this is a hard failure: it means the installed
// bd speaks a different contract than this build understands.
type UnexpectedFormatError struct {
	Subcommand string
	Detail     string
}

func (e *UnexpectedFormatError) Error() string {
	return fmt.Sprintf("unexpected %s output format (%s); your bd version may be incompatible with this viewer", e.Subcommand, e.Detail)
}

// ParseError summarizes per-line JSONL failures. The fetch still carries every
// line that did parse.
type ParseError struct {
	FailedLines int
	TotalLines  int
	FirstError  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%d of %d export lines failed to parse (first error: %v)", e.FailedLines, e.TotalLines, e.FirstError)
}

func (e *ParseError) Unwrap() error { return e.FirstError }
