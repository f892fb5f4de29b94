package loader

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/beadpanel/pkg/model"
)

// DefaultMaxLineBytes is the largest single JSONL line accepted (10MB).
// Longer lines are counted as failures and skipped.
const DefaultMaxLineBytes = 10 * 1024 * 1024

// ParseOptions configures JSONL parsing.
type ParseOptions struct {
	// WarningHandler receives per-line diagnostics. Nil discards them.
	WarningHandler func(string)

	// MaxLineBytes caps a single line. Zero means DefaultMaxLineBytes.
	MaxLineBytes int
}

// jsonlStats reports what happened during a JSONL parse.
type jsonlStats struct {
	totalLines  int
	failedLines int
	firstError  error
}

// parseJSONL reads one issue per line. A malformed line never aborts the
// parse: it is counted, reported via the warning handler, and skipped.
func parseJSONL(r io.Reader, opts ParseOptions) ([]model.Issue, jsonlStats) {
	warn := opts.WarningHandler
	if warn == nil {
		warn = func(string) {}
	}
	maxLine := opts.MaxLineBytes
	if maxLine <= 0 {
		maxLine = DefaultMaxLineBytes
	}

	var issues []model.Issue
	var stats jsonlStats

	reader := bufio.NewReaderSize(r, 64*1024)
	lineNum := 0
	for {
		lineNum++
		line, tooLong, err := readLine(reader, maxLine)
		if err == io.EOF && len(line) == 0 && !tooLong {
			break
		}
		if err != nil && err != io.EOF {
			// Stream-level read error: report it against this line and stop;
			// everything parsed so far is still returned.
			stats.totalLines++
			stats.failedLines++
			recordError(&stats, fmt.Errorf("read error at line %d: %w", lineNum, err))
			warn(fmt.Sprintf("stopping export parse at line %d: %v", lineNum, err))
			break
		}

		if tooLong {
			stats.totalLines++
			stats.failedLines++
			recordError(&stats, fmt.Errorf("line %d exceeds %d bytes", lineNum, maxLine))
			warn(fmt.Sprintf("skipping line %d: line too long (exceeds %d bytes)", lineNum, maxLine))
			continue
		}

		if lineNum == 1 {
			line = stripBOM(line)
		}
		if len(bytes.TrimSpace(line)) == 0 {
			if err == io.EOF {
				break
			}
			continue
		}
		stats.totalLines++

		var issue model.Issue
		if uerr := json.Unmarshal(line, &issue); uerr != nil {
			stats.failedLines++
			recordError(&stats, fmt.Errorf("line %d: %w", lineNum, uerr))
			warn(fmt.Sprintf("skipping malformed line %d: %v", lineNum, uerr))
			continue
		}
		if issue.ID == "" {
			stats.failedLines++
			recordError(&stats, fmt.Errorf("line %d: missing issue id", lineNum))
			warn(fmt.Sprintf("skipping line %d: missing issue id", lineNum))
			continue
		}
		issues = append(issues, issue)

		if err == io.EOF {
			break
		}
	}

	return issues, stats
}

// readLine reads one full line, reporting (but fully consuming) lines longer
// than maxLine instead of erroring out of the whole stream.
func readLine(reader *bufio.Reader, maxLine int) ([]byte, bool, error) {
	var line []byte
	tooLong := false
	for {
		chunk, isPrefix, err := reader.ReadLine()
		if !tooLong {
			line = append(line, chunk...)
			if len(line) > maxLine {
				tooLong = true
				line = nil
			}
		}
		if !isPrefix || err != nil {
			return line, tooLong, err
		}
	}
}

// stripBOM removes a UTF-8 byte order mark.
func stripBOM(line []byte) []byte {
	return bytes.TrimPrefix(line, []byte{0xEF, 0xBB, 0xBF})
}

func recordError(stats *jsonlStats, err error) {
	if stats.firstError == nil {
		stats.firstError = err
	}
}

// parseReadyDocument accepts the two shapes `bd ready --json` has shipped:
// a bare array of issues, or an object wrapping an `issues` array. Anything
// else well-formed is an UnexpectedFormatError, since it signals an
// incompatible bd rather than corrupt data.
func parseReadyDocument(data []byte) ([]model.Issue, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	switch trimmed[0] {
	case '[':
		var issues []model.Issue
		if err := json.Unmarshal(trimmed, &issues); err != nil {
			return nil, fmt.Errorf("invalid ready output: %w", err)
		}
		return issues, nil

	case '{':
		var doc map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return nil, fmt.Errorf("invalid ready output: %w", err)
		}
		raw, ok := doc["issues"]
		if !ok {
			return nil, &UnexpectedFormatError{Subcommand: "ready", Detail: "object without an issues array"}
		}
		var issues []model.Issue
		if err := json.Unmarshal(raw, &issues); err != nil {
			return nil, &UnexpectedFormatError{Subcommand: "ready", Detail: fmt.Sprintf("issues field is not an issue array: %v", err)}
		}
		return issues, nil

	default:
		return nil, &UnexpectedFormatError{Subcommand: "ready", Detail: "neither array nor object"}
	}
}
