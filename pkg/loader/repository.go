// Package loader is the issue repository: it invokes bd subcommands through
// pkg/bdclient, parses the JSON/JSONL responses, derives parent links from
// dependency edges, and filters soft-deleted issues before anything downstream
// can see them. Every fetch returns a Result rather than an error so callers
// always have best-effort data to show.
package loader

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/vanderheijden86/beadpanel/pkg/bdclient"
	"github.com/vanderheijden86/beadpanel/pkg/model"
	"github.com/vanderheijden86/beadpanel/pkg/sorting"
	"github.com/vanderheijden86/beadpanel/pkg/workspace"
)

// FilterMode selects which slice of the workspace a listing returns.
type FilterMode string

const (
	FilterAll    FilterMode = "all"
	FilterOpen   FilterMode = "open"
	FilterReady  FilterMode = "ready"
	FilterRecent FilterMode = "recent"
)

// Repository fetches issue snapshots from bd for one or more workspaces.
// Concurrent refreshes of the same workspace+mode are coalesced into a single
// bd invocation; each fetch is otherwise a stateless read-only snapshot.
type Repository struct {
	svc      *bdclient.Service
	notifier bdclient.Notifier

	// RecentWindow is the rolling window for FilterRecent, already clamped by
	// the caller via sorting.ClampWindow. Zero means the default window.
	RecentWindow time.Duration

	group singleflight.Group
}

// NewRepository creates a Repository on top of a bd client service.
func NewRepository(svc *bdclient.Service, notifier bdclient.Notifier) *Repository {
	if notifier == nil {
		notifier = bdclient.NopNotifier{}
	}
	return &Repository{svc: svc, notifier: notifier}
}

// FetchReady returns the unblocked, actionable issues via `bd ready --json`.
// Tombstones are filtered defensively even though ready should not emit them.
func (r *Repository) FetchReady(ctx context.Context, root string) Result {
	return r.coalesced("ready:"+root, func() Result { return r.fetchReady(ctx, root) })
}

// FetchAllWithDeps returns the full issue graph via `bd export` (JSONL). A
// malformed line is skipped, counted, and reported; the result then carries
// all parsed issues with Success=false (the partial-success contract).
func (r *Repository) FetchAllWithDeps(ctx context.Context, root string) Result {
	return r.coalesced("export:"+root, func() Result { return r.fetchExport(ctx, root) })
}

// ListFiltered composes the fetches into the four view modes.
func (r *Repository) ListFiltered(ctx context.Context, root string, mode FilterMode) Result {
	switch mode {
	case FilterReady:
		return r.FetchReady(ctx, root)

	case FilterOpen:
		res := r.FetchAllWithDeps(ctx, root)
		res.Issues = filterIssues(res.Issues, func(i *model.Issue) bool { return !i.IsClosed() })
		return res

	case FilterRecent:
		res := r.FetchAllWithDeps(ctx, root)
		res.Issues = sorting.FilterRecent(res.Issues, r.RecentWindow, time.Now(), r.notifier.Log)
		return res

	case FilterAll:
		return r.FetchAllWithDeps(ctx, root)

	default:
		return Fail(fmt.Errorf("unknown filter mode %q", mode))
	}
}

func (r *Repository) fetchReady(ctx context.Context, root string) Result {
	initialized, res := r.precheck(root)
	if !initialized {
		return res
	}

	out, err := r.svc.Invoke(ctx, bdclient.InvokeOptions{
		Args:      []string{"ready", "--json"},
		WorkDir:   root,
		MaxOutput: bdclient.MaxQueryOutput,
	})
	if err != nil {
		return Fail(err)
	}

	issues, perr := parseReadyDocument(out.Stdout)
	if perr != nil {
		return Fail(perr)
	}
	return Ok(finalize(issues))
}

func (r *Repository) fetchExport(ctx context.Context, root string) Result {
	initialized, res := r.precheck(root)
	if !initialized {
		return res
	}

	out, err := r.svc.Invoke(ctx, bdclient.InvokeOptions{
		Args:      []string{"export"},
		WorkDir:   root,
		MaxOutput: bdclient.MaxExportOutput,
	})
	if err != nil {
		return Fail(err)
	}

	issues, stats := parseJSONL(bytes.NewReader(out.Stdout), ParseOptions{
		WarningHandler: r.notifier.Warn,
	})
	issues = finalize(issues)

	if stats.failedLines > 0 {
		return Partial(issues, &ParseError{
			FailedLines: stats.failedLines,
			TotalLines:  stats.totalLines,
			FirstError:  stats.firstError,
		})
	}
	return Ok(issues)
}

// precheck short-circuits fetches for workspaces bd has never been run in.
// Returns initialized=false with the Result to hand back directly.
func (r *Repository) precheck(root string) (bool, Result) {
	beadsDir, err := workspace.BeadsDir(root)
	if err != nil {
		return false, Fail(err)
	}
	initialized, err := r.svc.Initialized(beadsDir)
	if err != nil {
		return false, Fail(err)
	}
	if !initialized {
		// Not an error: this workspace simply doesn't use bd.
		return false, Ok([]model.Issue{})
	}
	return true, Result{}
}

// coalesced deduplicates concurrent identical fetches. All waiters share one
// bd invocation and one Result.
func (r *Repository) coalesced(key string, fetch func() Result) Result {
	v, _, _ := r.group.Do(key, func() (any, error) {
		return fetch(), nil
	})
	return v.(Result)
}

// finalize derives parent ids and strips tombstones. This is the single place
// the tombstone invariant is enforced; downstream engines assume it holds.
func finalize(issues []model.Issue) []model.Issue {
	out := make([]model.Issue, 0, len(issues))
	for i := range issues {
		if issues[i].IsTombstone() {
			continue
		}
		issues[i].ParentIDs = model.DeriveParentIDs(issues[i].Dependencies)
		out = append(out, issues[i])
	}
	return out
}

func filterIssues(issues []model.Issue, keep func(*model.Issue) bool) []model.Issue {
	out := make([]model.Issue, 0, len(issues))
	for i := range issues {
		if keep(&issues[i]) {
			out = append(out, issues[i])
		}
	}
	return out
}
