// Package sorting orders and time-filters issue lists for the tree views.
// Sorts are stable and non-mutating: callers hand the same slice to several
// views at once, so ordering always works on a copy.
package sorting

import (
	"sort"
	"time"

	"github.com/vanderheijden86/beadpanel/pkg/model"
)

// Mode selects the ordering policy. Both policies are applied at every tree
// level: roots and each sibling group.
type Mode string

const (
	// ModeDefault puts active work first by urgency, then closed work by how
	// recently it was closed.
	ModeDefault Mode = "default"
	// ModeRecent groups epics first by recent activity, then applies the
	// default policy to everything else.
	ModeRecent Mode = "recent"
)

// Sort returns a newly ordered copy of issues under the given mode.
func Sort(issues []model.Issue, mode Mode) []model.Issue {
	out := make([]model.Issue, len(issues))
	copy(out, issues)

	switch mode {
	case ModeRecent:
		sort.SliceStable(out, func(i, j int) bool { return recentLess(&out[i], &out[j]) })
	default:
		sort.SliceStable(out, func(i, j int) bool { return defaultLess(&out[i], &out[j]) })
	}
	return out
}

// defaultLess: non-closed before closed; non-closed by ascending priority
// (missing priority last); closed by closed_at descending (missing closed_at
// sorts as oldest, i.e. last).
func defaultLess(a, b *model.Issue) bool {
	aClosed, bClosed := a.IsClosed(), b.IsClosed()
	if aClosed != bClosed {
		return !aClosed
	}
	if !aClosed {
		return a.EffectivePriority() < b.EffectivePriority()
	}
	return closedAt(a).After(closedAt(b))
}

// recentLess: epics first, ordered by updated_at descending; everything else
// follows under the default policy. A missing updated_at counts as epoch 0.
func recentLess(a, b *model.Issue) bool {
	aEpic, bEpic := a.IssueType == model.TypeEpic, b.IssueType == model.TypeEpic
	if aEpic != bEpic {
		return aEpic
	}
	if aEpic {
		return a.UpdatedAt.After(b.UpdatedAt)
	}
	return defaultLess(a, b)
}

// closedAt returns the close timestamp, or the zero time when absent or
// invalid so such issues sort as oldest.
func closedAt(i *model.Issue) time.Time {
	if i.ClosedAt == nil {
		return time.Time{}
	}
	return *i.ClosedAt
}
