package sorting

import (
	"fmt"
	"time"

	"github.com/vanderheijden86/beadpanel/pkg/model"
)

// Window bounds for the recent filter.
const (
	// DefaultWindowMinutes is one hour.
	DefaultWindowMinutes = 60
	// MinWindowMinutes is the smallest accepted window.
	MinWindowMinutes = 1
	// MaxWindowMinutes is one week.
	MaxWindowMinutes = 7 * 24 * 60
)

// ClampWindow converts a configured minute count into a duration, clamping to
// [MinWindowMinutes, MaxWindowMinutes]. Clamps are worth a warning: the user
// asked for something else. Callers pass DefaultWindowMinutes when the value
// was never configured at all.
func ClampWindow(minutes int, warn func(string)) time.Duration {
	if warn == nil {
		warn = func(string) {}
	}
	switch {
	case minutes < MinWindowMinutes:
		warn(fmt.Sprintf("recent window %d minutes clamped to %d", minutes, MinWindowMinutes))
		return MinWindowMinutes * time.Minute
	case minutes > MaxWindowMinutes:
		warn(fmt.Sprintf("recent window %d minutes clamped to %d (one week)", minutes, MaxWindowMinutes))
		return MaxWindowMinutes * time.Minute
	default:
		return time.Duration(minutes) * time.Minute
	}
}

// FilterRecent keeps issues that are still active, plus closed issues whose
// close time falls within the window (inclusive at the boundary). A closed
// issue with no usable closed_at cannot have a determinable recency, so it is
// excluded and logged. window<=0 means the default window.
func FilterRecent(issues []model.Issue, window time.Duration, now time.Time, logf func(string)) []model.Issue {
	if window <= 0 {
		window = DefaultWindowMinutes * time.Minute
	}
	if logf == nil {
		logf = func(string) {}
	}

	cutoff := now.Add(-window)
	out := make([]model.Issue, 0, len(issues))
	for i := range issues {
		issue := &issues[i]
		if !issue.IsClosed() {
			out = append(out, issues[i])
			continue
		}
		if issue.ClosedAt == nil || issue.ClosedAt.IsZero() {
			logf(fmt.Sprintf("excluding closed issue %s from recent view: no closed_at timestamp", issue.ID))
			continue
		}
		// Inclusive boundary: closed exactly window ago still counts.
		if !issue.ClosedAt.Before(cutoff) {
			out = append(out, issues[i])
		}
	}
	return out
}
