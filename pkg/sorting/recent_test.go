package sorting

import (
	"strings"
	"testing"
	"time"

	"github.com/vanderheijden86/beadpanel/pkg/model"
	"github.com/vanderheijden86/beadpanel/pkg/testutil"
)

func TestClampWindow(t *testing.T) {
	tests := []struct {
		minutes  int
		want     time.Duration
		wantWarn bool
	}{
		{0, 1 * time.Minute, true},
		{-5, 1 * time.Minute, true},
		{1, 1 * time.Minute, false},
		{60, 60 * time.Minute, false},
		{10080, 10080 * time.Minute, false},
		{20000, 10080 * time.Minute, true},
	}

	for _, tt := range tests {
		var warned []string
		got := ClampWindow(tt.minutes, func(msg string) { warned = append(warned, msg) })
		if got != tt.want {
			t.Errorf("ClampWindow(%d) = %v, want %v", tt.minutes, got, tt.want)
		}
		if (len(warned) > 0) != tt.wantWarn {
			t.Errorf("ClampWindow(%d) warnings = %v, wantWarn=%v", tt.minutes, warned, tt.wantWarn)
		}
	}
}

func TestFilterRecentBoundary(t *testing.T) {
	now := testutil.BaseTime
	window := time.Hour

	issues := []model.Issue{
		testutil.Closed(testutil.NewIssue("at-cutoff"), now.Add(-window)),
		testutil.Closed(testutil.NewIssue("just-past"), now.Add(-window-time.Millisecond)),
		testutil.NewIssue("open"),
	}

	got := FilterRecent(issues, window, now, nil)
	want := map[string]bool{"at-cutoff": true, "open": true}
	if len(got) != 2 {
		t.Fatalf("FilterRecent kept %d issues, want 2: %v", len(got), got)
	}
	for _, issue := range got {
		if !want[issue.ID] {
			t.Errorf("unexpected issue %s in recent view", issue.ID)
		}
	}
}

func TestFilterRecentExcludesClosedWithoutTimestamp(t *testing.T) {
	now := testutil.BaseTime
	undated := testutil.NewIssue("undated")
	undated.Status = model.StatusClosed

	var logs []string
	got := FilterRecent([]model.Issue{undated}, time.Hour, now, func(msg string) { logs = append(logs, msg) })

	if len(got) != 0 {
		t.Errorf("closed issue without closed_at should be excluded, got %v", got)
	}
	if len(logs) != 1 || !strings.Contains(logs[0], "undated") {
		t.Errorf("expected one log naming the issue, got %v", logs)
	}
}
