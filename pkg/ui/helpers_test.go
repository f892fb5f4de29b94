package ui

import (
	"testing"
	"time"

	"github.com/mattn/go-runewidth"
)

func TestTruncateHandlesWideRunes(t *testing.T) {
	cases := []struct {
		in    string
		width int
	}{
		{"plain ascii title", 10},
		{"日本語タイトル with mixed content", 12},
		{"emoji 🎉 party", 8},
		{"short", 40},
	}
	for _, tc := range cases {
		got := truncate(tc.in, tc.width)
		if w := runewidth.StringWidth(got); w > tc.width {
			t.Errorf("truncate(%q, %d) = %q, width %d", tc.in, tc.width, got, w)
		}
	}
	if got := truncate("anything", 0); got != "" {
		t.Errorf("zero width should yield empty, got %q", got)
	}
}

func TestFormatTimeRel(t *testing.T) {
	now := time.Now()
	cases := []struct {
		at   time.Time
		want string
	}{
		{time.Time{}, "unknown"},
		{now.Add(time.Hour), "now"}, // future clamps to now
		{now.Add(-30 * time.Second), "now"},
		{now.Add(-5 * time.Minute), "5m ago"},
		{now.Add(-3 * time.Hour), "3h ago"},
		{now.Add(-48 * time.Hour), "2d ago"},
	}
	for _, tc := range cases {
		if got := FormatTimeRel(tc.at); got != tc.want {
			t.Errorf("FormatTimeRel(%v) = %q, want %q", tc.at, got, tc.want)
		}
	}
}
