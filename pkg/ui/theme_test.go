package ui

import (
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/vanderheijden86/beadpanel/pkg/model"
	"github.com/vanderheijden86/beadpanel/pkg/sorting"
	"github.com/vanderheijden86/beadpanel/pkg/testutil"
)

func withProfile(t *testing.T, p colorprofile.Profile) {
	t.Helper()
	orig := TermProfile
	TermProfile = p
	t.Cleanup(func() { TermProfile = orig })
}

func TestThemeColorDegradesOnLowColorTerminals(t *testing.T) {
	withProfile(t, colorprofile.ANSI)
	if got := ThemeColor("#CC0000", "#FF5555", lipgloss.ANSIColor(1)); got != lipgloss.ANSIColor(1) {
		t.Errorf("ThemeColor on a 16-color terminal = %v, want ANSI red", got)
	}
}

func TestThemeColorKeepsAdaptivePairOnCapableTerminals(t *testing.T) {
	withProfile(t, colorprofile.TrueColor)
	want := lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"}
	if got := ThemeColor("#CC0000", "#FF5555", lipgloss.ANSIColor(1)); got != want {
		t.Errorf("ThemeColor = %v, want %v", got, want)
	}
}

func TestDefaultThemePaletteFollowsProfile(t *testing.T) {
	r := lipgloss.NewRenderer(io.Discard)

	withProfile(t, colorprofile.ANSI)
	low := DefaultTheme(r)
	if low.Open != lipgloss.ANSIColor(2) || low.Blocked != lipgloss.ANSIColor(1) {
		t.Errorf("low-color palette: open %v, blocked %v; want ANSI green and red", low.Open, low.Blocked)
	}

	TermProfile = colorprofile.TrueColor
	full := DefaultTheme(r)
	if full.Open != (lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"}) {
		t.Errorf("truecolor palette: open = %v, want the adaptive pair", full.Open)
	}
}

func TestRenderRowTitleStyles(t *testing.T) {
	withProfile(t, colorprofile.TrueColor)
	r := lipgloss.NewRenderer(io.Discard, termenv.WithProfile(termenv.TrueColor))
	r.SetColorProfile(termenv.TrueColor)
	r.SetHasDarkBackground(true)

	tree := NewTreeModel(DefaultTheme(r))
	tree.SetSize(80, 10)
	tree.SetIssues([]model.Issue{
		testutil.NewIssue("a"),
		testutil.Closed(testutil.NewIssue("b"), testutil.BaseTime),
	}, sorting.ModeDefault)

	var active, closed string
	for _, row := range tree.Rows() {
		line := tree.renderRow(row)
		switch row.Issue.ID {
		case "a":
			active = line
		case "b":
			closed = line
		}
	}

	// Active titles carry the base foreground (#F8F8F2 on dark), closed
	// titles the muted one (#6272A4).
	if !strings.Contains(active, "248;248;242") {
		t.Errorf("active row %q lacks the base foreground", active)
	}
	if !strings.Contains(closed, "98;114;164") {
		t.Errorf("closed row %q lacks the muted foreground", closed)
	}
}
