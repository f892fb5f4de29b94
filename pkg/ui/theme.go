package ui

import (
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"
)

// TermProfile holds the detected terminal color profile. Computed once at
// package init so every style helper can branch without re-detecting.
var TermProfile colorprofile.Profile

func init() {
	TermProfile = colorprofile.Detect(os.Stdout, os.Environ())
}

// ThemeColor returns an adaptive light/dark pair for ANSI256+ terminals and
// the given basic ANSI color for 16-color or lower terminals, so status and
// type colors stay distinguishable instead of relying on down-converted hex
// approximations.
func ThemeColor(light, dark string, fallback lipgloss.ANSIColor) lipgloss.TerminalColor {
	if TermProfile < colorprofile.ANSI256 {
		return fallback
	}
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

// Theme bundles the colors and pre-built styles for one renderer. Styles are
// created once at startup, not per frame.
type Theme struct {
	Renderer *lipgloss.Renderer

	Primary   lipgloss.TerminalColor
	Secondary lipgloss.TerminalColor
	Subtext   lipgloss.TerminalColor

	Open       lipgloss.TerminalColor
	InProgress lipgloss.TerminalColor
	Blocked    lipgloss.TerminalColor
	Closed     lipgloss.TerminalColor

	Bug     lipgloss.TerminalColor
	Feature lipgloss.TerminalColor
	Task    lipgloss.TerminalColor
	Epic    lipgloss.TerminalColor
	Chore   lipgloss.TerminalColor

	Border    lipgloss.TerminalColor
	Highlight lipgloss.TerminalColor
	Muted     lipgloss.TerminalColor

	Base      lipgloss.Style
	Selected  lipgloss.Style
	Header    lipgloss.Style
	MutedText lipgloss.Style
	DimText   lipgloss.Style
}

// DefaultTheme returns the standard Dracula-inspired adaptive theme. Light
// mode colors are tuned for WCAG AA contrast on white backgrounds; every
// palette entry degrades to a basic ANSI color on low-color terminals.
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer: r,

		Primary:   ThemeColor("#6B47D9", "#BD93F9", lipgloss.ANSIColor(5)),
		Secondary: ThemeColor("#555555", "#6272A4", lipgloss.ANSIColor(8)),
		Subtext:   ThemeColor("#666666", "#BFBFBF", lipgloss.ANSIColor(7)),

		Open:       ThemeColor("#007700", "#50FA7B", lipgloss.ANSIColor(2)),
		InProgress: ThemeColor("#006080", "#8BE9FD", lipgloss.ANSIColor(6)),
		Blocked:    ThemeColor("#CC0000", "#FF5555", lipgloss.ANSIColor(1)),
		Closed:     ThemeColor("#555555", "#6272A4", lipgloss.ANSIColor(8)),

		Bug:     ThemeColor("#CC0000", "#FF5555", lipgloss.ANSIColor(1)),
		Feature: ThemeColor("#36B37E", "#57D9A3", lipgloss.ANSIColor(2)),
		Epic:    ThemeColor("#6B47D9", "#BD93F9", lipgloss.ANSIColor(5)),
		Task:    ThemeColor("#2684FF", "#4C9AFF", lipgloss.ANSIColor(4)),
		Chore:   ThemeColor("#006080", "#8BE9FD", lipgloss.ANSIColor(6)),

		Border:    ThemeColor("#AAAAAA", "#44475A", lipgloss.ANSIColor(8)),
		Highlight: ThemeColor("#E0E0E0", "#44475A", lipgloss.ANSIColor(8)),
		Muted:     ThemeColor("#555555", "#6272A4", lipgloss.ANSIColor(8)),
	}

	t.Base = r.NewStyle().Foreground(ThemeColor("#000000", "#F8F8F2", lipgloss.ANSIColor(7)))

	t.Selected = r.NewStyle().
		Background(t.Highlight).
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(t.Primary).
		Bold(true)

	t.Header = r.NewStyle().
		Background(t.Primary).
		Foreground(ThemeColor("#FFFFFF", "#282A36", lipgloss.ANSIColor(15))).
		Bold(true).
		Padding(0, 1)

	t.MutedText = r.NewStyle().Foreground(t.Muted)
	t.DimText = r.NewStyle().Foreground(t.Subtext)

	return t
}

func (t Theme) StatusColor(s string) lipgloss.TerminalColor {
	switch s {
	case "open":
		return t.Open
	case "in_progress":
		return t.InProgress
	case "blocked":
		return t.Blocked
	case "closed":
		return t.Closed
	default:
		return t.Subtext
	}
}

// TypeIcon returns the single-letter badge and color for an issue type.
func (t Theme) TypeIcon(typ string) (string, lipgloss.TerminalColor) {
	switch typ {
	case "bug":
		return "B", t.Bug
	case "feature":
		return "F", t.Feature
	case "task":
		return "T", t.Task
	case "epic":
		return "E", t.Epic
	case "chore":
		return "C", t.Chore
	default:
		return "·", t.Subtext
	}
}

// TestTheme returns a theme suitable for use in tests.
func TestTheme() Theme {
	return DefaultTheme(lipgloss.NewRenderer(os.Stdout))
}
