package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/beadpanel/pkg/model"
)

// lipglossWidth measures the printable cell width of a styled string.
func lipglossWidth(s string) int {
	return lipgloss.Width(s)
}

// FormatTimeRel returns a relative time string (e.g., "2h ago", "3d ago").
func FormatTimeRel(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}

	d := time.Since(t)
	if d < 0 {
		// Future timestamps treated as now
		return "now"
	}
	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	case d < 30*24*time.Hour:
		return fmt.Sprintf("%dw ago", int(d.Hours()/(24*7)))
	default:
		return fmt.Sprintf("%dmo ago", int(d.Hours()/(24*30)))
	}
}

// truncateWidth truncates a string to max visual width in cells, adding the
// suffix when anything was cut. Wide characters count as two cells.
func truncateWidth(s string, maxWidth int, suffix string) string {
	if maxWidth <= 0 {
		return ""
	}

	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}

	suffixWidth := runewidth.StringWidth(suffix)
	if suffixWidth > maxWidth {
		return runewidth.Truncate(suffix, maxWidth, "")
	}
	return runewidth.Truncate(s, maxWidth-suffixWidth, "") + suffix
}

func truncate(s string, maxWidth int) string {
	return truncateWidth(s, maxWidth, "…")
}

// StatusIcon returns the glyph for a status.
func StatusIcon(s model.Status) string {
	switch s {
	case model.StatusOpen:
		return "○"
	case model.StatusInProgress:
		return "◐"
	case model.StatusBlocked:
		return "●"
	case model.StatusClosed:
		return "✓"
	default:
		return "·"
	}
}

// PriorityLabel returns "P0".."Pn" or "" for a missing priority.
func PriorityLabel(i *model.Issue) string {
	p := i.EffectivePriority()
	if p == model.PriorityNone {
		return ""
	}
	return fmt.Sprintf("P%d", p)
}
