package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/vanderheijden86/beadpanel/pkg/debug"
	"github.com/vanderheijden86/beadpanel/pkg/model"
)

// RenderDetail renders one issue as a markdown document for the detail pane.
// Glamour failures degrade to the raw markdown rather than an error screen.
func RenderDetail(issue *model.Issue, width int) string {
	if issue == nil {
		return ""
	}
	md := detailMarkdown(issue)

	if width < 20 {
		width = 20
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		debug.Log("glamour renderer: %v", err)
		return md
	}
	out, err := renderer.Render(md)
	if err != nil {
		debug.Log("glamour render: %v", err)
		return md
	}
	return out
}

func detailMarkdown(issue *model.Issue) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s: %s\n\n", issue.ID, issue.Title)

	fmt.Fprintf(&b, "**Status:** %s", issue.Status)
	if issue.IssueType != "" {
		fmt.Fprintf(&b, " · **Type:** %s", issue.IssueType)
	}
	if label := PriorityLabel(issue); label != "" {
		fmt.Fprintf(&b, " · **Priority:** %s", label)
	}
	if issue.Assignee != "" {
		fmt.Fprintf(&b, " · **Assignee:** %s", issue.Assignee)
	}
	b.WriteString("\n\n")

	if len(issue.Labels) > 0 {
		fmt.Fprintf(&b, "**Labels:** %s\n\n", strings.Join(issue.Labels, ", "))
	}

	fmt.Fprintf(&b, "*Created %s, updated %s*", FormatTimeRel(issue.CreatedAt), FormatTimeRel(issue.UpdatedAt))
	if issue.ClosedAt != nil {
		fmt.Fprintf(&b, "*, closed %s*", FormatTimeRel(*issue.ClosedAt))
	}
	b.WriteString("\n\n")

	if issue.Description != "" {
		b.WriteString(issue.Description)
		b.WriteString("\n")
	}

	if len(issue.Dependencies) > 0 {
		b.WriteString("\n## Dependencies\n\n")
		for _, dep := range issue.Dependencies {
			if dep == nil {
				continue
			}
			fmt.Fprintf(&b, "- %s → %s\n", dep.Type, dep.DependsOnID)
		}
	}
	return b.String()
}
