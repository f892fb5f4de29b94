package ui

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"

	"github.com/vanderheijden86/beadpanel/pkg/debug"
	"github.com/vanderheijden86/beadpanel/pkg/hierarchy"
	"github.com/vanderheijden86/beadpanel/pkg/model"
	"github.com/vanderheijden86/beadpanel/pkg/sorting"
)

// TreeState is the persisted expand/collapse state, stored as
// tree-state.json in the workspace's bd data directory. Only explicit user
// choices are recorded; everything else follows the open-descendant
// heuristic. A corrupted or missing file silently falls back to defaults.
type TreeState struct {
	Version  int             `json:"version"`
	Expanded map[string]bool `json:"expanded"`
}

// TreeStateVersion is the current schema version for tree persistence.
const TreeStateVersion = 1

const treeStateFileName = "tree-state.json"

// Row is one visible line of the tree. A multi-parent issue appears once
// under each parent; rows for the same issue share expansion state.
type Row struct {
	Issue     *model.Issue
	Depth     int
	Prefix    string // accumulated "│   " / "    " guides
	Connector string // "├─ ", "└─ ", or "" for roots
	HasKids   bool
	Expanded  bool
}

// TreeModel owns the hierarchical issue view: which rows are visible, where
// the cursor is, and which subtrees the user has folded. Rebuilt from a fresh
// snapshot on every refresh; user state survives the rebuild.
type TreeModel struct {
	theme    Theme
	index    *hierarchy.Index
	rows     []Row
	cursor   int
	offset   int
	width    int
	height   int
	beadsDir string // for tree-state.json; "" disables persistence

	// expanded holds explicit user choices; ids absent here default to the
	// open-descendant heuristic captured in auto.
	expanded map[string]bool
	auto     map[string]bool

	warnings []string
}

// NewTreeModel creates an empty tree.
func NewTreeModel(theme Theme) TreeModel {
	return TreeModel{
		theme:    theme,
		expanded: make(map[string]bool),
		auto:     make(map[string]bool),
	}
}

// SetBeadsDir enables expand/collapse persistence under the given directory.
func (t *TreeModel) SetBeadsDir(dir string) { t.beadsDir = dir }

// SetSize updates the viewport dimensions.
func (t *TreeModel) SetSize(width, height int) {
	t.width = width
	t.height = height
	t.clampCursor()
}

// SetIssues replaces the snapshot. Issues are sorted here so sibling order
// matches the active mode, then indexed; the cursor stays on the same issue
// id when it survives the refresh.
func (t *TreeModel) SetIssues(issues []model.Issue, mode sorting.Mode) {
	var keep string
	if sel := t.Selected(); sel != nil {
		keep = sel.ID
	}

	sorted := sorting.Sort(issues, mode)
	t.warnings = t.warnings[:0]
	t.index = hierarchy.NewIndex(sorted)
	t.index.Warn = func(msg string) { t.warnings = append(t.warnings, msg) }

	t.auto = make(map[string]bool, len(sorted))
	for i := range sorted {
		id := sorted[i].ID
		if len(t.index.ChildrenOf(id)) > 0 {
			t.auto[id] = t.index.ShouldAutoExpand(id)
		}
	}
	t.loadState()
	t.rebuild()

	t.cursor = 0
	if keep != "" {
		for i := range t.rows {
			if t.rows[i].Issue.ID == keep {
				t.cursor = i
				break
			}
		}
	}
	t.clampCursor()
}

// Warnings returns hierarchy surprises from the last rebuild, like orphaned
// issues promoted to root.
func (t *TreeModel) Warnings() []string { return t.warnings }

// Rows returns the currently visible rows.
func (t *TreeModel) Rows() []Row { return t.rows }

// Selected returns the issue under the cursor, or nil for an empty tree.
func (t *TreeModel) Selected() *model.Issue {
	if t.cursor < 0 || t.cursor >= len(t.rows) {
		return nil
	}
	return t.rows[t.cursor].Issue
}

// CursorUp moves the selection up one row.
func (t *TreeModel) CursorUp() {
	if t.cursor > 0 {
		t.cursor--
	}
	t.scrollToCursor()
}

// CursorDown moves the selection down one row.
func (t *TreeModel) CursorDown() {
	if t.cursor < len(t.rows)-1 {
		t.cursor++
	}
	t.scrollToCursor()
}

// CursorHome jumps to the first row.
func (t *TreeModel) CursorHome() {
	t.cursor = 0
	t.scrollToCursor()
}

// CursorEnd jumps to the last row.
func (t *TreeModel) CursorEnd() {
	t.cursor = len(t.rows) - 1
	t.clampCursor()
	t.scrollToCursor()
}

// Toggle flips the expansion of the selected subtree and persists the choice.
func (t *TreeModel) Toggle() {
	sel := t.Selected()
	if sel == nil || len(t.index.ChildrenOf(sel.ID)) == 0 {
		return
	}
	t.expanded[sel.ID] = !t.isExpanded(sel.ID)
	t.rebuild()
	t.clampCursor()
	t.saveState()
}

// ExpandAll expands every subtree.
func (t *TreeModel) ExpandAll() {
	t.setAll(true)
}

// CollapseAll folds every subtree.
func (t *TreeModel) CollapseAll() {
	t.setAll(false)
}

func (t *TreeModel) setAll(expanded bool) {
	if t.index == nil {
		return
	}
	for _, issue := range t.index.Issues() {
		if len(t.index.ChildrenOf(issue.ID)) > 0 {
			t.expanded[issue.ID] = expanded
		}
	}
	t.rebuild()
	t.clampCursor()
	t.saveState()
}

func (t *TreeModel) isExpanded(id string) bool {
	if explicit, ok := t.expanded[id]; ok {
		return explicit
	}
	return t.auto[id]
}

// rebuild recomputes the visible rows from roots downward. The path set stops
// descent when a cycle would revisit a node already on the current branch, so
// cyclic data renders as a finite tree.
func (t *TreeModel) rebuild() {
	t.rows = t.rows[:0]
	if t.index == nil {
		return
	}
	roots := t.index.Roots()
	path := make(map[string]bool)
	for i, root := range roots {
		t.appendRows(root, 0, "", i == len(roots)-1, path)
	}
}

func (t *TreeModel) appendRows(issue *model.Issue, depth int, prefix string, last bool, path map[string]bool) {
	kids := t.index.ChildrenOf(issue.ID)
	expandable := len(kids) > 0 && !path[issue.ID]
	expanded := expandable && t.isExpanded(issue.ID)

	connector := ""
	if depth > 0 {
		if last {
			connector = "└─ "
		} else {
			connector = "├─ "
		}
	}
	t.rows = append(t.rows, Row{
		Issue:     issue,
		Depth:     depth,
		Prefix:    prefix,
		Connector: connector,
		HasKids:   expandable,
		Expanded:  expanded,
	})
	if !expanded {
		return
	}

	childPrefix := prefix
	if depth > 0 {
		if last {
			childPrefix += "   "
		} else {
			childPrefix += "│  "
		}
	}
	path[issue.ID] = true
	for i, kid := range kids {
		t.appendRows(kid, depth+1, childPrefix, i == len(kids)-1, path)
	}
	delete(path, issue.ID)
}

func (t *TreeModel) clampCursor() {
	if t.cursor >= len(t.rows) {
		t.cursor = len(t.rows) - 1
	}
	if t.cursor < 0 {
		t.cursor = 0
	}
	t.scrollToCursor()
}

func (t *TreeModel) scrollToCursor() {
	if t.height <= 0 {
		return
	}
	if t.cursor < t.offset {
		t.offset = t.cursor
	}
	if t.cursor >= t.offset+t.height {
		t.offset = t.cursor - t.height + 1
	}
	if t.offset < 0 {
		t.offset = 0
	}
}

// View renders the visible window of rows.
func (t *TreeModel) View() string {
	if len(t.rows) == 0 {
		return t.theme.MutedText.Render("no issues")
	}

	end := len(t.rows)
	if t.height > 0 && t.offset+t.height < end {
		end = t.offset + t.height
	}

	var b strings.Builder
	for i := t.offset; i < end; i++ {
		line := t.renderRow(t.rows[i])
		if i == t.cursor {
			line = t.theme.Selected.Render(line)
		}
		b.WriteString(line)
		if i < end-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (t *TreeModel) renderRow(row Row) string {
	issue := row.Issue

	fold := "  "
	if row.HasKids {
		if row.Expanded {
			fold = "▾ "
		} else {
			fold = "▸ "
		}
	}

	icon, color := t.theme.TypeIcon(string(issue.IssueType))
	typeBadge := t.theme.Renderer.NewStyle().Foreground(color).Render(icon)
	status := t.theme.Renderer.NewStyle().
		Foreground(t.theme.StatusColor(string(issue.Status))).
		Render(StatusIcon(issue.Status))

	meta := PriorityLabel(issue)
	if meta != "" {
		meta = " " + t.theme.DimText.Render(meta)
	}

	guide := t.theme.MutedText.Render(row.Prefix + row.Connector)
	head := guide + fold + status + " " + typeBadge + " " + t.theme.DimText.Render(issue.ID) + " "

	// One column stays reserved for the selection border.
	titleWidth := t.width - lipglossWidth(head) - lipglossWidth(meta) - 1
	title := issue.Title
	if t.width > 0 {
		title = truncate(title, titleWidth)
	}
	if issue.IsClosed() {
		title = t.theme.MutedText.Render(title)
	} else {
		title = t.theme.Base.Render(title)
	}
	return head + title + meta
}

func (t *TreeModel) loadState() {
	if t.beadsDir == "" {
		return
	}
	data, err := os.ReadFile(filepath.Join(t.beadsDir, treeStateFileName))
	if err != nil {
		return
	}
	var state TreeState
	if err := json.Unmarshal(data, &state); err != nil {
		debug.Log("invalid tree state file, using defaults: %v", err)
		return
	}
	for id, expanded := range state.Expanded {
		if _, ok := t.index.Lookup(id); ok {
			t.expanded[id] = expanded
		}
	}
}

func (t *TreeModel) saveState() {
	if t.beadsDir == "" {
		return
	}
	state := TreeState{Version: TreeStateVersion, Expanded: make(map[string]bool)}
	for id, expanded := range t.expanded {
		if expanded != t.auto[id] {
			state.Expanded[id] = expanded
		}
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		debug.Log("marshal tree state: %v", err)
		return
	}
	if err := os.MkdirAll(t.beadsDir, 0o755); err != nil {
		debug.Log("create state directory: %v", err)
		return
	}
	if err := os.WriteFile(filepath.Join(t.beadsDir, treeStateFileName), data, 0o644); err != nil {
		debug.Log("write tree state: %v", err)
	}
}
