package ui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/vanderheijden86/beadpanel/pkg/model"
	"github.com/vanderheijden86/beadpanel/pkg/sorting"
	"github.com/vanderheijden86/beadpanel/pkg/testutil"
)

func newTree(t *testing.T, issues []model.Issue) *TreeModel {
	t.Helper()
	tree := NewTreeModel(TestTheme())
	tree.SetSize(80, 40)
	tree.SetIssues(issues, sorting.ModeDefault)
	return &tree
}

func rowIDs(rows []Row) []string {
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.Issue.ID
	}
	return ids
}

func TestTreeShowsOpenSubtreesExpanded(t *testing.T) {
	issues := []model.Issue{
		testutil.WithType(testutil.NewIssue("epic-1"), model.TypeEpic),
		testutil.NewIssue("task-1", "epic-1"),
		testutil.NewIssue("task-2", "epic-1"),
	}
	tree := newTree(t, issues)

	got := rowIDs(tree.Rows())
	if len(got) != 3 || got[0] != "epic-1" {
		t.Fatalf("rows = %v, want epic-1 expanded over both tasks", got)
	}
}

func TestTreeCollapsesFinishedSubtrees(t *testing.T) {
	issues := []model.Issue{
		testutil.WithType(testutil.NewIssue("epic-1"), model.TypeEpic),
		testutil.Closed(testutil.NewIssue("task-1", "epic-1"), testutil.BaseTime),
		testutil.Closed(testutil.NewIssue("task-2", "epic-1"), testutil.BaseTime),
	}
	tree := newTree(t, issues)

	got := rowIDs(tree.Rows())
	if len(got) != 1 || got[0] != "epic-1" {
		t.Fatalf("rows = %v, want only the collapsed epic", got)
	}
	if !tree.Rows()[0].HasKids || tree.Rows()[0].Expanded {
		t.Errorf("row = %+v, want collapsed parent", tree.Rows()[0])
	}
}

func TestTreeToggleExpandsAndCollapses(t *testing.T) {
	issues := []model.Issue{
		testutil.NewIssue("a"),
		testutil.Closed(testutil.NewIssue("b", "a"), testutil.BaseTime),
	}
	tree := newTree(t, issues)

	if len(tree.Rows()) != 1 {
		t.Fatalf("rows = %v, want collapsed root", rowIDs(tree.Rows()))
	}
	tree.Toggle()
	if got := rowIDs(tree.Rows()); len(got) != 2 || got[1] != "b" {
		t.Fatalf("after toggle rows = %v", got)
	}
	tree.Toggle()
	if len(tree.Rows()) != 1 {
		t.Fatalf("second toggle should collapse again, rows = %v", rowIDs(tree.Rows()))
	}
}

func TestTreeMultiParentAppearsUnderEachParent(t *testing.T) {
	tree := newTree(t, testutil.Diamond())

	count := 0
	for _, r := range tree.Rows() {
		if r.Issue.ID == "bottom" {
			count++
		}
	}
	if count != 2 {
		t.Errorf("bottom appears %d times, want once under each parent", count)
	}
}

func TestTreeCycleRendersFinite(t *testing.T) {
	// A two-cycle hanging off a root: descent must stop when a branch would
	// revisit a node already on the current path.
	issues := []model.Issue{
		testutil.NewIssue("root"),
		testutil.NewIssue("c0", "root", "c1"),
		testutil.NewIssue("c1", "c0"),
	}
	tree := newTree(t, issues)
	tree.ExpandAll()

	rows := tree.Rows()
	if len(rows) == 0 || len(rows) > 10 {
		t.Fatalf("cycle rendered %d rows", len(rows))
	}
	seen := map[string]int{}
	for _, r := range rows {
		seen[r.Issue.ID]++
	}
	if seen["root"] != 1 {
		t.Errorf("root rendered %d times", seen["root"])
	}
	for id, n := range seen {
		if n > 2 {
			t.Errorf("issue %s rendered %d times, cycle guard failed", id, n)
		}
	}
}

func TestTreeCursorSurvivesRefresh(t *testing.T) {
	issues := testutil.Chain(4)
	tree := newTree(t, issues)

	tree.CursorDown()
	tree.CursorDown()
	want := tree.Selected().ID

	tree.SetIssues(issues, sorting.ModeDefault)
	if got := tree.Selected(); got == nil || got.ID != want {
		t.Errorf("selection after refresh = %v, want %s", got, want)
	}
}

func TestTreeConnectorsMarkLastSibling(t *testing.T) {
	issues := []model.Issue{
		testutil.NewIssue("root"),
		testutil.NewIssue("kid-1", "root"),
		testutil.NewIssue("kid-2", "root"),
	}
	tree := newTree(t, issues)

	rows := tree.Rows()
	if len(rows) != 3 {
		t.Fatalf("rows = %v", rowIDs(rows))
	}
	if rows[0].Connector != "" {
		t.Errorf("root connector = %q, want none", rows[0].Connector)
	}
	if rows[1].Connector != "├─ " {
		t.Errorf("first sibling connector = %q", rows[1].Connector)
	}
	if rows[2].Connector != "└─ " {
		t.Errorf("last sibling connector = %q", rows[2].Connector)
	}
}

func TestTreeOrphanPromotionWarns(t *testing.T) {
	tree := newTree(t, []model.Issue{testutil.NewIssue("stray", "gone")})

	if got := rowIDs(tree.Rows()); len(got) != 1 || got[0] != "stray" {
		t.Fatalf("rows = %v, want promoted orphan", got)
	}
	if len(tree.Warnings()) != 1 {
		t.Errorf("warnings = %v, want one promotion notice", tree.Warnings())
	}
}

func TestTreeViewTruncatesToWidth(t *testing.T) {
	long := testutil.NewIssue("wide")
	long.Title = strings.Repeat("x", 300)
	tree := newTree(t, []model.Issue{long})
	tree.SetSize(40, 10)

	for _, line := range strings.Split(tree.View(), "\n") {
		if w := lipglossWidth(line); w > 40 {
			t.Errorf("line width %d exceeds terminal width: %q", w, line)
		}
	}
}

func TestTreeStatePersistsExplicitChoices(t *testing.T) {
	dir := t.TempDir()
	issues := []model.Issue{
		testutil.NewIssue("a"),
		testutil.NewIssue("b", "a"),
	}

	tree := NewTreeModel(TestTheme())
	tree.SetBeadsDir(dir)
	tree.SetSize(80, 40)
	tree.SetIssues(issues, sorting.ModeDefault)
	tree.Toggle() // collapse "a" against the open-descendant default

	data, err := os.ReadFile(filepath.Join(dir, treeStateFileName))
	if err != nil {
		t.Fatalf("state not written: %v", err)
	}
	var state TreeState
	if err := json.Unmarshal(data, &state); err != nil {
		t.Fatal(err)
	}
	if v, ok := state.Expanded["a"]; !ok || v {
		t.Errorf("state = %+v, want explicit collapse for a", state)
	}

	// A fresh model in the same workspace picks the choice back up.
	fresh := NewTreeModel(TestTheme())
	fresh.SetBeadsDir(dir)
	fresh.SetSize(80, 40)
	fresh.SetIssues(issues, sorting.ModeDefault)
	if got := rowIDs(fresh.Rows()); len(got) != 1 {
		t.Errorf("rows = %v, want persisted collapse honored", got)
	}
}

func TestTreeStateIgnoresCorruptFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, treeStateFileName), []byte("{nope"), 0o644); err != nil {
		t.Fatal(err)
	}

	tree := NewTreeModel(TestTheme())
	tree.SetBeadsDir(dir)
	tree.SetSize(80, 40)
	tree.SetIssues(testutil.Chain(2), sorting.ModeDefault)

	if got := rowIDs(tree.Rows()); len(got) != 2 {
		t.Errorf("rows = %v, want defaults despite corrupt state", got)
	}
}
