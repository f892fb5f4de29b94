// Package hierarchy turns the flat issue list into tree structure: children,
// ancestors, roots, and per-issue depth. The parent graph is a multi-parent
// DAG in healthy data, but real exports contain cycles, self-references, and
// dangling parent ids, so every traversal here carries an explicit visited or
// visiting set and is guaranteed to terminate.
//
// An Index is scoped to one snapshot. It holds no state beyond lookup maps
// and a lazily memoized depth map; build a fresh Index per refresh.
package hierarchy

import (
	"fmt"

	"github.com/vanderheijden86/beadpanel/pkg/debug"
	"github.com/vanderheijden86/beadpanel/pkg/model"
)

// Index provides hierarchy lookups over one issue snapshot. The input list
// must already be tombstone-free (the repository guarantees this).
type Index struct {
	// Warn receives user-visible surprises, like issues promoted to root
	// because every declared parent was filtered away. Nil discards.
	Warn func(string)

	issues   []model.Issue
	byID     map[string]*model.Issue
	children map[string][]*model.Issue // parent id -> children, in input order

	depths map[string]int // lazy, computed once per Index
}

// NewIndex builds lookup maps over the snapshot. Input order is preserved in
// every returned slice: sorting is a separate concern.
func NewIndex(issues []model.Issue) *Index {
	idx := &Index{
		issues:   issues,
		byID:     make(map[string]*model.Issue, len(issues)),
		children: make(map[string][]*model.Issue),
	}
	for i := range issues {
		idx.byID[issues[i].ID] = &issues[i]
	}
	for i := range issues {
		for _, parentID := range issues[i].ParentIDs {
			idx.children[parentID] = append(idx.children[parentID], &issues[i])
		}
	}
	return idx
}

// Lookup returns the issue with the given id, if present in the snapshot.
func (idx *Index) Lookup(id string) (*model.Issue, bool) {
	issue, ok := idx.byID[id]
	return issue, ok
}

// Len returns the snapshot size.
func (idx *Index) Len() int { return len(idx.issues) }

// Issues returns the underlying snapshot in input order.
func (idx *Index) Issues() []model.Issue { return idx.issues }

// ChildrenOf returns every issue listing id as a parent, in input order.
func (idx *Index) ChildrenOf(id string) []*model.Issue {
	return idx.children[id]
}

// AncestorsOf collects every unique ancestor reachable via any parent path.
// With multiple parents this is a set across all upward paths, not a chain.
// The issue itself is never included, even when listed as its own parent.
// Dangling parent ids are skipped and logged for diagnostics.
func (idx *Index) AncestorsOf(id string) []*model.Issue {
	issue, ok := idx.byID[id]
	if !ok {
		return nil
	}

	visited := map[string]bool{id: true}
	var ancestors []*model.Issue

	stack := append([]string(nil), issue.ParentIDs...)
	for len(stack) > 0 {
		parentID := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if visited[parentID] {
			continue
		}
		visited[parentID] = true

		parent, ok := idx.byID[parentID]
		if !ok {
			debug.Log("issue %s references missing parent %s", id, parentID)
			continue
		}
		ancestors = append(ancestors, parent)
		stack = append(stack, parent.ParentIDs...)
	}
	return ancestors
}

// Roots returns the issues that anchor the tree: no parent ids at all, or
// every declared parent absent from the snapshot. The latter happens when a
// parent was a tombstone or fell outside the active filter; those promotions
// are reported via Warn since the issue shows up somewhere the user may not
// expect it.
func (idx *Index) Roots() []*model.Issue {
	var roots []*model.Issue
	for i := range idx.issues {
		issue := &idx.issues[i]
		if len(issue.ParentIDs) == 0 {
			roots = append(roots, issue)
			continue
		}

		orphaned := true
		for _, parentID := range issue.ParentIDs {
			if _, ok := idx.byID[parentID]; ok && parentID != issue.ID {
				orphaned = false
				break
			}
		}
		if orphaned {
			if idx.Warn != nil {
				idx.Warn(fmt.Sprintf("issue %s promoted to root: none of its parents are in the current view", issue.ID))
			}
			roots = append(roots, issue)
		}
	}
	return roots
}

// DepthMap returns depth for every issue: 0 for roots, otherwise
// 1 + min(depth of each parent present in the snapshot). Cycles are broken by
// treating a node already on the current resolution path as depth 0, which is
// deterministic regardless of iteration order because the memo fixes each
// depth on first full resolution.
func (idx *Index) DepthMap() map[string]int {
	if idx.depths != nil {
		return idx.depths
	}

	depths := make(map[string]int, len(idx.issues))
	visiting := make(map[string]bool)

	var resolve func(issue *model.Issue) int
	resolve = func(issue *model.Issue) int {
		if d, ok := depths[issue.ID]; ok {
			return d
		}
		if visiting[issue.ID] {
			// Cycle: fix this node's depth at 0 in the memo so its descendant
			// resolves against a stable value. The node reached first in the
			// recursion becomes the cycle's root.
			depths[issue.ID] = 0
			return 0
		}
		visiting[issue.ID] = true
		defer delete(visiting, issue.ID)

		best := -1
		for _, parentID := range issue.ParentIDs {
			parent, ok := idx.byID[parentID]
			if !ok || parentID == issue.ID {
				continue
			}
			if d := resolve(parent); best == -1 || d < best {
				best = d
			}
		}

		depth := 0
		if best >= 0 {
			depth = best + 1
		}
		// A cycle break may have fixed this id's depth mid-resolution; the
		// first recorded value wins so results stay deterministic.
		if fixed, ok := depths[issue.ID]; ok {
			return fixed
		}
		depths[issue.ID] = depth
		return depth
	}

	for i := range idx.issues {
		resolve(&idx.issues[i])
	}

	idx.depths = depths
	return depths
}

// ShouldAutoExpand reports whether the issue's subtree contains unfinished
// work: true iff at least one descendant (direct or transitive) is not
// closed. Views use this so a subtree of entirely finished work starts
// collapsed. Cycle-safe: a node already seen on the descent contributes
// nothing further.
func (idx *Index) ShouldAutoExpand(id string) bool {
	visited := map[string]bool{id: true}
	return idx.hasOpenDescendant(id, visited)
}

func (idx *Index) hasOpenDescendant(id string, visited map[string]bool) bool {
	for _, child := range idx.ChildrenOf(id) {
		if visited[child.ID] {
			continue
		}
		visited[child.ID] = true
		if !child.IsClosed() {
			return true
		}
		if idx.hasOpenDescendant(child.ID, visited) {
			return true
		}
	}
	return false
}
