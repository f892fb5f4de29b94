// Package testutil provides deterministic issue fixtures for the hierarchy
// and sorting tests: chains, trees, diamonds, and the pathological shapes
// (cycles, self-references, dangling parents) that real exports produce.
package testutil

import (
	"fmt"
	"time"

	"github.com/vanderheijden86/beadpanel/pkg/model"
)

// BaseTime is the fixed timestamp fixtures hang off, so tests are
// reproducible regardless of wall clock.
var BaseTime = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

// NewIssue builds an open task with the given id and parents, with ParentIDs
// already derived the way the repository would.
func NewIssue(id string, parentIDs ...string) model.Issue {
	issue := model.Issue{
		ID:        id,
		Title:     "Issue " + id,
		Status:    model.StatusOpen,
		IssueType: model.TypeTask,
		CreatedAt: BaseTime,
		UpdatedAt: BaseTime,
	}
	for _, pid := range parentIDs {
		issue.Dependencies = append(issue.Dependencies, &model.Dependency{
			DependsOnID: pid,
			Type:        model.DepParentChild,
		})
	}
	issue.ParentIDs = model.DeriveParentIDs(issue.Dependencies)
	return issue
}

// Closed marks a copy of the issue closed at the given time.
func Closed(issue model.Issue, at time.Time) model.Issue {
	issue.Status = model.StatusClosed
	issue.ClosedAt = &at
	return issue
}

// WithPriority sets an explicit priority on a copy of the issue.
func WithPriority(issue model.Issue, p int) model.Issue {
	issue.Priority = &p
	return issue
}

// WithType sets the issue type on a copy of the issue.
func WithType(issue model.Issue, t model.IssueType) model.Issue {
	issue.IssueType = t
	return issue
}

// Chain builds a linear chain n0 <- n1 <- ... <- n{size-1}, where each node's
// parent is its predecessor. n0 is the root.
func Chain(size int) []model.Issue {
	issues := make([]model.Issue, 0, size)
	for i := 0; i < size; i++ {
		id := fmt.Sprintf("n%d", i)
		if i == 0 {
			issues = append(issues, NewIssue(id))
		} else {
			issues = append(issues, NewIssue(id, fmt.Sprintf("n%d", i-1)))
		}
	}
	return issues
}

// Tree builds a complete k-ary tree with the given depth. Node ids encode
// their path: "r", "r.0", "r.0.1", ...
func Tree(fanout, depth int) []model.Issue {
	var issues []model.Issue
	var build func(id string, level int)
	build = func(id string, level int) {
		if level == 0 {
			issues = append(issues, NewIssue(id))
		}
		if level >= depth {
			return
		}
		for c := 0; c < fanout; c++ {
			childID := fmt.Sprintf("%s.%d", id, c)
			issues = append(issues, NewIssue(childID, id))
			build(childID, level+1)
		}
	}
	build("r", 0)
	return issues
}

// Diamond builds the classic multi-parent shape: top, two middles, and one
// bottom issue with both middles as parents.
func Diamond() []model.Issue {
	return []model.Issue{
		NewIssue("top"),
		NewIssue("left", "top"),
		NewIssue("right", "top"),
		NewIssue("bottom", "left", "right"),
	}
}

// Cycle builds an n-cycle: c0 <- c1 <- ... <- c{n-1} <- c0.
func Cycle(n int) []model.Issue {
	issues := make([]model.Issue, 0, n)
	for i := 0; i < n; i++ {
		parent := fmt.Sprintf("c%d", (i+n-1)%n)
		issues = append(issues, NewIssue(fmt.Sprintf("c%d", i), parent))
	}
	return issues
}

// SelfLoop builds a single issue that lists itself as parent.
func SelfLoop(id string) []model.Issue {
	return []model.Issue{NewIssue(id, id)}
}
