// Package model defines the issue and dependency types consumed from bd's
// export and ready formats. Field names and enum values mirror bd's JSONL
// contract exactly; this package never invents fields bd does not emit.
package model

import (
	"math"
	"time"
)

// Status is the lifecycle state of an issue.
type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusBlocked    Status = "blocked"
	StatusClosed     Status = "closed"
	// StatusTombstone marks a soft-deleted issue. Tombstones are filtered at
	// the repository boundary and must never reach a view.
	StatusTombstone Status = "tombstone"
)

// IssueType categorizes an issue.
type IssueType string

const (
	TypeBug     IssueType = "bug"
	TypeFeature IssueType = "feature"
	TypeEpic    IssueType = "epic"
	TypeChore   IssueType = "chore"
	TypeTask    IssueType = "task"
)

// DependencyType is the kind of directed edge between two issues.
type DependencyType string

const (
	DepBlocks         DependencyType = "blocks"
	DepRelated        DependencyType = "related"
	DepParentChild    DependencyType = "parent-child"
	DepDiscoveredFrom DependencyType = "discovered-from"
)

// Dependency is a typed directed edge. DependsOnID is the target: for a
// parent-child edge the child carries the edge and DependsOnID names the parent.
type Dependency struct {
	IssueID     string         `json:"issue_id,omitempty"`
	DependsOnID string         `json:"depends_on_id"`
	Type        DependencyType `json:"type"`
	CreatedAt   time.Time      `json:"created_at,omitempty"`
}

// Issue is one work item as exported by bd. Values are immutable snapshots;
// a refresh replaces the whole list rather than patching issues in place.
type Issue struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Description  string        `json:"description,omitempty"`
	Status       Status        `json:"status,omitempty"`
	Priority     *int          `json:"priority,omitempty"`
	IssueType    IssueType     `json:"issue_type,omitempty"`
	Assignee     string        `json:"assignee,omitempty"`
	Labels       []string      `json:"labels,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
	ClosedAt     *time.Time    `json:"closed_at,omitempty"`
	Dependencies []*Dependency `json:"dependencies,omitempty"`

	// ParentIDs is derived from Dependencies at the repository boundary and is
	// never part of the wire format. An issue can have zero, one, or several
	// parents; the graph is a DAG in healthy data but nothing here assumes it.
	ParentIDs []string `json:"-"`
}

// PriorityNone sorts after every explicit priority. bd emits 0 for the most
// urgent issues, so a missing field cannot default to the zero value.
const PriorityNone = math.MaxInt32

// EffectivePriority returns the priority for ordering, mapping a missing field
// to PriorityNone.
func (i *Issue) EffectivePriority() int {
	if i.Priority == nil {
		return PriorityNone
	}
	return *i.Priority
}

// IsTombstone reports whether the issue has been soft-deleted.
func (i *Issue) IsTombstone() bool {
	return i.Status == StatusTombstone
}

// IsClosed reports whether the issue is closed. Tombstones are not "closed";
// they are filtered out long before anything asks.
func (i *Issue) IsClosed() bool {
	return i.Status == StatusClosed
}

// DeriveParentIDs computes the parent list from the dependency edges.
// Parent-child edges win; when an issue has none, blocks edges are used as a
// structural fallback so blocked work still nests under its blocker.
func DeriveParentIDs(deps []*Dependency) []string {
	var parents []string
	for _, d := range deps {
		if d != nil && d.Type == DepParentChild && d.DependsOnID != "" {
			parents = append(parents, d.DependsOnID)
		}
	}
	if len(parents) > 0 {
		return parents
	}
	for _, d := range deps {
		if d != nil && d.Type == DepBlocks && d.DependsOnID != "" {
			parents = append(parents, d.DependsOnID)
		}
	}
	return parents
}
