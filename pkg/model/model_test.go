package model

import (
	"testing"

	"github.com/goccy/go-json"
)

func TestDeriveParentIDsPrefersParentChildEdges(t *testing.T) {
	deps := []*Dependency{
		{DependsOnID: "blocker-1", Type: DepBlocks},
		{DependsOnID: "epic-1", Type: DepParentChild},
		{DependsOnID: "epic-2", Type: DepParentChild},
		{DependsOnID: "note-1", Type: DepRelated},
	}
	got := DeriveParentIDs(deps)
	if len(got) != 2 || got[0] != "epic-1" || got[1] != "epic-2" {
		t.Errorf("DeriveParentIDs = %v, want [epic-1 epic-2]", got)
	}
}

func TestDeriveParentIDsFallsBackToBlocks(t *testing.T) {
	deps := []*Dependency{
		{DependsOnID: "blocker-1", Type: DepBlocks},
		{DependsOnID: "note-1", Type: DepRelated},
		{DependsOnID: "origin-1", Type: DepDiscoveredFrom},
	}
	got := DeriveParentIDs(deps)
	if len(got) != 1 || got[0] != "blocker-1" {
		t.Errorf("DeriveParentIDs = %v, want [blocker-1]", got)
	}
}

func TestDeriveParentIDsIgnoresMalformedEdges(t *testing.T) {
	deps := []*Dependency{
		nil,
		{DependsOnID: "", Type: DepParentChild},
		{DependsOnID: "", Type: DepBlocks},
	}
	if got := DeriveParentIDs(deps); len(got) != 0 {
		t.Errorf("DeriveParentIDs = %v, want empty", got)
	}
}

func TestEffectivePriority(t *testing.T) {
	p0 := 0
	withP0 := Issue{ID: "a", Priority: &p0}
	if got := withP0.EffectivePriority(); got != 0 {
		t.Errorf("EffectivePriority = %d, want 0", got)
	}

	unset := Issue{ID: "b"}
	if got := unset.EffectivePriority(); got != PriorityNone {
		t.Errorf("EffectivePriority = %d, want PriorityNone", got)
	}
	// A missing priority must sort after any explicit one, P0 included.
	if withP0.EffectivePriority() >= unset.EffectivePriority() {
		t.Error("explicit P0 should order before a missing priority")
	}
}

func TestPriorityZeroSurvivesUnmarshal(t *testing.T) {
	var withZero, without Issue
	if err := json.Unmarshal([]byte(`{"id":"a","title":"t","priority":0}`), &withZero); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal([]byte(`{"id":"b","title":"t"}`), &without); err != nil {
		t.Fatal(err)
	}
	if withZero.Priority == nil || *withZero.Priority != 0 {
		t.Errorf("priority 0 parsed as %v, want explicit 0", withZero.Priority)
	}
	if without.Priority != nil {
		t.Errorf("missing priority parsed as %v, want nil", *without.Priority)
	}
}

func TestTombstoneIsNotClosed(t *testing.T) {
	ts := Issue{ID: "a", Status: StatusTombstone}
	if !ts.IsTombstone() || ts.IsClosed() {
		t.Errorf("tombstone: IsTombstone=%v IsClosed=%v", ts.IsTombstone(), ts.IsClosed())
	}
	closed := Issue{ID: "b", Status: StatusClosed}
	if closed.IsTombstone() || !closed.IsClosed() {
		t.Errorf("closed: IsTombstone=%v IsClosed=%v", closed.IsTombstone(), closed.IsClosed())
	}
}
