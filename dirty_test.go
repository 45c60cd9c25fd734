package hdrgrade

import "testing"

func TestDirtySetMarkHasClear(t *testing.T) {
	var d dirtySet
	if !d.isEmpty() {
		t.Fatal("new dirtySet should be empty")
	}
	d.mark(DirtyColor)
	if d.isEmpty() {
		t.Error("after mark, dirtySet should not be empty")
	}
	if !d.has(DirtyColor) {
		t.Error("has(DirtyColor) should be true after mark")
	}
	if d.has(DirtyCDL) {
		t.Error("has(DirtyCDL) should be false, only DirtyColor was marked")
	}
	d.clear(DirtyColor)
	if d.has(DirtyColor) {
		t.Error("has(DirtyColor) should be false after clear")
	}
	if !d.isEmpty() {
		t.Error("dirtySet should be empty after clearing its only flag")
	}
}

func TestDirtySetMarkAllSetsEveryOrderedFlag(t *testing.T) {
	var d dirtySet
	d.markAll()
	for _, f := range orderedDirtyFlags {
		if !d.has(f) {
			t.Errorf("markAll should set %s", f)
		}
	}
}

func TestDirtyFlagStringKnownAndUnknown(t *testing.T) {
	if got := DirtyCDL.String(); got != "cdl" {
		t.Errorf("DirtyCDL.String() = %q, want %q", got, "cdl")
	}
	if got := DirtyFlag(0).String(); got != "unknown" {
		t.Errorf("DirtyFlag(0).String() = %q, want %q", got, "unknown")
	}
}

func TestOrderedDirtyFlagsCoverAllFlagsExactlyOnce(t *testing.T) {
	seen := make(map[DirtyFlag]bool)
	for _, f := range orderedDirtyFlags {
		if seen[f] {
			t.Errorf("flag %s appears more than once in orderedDirtyFlags", f)
		}
		seen[f] = true
	}
	var union DirtyFlag
	for _, f := range orderedDirtyFlags {
		union |= f
	}
	if union != allDirtyFlags {
		t.Error("orderedDirtyFlags does not cover allDirtyFlags")
	}
}
