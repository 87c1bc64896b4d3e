package env

import (
	"testing"

	"github.com/musil-lang/musil/value"
)

func TestDefineShadowsParent(t *testing.T) {
	root := New(nil)
	root.Define("x", value.NewScalar(1))

	child := New(root)
	child.Define("x", value.NewScalar(2))

	got, ok := child.Lookup("x")
	if !ok || got.Floats()[0] != 2 {
		t.Fatalf("child lookup of x = %v, %v, want 2, true", got, ok)
	}

	got, ok = root.Lookup("x")
	if !ok || got.Floats()[0] != 1 {
		t.Fatalf("root lookup of x = %v, %v, want 1, true", got, ok)
	}
}

func TestLookupWalksUpToParent(t *testing.T) {
	root := New(nil)
	root.Define("y", value.NewScalar(42))

	child := New(root)
	got, ok := child.Lookup("y")
	if !ok || got.Floats()[0] != 42 {
		t.Fatalf("lookup of y via parent = %v, %v, want 42, true", got, ok)
	}
}

func TestLookupMissReturnsFalse(t *testing.T) {
	root := New(nil)
	if _, ok := root.Lookup("nope"); ok {
		t.Fatalf("expected lookup miss")
	}
}

func TestAssignWalksUpAndFailsIfUnbound(t *testing.T) {
	root := New(nil)
	root.Define("z", value.NewScalar(1))
	child := New(root)

	if !child.Assign("z", value.NewScalar(9)) {
		t.Fatalf("expected assign to find z in parent")
	}
	got, _ := root.Lookup("z")
	if got.Floats()[0] != 9 {
		t.Fatalf("root.z = %v, want 9", got.Floats()[0])
	}

	if child.Assign("never-defined", value.NewScalar(0)) {
		t.Fatalf("expected assign of unbound symbol to fail")
	}
}

func TestDefineStaysLocalUnlikeAssign(t *testing.T) {
	root := New(nil)
	root.Define("w", value.NewScalar(1))
	child := New(root)
	child.Define("w", value.NewScalar(2))

	rootVal, _ := root.Lookup("w")
	if rootVal.Floats()[0] != 1 {
		t.Fatalf("def in child frame should not affect parent; root.w = %v", rootVal.Floats()[0])
	}
}

func TestNamesPreservesDefinitionOrder(t *testing.T) {
	f := New(nil)
	f.Define("b", value.NewScalar(1))
	f.Define("a", value.NewScalar(2))
	f.Define("b", value.NewScalar(3)) // redefine, should not move position

	got := f.Names()
	want := []string{"b", "a"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("Names() = %v, want %v", got, want)
	}
}
