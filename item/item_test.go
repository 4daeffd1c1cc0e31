package item

import (
	"errors"
	"testing"
)

// testNode is a minimal fixture implementing the capabilities item_test
// exercises: Item, ChildEnumerator, Copyable, PropertyReader,
// UniqueDeclarer.
type testNode struct {
	Base
	name     string
	bank     int
	program  int
	children []*testNode
	link     *testNode
}

func newTestNode(name string) *testNode {
	n := &testNode{name: name}
	n.Init(n, "testNode", false)
	return n
}

func (n *testNode) EnumerateChildren(f func(Item)) {
	for _, c := range n.children {
		f(c)
	}
}

func (n *testNode) RemoveChild(child Item) error {
	for i, c := range n.children {
		if Item(c) == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			Unparent(child)
			return nil
		}
	}
	return errNotAChild
}

var errNotAChild = errors.New("item is not a child of this node")

func (n *testNode) addChild(c *testNode) error {
	if err := SetParent(c, n); err != nil {
		return err
	}
	n.children = append(n.children, c)
	return nil
}

func (n *testNode) New() Item { return newTestNode(n.name) }

func (n *testNode) CopyFrom(src Item, resolver LinkResolver) error {
	s := src.(*testNode)
	n.name = s.name
	n.bank = s.bank
	n.program = s.program
	if s.link != nil {
		resolved, err := resolver.Resolve(s.link)
		if err != nil {
			return err
		}
		n.link = resolved.(*testNode)
	}
	return nil
}

func (n *testNode) Property(name string) (any, bool) {
	switch name {
	case "bank":
		return n.bank, true
	case "program":
		return n.program, true
	case "name":
		return n.name, true
	}
	return nil, false
}

func (n *testNode) UniqueGroups() []UniqueGroup {
	return []UniqueGroup{{ID: "bank-program", Props: []string{"bank", "program"}}}
}

func TestSetParentPropagatesBaseAndHooks(t *testing.T) {
	root := newTestNode("root")
	root.Flags().Set(HooksActive)

	child := newTestNode("child")
	grandchild := newTestNode("grandchild")
	if err := child.addChild(grandchild); err != nil {
		t.Fatalf("addChild: %v", err)
	}
	if err := root.addChild(child); err != nil {
		t.Fatalf("addChild: %v", err)
	}

	if !child.Flags().Has(HooksActive) {
		t.Error("child should inherit HooksActive from root")
	}
	if !grandchild.Flags().Has(HooksActive) {
		t.Error("grandchild should inherit HooksActive transitively")
	}
	if child.Parent() != Item(root) {
		t.Error("child.Parent() should be root")
	}
}

func TestUnparentClearsState(t *testing.T) {
	root := newTestNode("root")
	root.Flags().Set(HooksActive)
	child := newTestNode("child")
	if err := root.addChild(child); err != nil {
		t.Fatalf("addChild: %v", err)
	}

	if err := Remove(child); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if child.Parent() != nil {
		t.Error("child.Parent() should be nil after Remove")
	}
	if child.Flags().Has(HooksActive) {
		t.Error("HooksActive should be cleared after unparent")
	}
}

func TestGetAncestorByType(t *testing.T) {
	root := newTestNode("root")
	child := newTestNode("child")
	if err := root.addChild(child); err != nil {
		t.Fatalf("addChild: %v", err)
	}
	if got := GetAncestorByType(child, "testNode"); got != Item(child) {
		t.Error("GetAncestorByType should return self when self matches")
	}
}

func TestConflictsMultiPropertyGroupRequiresAllMatch(t *testing.T) {
	a := newTestNode("a")
	a.bank, a.program = 0, 5
	b := newTestNode("b")
	b.bank, b.program = 0, 5
	if !Conflicts(a, b) {
		t.Error("same (bank,program) should conflict")
	}
	b.program = 6
	if Conflicts(a, b) {
		t.Error("different program should not conflict")
	}
}

func TestDuplicateDeepMemoizesSharedDependency(t *testing.T) {
	shared := newTestNode("shared")
	a := newTestNode("a")
	a.link = shared
	b := newTestNode("b")
	b.link = shared
	root := newTestNode("root")
	_ = root.addChild(a)
	_ = root.addChild(b)
	// a and b both reference shared, but shared is not itself a child of
	// root here — DuplicateDeep should still produce exactly one
	// duplicate of the shared dependency.
	a.link = shared
	b.link = shared

	dups, err := DuplicateDeep(Item(a))
	if err != nil {
		t.Fatalf("DuplicateDeep: %v", err)
	}
	if len(dups) != 2 {
		t.Fatalf("expected 2 fresh items (a, shared), got %d", len(dups))
	}
	if dups[0].(*testNode).name != "a" {
		t.Error("top-level duplicate should be first")
	}
}

func TestDuplicateDeepCycleTerminates(t *testing.T) {
	x := newTestNode("x")
	y := newTestNode("y")
	x.link = y
	y.link = x // cycle

	dups, err := DuplicateDeep(Item(x))
	if err != nil {
		t.Fatalf("DuplicateDeep: %v", err)
	}
	if len(dups) != 2 {
		t.Fatalf("expected 2 fresh items for a 2-cycle, got %d", len(dups))
	}
}
