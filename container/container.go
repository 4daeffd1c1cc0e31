// Package container implements the typed child-slot container (C4):
// ordered per-child-type slices with insert/remove, and the add/remove
// notification bus described in spec.md §4.4.
package container

import (
	"fmt"

	"github.com/shaban/instpatch/errs"
	"github.com/shaban/instpatch/item"
)

// ChildTypeSpec is one entry in a container's child_types() table.
// Matches decides whether a candidate item belongs in this slot; Virtual
// marks a slot used only for UI grouping (spec.md §3.2).
type ChildTypeSpec struct {
	Name    string
	Virtual bool
	Matches func(it item.Item) bool
}

// Container is embedded by every domain type that owns typed children
// (file, instrument, preset, zone...). It is not itself an item.Item —
// embedders must also embed item.Base (or a type that does), because
// Container needs the embedder to satisfy item.Parent for SetParent/
// RemoveChild plumbing.
type Container struct {
	self     item.Item
	specs    []ChildTypeSpec
	children map[string]*[]item.Item
	bus      *Bus
}

// Init wires up the container. self must be the enclosing domain type
// (already item.Base-initialized) so inserted children attach to the
// right parent identity.
func (c *Container) Init(self item.Item, specs []ChildTypeSpec, bus *Bus) {
	c.self = self
	c.specs = specs
	c.bus = bus
	c.children = make(map[string]*[]item.Item, len(specs))
	for _, s := range specs {
		empty := make([]item.Item, 0)
		c.children[s.Name] = &empty
	}
}

func (c *Container) ChildTypes() []ChildTypeSpec { return c.specs }

// Bus returns the add/remove notification bus this container was
// constructed with (nil if none), so a duplicate/New() constructor can
// wire the fresh container to the same bus as its sibling.
func (c *Container) Bus() *Bus { return c.bus }

func (c *Container) matchSpec(it item.Item) (*ChildTypeSpec, bool) {
	for i := range c.specs {
		if c.specs[i].Matches(it) {
			return &c.specs[i], true
		}
	}
	return nil, false
}

// Accepts reports whether it matches one of this container's
// (non-virtual or virtual) child-type slots.
func (c *Container) Accepts(it item.Item) bool {
	_, ok := c.matchSpec(it)
	return ok
}

// Insert adds it to the child-type slot matching its dynamic type.
// position 0 prepends, a negative position appends; any other position
// is best-effort (clamped into range). The container takes ownership of
// the reference (item.SetParent requires it be detached beforehand).
func (c *Container) Insert(it item.Item, position int) error {
	spec, ok := c.matchSpec(it)
	if !ok {
		return errs.New(errs.Unsupported, it.TypeName(), fmt.Errorf("not a child type of %s", c.self.TypeName()))
	}
	parent, ok := c.self.(item.Parent)
	if !ok {
		return errs.New(errs.Fail, c.self.TypeName(), fmt.Errorf("container's self does not implement item.Parent"))
	}
	if err := item.SetParent(it, parent); err != nil {
		return err
	}

	list := c.children[spec.Name]
	switch {
	case position < 0 || position >= len(*list):
		*list = append(*list, it)
	case position == 0:
		*list = append([]item.Item{it}, (*list)...)
	default:
		*list = append(*list, nil)
		copy((*list)[position+1:], (*list)[position:len(*list)-1])
		(*list)[position] = it
	}

	if c.bus != nil {
		c.bus.notifyAdd(c.self, it)
	}
	return nil
}

// RemoveChild implements item.Parent. Remove notification fires before
// the structural change; add fires after (spec.md §4.4, §5).
func (c *Container) RemoveChild(it item.Item) error {
	for _, spec := range c.specs {
		list := c.children[spec.Name]
		for i, child := range *list {
			if child != it {
				continue
			}
			if c.bus != nil {
				c.bus.notifyRemove(c.self, it)
			}
			*list = append((*list)[:i], (*list)[i+1:]...)
			item.Unparent(it)
			return nil
		}
	}
	return errs.New(errs.Invalid, it.TypeName(), fmt.Errorf("not a child of %s", c.self.TypeName()))
}

// EnumerateChildren implements item.ChildEnumerator, visiting every
// child across every child-type slot in slot-declaration order.
func (c *Container) EnumerateChildren(f func(item.Item)) {
	for _, spec := range c.specs {
		for _, child := range *c.children[spec.Name] {
			f(child)
		}
	}
}

// ChildrenOfType returns a copy of the ordered children in the named
// slot, or nil if name is not one of this container's child types.
func (c *Container) ChildrenOfType(name string) []item.Item {
	list, ok := c.children[name]
	if !ok {
		return nil
	}
	out := make([]item.Item, len(*list))
	copy(out, *list)
	return out
}

// Count returns the number of children in the named slot.
func (c *Container) Count(name string) int {
	list, ok := c.children[name]
	if !ok {
		return 0
	}
	return len(*list)
}
