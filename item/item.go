// Package item implements the polymorphic tree node every domain entity
// (file, container, instrument, zone, region, sample, generator,
// modulator) embeds: identity, the parent/base weak pointers, the
// recursive lock, and the copy/duplicate/remove/title contract.
//
// Capability dispatch follows an interface-per-concern style: rather
// than a single god-interface, Item exposes identity only, and a node
// opts into Remover, ChildEnumerator, Copyable, Changeable, UniqueDeclarer,
// PropertyReader, Titler as it needs them.
package item

import (
	"fmt"
	"sync"

	"github.com/shaban/instpatch/errs"
)

// Item is implemented by every node in the tree. The unexported base()
// method seals the interface to types that embed *Base (directly or
// through another embedding chain), the same way testing.TB seals
// itself with an unexported private() method.
type Item interface {
	Self() Item
	TypeName() string
	Flags() *Flags
	base() *Base
}

// BaseItem is the nearest File/Base ancestor of an item: the object that
// gets marked dirty on edits and that resolves local link targets.
type BaseItem interface {
	Item
	MarkChanged()
}

// Parent is implemented by anything that can own children well enough to
// take a removal request — container.Container satisfies this.
type Parent interface {
	Item
	RemoveChild(child Item) error
}

// ChildEnumerator lets the generic attach/detach/remove-recursive walk
// visit a container's children without item importing container.
type ChildEnumerator interface {
	Item
	EnumerateChildren(func(Item))
}

// Remover lets a subtype override the default removal behavior — e.g. a
// sample whose removal must also remove the zones that reference it.
type Remover interface {
	Item
	Remove() error
}

// Changeable marks an item's edit path as reaching the dirty-tracking
// bus. Base implements this by default; subtypes rarely need to.
type Changeable interface {
	Item
	Changed()
}

// Titler lets a subtype compute a non-default display title (e.g. a
// preset's "bbb-ppp Name" concatenation).
type Titler interface {
	Item
	Title() string
}

// NameProvider is the fallback title source: the "name" property.
type NameProvider interface {
	Item
	Name() string
}

const maxAncestorDepth = 10

// Base is embedded by every domain type. Constructors must call Init
// before the item is reachable from any other goroutine.
type Base struct {
	self     Item
	typeName string
	lockSlave bool

	flags    Flags
	lock     *RWLock
	parent   Item
	baseItem BaseItem
}

// Init wires up identity. lockSlave types release their own lock and
// alias their parent's on attach (see SetParent).
func (b *Base) Init(self Item, typeName string, lockSlave bool) {
	b.self = self
	b.typeName = typeName
	b.lockSlave = lockSlave
	b.lock = &RWLock{}
	b.flags.Set(OwnsLock)
}

func (b *Base) Self() Item      { return b.self }
func (b *Base) TypeName() string { return b.typeName }
func (b *Base) Flags() *Flags   { return &b.flags }
func (b *Base) Lock() *RWLock   { return b.lock }
func (b *Base) base() *Base     { return b }

// Parent returns the item's parent, or nil for a detached item or root.
// Go's GC makes the get/peek distinction from the original API moot (no
// reference count to bump); both are kept so callers ported from the
// original vocabulary read the same.
func (b *Base) Parent() Item     { return b.parent }
func (b *Base) PeekParent() Item { return b.parent }

// BaseOf returns the nearest File/Base ancestor, or nil if unattached.
func (b *Base) BaseOf() BaseItem     { return b.baseItem }
func (b *Base) PeekBaseOf() BaseItem { return b.baseItem }

func baseOf(it Item) *Base {
	return it.base()
}

// GetAncestorByType walks parent pointers looking for an item whose
// TypeName matches typeName, returning it itself if it already matches.
// Panics if the chain exceeds maxAncestorDepth — that indicates a cyclic
// parent chain, a programming error the original library also treats as
// fatal.
func GetAncestorByType(it Item, typeName string) Item {
	cur := it
	for depth := 0; cur != nil; depth++ {
		if depth > maxAncestorDepth {
			panic("item: ancestor chain exceeds maximum depth (cyclic parent pointer?)")
		}
		if cur.TypeName() == typeName {
			return cur
		}
		cur = baseOf(cur).parent
	}
	return nil
}

func parentBaseOf(it Item) BaseItem {
	if bi, ok := it.(BaseItem); ok {
		return bi
	}
	return baseOf(it).baseItem
}

// SetParent attaches child under parent. child must currently be
// detached (child.Parent() == nil). It propagates base and HooksActive
// into child and recursively through any subtree rooted at child, and —
// if child is a lock-slave that still owns its lock — releases that
// lock and aliases parent's, re-acquiring the shared lock the same
// number of times the caller's thread had acquired the old one.
//
// The caller's container is responsible for actually storing the
// reference in its child-type list; SetParent only updates pointers and
// flags.
func SetParent(child Item, parent Parent) error {
	cb := baseOf(child)
	if cb.parent != nil {
		return errs.New(errs.Invalid, child.TypeName(), fmt.Errorf("item already has a parent"))
	}
	cb.parent = parent

	newBase := parentBaseOf(parent)
	hooksActive := parent.Flags().Has(HooksActive)
	propagateAttach(child, newBase, hooksActive)

	if cb.lockSlave && cb.flags.Has(OwnsLock) {
		pb := baseOf(parent)
		depth := cb.lock.WriteDepth()
		cb.flags.Clear(OwnsLock)
		cb.lock = pb.lock
		if depth > 0 {
			cb.lock.LockN(depth)
		}
	}
	return nil
}

// Unparent clears parent, base, and HooksActive recursively through the
// subtree rooted at child.
func Unparent(child Item) {
	cb := baseOf(child)
	cb.parent = nil
	propagateAttach(child, nil, false)
}

func propagateAttach(it Item, base BaseItem, hooksActive bool) {
	b := baseOf(it)
	b.baseItem = base
	if hooksActive {
		b.flags.Set(HooksActive)
	} else {
		b.flags.Clear(HooksActive)
	}
	if ce, ok := it.(ChildEnumerator); ok {
		ce.EnumerateChildren(func(child Item) {
			propagateAttach(child, base, hooksActive)
		})
	}
}

// Remove asks item.Parent() to remove item, unless item overrides the
// default behavior via Remover (e.g. to also detach inbound references
// from siblings).
func Remove(it Item) error {
	if r, ok := it.(Remover); ok {
		return r.Remove()
	}
	return defaultRemove(it)
}

func defaultRemove(it Item) error {
	b := baseOf(it)
	p, ok := b.parent.(Parent)
	if !ok || p == nil {
		return errs.New(errs.Invalid, it.TypeName(), fmt.Errorf("item has no parent to remove it from"))
	}
	return p.RemoveChild(it)
}

// RemoveFull removes item; if deep is true it additionally removes every
// child of item (when item is itself a container).
func RemoveFull(it Item, deep bool) error {
	if err := Remove(it); err != nil {
		return err
	}
	if !deep {
		return nil
	}
	ce, ok := it.(ChildEnumerator)
	if !ok {
		return nil
	}
	var children []Item
	ce.EnumerateChildren(func(c Item) { children = append(children, c) })
	for _, c := range children {
		if err := RemoveFull(c, true); err != nil {
			return err
		}
	}
	return nil
}

// RemoveRecursive applies RemoveFull bottom-up to the subtree rooted at
// item: descendants are removed before item itself.
func RemoveRecursive(it Item, deep bool) error {
	if ce, ok := it.(ChildEnumerator); ok {
		var children []Item
		ce.EnumerateChildren(func(c Item) { children = append(children, c) })
		for _, c := range children {
			if err := RemoveRecursive(c, deep); err != nil {
				return err
			}
		}
	}
	return RemoveFull(it, deep)
}

// Title computes an item's display title: a Titler's override, else the
// "name" property, else the bare type name.
func Title(it Item) string {
	if t, ok := it.(Titler); ok {
		return t.Title()
	}
	if n, ok := it.(NameProvider); ok {
		return n.Name()
	}
	return it.TypeName()
}

// Changed marks the nearest Base ancestor dirty. Every set_property call
// that doesn't carry the NoSaveChange hint triggers this automatically
// via propbus, not by callers invoking it directly.
func (b *Base) Changed() {
	if b.baseItem != nil {
		b.baseItem.MarkChanged()
	}
}

var _ sync.Locker = (*RWLock)(nil)
