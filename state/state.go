// Package state implements the undo history (C10, partial — spec.md
// §9 explicitly licenses shipping undo without redo). Grounded on
// IpatchState.c's per-thread active-group stack and IpatchStateGroup.c's
// tree-node group nesting, with GPrivate's thread-local active group
// replaced by item.GoroutineID-keyed lookup and ActionID generalized
// from a plain sequence counter to a uuid.UUID per recorded action.
package state

import (
	"sync"

	"github.com/google/uuid"
	"github.com/shaban/instpatch/errs"
	"github.com/shaban/instpatch/item"
)

// ActionID uniquely identifies one recorded undo action.
type ActionID = uuid.UUID

// Item is one recorded state change: enough information for Undo to
// reverse it. Restore puts the previous value back into the mutated
// object and reports any failure; Description is surfaced to a UI for
// an undo-history list.
type Item struct {
	ID          ActionID
	Description string
	Restore     func() error
	group       *Group
}

// Group nests a run of Items recorded as a single undoable unit,
// mirroring IpatchStateGroup: each group has a descriptive string, a
// parent (nil at the top of a thread's nesting), and a flat list of
// the Items recorded while it was active.
type Group struct {
	Description string
	parent      *Group
	items       []*Item
	retracted   bool
}

func (g *Group) Retracted() bool { return g.retracted }

// History is a stack of undoable actions (flat, top-level groups) plus
// the per-goroutine nesting needed for BeginGroup/EndGroup, grounded
// directly on IpatchState's group_root/active_group_key pair.
type History struct {
	mu     sync.Mutex
	active map[uint64]*Group // goroutine id -> innermost active group
	top    []*Group          // top-level groups, oldest first
}

func NewHistory() *History {
	return &History{active: make(map[uint64]*Group)}
}

// BeginGroup starts a new group nested under the calling goroutine's
// currently active group (or top-level if none). Every thread has its
// own active group; nesting depth is unbounded.
func (h *History) BeginGroup(description string) *Group {
	gid := item.GoroutineID()
	h.mu.Lock()
	defer h.mu.Unlock()
	g := &Group{Description: description, parent: h.active[gid]}
	h.active[gid] = g
	return g
}

// EndGroup ends the calling goroutine's active group, promoting its
// parent (if any) to active, and recording the group at the top level
// if it had no parent.
func (h *History) EndGroup() error {
	gid := item.GoroutineID()
	h.mu.Lock()
	defer h.mu.Unlock()
	g, ok := h.active[gid]
	if !ok {
		return errs.New(errs.Invalid, "Group", errNoActiveGroup)
	}
	if g.parent != nil {
		h.active[gid] = g.parent
	} else {
		delete(h.active, gid)
		h.top = append(h.top, g)
	}
	return nil
}

// ActiveGroup returns the calling goroutine's currently active group,
// or nil.
func (h *History) ActiveGroup() *Group {
	gid := item.GoroutineID()
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.active[gid]
}

// Record appends a new Item to the calling goroutine's active group
// (or directly to the top level if none is active), returning its
// assigned ActionID.
func (h *History) Record(description string, restore func() error) ActionID {
	id := uuid.New()
	it := &Item{ID: id, Description: description, Restore: restore}

	gid := item.GoroutineID()
	h.mu.Lock()
	defer h.mu.Unlock()
	if g, ok := h.active[gid]; ok {
		it.group = g
		g.items = append(g.items, it)
		return id
	}
	solo := &Group{Description: description}
	it.group = solo
	solo.items = append(solo.items, it)
	h.top = append(h.top, solo)
	return id
}

type sentinelErr string

func (e sentinelErr) Error() string { return string(e) }

const errNoActiveGroup = sentinelErr("no active state group")
