// Package propbus implements the property-change notification bus:
// subscribe/notify by (item, property) with wildcards, snapshot-then-
// dispatch so callbacks never run under the bus lock, and the
// side-effect of marking the nearest Base dirty.
//
// Follows a lock-recompute-then-release shape: mutate/read state under
// a short-held mutex, then do the side-effecting work (callback
// dispatch) after releasing it.
package propbus

import (
	"sync"
	"sync/atomic"

	"github.com/shaban/instpatch/item"
)

// PropertySpec describes the property a notification concerns. Hint
// bits mirror the original's pspec flags.
type PropertySpec struct {
	Name string

	// NoSaveChange suppresses the automatic Changed()/dirty-marking
	// side effect of Notify.
	NoSaveChange bool

	// Synth marks a property whose edits the voice cache cares about
	// (C9): a change schedules a cache rebuild for the owning item.
	Synth bool

	// SynthRealtime additionally marks a property whose edits on the
	// active item should be pushed to live voices incrementally
	// instead of triggering a full rebuild.
	SynthRealtime bool
}

// Event is passed to every matching callback for one Notify call.
type Event struct {
	Item     item.Item
	Spec     *PropertySpec
	New, Old any
	UserData any

	shared *eventShared
}

type eventShared struct {
	data        [4]any
	destructors [4]func(any)
	set         [4]bool
}

// SetEventData stores a value in one of the 4 slots shared by every
// callback invoked for this notification. If destroy is non-nil it runs
// exactly once, after every callback for this Notify call has returned.
func (e *Event) SetEventData(slot int, v any, destroy func(any)) {
	if slot < 0 || slot > 3 {
		return
	}
	e.shared.data[slot] = v
	e.shared.destructors[slot] = destroy
	e.shared.set[slot] = true
}

func (e *Event) EventData(slot int) (any, bool) {
	if slot < 0 || slot > 3 || !e.shared.set[slot] {
		return nil, false
	}
	return e.shared.data[slot], true
}

// Callback is invoked for a matching subscription. It must not block
// beyond short, non-reentrant work; it may safely disconnect other
// subscriptions or register new ones (new registrations never see the
// in-flight event).
type Callback func(ev *Event)

type subscription struct {
	id       uint64
	item     item.Item // nil = wildcard
	property string    // "" = wildcard
	cb       Callback
	userData any
	live     atomic.Bool
}

// Bus is a process-wide (or per-embedder) subscription table. Held
// locks never cross into callback invocation.
type Bus struct {
	mu     sync.Mutex
	byID   map[uint64]*subscription
	nextID atomic.Uint64
}

func New() *Bus {
	return &Bus{byID: make(map[uint64]*subscription)}
}

// Subscribe registers cb for notifications matching it/property, either
// of which may be the wildcard (nil item, "" property). Returns a
// monotonically increasing handler id usable with Disconnect.
func (b *Bus) Subscribe(it item.Item, property string, cb Callback, userData any) uint64 {
	id := b.nextID.Add(1)
	sub := &subscription{id: id, item: it, property: property, cb: cb, userData: userData}
	sub.live.Store(true)
	b.mu.Lock()
	b.byID[id] = sub
	b.mu.Unlock()
	return id
}

// Disconnect removes a subscription by handler id. Safe to call from
// within a callback (including the callback's own subscription).
func (b *Bus) Disconnect(id uint64) bool {
	b.mu.Lock()
	sub, ok := b.byID[id]
	if ok {
		delete(b.byID, id)
	}
	b.mu.Unlock()
	if ok {
		sub.live.Store(false)
	}
	return ok
}

// DisconnectMatch removes the subscription(s) matching the given quad.
// Function identity is compared by code pointer (reflect), which
// distinguishes named functions and method values but not two separate
// closures built from the same literal — callers that need precise
// identity should prefer Disconnect(id).
func (b *Bus) DisconnectMatch(it item.Item, property string, cb Callback, userData any) int {
	target := funcPointer(cb)
	var matched []*subscription
	b.mu.Lock()
	for id, sub := range b.byID {
		if sub.item == it && sub.property == property && funcPointer(sub.cb) == target && sub.userData == userData {
			matched = append(matched, sub)
			delete(b.byID, id)
		}
	}
	b.mu.Unlock()
	for _, sub := range matched {
		sub.live.Store(false)
	}
	return len(matched)
}

// Notify fires a property-change event.
//
//  1. If spec lacks NoSaveChange, item.Changed() runs (marking the
//     nearest Base dirty) before anything else.
//  2. If item's HooksActive flag is clear, Notify returns without
//     dispatching.
//  3. Under the bus lock, the matching subscriptions are snapshotted in
//     order (item,prop) then (item,*) then (*,prop) then (*,*); the
//     lock is released before any callback runs.
//  4. Each matching callback is invoked. A subscription registered
//     during dispatch does not receive this event (it is not in the
//     snapshot); a subscription disconnected during dispatch is still
//     in the snapshot but is skipped, because disconnecting clears its
//     live flag.
func (b *Bus) Notify(it item.Item, spec *PropertySpec, newVal, oldVal any) {
	if !spec.NoSaveChange {
		if ch, ok := it.(item.Changeable); ok {
			ch.Changed()
		}
	}
	if !it.Flags().Has(item.HooksActive) {
		return
	}

	snapshot := b.snapshot(it, spec.Name)
	if len(snapshot) == 0 {
		return
	}

	shared := &eventShared{}
	ev := &Event{Item: it, Spec: spec, New: newVal, Old: oldVal, shared: shared}
	for _, sub := range snapshot {
		if !sub.live.Load() {
			continue
		}
		ev.UserData = sub.userData
		sub.cb(ev)
	}
	for i, was := range shared.set {
		if was && shared.destructors[i] != nil {
			shared.destructors[i](shared.data[i])
		}
	}
}

func (b *Bus) snapshot(it item.Item, property string) []*subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	var exactBoth, itemOnly, propOnly, both []*subscription
	for _, sub := range b.byID {
		itemMatch := sub.item == nil || sub.item == it
		propMatch := sub.property == "" || sub.property == property
		switch {
		case sub.item != nil && sub.property != "" && itemMatch && propMatch:
			exactBoth = append(exactBoth, sub)
		case sub.item != nil && sub.property == "" && itemMatch:
			itemOnly = append(itemOnly, sub)
		case sub.item == nil && sub.property != "" && propMatch:
			propOnly = append(propOnly, sub)
		case sub.item == nil && sub.property == "":
			both = append(both, sub)
		}
	}
	out := make([]*subscription, 0, len(exactBoth)+len(itemOnly)+len(propOnly)+len(both))
	out = append(out, exactBoth...)
	out = append(out, itemOnly...)
	out = append(out, propOnly...)
	out = append(out, both...)
	return out
}
