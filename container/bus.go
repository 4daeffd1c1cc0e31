package container

import (
	"sync"
	"sync/atomic"

	"github.com/shaban/instpatch/item"
)

// AddCallback fires after a child has been structurally inserted into
// container.
type AddCallback func(container, child item.Item)

// RemoveCallback fires before a child is structurally removed from
// container.
type RemoveCallback func(container, child item.Item)

type addSub struct {
	id        uint64
	container item.Item // nil = wildcard
	cb        AddCallback
}

type removeSub struct {
	id        uint64
	container item.Item // nil = wildcard
	child     item.Item // nil = wildcard
	cb        RemoveCallback
}

// Bus is the container analog of propbus.Bus: subscriptions indexed by
// (container?) for add events and (container?, child?) for remove
// events. The changed flag of the nearest Base is tickled on both, via
// item.Changeable, exactly like propbus.
type Bus struct {
	mu      sync.Mutex
	nextID  atomic.Uint64
	adds    map[uint64]*addSub
	removes map[uint64]*removeSub
}

func NewBus() *Bus {
	return &Bus{adds: make(map[uint64]*addSub), removes: make(map[uint64]*removeSub)}
}

// SubscribeAdd registers cb for add events on container (nil = any
// container).
func (b *Bus) SubscribeAdd(container item.Item, cb AddCallback) uint64 {
	id := b.nextID.Add(1)
	b.mu.Lock()
	b.adds[id] = &addSub{id: id, container: container, cb: cb}
	b.mu.Unlock()
	return id
}

// SubscribeRemove registers cb for remove events on (container, child),
// either of which may be the wildcard nil.
func (b *Bus) SubscribeRemove(container, child item.Item, cb RemoveCallback) uint64 {
	id := b.nextID.Add(1)
	b.mu.Lock()
	b.removes[id] = &removeSub{id: id, container: container, child: child, cb: cb}
	b.mu.Unlock()
	return id
}

func (b *Bus) Disconnect(id uint64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.adds[id]; ok {
		delete(b.adds, id)
		return true
	}
	if _, ok := b.removes[id]; ok {
		delete(b.removes, id)
		return true
	}
	return false
}

func (b *Bus) notifyAdd(container, child item.Item) {
	if ch, ok := container.(item.Changeable); ok {
		ch.Changed()
	}
	b.mu.Lock()
	snapshot := make([]*addSub, 0, len(b.adds))
	for _, s := range b.adds {
		if s.container == nil || s.container == container {
			snapshot = append(snapshot, s)
		}
	}
	b.mu.Unlock()
	for _, s := range snapshot {
		s.cb(container, child)
	}
}

func (b *Bus) notifyRemove(container, child item.Item) {
	if ch, ok := container.(item.Changeable); ok {
		ch.Changed()
	}
	b.mu.Lock()
	snapshot := make([]*removeSub, 0, len(b.removes))
	for _, s := range b.removes {
		containerMatch := s.container == nil || s.container == container
		childMatch := s.child == nil || s.child == child
		if containerMatch && childMatch {
			snapshot = append(snapshot, s)
		}
	}
	b.mu.Unlock()
	for _, s := range snapshot {
		s.cb(container, child)
	}
}
