// Package voice implements the synth bridge's voice cache (C9): a
// process-wide map from a patch item to the set of resolved zones
// that back it, rebuilt whenever the item's subtree changes, and a
// realtime-safe voice allocator on top of it. Grounded on the root
// engine.Engine.channels map[string]Channel registry (process-wide,
// RWMutex-guarded lookup keyed off identity) and engine/channel's
// SoloManager (membership set + recompute-on-change broadcast).
package voice

import (
	"sync"

	"github.com/shaban/instpatch/item"
	"github.com/shaban/instpatch/patch"
)

// MaxInstVoices caps how many voices a single Cache will hand out for
// one note-on, the way a software synth bounds polyphony per instrument.
const MaxInstVoices = 128

// CachedZone is one zone's resolved, cache-friendly view: the concrete
// generator/modulator data a driver needs, already flattened so a
// note-on doesn't have to walk the item tree.
type CachedZone struct {
	Zone      item.Item
	NoteLow   int
	NoteHigh  int
	VelLow    int
	VelHigh   int
	RootNote  int
	FineTune  int8

	// Gens/Mods are the zone's generator array and modulator list, kept
	// alongside the flattened range data so a note-on can configure a
	// voice without walking back into the item tree.
	Gens *patch.GeneratorArray
	Mods *patch.ModulatorList
}

// Cache holds the flattened zone list for one patch item (an
// Instrument or Preset) along with the generation it was built from,
// so callers can tell a stale cache from a fresh one.
type Cache struct {
	mu         sync.RWMutex
	owner      item.Item
	zones      []CachedZone
	generation uint64
}

func newCache(owner item.Item) *Cache {
	return &Cache{owner: owner}
}

// Zones returns a snapshot of the cache's flattened zone list.
func (c *Cache) Zones() []CachedZone {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]CachedZone, len(c.zones))
	copy(out, c.zones)
	return out
}

// Generation reports which rebuild produced the current zone list.
func (c *Cache) Generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generation
}

func (c *Cache) replace(zones []CachedZone) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.zones = zones
	c.generation++
}

// Select returns every cached zone whose note/velocity range covers
// (note, vel), up to MaxInstVoices matches.
func (c *Cache) Select(note, vel int) []CachedZone {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []CachedZone
	for _, z := range c.zones {
		if note < z.NoteLow || note > z.NoteHigh || vel < z.VelLow || vel > z.VelHigh {
			continue
		}
		out = append(out, z)
		if len(out) >= MaxInstVoices {
			break
		}
	}
	return out
}

// registry is the process-wide item -> *Cache map, the direct
// generalization of Engine.channels: a single RWMutex-guarded table
// keyed by object identity instead of a string ID.
var registry = struct {
	mu    sync.RWMutex
	items map[item.Item]*Cache
}{items: make(map[item.Item]*Cache)}

// CacheFor returns the Cache for it, creating (but not yet building)
// one if none exists.
func CacheFor(it item.Item) *Cache {
	registry.mu.RLock()
	c, ok := registry.items[it]
	registry.mu.RUnlock()
	if ok {
		return c
	}
	registry.mu.Lock()
	defer registry.mu.Unlock()
	if c, ok := registry.items[it]; ok {
		return c
	}
	c = newCache(it)
	registry.items[it] = c
	return c
}

// Release drops it's entry from the registry, e.g. when it's removed
// from the tree for good.
func Release(it item.Item) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	delete(registry.items, it)
}

// HasCache reports whether it already has a registered Cache, without
// creating one the way CacheFor would.
func HasCache(it item.Item) bool {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	_, ok := registry.items[it]
	return ok
}
