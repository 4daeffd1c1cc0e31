package voice

import (
	"github.com/shaban/instpatch/container"
	"github.com/shaban/instpatch/item"
	"github.com/shaban/instpatch/patch"
)

// ZoneSource is anything a Manager can flatten into cached zones: an
// Instrument (zones link samples) or a Preset (zones link instruments,
// themselves expanded one level further).
type ZoneSource interface {
	item.Item
}

// Manager rebuilds and publishes Cache contents in response to the
// container add/remove bus, so a synth never walks the live item tree
// on the audio thread — only Cache.Select does, and that's a snapshot
// read under RLock.
type Manager struct {
	bus *container.Bus

	addID, removeID uint64
}

// NewManager subscribes to bus so any zone insertion/removal anywhere
// schedules a rebuild of the affected top-level item's cache.
func NewManager(bus *container.Bus) *Manager {
	m := &Manager{bus: bus}
	m.addID = bus.SubscribeAdd(nil, func(parent, child item.Item) {
		m.rebuildRoot(parent)
	})
	m.removeID = bus.SubscribeRemove(nil, nil, func(parent, child item.Item) {
		m.rebuildRoot(parent)
	})
	return m
}

// Close unsubscribes the manager from its bus.
func (m *Manager) Close() {
	m.bus.Disconnect(m.addID)
	m.bus.Disconnect(m.removeID)
}

func (m *Manager) rebuildRoot(parent item.Item) {
	root := topmostAncestor(parent)
	m.Rebuild(root)
}

type parentPeeker interface {
	PeekParent() item.Item
}

func topmostAncestor(it item.Item) item.Item {
	for {
		pp, ok := it.(parentPeeker)
		if !ok {
			return it
		}
		p := pp.PeekParent()
		if p == nil {
			return it
		}
		it = p
	}
}

// Rebuild recomputes and publishes the flattened zone list for root
// (an Instrument or Preset), replacing whatever the Cache held before
// in a single atomic swap.
func (m *Manager) Rebuild(root item.Item) {
	c := CacheFor(root)
	switch v := root.(type) {
	case *patch.Instrument:
		c.replace(flattenInstrument(v))
	case *patch.Preset:
		c.replace(flattenPreset(v))
	default:
		c.replace(nil)
	}
}

func flattenInstrument(inst *patch.Instrument) []CachedZone {
	var out []CachedZone
	for _, zi := range inst.Zones() {
		z, ok := zi.(*patch.Zone)
		if !ok {
			continue
		}
		out = append(out, cachedZoneFrom(z))
	}
	return out
}

func flattenPreset(p *patch.Preset) []CachedZone {
	var out []CachedZone
	for _, zi := range p.PZones() {
		z, ok := zi.(*patch.Zone)
		if !ok {
			continue
		}
		linked, ok := z.Link().(*patch.Instrument)
		if !ok {
			out = append(out, cachedZoneFrom(z))
			continue
		}
		for _, instZone := range flattenInstrument(linked) {
			out = append(out, intersectZone(z, instZone))
		}
	}
	return out
}

func cachedZoneFrom(z *patch.Zone) CachedZone {
	nr, vr := z.NoteRange(), z.VelRange()
	return CachedZone{
		Zone:     z,
		NoteLow:  nr.Low,
		NoteHigh: nr.High,
		VelLow:   vr.Low,
		VelHigh:  vr.High,
		RootNote: z.EffectiveRootNote(),
		FineTune: z.EffectiveFineTune(),
		Gens:     z.Generators(),
		Mods:     z.Modulators(),
	}
}

// intersectZone narrows an instrument-level cached zone by the
// enclosing preset zone's note/velocity range, the way a PZone limits
// which of its linked Instrument's IZones actually sound.
func intersectZone(pz *patch.Zone, inner CachedZone) CachedZone {
	pnr, pvr := pz.NoteRange(), pz.VelRange()
	out := inner
	out.Zone = pz
	if pnr.Low > out.NoteLow {
		out.NoteLow = pnr.Low
	}
	if pnr.High < out.NoteHigh {
		out.NoteHigh = pnr.High
	}
	if pvr.Low > out.VelLow {
		out.VelLow = pvr.Low
	}
	if pvr.High < out.VelHigh {
		out.VelHigh = pvr.High
	}
	return out
}
