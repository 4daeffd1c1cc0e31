package patch

import (
	"github.com/shaban/instpatch/item"
	"github.com/shaban/instpatch/propbus"
)

// linkChangeSpec marks a zone's Link as a structural, non-realtime
// synth-relevant property: changing it can alter which sample/instrument
// backs every voice the zone produces, so a live cache must be rebuilt
// rather than patched in place.
var linkChangeSpec = propbus.PropertySpec{Name: "link", Synth: true}

// ZoneKind distinguishes an instrument zone (links to a Sample) from a
// preset zone (links to an Instrument) — IZone/PZone in the original
// object model.
type ZoneKind int

const (
	IZoneKind ZoneKind = iota
	PZoneKind
)

func (k ZoneKind) typeName() string {
	if k == PZoneKind {
		return "PZone"
	}
	return "IZone"
}

// SampleInfoOverride is a per-zone override of a linked sample's root
// note / fine tune, the way DLS/Gig regions attach region-local tuning
// without mutating the shared sample. When HasOverride is false (no
// override recorded) a reader must fall back to the linked sample's own
// values, or a hardcoded default if there is no linked sample — never
// read through a nulled pointer. (The original C getter for this field
// reads through a just-freed pointer when the sample is absent and the
// override is also absent; spec.md §9 calls this out as an apparent bug
// and instructs against reproducing it.)
type SampleInfoOverride struct {
	HasOverride bool
	RootNote    int
	FineTune    int8
}

// defaultRootNote is returned when a zone has neither a sample-info
// override nor a linked sample to read a root note from.
const defaultRootNote = 60

// Zone is a child of an Instrument (IZoneKind, linking a Sample) or a
// Preset (PZoneKind, linking an Instrument). Note-range and velocity-
// range are stored explicitly here (some formats instead encode them as
// generators; converters are responsible for that translation, kept out
// of scope per spec.md §1).
type Zone struct {
	item.Base

	kind      ZoneKind
	gens      *GeneratorArray
	mods      ModulatorList
	noteRange Range
	velRange  Range
	link      item.Item
	override  *SampleInfoOverride
}

func NewZone(kind ZoneKind) *Zone {
	mode := DefaultInstrument
	if kind == PZoneKind {
		mode = DefaultPreset
	}
	z := &Zone{kind: kind, gens: NewGeneratorArray(mode)}
	z.noteRange.Set(0, 127)
	z.velRange.Set(0, 127)
	z.Init(z, kind.typeName(), false)
	return z
}

func (z *Zone) Kind() ZoneKind               { return z.kind }
func (z *Zone) Generators() *GeneratorArray  { return z.gens }
func (z *Zone) Modulators() *ModulatorList   { return &z.mods }
func (z *Zone) NoteRange() Range             { return z.noteRange }
func (z *Zone) SetNoteRange(low, high int)   { z.noteRange.Set(low, high) }
func (z *Zone) VelRange() Range              { return z.velRange }
func (z *Zone) SetVelRange(low, high int)    { z.velRange.Set(low, high) }
func (z *Zone) Link() item.Item              { return z.link }
func (z *Zone) SetLink(v item.Item)          { z.link = v }

// SetGenerator sets id to v and, if bus is non-nil, notifies it with the
// SYNTH/SYNTH_REALTIME hints so a synth tracking a live voice built from
// this zone can push the new value straight to the voice instead of
// rebuilding its whole cache.
func (z *Zone) SetGenerator(bus *propbus.Bus, id GenID, v int16) {
	old, _ := z.gens.Get(id)
	z.gens.Set(id, v)
	if bus != nil {
		bus.Notify(z, &realtimeGenSpecs[id], v, old)
	}
}

// SetLinkOn mirrors SetLink but additionally notifies bus with the
// (non-realtime) SYNTH hint, scheduling a cache rebuild for whatever
// owns this zone.
func (z *Zone) SetLinkOn(bus *propbus.Bus, v item.Item) {
	old := z.link
	z.link = v
	if bus != nil {
		bus.Notify(z, &linkChangeSpec, v, old)
	}
}
func (z *Zone) Override() *SampleInfoOverride { return z.override }
func (z *Zone) SetOverride(v *SampleInfoOverride) { z.override = v }

// EffectiveRootNote resolves the zone's root note: an explicit
// sample-info override wins, then the linked sample's own root note,
// then defaultRootNote if neither is present.
func (z *Zone) EffectiveRootNote() int {
	if z.override != nil && z.override.HasOverride {
		return z.override.RootNote
	}
	if s, ok := z.link.(*Sample); ok && s != nil {
		return s.RootNote()
	}
	return defaultRootNote
}

// EffectiveFineTune mirrors EffectiveRootNote for fine tune.
func (z *Zone) EffectiveFineTune() int8 {
	if z.override != nil && z.override.HasOverride {
		return z.override.FineTune
	}
	if s, ok := z.link.(*Sample); ok && s != nil {
		return s.FineTune()
	}
	return 0
}

func (z *Zone) New() item.Item { return NewZone(z.kind) }

func (z *Zone) CopyFrom(src item.Item, resolver item.LinkResolver) error {
	o := src.(*Zone)
	z.kind = o.kind
	z.gens.Copy(o.gens)
	z.mods.Copy(&o.mods)
	z.noteRange = o.noteRange
	z.velRange = o.velRange
	if o.override != nil {
		ov := *o.override
		z.override = &ov
	} else {
		z.override = nil
	}
	if o.link != nil {
		resolved, err := resolver.Resolve(o.link)
		if err != nil {
			return err
		}
		z.link = resolved
	} else {
		z.link = nil
	}
	return nil
}
