package voice

import (
	"testing"

	"github.com/shaban/instpatch/container"
	"github.com/shaban/instpatch/patch"
)

func TestCacheForReturnsSameInstance(t *testing.T) {
	inst := patch.NewInstrument("piano", nil)
	a := CacheFor(inst)
	b := CacheFor(inst)
	if a != b {
		t.Fatal("expected CacheFor to return the same Cache for the same item")
	}
}

func TestManagerRebuildFlattensInstrumentZones(t *testing.T) {
	bus := container.NewBus()
	inst := patch.NewInstrument("piano", bus)
	z := patch.NewZone(patch.IZoneKind)
	z.SetNoteRange(0, 60)
	z.SetVelRange(0, 127)
	if err := inst.Insert(z, -1); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	m := NewManager(bus)
	defer m.Close()
	m.Rebuild(inst)

	c := CacheFor(inst)
	zones := c.Zones()
	if len(zones) != 1 {
		t.Fatalf("expected 1 cached zone, got %d", len(zones))
	}
	if zones[0].NoteHigh != 60 {
		t.Fatalf("expected NoteHigh 60, got %d", zones[0].NoteHigh)
	}
}

func TestCacheSelectFiltersByRange(t *testing.T) {
	inst := patch.NewInstrument("piano", nil)
	c := CacheFor(inst)
	c.replace([]CachedZone{
		{NoteLow: 0, NoteHigh: 60, VelLow: 0, VelHigh: 127},
		{NoteLow: 61, NoteHigh: 127, VelLow: 0, VelHigh: 127},
	})

	if got := c.Select(72, 100); len(got) != 1 || got[0].NoteLow != 61 {
		t.Fatalf("expected the upper split to match note 72, got %+v", got)
	}
}

type fakeSoloable struct{ muted bool }

func (f *fakeSoloable) ApplySoloMuted(muted bool) { f.muted = muted }

func TestSoloManagerMutesNonSoloedMembers(t *testing.T) {
	sm := NewSoloManager()
	a, b := &fakeSoloable{}, &fakeSoloable{}
	sm.Register(a)
	sm.Register(b)

	sm.SetSolo(a, true)
	if a.muted {
		t.Fatal("soloed member should not be muted")
	}
	if !b.muted {
		t.Fatal("non-soloed member should be muted once something is soloed")
	}

	sm.SetSolo(a, false)
	if b.muted {
		t.Fatal("expected mute to clear once nothing is soloed")
	}
}

func TestRealtimeBatchDropsUntrackedUpdates(t *testing.T) {
	rb := NewRealtimeBatch()
	v := &Voice{ID: 1}
	rb.Track(v)
	rb.Set(ParamUpdate{VoiceID: 1, GenID: 0, Value: 10})
	rb.Set(ParamUpdate{VoiceID: 99, GenID: 0, Value: 20}) // untracked, dropped

	var applied []ParamUpdate
	rb.Recompute(func(v *Voice, u ParamUpdate) { applied = append(applied, u) })

	if len(applied) != 1 || applied[0].VoiceID != 1 {
		t.Fatalf("expected only the tracked update to apply, got %+v", applied)
	}
}
