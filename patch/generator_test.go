package patch

import "testing"

func TestGeneratorArrayGetReturnsDefaultWhenUnset(t *testing.T) {
	g := NewGeneratorArray(DefaultInstrument)
	v, set := g.Get(GenPan)
	if set {
		t.Fatal("expected unset slot to report set=false")
	}
	if v != 0 {
		t.Fatalf("expected pan default 0, got %d", v)
	}

	v, set = g.Get(GenKeyRange)
	if set {
		t.Fatal("expected unset key range to report set=false")
	}
	if v != 0x7F00 {
		t.Fatalf("expected key range default 0x7F00, got %#x", v)
	}
}

func TestGeneratorArrayPresetDefaultsAlwaysZero(t *testing.T) {
	g := NewGeneratorArray(DefaultPreset)
	v, _ := g.Get(GenKeyRange)
	if v != 0 {
		t.Fatalf("expected preset-mode default 0 even for key range, got %d", v)
	}
}

func TestGeneratorArraySetClearRoundTrip(t *testing.T) {
	g := NewGeneratorArray(DefaultInstrument)
	g.Set(GenFineTune, 12)
	if !g.IsSet(GenFineTune) {
		t.Fatal("expected IsSet true after Set")
	}
	v, set := g.Get(GenFineTune)
	if !set || v != 12 {
		t.Fatalf("expected (12, true), got (%d, %v)", v, set)
	}

	g.Clear(GenFineTune)
	if g.IsSet(GenFineTune) {
		t.Fatal("expected IsSet false after Clear")
	}
}

func TestGeneratorArrayCopySetOnlyPreservesUntouchedSlots(t *testing.T) {
	dst := NewGeneratorArray(DefaultInstrument)
	dst.Set(GenPan, 5)

	src := NewGeneratorArray(DefaultInstrument)
	src.Set(GenFineTune, 7)

	dst.CopySetOnly(src)

	if v, _ := dst.Get(GenPan); v != 5 {
		t.Fatalf("expected untouched pan=5, got %d", v)
	}
	if v, set := dst.Get(GenFineTune); !set || v != 7 {
		t.Fatalf("expected copied fine-tune=7, got (%d, %v)", v, set)
	}
}

func TestGeneratorArrayCopyReplacesEverything(t *testing.T) {
	dst := NewGeneratorArray(DefaultInstrument)
	dst.Set(GenPan, 5)

	src := NewGeneratorArray(DefaultPreset)
	src.Set(GenFineTune, 7)

	dst.Copy(src)

	if dst.Mode() != DefaultPreset {
		t.Fatal("expected mode copied")
	}
	if dst.IsSet(GenPan) {
		t.Fatal("expected Copy to overwrite pan slot, lost in src")
	}
}
