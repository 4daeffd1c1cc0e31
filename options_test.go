package instpatch

import (
	"bytes"
	"testing"
)

func TestSetReverbParamClearsPreset(t *testing.T) {
	o := NewOptions(nil, nil)
	o.SetReverbPreset("Hall")
	if o.Reverb.Preset != "Hall" {
		t.Fatalf("expected preset set, got %q", o.Reverb.Preset)
	}
	o.SetReverbRoomSize(0.8)
	if o.Reverb.Preset != "" {
		t.Fatalf("expected preset cleared after param set, got %q", o.Reverb.Preset)
	}
	if o.Reverb.RoomSize != 0.8 {
		t.Fatalf("expected room size 0.8, got %v", o.Reverb.RoomSize)
	}
}

func TestFlushAppliesEachDirtyGroupOnce(t *testing.T) {
	reverbCalls, chorusCalls := 0, 0
	o := NewOptions(
		func(Reverb) { reverbCalls++ },
		func(Chorus) { chorusCalls++ },
	)

	o.SetReverbLevel(0.5)
	o.SetReverbDamp(0.1)
	o.SetChorusCount(5)
	o.Flush()

	if reverbCalls != 1 {
		t.Fatalf("expected reverb applied once, got %d", reverbCalls)
	}
	if chorusCalls != 1 {
		t.Fatalf("expected chorus applied once, got %d", chorusCalls)
	}

	o.Flush()
	if reverbCalls != 1 || chorusCalls != 1 {
		t.Fatalf("expected no reapply on clean Flush, got reverb=%d chorus=%d", reverbCalls, chorusCalls)
	}
}

func TestClampBounds(t *testing.T) {
	o := NewOptions(nil, nil)
	o.SetReverbRoomSize(5)
	if o.Reverb.RoomSize != 1 {
		t.Fatalf("expected room size clamped to 1, got %v", o.Reverb.RoomSize)
	}
	o.SetChorusCount(0)
	if o.Chorus.Count != 1 {
		t.Fatalf("expected chorus count clamped to 1, got %v", o.Chorus.Count)
	}
}

func TestOptionsSnapshotRoundTrip(t *testing.T) {
	o := NewOptions(nil, nil)
	o.SetReverbRoomSize(0.6)
	o.SetChorusWaveform(WaveformTriangle)

	var buf bytes.Buffer
	if err := o.SaveToWriter(&buf); err != nil {
		t.Fatalf("SaveToWriter: %v", err)
	}

	restored := NewOptions(nil, nil)
	if err := restored.LoadFromReader(&buf); err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}
	if restored.Reverb.RoomSize != 0.6 {
		t.Fatalf("expected room size 0.6 after restore, got %v", restored.Reverb.RoomSize)
	}
	if restored.Chorus.Waveform != WaveformTriangle {
		t.Fatalf("expected triangle waveform after restore, got %v", restored.Chorus.Waveform)
	}
	if !restored.reverbDirty || !restored.chorusDirty {
		t.Fatal("expected both groups dirty after restore")
	}
}

func TestOptionsRestoreRejectsVersionMismatch(t *testing.T) {
	o := NewOptions(nil, nil)
	err := o.Restore(OptionsSnapshot{Version: "0.0.1"})
	if err == nil {
		t.Fatal("expected error on version mismatch")
	}
}
