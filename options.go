package instpatch

import "strings"

// Waveform selects a chorus's oscillator shape (spec.md §6).
type Waveform int

const (
	WaveformSine Waveform = iota
	WaveformTriangle
)

// Interp selects the sample interpolation method a driver uses during
// playback (spec.md §6).
type Interp int

const (
	InterpNone Interp = iota
	InterpLinear
	Interp4thOrder
	Interp7thOrder
)

// Reverb holds the scalar reverb parameters exposed by the synth's
// configuration interface. Preset, when non-empty, overrides the
// individual params at the driver; setting any individual param clears
// Preset (spec.md §6).
type Reverb struct {
	Preset   string
	RoomSize float64 // 0.0..1.0
	Damp     float64 // 0.0..1.0
	Width    float64 // 0.0..100.0
	Level    float64 // 0.0..1.0
}

// Chorus mirrors Reverb for the chorus parameter group.
type Chorus struct {
	Preset   string
	Count    int      // 1..99 delay lines
	Level    float64  // 0.0..10.0
	Freq     float64  // 0.3..5.0 Hz
	Depth    float64  // 0.0..20.0
	Waveform Waveform
}

// Options is the synth's dynamic configuration set (spec.md §6).
// Individual setters clear the matching preset name and mark the
// owning group dirty; Flush applies both dirty groups to the driver
// exactly once, deferred to the end of a multi-property Set the way
// the original groups reverb/chorus writes.
type Options struct {
	Reverb Reverb
	Chorus Chorus
	Interp Interp

	reverbDirty bool
	chorusDirty bool

	applyReverb func(Reverb)
	applyChorus func(Chorus)
}

// NewOptions constructs an Options set with sane defaults and the
// driver callbacks Flush will invoke.
func NewOptions(applyReverb func(Reverb), applyChorus func(Chorus)) *Options {
	return &Options{
		Reverb:      Reverb{RoomSize: 0.2, Damp: 0, Width: 0.5, Level: 0.9},
		Chorus:      Chorus{Count: 3, Level: 2, Freq: 0.3, Depth: 8, Waveform: WaveformSine},
		applyReverb: applyReverb,
		applyChorus: applyChorus,
	}
}

// SetReverbPreset stores the name of a reverb preset and marks reverb
// dirty; the name is not looked up here. Any individual param setter
// clears the name again.
func (o *Options) SetReverbPreset(name string) {
	o.Reverb.Preset = name
	o.reverbDirty = true
}

func (o *Options) setReverbParam(set func(*Reverb)) {
	set(&o.Reverb)
	o.Reverb.Preset = ""
	o.reverbDirty = true
}

func (o *Options) SetReverbRoomSize(v float64) { o.setReverbParam(func(r *Reverb) { r.RoomSize = clamp01(v) }) }
func (o *Options) SetReverbDamp(v float64)     { o.setReverbParam(func(r *Reverb) { r.Damp = clamp01(v) }) }
func (o *Options) SetReverbWidth(v float64) {
	o.setReverbParam(func(r *Reverb) { r.Width = clamp(v, 0, 100) })
}
func (o *Options) SetReverbLevel(v float64) { o.setReverbParam(func(r *Reverb) { r.Level = clamp01(v) }) }

func (o *Options) SetChorusPreset(name string) {
	o.Chorus.Preset = name
	o.chorusDirty = true
}

func (o *Options) setChorusParam(set func(*Chorus)) {
	set(&o.Chorus)
	o.Chorus.Preset = ""
	o.chorusDirty = true
}

func (o *Options) SetChorusCount(n int)     { o.setChorusParam(func(c *Chorus) { c.Count = clampInt(n, 1, 99) }) }
func (o *Options) SetChorusLevel(v float64) { o.setChorusParam(func(c *Chorus) { c.Level = clamp(v, 0, 10) }) }
func (o *Options) SetChorusFreq(v float64)  { o.setChorusParam(func(c *Chorus) { c.Freq = clamp(v, 0.3, 5) }) }
func (o *Options) SetChorusDepth(v float64) { o.setChorusParam(func(c *Chorus) { c.Depth = clamp(v, 0, 20) }) }
func (o *Options) SetChorusWaveform(w Waveform) {
	o.setChorusParam(func(c *Chorus) { c.Waveform = w })
}

func (o *Options) SetInterp(i Interp) { o.Interp = i }

// Flush applies any pending reverb/chorus changes to the driver
// exactly once each, clearing the dirty flags. Call after a batch of
// setter calls.
func (o *Options) Flush() {
	if o.reverbDirty && o.applyReverb != nil {
		o.applyReverb(o.Reverb)
	}
	if o.chorusDirty && o.applyChorus != nil {
		o.applyChorus(o.Chorus)
	}
	o.reverbDirty = false
	o.chorusDirty = false
}

func clamp01(v float64) float64 { return clamp(v, 0, 1) }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// parseStringBool accepts a driver-specific list of case-insensitive
// yes/no spellings and reports whether s matched one, and which way.
func parseStringBool(s string, yes, no []string) (value, ok bool) {
	l := strings.ToLower(s)
	for _, y := range yes {
		if l == strings.ToLower(y) {
			return true, true
		}
	}
	for _, n := range no {
		if l == strings.ToLower(n) {
			return false, true
		}
	}
	return false, false
}

// FormatStringBool renders v the way a string-boolean driver option is
// serialized: "yes"/"no".
func FormatStringBool(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
