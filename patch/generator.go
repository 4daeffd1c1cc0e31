package patch

import "github.com/shaban/instpatch/propbus"

// GenID identifies a synthesis parameter in a generator array. The set
// mirrors the SoundFont2 generator enumeration closely enough to carry
// zone/region semantics without depending on a specific file format's
// on-disk layout (format parsers are out of scope).
type GenID int

const (
	GenStartAddrOffset GenID = iota
	GenEndAddrOffset
	GenStartLoopAddrOffset
	GenEndLoopAddrOffset
	GenModLFOToPitch
	GenVibLFOToPitch
	GenModEnvToPitch
	GenFilterFc
	GenFilterQ
	GenModLFOToFilterFc
	GenModEnvToFilterFc
	GenModLFOToVolume
	GenChorusSend
	GenReverbSend
	GenPan
	GenModLFODelay
	GenModLFOFreq
	GenVibLFODelay
	GenVibLFOFreq
	GenModEnvDelay
	GenModEnvAttack
	GenModEnvHold
	GenModEnvDecay
	GenModEnvSustain
	GenModEnvRelease
	GenVolEnvDelay
	GenVolEnvAttack
	GenVolEnvHold
	GenVolEnvDecay
	GenVolEnvSustain
	GenVolEnvRelease
	GenKeyRange
	GenVelRange
	GenCoarseTune
	GenFineTune
	GenSampleModes
	GenScaleTuning
	GenExclusiveClass
	GenOverridingRootKey
	GenNumGenerators
)

// DefaultMode selects which table of default values a GeneratorArray
// falls back to when a slot is unset — preset-level generators default
// differently from instrument-level ones (spec.md §3.4).
type DefaultMode int

const (
	DefaultPreset DefaultMode = iota
	DefaultInstrument
)

// genValue is one (value, set-flag) pair.
type genValue struct {
	value int16
	set   bool
}

// GeneratorArray is a dense, fixed-size array of (value, set-flag) pairs
// indexed by GenID, plus a default-values mode.
type GeneratorArray struct {
	values [GenNumGenerators]genValue
	mode   DefaultMode
}

func NewGeneratorArray(mode DefaultMode) *GeneratorArray {
	return &GeneratorArray{mode: mode}
}

func (g *GeneratorArray) Mode() DefaultMode { return g.mode }

// Set stores v at id and marks it set.
func (g *GeneratorArray) Set(id GenID, v int16) {
	g.values[id] = genValue{value: v, set: true}
}

// Clear removes the set-flag at id; Get thereafter reports the default.
func (g *GeneratorArray) Clear(id GenID) {
	g.values[id] = genValue{}
}

// Get returns (value, set). When set is false the value returned is the
// format default for g.mode, not the zero value.
func (g *GeneratorArray) Get(id GenID) (int16, bool) {
	v := g.values[id]
	if v.set {
		return v.value, true
	}
	return defaultValue(id, g.mode), false
}

func (g *GeneratorArray) IsSet(id GenID) bool { return g.values[id].set }

// Copy replaces every slot in g (value and set-flag) with src's.
func (g *GeneratorArray) Copy(src *GeneratorArray) {
	g.values = src.values
	g.mode = src.mode
}

// CopySetOnly copies only the slots src has set-flagged, leaving g's
// other slots untouched.
func (g *GeneratorArray) CopySetOnly(src *GeneratorArray) {
	for id, v := range src.values {
		if v.set {
			g.values[id] = v
		}
	}
}

// defaultValue returns the format default for id under mode. Presets
// default every generator to 0 (they express deltas); instruments have
// per-generator defaults from the SoundFont2 spec. Only the generators
// with a non-zero instrument default are listed; everything else
// defaults to 0 in both modes.
func defaultValue(id GenID, mode DefaultMode) int16 {
	if mode == DefaultPreset {
		return 0
	}
	switch id {
	case GenKeyRange, GenVelRange:
		return 0x7F00 // low=0, high=127 packed the way SF2 generators pack ranges
	case GenOverridingRootKey, GenExclusiveClass:
		return -1
	default:
		return 0
	}
}

// genNames maps each GenID to the property name a propbus notification
// carries for it, so a subscriber can map a notification back to the
// generator that changed without threading a GenID through Event data.
var genNames = [GenNumGenerators]string{
	GenStartAddrOffset:     "start_addr_offset",
	GenEndAddrOffset:       "end_addr_offset",
	GenStartLoopAddrOffset: "start_loop_addr_offset",
	GenEndLoopAddrOffset:   "end_loop_addr_offset",
	GenModLFOToPitch:       "mod_lfo_to_pitch",
	GenVibLFOToPitch:       "vib_lfo_to_pitch",
	GenModEnvToPitch:       "mod_env_to_pitch",
	GenFilterFc:            "filter_fc",
	GenFilterQ:             "filter_q",
	GenModLFOToFilterFc:    "mod_lfo_to_filter_fc",
	GenModEnvToFilterFc:    "mod_env_to_filter_fc",
	GenModLFOToVolume:      "mod_lfo_to_volume",
	GenChorusSend:          "chorus_send",
	GenReverbSend:          "reverb_send",
	GenPan:                 "pan",
	GenModLFODelay:         "mod_lfo_delay",
	GenModLFOFreq:          "mod_lfo_freq",
	GenVibLFODelay:         "vib_lfo_delay",
	GenVibLFOFreq:          "vib_lfo_freq",
	GenModEnvDelay:         "mod_env_delay",
	GenModEnvAttack:        "mod_env_attack",
	GenModEnvHold:          "mod_env_hold",
	GenModEnvDecay:         "mod_env_decay",
	GenModEnvSustain:       "mod_env_sustain",
	GenModEnvRelease:       "mod_env_release",
	GenVolEnvDelay:         "vol_env_delay",
	GenVolEnvAttack:        "vol_env_attack",
	GenVolEnvHold:          "vol_env_hold",
	GenVolEnvDecay:         "vol_env_decay",
	GenVolEnvSustain:       "vol_env_sustain",
	GenVolEnvRelease:       "vol_env_release",
	GenKeyRange:            "key_range",
	GenVelRange:            "vel_range",
	GenCoarseTune:          "coarse_tune",
	GenFineTune:            "fine_tune",
	GenSampleModes:         "sample_modes",
	GenScaleTuning:         "scale_tuning",
	GenExclusiveClass:      "exclusive_class",
	GenOverridingRootKey:   "overriding_root_key",
}

// Name returns the propbus property name id notifies under.
func (id GenID) Name() string { return genNames[id] }

// GenIDFromName reverse-looks-up a GenID from the property name a
// propbus notification carries.
func GenIDFromName(name string) (GenID, bool) {
	for id, n := range genNames {
		if n == name {
			return GenID(id), true
		}
	}
	return 0, false
}

// realtimeGenSpecs holds one PropertySpec per GenID, shared by every
// Zone.SetGenerator call so a subscriber can compare spec identity.
// Both hints are set: a generator edit is always SYNTH (the voice cache
// cares) and always SYNTH_REALTIME (it can be pushed to a live voice
// incrementally rather than forcing a full rebuild).
var realtimeGenSpecs [GenNumGenerators]propbus.PropertySpec

func init() {
	for id := range realtimeGenSpecs {
		realtimeGenSpecs[id] = propbus.PropertySpec{Name: genNames[id], Synth: true, SynthRealtime: true}
	}
}
