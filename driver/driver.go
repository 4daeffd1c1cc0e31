// Package driver declares the abstract synthesis backend the voice
// cache and midibridge target. It intentionally has no concrete
// implementation — wiring a real softsynth or hardware backend is out
// of scope (spec.md §1) — but the interface shape itself is grounded
// on avaudio/node's CreateMixer/Connect/SetMixerVolume style: a small
// set of imperative calls a higher layer drives, not an object the
// driver calls back into.
package driver

// VoiceHandle identifies one allocated voice to a Driver; its meaning
// (a native voice pointer, an index, whatever) is entirely up to the
// implementation.
type VoiceHandle int

// Driver is implemented by a concrete synthesis backend. Every method
// takes a context-free, already-resolved set of values: the driver is
// never expected to read the item tree itself.
type Driver interface {
	// AllocVoice reserves a voice to play rootNote/fineTune-tuned audio
	// starting at note/vel, returning a handle for subsequent calls.
	AllocVoice(note, vel, rootNote int, fineTune int8) (VoiceHandle, error)

	// VoiceGenSet applies an absolute generator value to a live voice.
	VoiceGenSet(v VoiceHandle, genID int, value int16) error

	// VoiceUpdateParam nudges a single already-set generator by delta,
	// the realtime path a RealtimeBatch.Recompute callback uses.
	VoiceUpdateParam(v VoiceHandle, genID int, delta int16) error

	// VoiceAddMod attaches a modulator to a live voice.
	VoiceAddMod(v VoiceHandle, src, dst int, amount int16, amountSrc, transform int) error

	// StartVoice begins audio output for a previously allocated voice.
	StartVoice(v VoiceHandle) error

	// StopVoice releases a voice, e.g. on note-off or voice stealing.
	StopVoice(v VoiceHandle) error
}
