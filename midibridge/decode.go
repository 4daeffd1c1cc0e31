// Package midibridge decodes incoming MIDI traffic into the handful of
// events the voice cache cares about (note on/off, bank-select,
// program change, pitch bend), using gitlab.com/gomidi/midi/v2's
// message parsing. An optional portmidi-backed live transport lives in
// transport_portmidi.go behind a build tag.
package midibridge

import (
	"gitlab.com/gomidi/midi/v2"
)

// DefaultChannelCount is how many MIDI channels Bridge tracks bank/
// program state for when none is specified.
const DefaultChannelCount = 16

// EventKind identifies which of the handful of messages the bridge
// cares about a decoded Event represents.
type EventKind int

const (
	EventNone EventKind = iota
	EventNoteOn
	EventNoteOff
	EventProgramChange
	EventPitchBend
	EventControlChange
)

// Event is the bridge's decoded, driver-agnostic view of one MIDI
// message, carrying the channel's current bank (resolved from a prior
// CC0/CC32 pair) alongside note/program/bend values.
type Event struct {
	Kind       EventKind
	Channel    uint8
	Note       uint8
	Velocity   uint8
	Program    uint8
	Bank       int
	PitchBend  int16
	Controller uint8
	Value      uint8
}

// channelState tracks the running bank-select MSB/LSB for one channel,
// since a program-change event needs both halves to resolve which bank
// it actually selected.
type channelState struct {
	bankMSB, bankLSB uint8
	bank             int
}

// Bridge decodes a stream of raw MIDI messages, keeping the small
// amount of per-channel state (bank select) a stateless CC-by-CC
// decode can't recover on its own.
type Bridge struct {
	channels []channelState
}

// NewBridge constructs a Bridge tracking channelCount channels (pass 0
// for DefaultChannelCount).
func NewBridge(channelCount int) *Bridge {
	if channelCount <= 0 {
		channelCount = DefaultChannelCount
	}
	return &Bridge{channels: make([]channelState, channelCount)}
}

// Decode turns one raw MIDI message into an Event. Messages the bridge
// doesn't track (aftertouch, sysex, clock...) decode to EventNone.
func (b *Bridge) Decode(msg midi.Message) Event {
	var ch, key, vel, controller, value, program uint8
	var relPitch int16
	var absPitch uint16

	switch {
	case msg.GetNoteOn(&ch, &key, &vel):
		if vel == 0 {
			return Event{Kind: EventNoteOff, Channel: ch, Note: key, Bank: b.bankOf(ch)}
		}
		return Event{Kind: EventNoteOn, Channel: ch, Note: key, Velocity: vel, Bank: b.bankOf(ch)}

	case msg.GetNoteOff(&ch, &key, &vel):
		return Event{Kind: EventNoteOff, Channel: ch, Note: key, Velocity: vel, Bank: b.bankOf(ch)}

	case msg.GetControlChange(&ch, &controller, &value):
		b.trackBankSelect(ch, controller, value)
		return Event{Kind: EventControlChange, Channel: ch, Controller: controller, Value: value}

	case msg.GetProgramChange(&ch, &program):
		return Event{Kind: EventProgramChange, Channel: ch, Program: program, Bank: b.bankOf(ch)}

	case msg.GetPitchBend(&ch, &relPitch, &absPitch):
		return Event{Kind: EventPitchBend, Channel: ch, PitchBend: relPitch}
	}

	return Event{Kind: EventNone}
}

const (
	ccBankSelectMSB = 0
	ccBankSelectLSB = 32
)

func (b *Bridge) trackBankSelect(ch, controller, value uint8) {
	if int(ch) >= len(b.channels) {
		return
	}
	st := &b.channels[ch]
	switch controller {
	case ccBankSelectMSB:
		st.bankMSB = value
	case ccBankSelectLSB:
		st.bankLSB = value
	default:
		return
	}
	st.bank = int(st.bankMSB)<<7 | int(st.bankLSB)
}

// bankOf returns the last bank-select value seen on ch, or 0 if the
// channel index is out of the tracked range.
func (b *Bridge) bankOf(ch uint8) int {
	if int(ch) >= len(b.channels) {
		return 0
	}
	return b.channels[ch].bank
}
