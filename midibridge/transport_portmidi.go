//go:build midi_portmidi

package midibridge

import (
	"fmt"

	"github.com/rakyll/portmidi"
	"gitlab.com/gomidi/midi/v2"
)

// PortmidiTransport polls a portmidi input stream and feeds decoded
// Events to a callback. Built only with the midi_portmidi tag, since a
// portmidi backend may not be available on every platform/build.
type PortmidiTransport struct {
	stream *portmidi.Stream
	bridge *Bridge
}

// OpenDefaultInput initializes portmidi and opens its default input
// device, ready for Poll to be called against it.
func OpenDefaultInput(bridge *Bridge, bufferSize int64) (*PortmidiTransport, error) {
	if err := portmidi.Initialize(); err != nil {
		return nil, fmt.Errorf("portmidi initialize: %w", err)
	}
	id := portmidi.DefaultInputDeviceID()
	if id < 0 {
		portmidi.Terminate()
		return nil, fmt.Errorf("no default MIDI input device")
	}
	stream, err := portmidi.NewInputStream(id, bufferSize)
	if err != nil {
		portmidi.Terminate()
		return nil, fmt.Errorf("open input stream: %w", err)
	}
	return &PortmidiTransport{stream: stream, bridge: bridge}, nil
}

// Close releases the underlying portmidi stream and terminates the
// library's global state.
func (t *PortmidiTransport) Close() error {
	err := t.stream.Close()
	portmidi.Terminate()
	return err
}

// Poll reads any pending portmidi events and decodes each into an
// Event, calling handle for each one with a non-EventNone kind.
func (t *PortmidiTransport) Poll(handle func(Event)) error {
	events, err := t.stream.Read(1024)
	if err != nil {
		return fmt.Errorf("read events: %w", err)
	}
	for _, ev := range events {
		raw := []byte{byte(ev.Status), byte(ev.Data1), byte(ev.Data2)}
		msg := midi.Message(raw)
		decoded := t.bridge.Decode(msg)
		if decoded.Kind != EventNone {
			handle(decoded)
		}
	}
	return nil
}
