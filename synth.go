// Package instpatch ties the item tree, voice cache, MIDI bridge, and
// driver together into the synth-facing facade spec.md §6 describes: a
// config struct, an error-handler boundary (errs.Handler), and
// container-bus-driven voice cache rebuilds feeding note-on/off.
package instpatch

import (
	"fmt"
	"sync"

	"gitlab.com/gomidi/midi/v2"

	"github.com/shaban/instpatch/container"
	"github.com/shaban/instpatch/driver"
	"github.com/shaban/instpatch/errs"
	"github.com/shaban/instpatch/item"
	"github.com/shaban/instpatch/midibridge"
	"github.com/shaban/instpatch/patch"
	"github.com/shaban/instpatch/propbus"
	"github.com/shaban/instpatch/voice"
)

// Config holds the fixed construction-time parameters for a Synth.
type Config struct {
	Driver       driver.Driver
	ErrorHandler errs.Handler
	ChannelCount int // MIDI channels the bridge tracks; 0 = midibridge.DefaultChannelCount
}

// Synth is the facade a host program drives: it owns the voice-cache
// manager, the MIDI decode bridge, the active/solo item selection, and
// the dynamic Options set, dispatching note-on/off and property
// notifications to the driver.
type Synth struct {
	mu sync.RWMutex

	drv      driver.Driver
	errs     errs.Handler
	bridge   *midibridge.Bridge
	manager  *voice.Manager
	solo     *voice.SoloManager
	propBus  *propbus.Bus
	propSub  uint64
	realtime *voice.RealtimeBatch

	activeItem item.Item
	soloItem   item.Item

	voices       map[item.Item]map[driver.VoiceHandle]uint8 // handle -> note it was started for
	voiceHandles map[int]driver.VoiceHandle                 // RealtimeBatch voice id -> driver handle
	nextVoiceID  int

	Options *Options
}

// NewSynth constructs a Synth wired to bus for cache invalidation and
// cfg.Driver for playback. cfg.ErrorHandler defaults to
// errs.DefaultHandler.
func NewSynth(bus *container.Bus, cfg Config) *Synth {
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = errs.DefaultHandler{}
	}
	s := &Synth{
		drv:          cfg.Driver,
		errs:         cfg.ErrorHandler,
		bridge:       midibridge.NewBridge(cfg.ChannelCount),
		manager:      voice.NewManager(bus),
		solo:         voice.NewSoloManager(),
		propBus:      propbus.New(),
		realtime:     voice.NewRealtimeBatch(),
		voices:       make(map[item.Item]map[driver.VoiceHandle]uint8),
		voiceHandles: make(map[int]driver.VoiceHandle),
	}
	s.propSub = s.propBus.Subscribe(nil, "", s.onPropertyChange, nil)
	s.Options = NewOptions(s.applyReverb, s.applyChorus)
	return s
}

// PropertyBus exposes the bus Synth listens on for SYNTH/SYNTH_REALTIME
// property notifications. Item setters (e.g. Zone.SetGenerator) notify
// through it so an edit on the active item's zones reaches live voices.
func (s *Synth) PropertyBus() *propbus.Bus { return s.propBus }

// Close releases the Synth's subscriptions.
func (s *Synth) Close() {
	s.manager.Close()
	s.propBus.Disconnect(s.propSub)
}

// SetActiveItem designates the currently focused playable item,
// building (or rebuilding) its voice cache if it converts to one.
func (s *Synth) SetActiveItem(it item.Item) {
	s.mu.Lock()
	s.activeItem = it
	s.mu.Unlock()
	if it != nil {
		s.manager.Rebuild(it)
	}
}

func (s *Synth) ActiveItem() item.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeItem
}

// SetSoloItem restricts which children of the active item produce
// voices, rebuilding the active cache.
func (s *Synth) SetSoloItem(child item.Item) {
	s.mu.Lock()
	s.soloItem = child
	active := s.activeItem
	s.mu.Unlock()
	if active != nil {
		s.manager.Rebuild(active)
	}
}

// NoteOn looks up the active item's cache and allocates up to
// voice.MaxInstVoices driver voices for (key, velocity), skipping
// zones outside solo-item restriction when one is set. Each allocated
// voice is configured from its zone's generator array (set-flagged
// entries only) and modulator list before it's started, and tracked in
// a RealtimeBatch so a later generator edit on the active item can be
// pushed straight to it instead of forcing a cache rebuild.
func (s *Synth) NoteOn(key, vel uint8) ([]driver.VoiceHandle, error) {
	s.mu.RLock()
	active := s.activeItem
	solo := s.soloItem
	s.mu.RUnlock()
	if active == nil {
		return nil, nil
	}

	cache := voice.CacheFor(active)
	zones := cache.Select(int(key), int(vel))
	var handles []driver.VoiceHandle
	type started struct {
		handle driver.VoiceHandle
		zone   voice.CachedZone
	}
	var live []started

	for _, z := range zones {
		if solo != nil && z.Zone != solo {
			continue
		}
		h, err := s.drv.AllocVoice(int(key), int(vel), z.RootNote, z.FineTune)
		if err != nil {
			s.errs.HandleError(errs.New(errs.Fail, "Voice", fmt.Errorf("alloc voice: %w", err)))
			continue
		}
		s.configureVoice(h, z)
		if err := s.drv.StartVoice(h); err != nil {
			s.errs.HandleError(errs.New(errs.Fail, "Voice", err))
			continue
		}
		handles = append(handles, h)
		live = append(live, started{handle: h, zone: z})
	}

	s.mu.Lock()
	if s.voices[active] == nil {
		s.voices[active] = make(map[driver.VoiceHandle]uint8)
	}
	for _, l := range live {
		s.voices[active][l.handle] = key
		id := s.nextVoiceID
		s.nextVoiceID++
		s.voiceHandles[id] = l.handle
		s.realtime.Track(&voice.Voice{ID: id, Zone: l.zone, Note: int(key), Vel: int(vel), Active: true})
	}
	s.mu.Unlock()

	return handles, nil
}

// configureVoice pushes z's set-flagged generators and its modulator
// list to h, the way a note-on primes a softsynth voice before it
// starts producing audio.
func (s *Synth) configureVoice(h driver.VoiceHandle, z voice.CachedZone) {
	if z.Gens != nil {
		for id := patch.GenID(0); id < patch.GenNumGenerators; id++ {
			if !z.Gens.IsSet(id) {
				continue
			}
			v, _ := z.Gens.Get(id)
			if err := s.drv.VoiceGenSet(h, int(id), v); err != nil {
				s.errs.HandleError(errs.New(errs.Fail, "Voice", fmt.Errorf("gen set: %w", err)))
			}
		}
	}
	if z.Mods != nil {
		for _, m := range z.Mods.All() {
			err := s.drv.VoiceAddMod(h, m.Src.Controller, int(m.Dst), m.Amount, m.AmountSrc.Controller, m.Transform)
			if err != nil {
				s.errs.HandleError(errs.New(errs.Fail, "Voice", fmt.Errorf("add mod: %w", err)))
			}
		}
	}
}

// HandleMIDI decodes one raw MIDI message via the bridge and drives
// NoteOn/NoteOff for note events, returning the decoded Event so the
// caller can handle program-change/CC/pitch-bend itself — the bridge
// only tracks state, it doesn't own patch selection.
func (s *Synth) HandleMIDI(msg midi.Message) (midibridge.Event, []driver.VoiceHandle) {
	ev := s.bridge.Decode(msg)
	switch ev.Kind {
	case midibridge.EventNoteOn:
		handles, err := s.NoteOn(ev.Note, ev.Velocity)
		if err != nil {
			s.errs.HandleError(err)
		}
		return ev, handles
	case midibridge.EventNoteOff:
		s.NoteOff(ev.Note)
	}
	return ev, nil
}

// NoteOff stops every voice this Synth allocated for the active item
// that matches note, forgetting them once stopped.
func (s *Synth) NoteOff(note uint8) {
	s.mu.RLock()
	active := s.activeItem
	s.mu.RUnlock()
	if active == nil {
		return
	}

	var toStop []driver.VoiceHandle
	s.mu.Lock()
	live := s.voices[active]
	for h, n := range live {
		if n != note {
			continue
		}
		toStop = append(toStop, h)
		delete(live, h)
	}
	for id, h := range s.voiceHandles {
		for _, stopped := range toStop {
			if h == stopped {
				delete(s.voiceHandles, id)
				s.realtime.Untrack(id)
			}
		}
	}
	s.mu.Unlock()

	for _, h := range toStop {
		if err := s.drv.StopVoice(h); err != nil {
			s.errs.HandleError(errs.New(errs.Fail, "Voice", err))
		}
	}
}

// onPropertyChange is the Synth's one propbus subscription: it reacts
// to every SYNTH-hinted notification, regardless of which item raised
// it, and decides whether the active item's voices need a realtime
// generator push or a full cache rebuild.
func (s *Synth) onPropertyChange(ev *propbus.Event) {
	spec := ev.Spec
	if spec == nil || !spec.Synth {
		return
	}

	s.mu.RLock()
	active := s.activeItem
	s.mu.RUnlock()
	if active == nil {
		return
	}

	if spec.SynthRealtime && s.applyRealtimeUpdate(ev) {
		return
	}
	if voice.HasCache(active) {
		s.manager.Rebuild(active)
	}
}

// applyRealtimeUpdate pushes a generator edit on ev.Item straight to
// every currently tracked voice built from that zone, skipping
// anything beyond voice.MaxRealtimeUpdates in one pass. Reports false
// (falling back to a full rebuild) when the notification isn't a
// recognized generator edit or matches no live voice.
func (s *Synth) applyRealtimeUpdate(ev *propbus.Event) bool {
	genID, ok := patch.GenIDFromName(ev.Spec.Name)
	if !ok {
		return false
	}
	newVal, ok := ev.New.(int16)
	if !ok {
		return false
	}

	matched := false
	for i, v := range s.realtime.Voices() {
		if v.Zone.Zone != ev.Item {
			continue
		}
		if i >= voice.MaxRealtimeUpdates {
			break
		}
		s.realtime.Set(voice.ParamUpdate{VoiceID: v.ID, GenID: int(genID), Value: newVal})
		matched = true
	}
	if !matched {
		return false
	}

	s.mu.RLock()
	handles := s.voiceHandles
	s.mu.RUnlock()
	s.realtime.Recompute(func(v *voice.Voice, u voice.ParamUpdate) {
		h, ok := handles[v.ID]
		if !ok {
			return
		}
		if err := s.drv.VoiceGenSet(h, u.GenID, u.Value); err != nil {
			s.errs.HandleError(errs.New(errs.Fail, "Voice", err))
		}
	})
	return true
}

func (s *Synth) applyReverb(r Reverb) {
	if s.drv == nil {
		return
	}
	// Driver reverb wiring is left to the concrete driver.Driver
	// implementation; Synth only guarantees the deferred-apply-once
	// contract spec.md §6 describes.
}

func (s *Synth) applyChorus(c Chorus) {
	if s.drv == nil {
		return
	}
}

// Bridge exposes the underlying decoder for callers that need direct
// access to bank/program tracking without going through HandleMIDI.
func (s *Synth) Bridge() *midibridge.Bridge { return s.bridge }
