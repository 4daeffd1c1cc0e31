package voice

import "sync"

// MaxRealtimeVoices bounds how many live voices a single realtime
// update batch tracks at once.
const MaxRealtimeVoices = 64

// MaxRealtimeUpdates bounds how many parameter changes one batch will
// buffer before a caller must call Recompute, so a pathological stream
// of edits can't grow the pending-update slice unbounded.
const MaxRealtimeUpdates = 128

// Voice is one sounding instance: a cached zone plus the note/velocity
// that triggered it and an ID assigned by the caller of NoteOn.
type Voice struct {
	ID     int
	Zone   CachedZone
	Note   int
	Vel    int
	Active bool
}

// NoteOn selects up to MaxInstVoices zones from c matching (note, vel)
// and returns a Voice for each, handles assigned by nextID.
func NoteOn(c *Cache, note, vel int, nextID func() int) []Voice {
	zones := c.Select(note, vel)
	voices := make([]Voice, len(zones))
	for i, z := range zones {
		voices[i] = Voice{ID: nextID(), Zone: z, Note: note, Vel: vel, Active: true}
	}
	return voices
}

// ParamUpdate is one pending realtime parameter change: set it first,
// then call RealtimeBatch.Recompute to fold every pending change into
// the driver in one pass, rather than recomputing per-update.
type ParamUpdate struct {
	VoiceID int
	GenID   int
	Value   int16
}

// RealtimeBatch accumulates ParamUpdates for a bounded set of live
// voices and folds them in a single Recompute pass — the two-phase
// "set now, recompute once" pattern a generator-array edit needs so a
// note held while a knob moves doesn't recompute on every tick.
type RealtimeBatch struct {
	mu      sync.Mutex
	voices  map[int]*Voice
	pending []ParamUpdate
}

func NewRealtimeBatch() *RealtimeBatch {
	return &RealtimeBatch{voices: make(map[int]*Voice)}
}

// Track registers a live voice with the batch; only tracked voices'
// updates are retained (untracked updates are dropped, the way a
// voice that already finished ignores late parameter changes).
func (rb *RealtimeBatch) Track(v *Voice) {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	if len(rb.voices) >= MaxRealtimeVoices {
		return
	}
	rb.voices[v.ID] = v
}

// Voices returns a snapshot of every currently tracked voice, for a
// caller that needs to find which live voices a property change affects
// (e.g. by matching Voice.Zone.Zone against the item that was edited).
func (rb *RealtimeBatch) Voices() []*Voice {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	out := make([]*Voice, 0, len(rb.voices))
	for _, v := range rb.voices {
		out = append(out, v)
	}
	return out
}

func (rb *RealtimeBatch) Untrack(voiceID int) {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	delete(rb.voices, voiceID)
}

// Set queues a parameter update. If the pending queue is already at
// MaxRealtimeUpdates the oldest entry is dropped to make room; a
// dropped update never reaches Recompute.
func (rb *RealtimeBatch) Set(u ParamUpdate) {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	if _, ok := rb.voices[u.VoiceID]; !ok {
		return
	}
	if len(rb.pending) >= MaxRealtimeUpdates {
		rb.pending = rb.pending[1:]
	}
	rb.pending = append(rb.pending, u)
}

// Recompute applies every pending update to an apply callback and
// clears the queue. apply is called once per update, in arrival order,
// so a driver can fold duplicate (voice, gen) pairs itself if it wants
// last-write-wins instead.
func (rb *RealtimeBatch) Recompute(apply func(v *Voice, u ParamUpdate)) {
	rb.mu.Lock()
	pending := rb.pending
	rb.pending = nil
	voices := rb.voices
	rb.mu.Unlock()

	for _, u := range pending {
		if v, ok := voices[u.VoiceID]; ok {
			apply(v, u)
		}
	}
}
