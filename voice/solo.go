package voice

import "sync"

// Soloable is the minimal surface SoloManager needs from whatever it
// coordinates. No type in this module implements it; callers supply
// their own members.
type Soloable interface {
	ApplySoloMuted(muted bool)
}

// SoloManager coordinates solo state across a group of items the way
// the synth's channel strip does: once anything is soloed, everything
// else in the group is muted until no solos remain. Adapted from
// engine/channel's SoloManager/BaseChannel.markSoloMuted pair, with
// "channel" generalized to "item that can be asked to mute".
type SoloManager struct {
	mu      sync.Mutex
	members map[Soloable]struct{}
	soloed  map[Soloable]struct{}
}

// DefaultSoloManager is a process-wide instance, mirroring
// engine/channel.DefaultSolo. Nothing in this module registers with it
// automatically.
var DefaultSoloManager = NewSoloManager()

func NewSoloManager() *SoloManager {
	return &SoloManager{members: map[Soloable]struct{}{}, soloed: map[Soloable]struct{}{}}
}

func (sm *SoloManager) Register(s Soloable) {
	if sm == nil || s == nil {
		return
	}
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.members[s] = struct{}{}
}

func (sm *SoloManager) Unregister(s Soloable) {
	if sm == nil || s == nil {
		return
	}
	sm.mu.Lock()
	defer sm.mu.Unlock()
	delete(sm.members, s)
	delete(sm.soloed, s)
	sm.recompute()
}

func (sm *SoloManager) SetSolo(s Soloable, on bool) {
	if sm == nil || s == nil {
		return
	}
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if on {
		sm.soloed[s] = struct{}{}
	} else {
		delete(sm.soloed, s)
	}
	sm.recompute()
}

func (sm *SoloManager) IsSoloed(s Soloable) bool {
	if sm == nil || s == nil {
		return false
	}
	sm.mu.Lock()
	defer sm.mu.Unlock()
	_, ok := sm.soloed[s]
	return ok
}

// recompute applies solo-muted state to all members based on the
// soloed set. Caller must hold sm.mu.
func (sm *SoloManager) recompute() {
	hasSolo := len(sm.soloed) > 0
	for s := range sm.members {
		_, isSolo := sm.soloed[s]
		s.ApplySoloMuted(hasSolo && !isSolo)
	}
}
