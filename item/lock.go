package item

import (
	"bytes"
	"runtime"
	"strconv"
	"sync"
)

// goroutineID extracts the calling goroutine's numeric id from the
// runtime stack header. Go deliberately has no public goroutine-id
// primitive; this is the standard workaround reached for whenever a
// recursive lock genuinely needs thread identity. RWLock below uses
// this unexported name; other packages use GoroutineID.
func goroutineID() uint64 { return GoroutineID() }

// GoroutineID exposes the same lookup for other packages that need
// per-thread state the way GLib's GPrivate gives the original library
// (state.Group nesting, in particular) — still the same narrow
// workaround, just shared instead of duplicated.
func GoroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	b := bytes.TrimPrefix(buf[:n], []byte("goroutine "))
	if i := bytes.IndexByte(b, ' '); i >= 0 {
		b = b[:i]
	}
	id, _ := strconv.ParseUint(string(b), 10, 64)
	return id
}

// RWLock is a recursive reader/writer mutex: the same goroutine may
// acquire the write lock (or a read lock while already holding the
// write lock) any number of times without deadlocking, matching the
// item tree's edit path where a writer calls into code that re-reads
// the same item. It is held only across short critical sections; it
// must never be held across a user callback.
type RWLock struct {
	mu    sync.RWMutex
	state sync.Mutex // guards writerID/depth
	writerID uint64
	depth    int
}

func (l *RWLock) Lock() {
	gid := goroutineID()
	l.state.Lock()
	if l.depth > 0 && l.writerID == gid {
		l.depth++
		l.state.Unlock()
		return
	}
	l.state.Unlock()

	l.mu.Lock()

	l.state.Lock()
	l.writerID = gid
	l.depth = 1
	l.state.Unlock()
}

func (l *RWLock) Unlock() {
	gid := goroutineID()
	l.state.Lock()
	defer l.state.Unlock()
	if l.depth == 0 || l.writerID != gid {
		panic("item: RWLock.Unlock called by non-holder")
	}
	l.depth--
	if l.depth == 0 {
		l.mu.Unlock()
	}
}

// RLock takes a read lock. If the calling goroutine already holds the
// write lock it is a no-op, since the goroutine already has exclusive
// access.
func (l *RWLock) RLock() {
	if l.heldByCaller() {
		return
	}
	l.mu.RLock()
}

func (l *RWLock) RUnlock() {
	if l.heldByCaller() {
		return
	}
	l.mu.RUnlock()
}

func (l *RWLock) heldByCaller() bool {
	gid := goroutineID()
	l.state.Lock()
	defer l.state.Unlock()
	return l.depth > 0 && l.writerID == gid
}

// WriteDepth returns how many nested write locks the calling goroutine
// currently holds, 0 if none. Used by set_parent when re-aliasing a
// lock-slave item's lock: the new (shared) lock must be re-acquired the
// same number of times the old one had been.
func (l *RWLock) WriteDepth() int {
	gid := goroutineID()
	l.state.Lock()
	defer l.state.Unlock()
	if l.writerID == gid {
		return l.depth
	}
	return 0
}

// LockN acquires the write lock n times in a row (n >= 1), used to
// restore WriteDepth after re-aliasing to a new shared lock.
func (l *RWLock) LockN(n int) {
	for i := 0; i < n; i++ {
		l.Lock()
	}
}
