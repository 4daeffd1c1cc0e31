// Package paste implements the three-phase cross-file cut/paste engine
// (C8): Objects, Resolve, Finish. It is grounded on
// IpatchPaste.c's handler list plus its add/resolve/finish split —
// test/exec handlers register once process-wide, and a Session walks
// one paste's worth of items through them.
package paste

import (
	"fmt"
	"sort"
	"sync"

	"github.com/shaban/instpatch/errs"
	"github.com/shaban/instpatch/item"
)

// Priority mirrors IPATCH_PASTE_PRIORITY_*: lower values are tried
// first, DEFAULT sits in the middle so most handlers don't need to
// care about ordering.
type Priority int

const (
	PriorityFirst   Priority = 1
	PriorityDefault Priority = 50
	PriorityLast    Priority = 100
)

// TestFunc reports whether a handler is willing to paste src into
// dest. ExecFunc performs the paste once a handler has been chosen.
type TestFunc func(dest, src item.Item) bool
type ExecFunc func(s *Session, dest, src item.Item) error

type handler struct {
	id       int
	priority Priority
	test     TestFunc
	exec     ExecFunc
}

var (
	handlersMu sync.Mutex
	handlers   []*handler
	nextID     int
)

// Register adds a paste handler, sorted into the process-wide handler
// list by priority (stable among equal priorities, registration order
// broken ties the way a GSList insert-sorted does). Returns an ID
// usable with Unregister.
func Register(priority Priority, test TestFunc, exec ExecFunc) int {
	handlersMu.Lock()
	defer handlersMu.Unlock()
	nextID++
	h := &handler{id: nextID, priority: priority, test: test, exec: exec}
	handlers = append(handlers, h)
	sort.SliceStable(handlers, func(i, j int) bool { return handlers[i].priority < handlers[j].priority })
	return h.id
}

func Unregister(id int) {
	handlersMu.Lock()
	defer handlersMu.Unlock()
	for i, h := range handlers {
		if h.id == id {
			handlers = append(handlers[:i], handlers[i+1:]...)
			return
		}
	}
}

func findHandler(dest, src item.Item) *handler {
	handlersMu.Lock()
	defer handlersMu.Unlock()
	for _, h := range handlers {
		if h.test(dest, src) {
			return h
		}
	}
	return nil
}

// Choice is how a conflict between a scheduled add and an existing (or
// another scheduled) item is resolved, mirroring IpatchPasteChoice.
type Choice int

const (
	ChoiceIgnore Choice = iota
	ChoiceReplace
	ChoiceKeep
	ChoiceCancel
)

type addItem struct {
	item     item.Item
	parent   item.Item
	conflict item.Item
	choice   Choice
}

type linkItem struct {
	from item.Item
	to   item.Item
}

// ResolveFunc is asked, once per conflicting add, how to resolve it.
// It receives the item queued for addition and the existing (or
// already-scheduled) item it conflicts with.
type ResolveFunc func(adding, conflict item.Item) Choice

// Session drives one paste operation's three phases: Objects schedules
// adds/links via the registered handlers, Resolve walks conflicts
// through a caller-supplied ResolveFunc, Finish commits everything
// that wasn't kept; after a cancelled Resolve, Finish commits nothing.
type Session struct {
	dest item.Item

	adds  []*addItem
	links []*linkItem

	resolved  bool
	cancelled bool
	finished  bool
}

func NewSession(dest item.Item) *Session {
	return &Session{dest: dest}
}

// Objects runs each src item through the registered paste handlers,
// picking the highest-priority handler willing to take it. A handler's
// ExecFunc is expected to call ScheduleAdd/ScheduleLink on the session
// rather than mutate the tree directly, so conflicts can be resolved
// before anything actually changes.
func (s *Session) Objects(srcs []item.Item) error {
	for _, src := range srcs {
		h := findHandler(s.dest, src)
		if h == nil {
			return errs.New(errs.Unsupported, src.TypeName(), fmt.Errorf("no paste handler accepts this destination"))
		}
		if err := h.exec(s, s.dest, src); err != nil {
			return err
		}
	}
	return nil
}

// ScheduleAdd queues it to be inserted under parent, recording conflict
// as the existing (or already-scheduled) item it collides with, if
// any. Call from an ExecFunc, never directly from user code.
func (s *Session) ScheduleAdd(it, parent, conflict item.Item) {
	s.adds = append(s.adds, &addItem{item: it, parent: parent, conflict: conflict, choice: ChoiceIgnore})
}

// ScheduleLink queues a property-link (from.SetLink-style relationship)
// to be established once Finish runs, after conflicts are known.
func (s *Session) ScheduleLink(from, to item.Item) {
	s.links = append(s.links, &linkItem{from: from, to: to})
}

// Resolve walks every scheduled add that has a recorded conflict
// through resolve, storing the returned Choice. Must run after
// Objects and before Finish. Returns immediately with a cancel error
// if resolve ever returns ChoiceCancel.
func (s *Session) Resolve(resolve ResolveFunc) error {
	s.cancelled = false
	for _, a := range s.adds {
		if a.conflict == nil {
			continue
		}
		choice := resolve(a.item, a.conflict)
		if choice == ChoiceCancel {
			s.cancelled = true
			return errs.New(errs.Invalid, a.item.TypeName(), fmt.Errorf("paste cancelled by resolver"))
		}
		a.choice = choice
	}
	s.resolved = true
	return nil
}

// Finish commits every scheduled add not marked ChoiceKeep and every
// scheduled link, in that order (additions must land before links that
// may reference them). ChoiceIgnore commits the incoming item and lets
// the conflict stand alongside it; a ChoiceReplace add removes the
// conflicting item first; ChoiceKeep leaves the existing item alone and
// the scheduled item never attaches. If Resolve was cancelled, Finish
// commits nothing and returns an error.
func (s *Session) Finish() error {
	if s.cancelled {
		return errs.New(errs.Invalid, "paste.Session", fmt.Errorf("paste was cancelled by resolver"))
	}
	if !s.resolved {
		// no conflicts recorded, Resolve was never required
		s.resolved = true
	}
	for _, a := range s.adds {
		if a.choice == ChoiceKeep && a.conflict != nil {
			continue
		}
		if a.choice == ChoiceReplace && a.conflict != nil {
			if err := item.Remove(a.conflict); err != nil {
				return err
			}
		}
		cont, ok := any(a.parent).(interface {
			Insert(item.Item, int) error
		})
		if !ok {
			return errs.New(errs.Fail, a.parent.TypeName(), fmt.Errorf("parent has no Insert method"))
		}
		if err := cont.Insert(a.item, -1); err != nil {
			return err
		}
	}
	for _, l := range s.links {
		if setter, ok := l.from.(interface{ SetLink(item.Item) }); ok {
			setter.SetLink(l.to)
		}
	}
	s.finished = true
	return nil
}
