package state

import (
	"errors"

	"github.com/shaban/instpatch/errs"
)

// ErrRedoUnimplemented is returned by Redo: spec.md §9 explicitly
// allows shipping undo-only, so Redo exists as a documented stub
// rather than a silently-missing method.
var ErrRedoUnimplemented = errors.New("state: redo not implemented")

// Undo retracts the most recent non-retracted top-level group, running
// each of its Items' Restore functions in reverse recording order (the
// last change made is the first one undone), then marks the group
// retracted so a second Undo call skips it.
func (h *History) Undo() (*Group, error) {
	h.mu.Lock()
	var g *Group
	for i := len(h.top) - 1; i >= 0; i-- {
		if !h.top[i].retracted {
			g = h.top[i]
			break
		}
	}
	h.mu.Unlock()

	if g == nil {
		return nil, errs.New(errs.Invalid, "History", errNothingToUndo)
	}
	return g, h.undoGroup(g)
}

// UndoGroup retracts a specific group directly (e.g. one returned
// earlier by BeginGroup/EndGroup), the direct analog of
// ipatch_state_undo_current acting on an explicit group rather than
// the implicit active one.
func (h *History) UndoGroup(g *Group) error {
	return h.undoGroup(g)
}

func (h *History) undoGroup(g *Group) error {
	h.mu.Lock()
	if g.retracted {
		h.mu.Unlock()
		return errs.New(errs.Invalid, "Group", errAlreadyRetracted)
	}
	items := g.items
	h.mu.Unlock()

	for i := len(items) - 1; i >= 0; i-- {
		if err := items[i].Restore(); err != nil {
			return errs.New(errs.Fail, "Group", err)
		}
	}

	h.mu.Lock()
	g.retracted = true
	h.mu.Unlock()
	return nil
}

// Redo is not implemented; see ErrRedoUnimplemented.
func (h *History) Redo() (*Group, error) {
	return nil, ErrRedoUnimplemented
}

const (
	errNothingToUndo    = sentinelErr("no undoable group remains")
	errAlreadyRetracted = sentinelErr("group already retracted")
)
