// Package iter provides a uniform cursor over the three sequence shapes
// the item tree uses: a plain slice (container child slots and fixed
// arrays) and the singly/doubly linked traversal semantics some callers
// expect from the original C list types. Go slices back all three here;
// Cursor only disables Insert/Remove for the "array" flavor.
package iter

import "github.com/shaban/instpatch/errs"

// Cursor is not thread-safe. Callers either hold the owning container's
// lock for the cursor's lifetime or otherwise guarantee single-threaded
// access; it does not own the underlying sequence and the caller must
// ensure that sequence outlives the cursor.
type Cursor[T any] interface {
	First() bool
	Last() bool
	Next() bool
	Index(i int) bool
	Get() (T, bool)
	Insert(v T) error
	RemoveCurrent() error
	Count() int
}

// Kind selects which underlying shape a Cursor wraps. Only Array
// rejects mutation.
type Kind int

const (
	Singly Kind = iota
	Doubly
	Array
)

// Slice is a Cursor over a slice, usable as any of the three Kinds. The
// Singly/Doubly distinction affects nothing about a slice's storage; it
// exists so callers written against the list/array distinction observe
// the same Insert/Remove legality the original types had.
type Slice[T any] struct {
	kind Kind
	vals *[]T
	pos  int // -1 = before first, len(*vals) = off-end
}

// NewSlice wraps vals (by reference: mutations through the cursor are
// visible to the caller's slice variable only if vals is re-assigned
// through the pointer, which Insert/RemoveCurrent do).
func NewSlice[T any](kind Kind, vals *[]T) *Slice[T] {
	return &Slice[T]{kind: kind, vals: vals, pos: -1}
}

func (c *Slice[T]) First() bool {
	if len(*c.vals) == 0 {
		c.pos = 0
		return false
	}
	c.pos = 0
	return true
}

func (c *Slice[T]) Last() bool {
	n := len(*c.vals)
	if n == 0 {
		c.pos = 0
		return false
	}
	c.pos = n - 1
	return true
}

func (c *Slice[T]) Next() bool {
	if c.pos < len(*c.vals) {
		c.pos++
	}
	return c.pos < len(*c.vals)
}

// Index moves the cursor to position i. Negative i or i >= Count leaves
// the cursor off-end and returns false.
func (c *Slice[T]) Index(i int) bool {
	if i < 0 || i >= len(*c.vals) {
		c.pos = len(*c.vals)
		return false
	}
	c.pos = i
	return true
}

func (c *Slice[T]) Get() (T, bool) {
	var zero T
	if c.pos < 0 || c.pos >= len(*c.vals) {
		return zero, false
	}
	return (*c.vals)[c.pos], true
}

func (c *Slice[T]) Insert(v T) error {
	if c.kind == Array {
		return errs.New(errs.Unsupported, "iter.Slice(Array)", nil)
	}
	if c.pos < 0 {
		c.pos = 0
	}
	if c.pos >= len(*c.vals) {
		*c.vals = append(*c.vals, v)
		c.pos = len(*c.vals) - 1
		return nil
	}
	*c.vals = append(*c.vals, v)
	copy((*c.vals)[c.pos+1:], (*c.vals)[c.pos:len(*c.vals)-1])
	(*c.vals)[c.pos] = v
	return nil
}

func (c *Slice[T]) RemoveCurrent() error {
	if c.kind == Array {
		return errs.New(errs.Unsupported, "iter.Slice(Array)", nil)
	}
	if c.pos < 0 || c.pos >= len(*c.vals) {
		return errs.New(errs.Invalid, "iter.Slice", nil)
	}
	*c.vals = append((*c.vals)[:c.pos], (*c.vals)[c.pos+1:]...)
	return nil
}

func (c *Slice[T]) Count() int { return len(*c.vals) }
