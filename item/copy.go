package item

import "fmt"

import "github.com/shaban/instpatch/errs"

// LinkResolver decides, during Copy, what a destination item's link
// target should be when the source references another item.
type LinkResolver interface {
	Resolve(src Item) (Item, error)
}

// LocalResolver uses the source link pointer unchanged. Only valid when
// src and dest share a Base.
type LocalResolver struct{}

func (LocalResolver) Resolve(src Item) (Item, error) { return src, nil }

// DeepResolver duplicates each link transitively, memoizing by source
// identity so a dependency shared by multiple links is duplicated
// exactly once.
type DeepResolver struct {
	memo map[Item]Item
}

func NewDeepResolver() *DeepResolver {
	return &DeepResolver{memo: make(map[Item]Item)}
}

func (r *DeepResolver) Resolve(src Item) (Item, error) {
	if dup, ok := r.memo[src]; ok {
		return dup, nil
	}
	c, ok := src.(Copyable)
	if !ok {
		return nil, errs.New(errs.Unsupported, src.TypeName(), fmt.Errorf("not copyable"))
	}
	dup := c.New()
	// Register before recursing so a cycle back to src resolves to the
	// in-progress duplicate instead of recursing forever.
	r.memo[src] = dup
	if err := Copy(dup, src, r); err != nil {
		delete(r.memo, src)
		return nil, err
	}
	return dup, nil
}

// HashReplaceResolver consults a caller-supplied source->replacement
// map; unmapped links pass through unchanged.
type HashReplaceResolver struct {
	Map map[Item]Item
}

func (r HashReplaceResolver) Resolve(src Item) (Item, error) {
	if rep, ok := r.Map[src]; ok {
		return rep, nil
	}
	return src, nil
}

// Copyable is implemented by every subtype that can be deep-copied or
// duplicated.
type Copyable interface {
	Item
	// New constructs a fresh, detached item of the same dynamic type.
	New() Item
	// CopyFrom deep-copies src's attributes into the receiver, using
	// resolver to decide destination link targets for any reference
	// src holds to another item.
	CopyFrom(src Item, resolver LinkResolver) error
}

// Copy deep-copies src's attributes into dest.
func Copy(dest, src Item, resolver LinkResolver) error {
	c, ok := dest.(Copyable)
	if !ok {
		return errs.New(errs.Unsupported, dest.TypeName(), fmt.Errorf("not copyable"))
	}
	return c.CopyFrom(src, resolver)
}

// Duplicate constructs a fresh item of src's dynamic type and copies src
// into it using resolver.
func Duplicate(src Item, resolver LinkResolver) (Item, error) {
	c, ok := src.(Copyable)
	if !ok {
		return nil, errs.New(errs.Unsupported, src.TypeName(), fmt.Errorf("not copyable"))
	}
	dup := c.New()
	if err := Copy(dup, src, resolver); err != nil {
		return nil, err
	}
	return dup, nil
}

// DuplicateLocal duplicates src using LocalResolver (src and the
// duplicate's eventual destination share a Base).
func DuplicateLocal(src Item) (Item, error) {
	return Duplicate(src, LocalResolver{})
}

// DuplicateReplace duplicates src, replacing any link target found in m.
func DuplicateReplace(src Item, m map[Item]Item) (Item, error) {
	return Duplicate(src, HashReplaceResolver{Map: m})
}

// DuplicateDeep duplicates src and its full dependency subgraph,
// returning every freshly created item with the top-level duplicate
// first.
func DuplicateDeep(src Item) ([]Item, error) {
	resolver := NewDeepResolver()
	top, err := resolver.Resolve(src)
	if err != nil {
		return nil, err
	}
	all := make([]Item, 0, len(resolver.memo))
	all = append(all, top)
	for s, d := range resolver.memo {
		if s == src {
			continue
		}
		all = append(all, d)
	}
	return all, nil
}
