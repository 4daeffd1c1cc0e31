package item

import "sync"

// UniqueGroup is a set of property names whose simultaneous equality
// between two sibling items of the same dynamic type defines a
// conflict. A single-property group conflicts on any match; a
// multi-property group (e.g. bank+program) requires every property in
// the group to match.
type UniqueGroup struct {
	ID    string
	Props []string
}

// UniqueDeclarer is implemented by subtypes that have unique properties.
type UniqueDeclarer interface {
	Item
	UniqueGroups() []UniqueGroup
}

// PropertyReader exposes named property values for conflict comparison.
// Values must be comparable with ==.
type PropertyReader interface {
	Item
	Property(name string) (value any, ok bool)
}

var uniqueGroupCache sync.Map // typeName -> []UniqueGroup, computed once per type

func uniqueGroupsFor(it Item) []UniqueGroup {
	if v, ok := uniqueGroupCache.Load(it.TypeName()); ok {
		return v.([]UniqueGroup)
	}
	var groups []UniqueGroup
	if ud, ok := it.(UniqueDeclarer); ok {
		groups = ud.UniqueGroups()
	}
	uniqueGroupCache.Store(it.TypeName(), groups)
	return groups
}

// Conflicts reports whether a and b — required to be the same dynamic
// type — conflict: at least one of a's unique groups has every property
// equal between a and b.
func Conflicts(a, b Item) bool {
	if a.TypeName() != b.TypeName() {
		return false
	}
	groups := uniqueGroupsFor(a)
	if len(groups) == 0 {
		return false
	}
	pa, aok := a.(PropertyReader)
	pb, bok := b.(PropertyReader)
	if !aok || !bok {
		return false
	}
	for _, g := range groups {
		if groupMatches(pa, pb, g) {
			return true
		}
	}
	return false
}

func groupMatches(pa, pb PropertyReader, g UniqueGroup) bool {
	for _, prop := range g.Props {
		va, ok1 := pa.Property(prop)
		vb, ok2 := pb.Property(prop)
		if !ok1 || !ok2 || va != vb {
			return false
		}
	}
	return len(g.Props) > 0
}
