package paste

import "github.com/shaban/instpatch/item"

// FindConflict looks for an item conflicting with candidate (per its
// UniqueGroups, see item.Conflicts) among siblings already present
// under parent plus any items already scheduled for addition under
// that same parent in this session — matching IpatchPaste.c's
// check_item_conflicts, which checks scheduled-vs-scheduled before
// anything is actually in the tree.
func (s *Session) FindConflict(candidate item.Item, parent item.Item, existing []item.Item) item.Item {
	for _, e := range existing {
		if item.Conflicts(candidate, e) {
			return e
		}
	}
	for _, a := range s.adds {
		if a.parent != parent {
			continue
		}
		if item.Conflicts(candidate, a.item) {
			return a.item
		}
	}
	return nil
}
