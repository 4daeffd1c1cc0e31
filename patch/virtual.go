package patch

import (
	"github.com/shaban/instpatch/container"
	"github.com/shaban/instpatch/item"
)

// VirtualContainer groups sibling items for UI presentation only — it
// never appears in a save file and never affects voice selection. Its
// child-type slot accepts anything, since its purpose is purely to
// organize, not to constrain (ports IpatchVirtualContainer.c's
// "accept any item" child-type behavior).
type VirtualContainer struct {
	item.Base
	container.Container

	label string
}

func NewVirtualContainer(label string, bus *container.Bus) *VirtualContainer {
	v := &VirtualContainer{label: label}
	v.Base.Init(v, "VirtualContainer", false)
	v.Container.Init(v, []container.ChildTypeSpec{
		{Name: "children", Virtual: true, Matches: func(item.Item) bool { return true }},
	}, bus)
	return v
}

func (v *VirtualContainer) Label() string     { return v.label }
func (v *VirtualContainer) SetLabel(s string) { v.label = s }

func (v *VirtualContainer) Children() []item.Item { return v.ChildrenOfType("children") }

func (v *VirtualContainer) Property(name string) (any, bool) {
	if name == "label" {
		return v.label, true
	}
	return nil, false
}

func (v *VirtualContainer) New() item.Item { return NewVirtualContainer(v.label, v.Container.Bus()) }

func (v *VirtualContainer) CopyFrom(src item.Item, resolver item.LinkResolver) error {
	o := src.(*VirtualContainer)
	v.label = o.label
	for _, c := range o.Children() {
		dup, err := item.Duplicate(c, resolver)
		if err != nil {
			return err
		}
		if err := v.Insert(dup, -1); err != nil {
			return err
		}
	}
	return nil
}
