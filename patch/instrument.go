package patch

import (
	"github.com/shaban/instpatch/container"
	"github.com/shaban/instpatch/item"
)

// Instrument is a container of IZones, each linking a Sample.
type Instrument struct {
	item.Base
	container.Container

	name string
}

func NewInstrument(name string, bus *container.Bus) *Instrument {
	inst := &Instrument{name: name}
	inst.Base.Init(inst, "Instrument", false)
	inst.Container.Init(inst, []container.ChildTypeSpec{
		{Name: "zones", Matches: func(it item.Item) bool {
			z, ok := it.(*Zone)
			return ok && z.Kind() == IZoneKind
		}},
	}, bus)
	return inst
}

func (i *Instrument) Name() string     { return i.name }
func (i *Instrument) SetName(v string) { i.name = v }

func (i *Instrument) Zones() []item.Item { return i.ChildrenOfType("zones") }

func (i *Instrument) Property(name string) (any, bool) {
	if name == "name" {
		return i.name, true
	}
	return nil, false
}

func (i *Instrument) New() item.Item { return NewInstrument(i.name, i.Container.Bus()) }

func (i *Instrument) CopyFrom(src item.Item, resolver item.LinkResolver) error {
	o := src.(*Instrument)
	i.name = o.name
	for _, c := range o.Zones() {
		zoneDup, err := item.Duplicate(c, resolver)
		if err != nil {
			return err
		}
		if err := i.Insert(zoneDup, -1); err != nil {
			return err
		}
	}
	return nil
}
