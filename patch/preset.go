package patch

import (
	"fmt"

	"github.com/shaban/instpatch/container"
	"github.com/shaban/instpatch/item"
)

// Preset is a container of PZones, each linking an Instrument. Bank and
// Program together form its unique group: two presets under the same
// parent conflict when both match (spec.md §4.2).
type Preset struct {
	item.Base
	container.Container

	name    string
	bank    int
	program int
}

func NewPreset(name string, bank, program int, bus *container.Bus) *Preset {
	p := &Preset{name: name, bank: bank, program: program}
	p.Base.Init(p, "Preset", false)
	p.Container.Init(p, []container.ChildTypeSpec{
		{Name: "pzones", Matches: func(it item.Item) bool {
			z, ok := it.(*Zone)
			return ok && z.Kind() == PZoneKind
		}},
	}, bus)
	return p
}

func (p *Preset) Name() string     { return p.name }
func (p *Preset) SetName(v string) { p.name = v }
func (p *Preset) Bank() int        { return p.bank }
func (p *Preset) SetBank(v int)    { p.bank = v }
func (p *Preset) Program() int     { return p.program }
func (p *Preset) SetProgram(v int) { p.program = v }

func (p *Preset) PZones() []item.Item { return p.ChildrenOfType("pzones") }

// Title concatenates "bbb-ppp Name" the way the original formats preset
// titles, e.g. "000-005 Grand Piano".
func (p *Preset) Title() string {
	return fmt.Sprintf("%03d-%03d %s", p.bank, p.program, p.name)
}

func (p *Preset) Property(name string) (any, bool) {
	switch name {
	case "name":
		return p.name, true
	case "bank":
		return p.bank, true
	case "program":
		return p.program, true
	}
	return nil, false
}

// UniqueGroups declares (bank, program) as the single unique group:
// presets conflict only when both match.
func (p *Preset) UniqueGroups() []item.UniqueGroup {
	return []item.UniqueGroup{{ID: "bank-program", Props: []string{"bank", "program"}}}
}

func (p *Preset) New() item.Item {
	return NewPreset(p.name, p.bank, p.program, p.Container.Bus())
}

func (p *Preset) CopyFrom(src item.Item, resolver item.LinkResolver) error {
	o := src.(*Preset)
	p.name, p.bank, p.program = o.name, o.bank, o.program
	for _, c := range o.PZones() {
		zoneDup, err := item.Duplicate(c, resolver)
		if err != nil {
			return err
		}
		if err := p.Insert(zoneDup, -1); err != nil {
			return err
		}
	}
	return nil
}
