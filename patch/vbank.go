package patch

import (
	"github.com/shaban/instpatch/container"
	"github.com/shaban/instpatch/item"
)

// VBankSelector names an instrument indirectly, by bank/program inside
// some other file, for the case where the target hasn't been loaded (or
// even opened) yet. A VBankRegion with a nil Link but a non-nil
// Selector is a "lazy" region; resolving it is a converter's job, kept
// out of scope here (spec.md §1).
type VBankSelector struct {
	FileName string
	Bank     int
	Program  int
}

// VBankRegion maps a note/velocity range to an instrument living
// outside the region's own preset — the indirection IpatchVBankRegion.c
// adds on top of a plain PZone so one file's preset can reference
// another file's instrument by bank/program instead of by direct link.
type VBankRegion struct {
	item.Base

	noteRange Range
	velRange  Range
	link      item.Item
	selector  *VBankSelector
}

func NewVBankRegion() *VBankRegion {
	r := &VBankRegion{}
	r.noteRange.Set(0, 127)
	r.velRange.Set(0, 127)
	r.Init(r, "VBankRegion", false)
	return r
}

func (r *VBankRegion) NoteRange() Range           { return r.noteRange }
func (r *VBankRegion) SetNoteRange(low, high int) { r.noteRange.Set(low, high) }
func (r *VBankRegion) VelRange() Range            { return r.velRange }
func (r *VBankRegion) SetVelRange(low, high int)  { r.velRange.Set(low, high) }
func (r *VBankRegion) Link() item.Item            { return r.link }
func (r *VBankRegion) SetLink(v item.Item)        { r.link, r.selector = v, nil }
func (r *VBankRegion) Selector() *VBankSelector   { return r.selector }
func (r *VBankRegion) SetSelector(s VBankSelector) {
	r.selector = &s
	r.link = nil
}

// Resolved reports whether this region points directly at a loaded
// instrument rather than at an unresolved bank/program selector.
func (r *VBankRegion) Resolved() bool { return r.link != nil }

func (r *VBankRegion) New() item.Item { return NewVBankRegion() }

func (r *VBankRegion) CopyFrom(src item.Item, resolver item.LinkResolver) error {
	o := src.(*VBankRegion)
	r.noteRange = o.noteRange
	r.velRange = o.velRange
	if o.selector != nil {
		sel := *o.selector
		r.selector = &sel
		r.link = nil
		return nil
	}
	r.selector = nil
	if o.link == nil {
		r.link = nil
		return nil
	}
	resolved, err := resolver.Resolve(o.link)
	if err != nil {
		return err
	}
	r.link = resolved
	return nil
}

// VBankInst is a preset-like container of VBankRegions, used to expose
// a virtual bank assembled from instruments scattered across several
// files as if they were one bank's worth of presets.
type VBankInst struct {
	item.Base
	container.Container

	name    string
	bank    int
	program int
}

func NewVBankInst(name string, bank, program int, bus *container.Bus) *VBankInst {
	v := &VBankInst{name: name, bank: bank, program: program}
	v.Base.Init(v, "VBankInst", false)
	v.Container.Init(v, []container.ChildTypeSpec{
		{Name: "regions", Matches: func(it item.Item) bool {
			_, ok := it.(*VBankRegion)
			return ok
		}},
	}, bus)
	return v
}

func (v *VBankInst) Name() string     { return v.name }
func (v *VBankInst) SetName(s string) { v.name = s }
func (v *VBankInst) Bank() int        { return v.bank }
func (v *VBankInst) SetBank(b int)    { v.bank = b }
func (v *VBankInst) Program() int     { return v.program }
func (v *VBankInst) SetProgram(p int) { v.program = p }

func (v *VBankInst) Regions() []item.Item { return v.ChildrenOfType("regions") }

func (v *VBankInst) Property(name string) (any, bool) {
	switch name {
	case "name":
		return v.name, true
	case "bank":
		return v.bank, true
	case "program":
		return v.program, true
	}
	return nil, false
}

// UniqueGroups mirrors Preset's: two VBankInst siblings conflict when
// both bank and program match.
func (v *VBankInst) UniqueGroups() []item.UniqueGroup {
	return []item.UniqueGroup{{ID: "bank-program", Props: []string{"bank", "program"}}}
}

func (v *VBankInst) New() item.Item {
	return NewVBankInst(v.name, v.bank, v.program, v.Container.Bus())
}

func (v *VBankInst) CopyFrom(src item.Item, resolver item.LinkResolver) error {
	o := src.(*VBankInst)
	v.name, v.bank, v.program = o.name, o.bank, o.program
	for _, c := range o.Regions() {
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
