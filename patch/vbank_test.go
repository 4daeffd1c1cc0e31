package patch

import (
	"testing"

	"github.com/shaban/instpatch/container"
)

func TestVBankRegionSetLinkClearsSelector(t *testing.T) {
	r := NewVBankRegion()
	r.SetSelector(VBankSelector{FileName: "orch.sf2", Bank: 0, Program: 40})
	if r.Resolved() {
		t.Fatal("expected unresolved region with only a selector")
	}

	inst := NewInstrument("strings", container.NewBus())
	r.SetLink(inst)
	if !r.Resolved() {
		t.Fatal("expected resolved after SetLink")
	}
	if r.Selector() != nil {
		t.Fatal("expected selector cleared after SetLink")
	}
}

func TestVBankRegionSetSelectorClearsLink(t *testing.T) {
	r := NewVBankRegion()
	inst := NewInstrument("strings", container.NewBus())
	r.SetLink(inst)

	r.SetSelector(VBankSelector{FileName: "orch.sf2", Bank: 1, Program: 2})
	if r.Link() != nil {
		t.Fatal("expected link cleared after SetSelector")
	}
	if r.Resolved() {
		t.Fatal("expected unresolved after SetSelector")
	}
}

func TestVBankInstUniqueGroupIsBankProgram(t *testing.T) {
	v := NewVBankInst("x", 1, 2, container.NewBus())
	groups := v.UniqueGroups()
	if len(groups) != 1 || groups[0].ID != "bank-program" {
		t.Fatalf("unexpected unique groups: %+v", groups)
	}
}

func TestVBankInstInsertRejectsNonRegion(t *testing.T) {
	bus := container.NewBus()
	v := NewVBankInst("x", 0, 0, bus)
	inst := NewInstrument("y", bus)
	if err := v.Insert(inst, -1); err == nil {
		t.Fatal("expected non-VBankRegion insert to fail")
	}
}
