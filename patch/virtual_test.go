package patch

import (
	"testing"

	"github.com/shaban/instpatch/container"
)

func TestVirtualContainerAcceptsAnyItem(t *testing.T) {
	bus := container.NewBus()
	v := NewVirtualContainer("Drum Kits", bus)

	inst := NewInstrument("kick", bus)
	if err := v.Insert(inst, -1); err != nil {
		t.Fatalf("expected virtual container to accept any item, got %v", err)
	}
	sample := NewSample("snare.wav")
	if err := v.Insert(sample, -1); err != nil {
		t.Fatalf("expected virtual container to accept a second unrelated type, got %v", err)
	}
	if len(v.Children()) != 2 {
		t.Fatalf("expected 2 children, got %d", len(v.Children()))
	}
}
