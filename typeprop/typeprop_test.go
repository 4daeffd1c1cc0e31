package typeprop

import "testing"

type fakePreset struct{ bank int }

func TestDynamicResolverVirtualParentType(t *testing.T) {
	r := New()
	r.RegisterResolver("preset", "virtual-parent-type", func(typeName, property string, obj any) (any, bool) {
		p := obj.(*fakePreset)
		if p.bank == 128 {
			return "percussion container", true
		}
		return "melodic container", true
	})

	melodic, ok := r.Query("preset", "virtual-parent-type", &fakePreset{bank: 0})
	if !ok || melodic != "melodic container" {
		t.Fatalf("got %v, %v", melodic, ok)
	}
	percussion, ok := r.Query("preset", "virtual-parent-type", &fakePreset{bank: 128})
	if !ok || percussion != "percussion container" {
		t.Fatalf("got %v, %v", percussion, ok)
	}
}

func TestConstantAndMissing(t *testing.T) {
	r := New()
	r.RegisterConstant("sample", "category", "audio")
	v, ok := r.Query("sample", "category", nil)
	if !ok || v != "audio" {
		t.Fatalf("got %v, %v", v, ok)
	}
	if _, ok := r.Query("sample", "missing", nil); ok {
		t.Fatal("expected missing property to be not-ok")
	}
	if _, ok := r.Query("unknown-type", "x", nil); ok {
		t.Fatal("expected unknown type to be not-ok")
	}
}
