package patch

import "testing"

func sampleMod(amount int16) Modulator {
	return Modulator{
		Src:       ModSource{Controller: 1, IsCC: true},
		Dst:       GenFilterFc,
		Amount:    amount,
		AmountSrc: ModSource{},
		Transform: 0,
	}
}

func TestModulatorListInsertAppendsByDefault(t *testing.T) {
	var l ModulatorList
	l.Insert(sampleMod(1), -1)
	l.Insert(sampleMod(2), -1)
	if l.Len() != 2 {
		t.Fatalf("expected 2 modulators, got %d", l.Len())
	}
	if l.At(1).Amount != 2 {
		t.Fatalf("expected second modulator amount 2, got %d", l.At(1).Amount)
	}
}

func TestModulatorListInsertAtPositionShiftsRest(t *testing.T) {
	var l ModulatorList
	l.Insert(sampleMod(1), -1)
	l.Insert(sampleMod(2), -1)
	l.Insert(sampleMod(99), 0)

	if l.At(0).Amount != 99 || l.At(1).Amount != 1 || l.At(2).Amount != 2 {
		t.Fatalf("unexpected order: %v %v %v", l.At(0), l.At(1), l.At(2))
	}
}

func TestModulatorListInsertAllowsDuplicates(t *testing.T) {
	var l ModulatorList
	l.Insert(sampleMod(5), -1)
	l.Insert(sampleMod(5), -1)
	if l.Len() != 2 {
		t.Fatalf("expected duplicates retained, got len %d", l.Len())
	}
}

func TestModulatorListRemoveMatchesAllFields(t *testing.T) {
	var l ModulatorList
	m := sampleMod(5)
	l.Insert(m, -1)
	if !l.Remove(m) {
		t.Fatal("expected Remove to find exact match")
	}
	if l.Len() != 0 {
		t.Fatalf("expected empty list after remove, got %d", l.Len())
	}
}

func TestModulatorListInsertRemoveRoundTrip(t *testing.T) {
	var l ModulatorList
	l.Insert(sampleMod(1), -1)
	m := sampleMod(42)
	l.Insert(m, -1)
	l.Remove(m)
	if l.Len() != 1 || l.At(0).Amount != 1 {
		t.Fatalf("expected original list restored, got %v", l.All())
	}
}

func TestModulatorListChangeSwapsMatchingEntry(t *testing.T) {
	var l ModulatorList
	old := sampleMod(1)
	l.Insert(old, -1)
	updated := old
	updated.Amount = 2
	if !l.Change(old, updated) {
		t.Fatal("expected Change to find old entry")
	}
	if l.At(0).Amount != 2 {
		t.Fatalf("expected updated amount 2, got %d", l.At(0).Amount)
	}
	if !l.Change(updated, old) {
		t.Fatal("expected reverse Change to succeed")
	}
	if l.At(0).Amount != 1 {
		t.Fatal("expected Change(new, old) to be the inverse of Change(old, new)")
	}
}

func TestModulatorListCopyIsIndependent(t *testing.T) {
	var src ModulatorList
	src.Insert(sampleMod(1), -1)

	var dst ModulatorList
	dst.Copy(&src)
	dst.Insert(sampleMod(2), -1)

	if src.Len() != 1 {
		t.Fatalf("expected src untouched by dst mutation, got len %d", src.Len())
	}
}
