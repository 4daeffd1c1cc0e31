package patch

import "testing"

func TestDimensionSelectCountsSplitsBelowValue(t *testing.T) {
	d := Dimension{Kind: DimensionVelocity, Bits: 2, Splits: []int{32, 64, 96}}
	cases := map[int]int{0: 0, 31: 0, 32: 1, 63: 1, 64: 2, 95: 2, 96: 3, 127: 3}
	for v, want := range cases {
		if got := d.Select(v); got != want {
			t.Fatalf("Select(%d) = %d, want %d", v, got, want)
		}
	}
}

func TestDimensionTableIndexPacksAxesByBitShift(t *testing.T) {
	vel := Dimension{Kind: DimensionVelocity, Bits: 1, Splits: []int{64}}
	key := Dimension{Kind: DimensionKeyRange, Bits: 2, Splits: []int{40, 80, 100}}
	tbl := NewDimensionTable(vel, key)

	idx := tbl.Index(map[DimensionKind]int{DimensionVelocity: 70, DimensionKeyRange: 90}, nil)
	// vel selects 1 (bit 0), key selects 2 (bits 1-2) -> 1 | (2<<1) = 5
	if idx != 5 {
		t.Fatalf("expected composite index 5, got %d", idx)
	}
}

func TestDimensionTableIndexUsesCCMapForArbitraryControllers(t *testing.T) {
	cc := Dimension{Kind: DimensionCC, Controller: 11, Bits: 1, Splits: []int{64}}
	tbl := NewDimensionTable(cc)

	idx := tbl.Index(nil, map[int]int{11: 100})
	if idx != 1 {
		t.Fatalf("expected index 1 for cc 11 above split, got %d", idx)
	}
}

func TestDimensionTableSubRegionCountIsProductOfDivisions(t *testing.T) {
	vel := Dimension{Kind: DimensionVelocity, Bits: 2}
	key := Dimension{Kind: DimensionKeyRange, Bits: 3}
	tbl := NewDimensionTable(vel, key)
	if got, want := tbl.SubRegionCount(), (1<<2)*(1<<3); got != want {
		t.Fatalf("expected %d sub-regions, got %d", want, got)
	}
}
