package patch

import "testing"

func TestRangeSetSwapsInverted(t *testing.T) {
	var r Range
	r.Set(80, 20)
	if r.Low != 20 || r.High != 80 {
		t.Fatalf("expected swapped (20, 80), got (%d, %d)", r.Low, r.High)
	}
}

func TestRangeContains(t *testing.T) {
	var r Range
	r.Set(10, 20)
	if !r.Contains(10) || !r.Contains(20) {
		t.Fatal("expected inclusive bounds to match")
	}
	if r.Contains(9) || r.Contains(21) {
		t.Fatal("expected values outside bounds to be rejected")
	}
}
