// Package patch implements the domain item hierarchy (C6): presets,
// instruments, zones, regions, samples, modulators, generators, virtual
// containers, and the vbank indirection layer, grounded on
// original_source/libinstpatch's SF2/DLS/Gig/Spectralis object model
// and a struct-with-embedded-Base composition idiom.
package patch

// Range is an inclusive [Low, High] selector box (note-range,
// velocity-range, or a format-specific axis).
type Range struct {
	Low, High int
}

// Set assigns low/high, transparently swapping them if low > high
// (spec.md §8 boundary).
func (r *Range) Set(low, high int) {
	if low > high {
		low, high = high, low
	}
	r.Low, r.High = low, high
}

// Contains reports whether v falls within the inclusive range.
func (r Range) Contains(v int) bool {
	return v >= r.Low && v <= r.High
}
