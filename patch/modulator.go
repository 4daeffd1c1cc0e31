package patch

// ModSource identifies a modulation source: a MIDI controller, a
// built-in controller (note-on velocity, key number, ...), or another
// generator's output.
type ModSource struct {
	Controller int
	IsCC       bool // true: MIDI CC number; false: built-in source enum
	Polarity   int8 // +1 unipolar, -1 bipolar — kept as a plain int for simplicity
}

// Modulator routes a source's value into a destination generator.
type Modulator struct {
	Src       ModSource
	Dst       GenID
	Amount    int16
	AmountSrc ModSource
	Transform int // transform curve id (linear, concave, convex, switch...)
}

func (m Modulator) equalFields(o Modulator) bool {
	return m.Src == o.Src && m.Dst == o.Dst && m.Amount == o.Amount &&
		m.AmountSrc == o.AmountSrc && m.Transform == o.Transform
}

// ModulatorList is an ordered list of modulators. It may contain
// duplicates by position.
//
// NOTE: Insert does not check for duplicates. This mirrors an explicit
// behavior of the original source (its insert path carries the comment
// "Does not check for duplicates!") and spec.md §9 preserves it
// deliberately rather than silently fixing what looks like an
// oversight.
type ModulatorList struct {
	mods []Modulator
}

func (l *ModulatorList) Insert(m Modulator, position int) {
	switch {
	case position < 0 || position >= len(l.mods):
		l.mods = append(l.mods, m)
	case position == 0:
		l.mods = append([]Modulator{m}, l.mods...)
	default:
		l.mods = append(l.mods, Modulator{})
		copy(l.mods[position+1:], l.mods[position:len(l.mods)-1])
		l.mods[position] = m
	}
}

// Remove deletes the first modulator matching all five fields of m. It
// is the bus's edit operation, not Insert, that dedupes: Remove+re-
// Insert of an identical modulator is a no-op round trip per spec.md
// §8's "insert(m); remove(m_matching_all_fields) restores the original
// list" law.
func (l *ModulatorList) Remove(m Modulator) bool {
	for i, existing := range l.mods {
		if existing.equalFields(m) {
			l.mods = append(l.mods[:i], l.mods[i+1:]...)
			return true
		}
	}
	return false
}

// Change replaces the first modulator matching all fields of old with
// new. Change(old, new) followed by Change(new, old) is the identity.
func (l *ModulatorList) Change(old, new Modulator) bool {
	for i, existing := range l.mods {
		if existing.equalFields(old) {
			l.mods[i] = new
			return true
		}
	}
	return false
}

func (l *ModulatorList) Len() int { return len(l.mods) }

func (l *ModulatorList) At(i int) Modulator { return l.mods[i] }

// All returns a copy of the modulator slice.
func (l *ModulatorList) All() []Modulator {
	out := make([]Modulator, len(l.mods))
	copy(out, l.mods)
	return out
}

// Copy replaces l's contents with a copy of src's.
func (l *ModulatorList) Copy(src *ModulatorList) {
	l.mods = append(l.mods[:0], src.mods...)
}
