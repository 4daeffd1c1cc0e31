package patch

import (
	"github.com/shaban/instpatch/item"
)

// SampleStore abstracts the opaque handle a converter plug-in hands
// back for a sample's audio data. instpatch never reads the bytes
// itself — file-format parsers are out of scope (spec.md §1) — it only
// keeps the handle open for as long as something needs it.
type SampleStore interface {
	Open() error
	Close() error
}

// Sample is a single audio sample: rate, loop points, root note, and a
// handle to the backing store. It has no children.
type Sample struct {
	item.Base

	name       string
	sampleRate int
	size       int
	loopStart  int
	loopEnd    int
	rootNote   int
	fineTune   int8
	store      SampleStore
}

func NewSample(name string) *Sample {
	s := &Sample{name: name}
	s.Init(s, "Sample", false)
	return s
}

func (s *Sample) Name() string        { return s.name }
func (s *Sample) SetName(v string)    { s.name = v }
func (s *Sample) SampleRate() int     { return s.sampleRate }
func (s *Sample) SetSampleRate(v int) { s.sampleRate = v }
func (s *Sample) Size() int           { return s.size }
func (s *Sample) SetSize(v int)       { s.size = v }
func (s *Sample) LoopPoints() (start, end int) { return s.loopStart, s.loopEnd }
func (s *Sample) SetLoopPoints(start, end int) { s.loopStart, s.loopEnd = start, end }
func (s *Sample) RootNote() int       { return s.rootNote }
func (s *Sample) SetRootNote(v int)   { s.rootNote = v }
func (s *Sample) FineTune() int8      { return s.fineTune }
func (s *Sample) SetFineTune(v int8)  { s.fineTune = v }
func (s *Sample) Store() SampleStore  { return s.store }
func (s *Sample) SetStore(v SampleStore) { s.store = v }

func (s *Sample) Property(name string) (any, bool) {
	switch name {
	case "name":
		return s.name, true
	case "sample-rate":
		return s.sampleRate, true
	case "root-note":
		return s.rootNote, true
	}
	return nil, false
}

func (s *Sample) New() item.Item { return NewSample(s.name) }

func (s *Sample) CopyFrom(src item.Item, resolver item.LinkResolver) error {
	o := src.(*Sample)
	s.name = o.name
	s.sampleRate = o.sampleRate
	s.size = o.size
	s.loopStart, s.loopEnd = o.loopStart, o.loopEnd
	s.rootNote = o.rootNote
	s.fineTune = o.fineTune
	s.store = o.store
	return nil
}
