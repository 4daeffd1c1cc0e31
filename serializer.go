package instpatch

import (
	"encoding/json"
	"fmt"
	"io"
)

// serializerVersion is the snapshot format version; Restore and
// LoadFromReader reject a mismatched version rather than guess at a migration.
const serializerVersion = "1.0.0"

// OptionsSnapshot is the serializable form of an Options value: the
// plain data, with none of the dirty-flag/callback plumbing that makes
// Options itself unmarshalable.
type OptionsSnapshot struct {
	Version string `json:"version"`
	Reverb  Reverb `json:"reverb"`
	Chorus  Chorus `json:"chorus"`
	Interp  Interp `json:"interp"`
}

// Snapshot captures o's current values for persistence. Dirty state
// isn't part of the snapshot: restoring one always marks both groups
// dirty, so the next Flush re-applies them to the driver.
func (o *Options) Snapshot() OptionsSnapshot {
	return OptionsSnapshot{
		Version: serializerVersion,
		Reverb:  o.Reverb,
		Chorus:  o.Chorus,
		Interp:  o.Interp,
	}
}

// Restore loads a previously captured snapshot into o, marking both
// groups dirty so the values take effect on the next Flush.
func (o *Options) Restore(snap OptionsSnapshot) error {
	if snap.Version != serializerVersion {
		return fmt.Errorf("instpatch: incompatible options snapshot version: got %s, want %s", snap.Version, serializerVersion)
	}
	o.Reverb = snap.Reverb
	o.Chorus = snap.Chorus
	o.Interp = snap.Interp
	o.reverbDirty = true
	o.chorusDirty = true
	return nil
}

// SaveToWriter writes o's snapshot as indented JSON.
func (o *Options) SaveToWriter(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(o.Snapshot())
}

// LoadFromReader reads a snapshot as JSON and restores it into o.
func (o *Options) LoadFromReader(r io.Reader) error {
	var snap OptionsSnapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return fmt.Errorf("instpatch: decode options snapshot: %w", err)
	}
	return o.Restore(snap)
}
