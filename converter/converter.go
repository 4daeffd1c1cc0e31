// Package converter is a process-wide registry mapping a Base item's
// dynamic type to the FileType it can be saved as (or loaded from),
// generalizing IpatchConverter's lookup-by-GType pair into a portable
// registry keyed by type name instead of cgo GType introspection. The
// filterable-collection shape (ByX methods returning the same
// collection type) mirrors a plugin registry's ByManufacturer/ByType
// filter methods.
package converter

import "fmt"

// Info describes one registered converter: the item type name it
// reads from and the file type name it writes to (or vice versa for
// load), plus the function that performs the conversion.
type Info struct {
	SourceType string
	DestType   string
	Convert    func(src any) (any, error)
}

// Converters is a filterable collection of registered converters.
type Converters []Info

var registry Converters

// Register adds info to the process-wide registry.
func Register(info Info) {
	registry = append(registry, info)
}

// All returns every registered converter.
func All() Converters { return append(Converters(nil), registry...) }

// BySourceType returns converters reading from sourceType.
func (c Converters) BySourceType(sourceType string) Converters {
	var out Converters
	for _, info := range c {
		if info.SourceType == sourceType {
			out = append(out, info)
		}
	}
	return out
}

// ByDestType returns converters writing to destType.
func (c Converters) ByDestType(destType string) Converters {
	var out Converters
	for _, info := range c {
		if info.DestType == destType {
			out = append(out, info)
		}
	}
	return out
}

// Lookup finds the (first registered) converter for an exact
// source/dest pair, the generalization of
// ipatch_lookup_converter_info(0, srcType, destType).
func Lookup(sourceType, destType string) (Info, bool) {
	for _, info := range registry {
		if info.SourceType == sourceType && info.DestType == destType {
			return info, true
		}
	}
	return Info{}, false
}

// Convert runs the registered converter for (sourceType, destType) on
// src, or an error if none is registered.
func Convert(sourceType, destType string, src any) (any, error) {
	info, ok := Lookup(sourceType, destType)
	if !ok {
		return nil, fmt.Errorf("no converter registered from %s to %s", sourceType, destType)
	}
	return info.Convert(src)
}
