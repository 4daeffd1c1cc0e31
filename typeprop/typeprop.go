// Package typeprop implements the process-wide type-property registry
// (C5): a GType-like metadata store mapping (type name, property name)
// to either a constant value or a dynamic resolver callback. A
// read-mostly global behind a mutex, the same shape as
// voice.DefaultSoloManager.
package typeprop

import "sync"

// Resolver computes a property's value for a specific instance. obj may
// be nil when the query is type-level only (e.g. "what property specs
// does this type declare"). Grounded on the driver-facing
// "virtual-parent-type depends on bank number" example in spec.md §8
// scenario 6.
type Resolver func(typeName, property string, obj any) (any, bool)

type entry struct {
	constant any
	hasConst bool
	resolve  Resolver
}

// Registry is a process-wide, read-mostly (writes are rare, reads are
// hot) (type, property) -> value/resolver map.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]map[string]entry
}

func New() *Registry {
	return &Registry{entries: make(map[string]map[string]entry)}
}

// RegisterConstant installs a fixed value for (typeName, property).
func (r *Registry) RegisterConstant(typeName, property string, value any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensure(typeName)[property] = entry{constant: value, hasConst: true}
}

// RegisterResolver installs a dynamic getter for (typeName, property).
func (r *Registry) RegisterResolver(typeName, property string, resolve Resolver) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensure(typeName)[property] = entry{resolve: resolve}
}

func (r *Registry) ensure(typeName string) map[string]entry {
	m, ok := r.entries[typeName]
	if !ok {
		m = make(map[string]entry)
		r.entries[typeName] = m
	}
	return m
}

// Query resolves (typeName, property) for obj (may be nil for
// type-level-only queries). Returns ok=false if nothing is registered.
func (r *Registry) Query(typeName, property string, obj any) (any, bool) {
	r.mu.RLock()
	m, ok := r.entries[typeName]
	if !ok {
		r.mu.RUnlock()
		return nil, false
	}
	e, ok := m[property]
	r.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if e.hasConst {
		return e.constant, true
	}
	if e.resolve != nil {
		return e.resolve(typeName, property, obj)
	}
	return nil, false
}

// Has reports whether anything is registered for (typeName, property).
func (r *Registry) Has(typeName, property string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.entries[typeName]
	if !ok {
		return false
	}
	_, ok = m[property]
	return ok
}

// Default is the process-wide registry embedders construct once per
// process (spec.md §9 "Global state").
var Default = New()
