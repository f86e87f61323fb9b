package fern

import (
	"github.com/fernlabs/go-fern/internal"
)

// Scope is the read-only data context a template renders against. It
// supports dotted/bracketed path resolution (e.g., "user.items[0].name")
// and layered derivation: each iteration appends a child scope whose
// bindings shadow the parent without mutating it, so sibling iterations
// never observe each other's bindings.
//
// A Scope is never written after construction, so one Scope may back
// concurrent Render calls.
type Scope struct {
	data   map[string]any
	parent *Scope
}

// NewScope creates a scope over the given data.
// If data is nil, an empty map is used.
func NewScope(data map[string]any) *Scope {
	if data == nil {
		data = make(map[string]any)
	}
	return &Scope{data: data}
}

// Get retrieves a value by property path (e.g., "user.profile.name").
// Returns the value and true if found, or nil and false if not found.
func (s *Scope) Get(path string) (any, bool) {
	steps, ok := internal.ParsePath(path)
	if !ok {
		return nil, false
	}
	return s.ResolveSteps(steps)
}

// Has checks if a value exists at the given path.
func (s *Scope) Has(path string) bool {
	_, ok := s.Get(path)
	return ok
}

// Child creates a derived scope with the given bindings layered over
// this scope. A binding shadows the parent's value for its name
// entirely: if the bound value lacks a nested field, resolution misses
// rather than falling back to the parent.
func (s *Scope) Child(bindings map[string]any) *Scope {
	if bindings == nil {
		bindings = make(map[string]any)
	}
	return &Scope{data: bindings, parent: s}
}

// ResolveSteps resolves a pre-parsed property path.
// This implements the internal Scope interface consumed by branches.
func (s *Scope) ResolveSteps(steps []internal.PathStep) (any, bool) {
	if len(steps) == 0 || steps[0].IsIndex {
		return nil, false
	}

	if val, ok := s.data[steps[0].Key]; ok {
		return internal.LookupSteps(val, steps[1:])
	}
	if s.parent != nil {
		return s.parent.ResolveSteps(steps)
	}
	return nil, false
}

// Derive implements the internal Scope interface.
func (s *Scope) Derive(bindings map[string]any) internal.Scope {
	return s.Child(bindings)
}
