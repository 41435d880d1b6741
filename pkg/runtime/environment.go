package runtime

import (
	"fmt"
	"sort"
)

// Scope binds a function's parameters for the duration of one call. Only
// declared parameters are members; assignments to any other name fall
// through to the global scope.
type Scope struct {
	values map[string]Value
}

// NewScope binds parameter names to argument values positionally. Callers
// guarantee the slices have equal length.
func NewScope(names []string, values []Value) *Scope {
	s := &Scope{values: make(map[string]Value, len(names))}
	for i, name := range names {
		s.values[name] = values[i]
	}
	return s
}

func (s *Scope) binds(name string) bool {
	if s == nil {
		return false
	}
	_, ok := s.values[name]
	return ok
}

// Environment is the two-level variable store: one global scope for the
// whole session and at most one active local scope. A function call
// replaces the active local scope outright rather than stacking onto it;
// the engine retains the previous scope and restores it on return.
type Environment struct {
	global map[string]Value
	local  *Scope
}

// NewEnvironment creates an environment with an empty global scope and no
// active local scope.
func NewEnvironment() *Environment {
	return &Environment{global: make(map[string]Value)}
}

// Get retrieves a binding, consulting the active local scope's parameters
// before the global scope.
func (e *Environment) Get(name string) (Value, error) {
	if e.local.binds(name) {
		return e.local.values[name], nil
	}
	if v, ok := e.global[name]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("unrecognized name '%s'", name)
}

// Set updates the binding in the active local scope when name is one of its
// parameters, otherwise creates or updates the global binding. Globals
// cannot be shadow-written from inside a call unless the name is a declared
// parameter.
func (e *Environment) Set(name string, value Value) {
	if e.local.binds(name) {
		e.local.values[name] = value
		return
	}
	e.global[name] = value
}

// OpenScope installs scope as the active local scope and returns whatever
// was active before, for the caller to restore via CloseScope. Calls pair
// strictly LIFO with the call stack, on every exit path.
func (e *Environment) OpenScope(scope *Scope) *Scope {
	prev := e.local
	e.local = scope
	return prev
}

// CloseScope discards the active local scope and restores prev.
func (e *Environment) CloseScope(prev *Scope) {
	e.local = prev
}

// GlobalSnapshot returns a copy of the global bindings.
func (e *Environment) GlobalSnapshot() map[string]Value {
	out := make(map[string]Value, len(e.global))
	for k, v := range e.global {
		out[k] = v
	}
	return out
}

// GlobalKeys returns the global binding names in sorted order (useful for
// determinism in tests).
func (e *Environment) GlobalKeys() []string {
	keys := make([]string, 0, len(e.global))
	for k := range e.global {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
