package ir

import (
	"maps"
	"slices"
)

// Versioned maps a name to its registered versions. A version, once
// registered, is not overwritten by Register.
type Versioned[T any] struct {
	entries map[string]map[int]T
	pinned  map[string]int
}

// NewVersioned returns an empty registry.
func NewVersioned[T any]() *Versioned[T] {
	return &Versioned[T]{entries: make(map[string]map[int]T), pinned: make(map[string]int)}
}

// Register records v for name at version. It reports false, leaving the
// registry untouched, when that version is already taken.
func (r *Versioned[T]) Register(name string, version int, v T) bool {
	vs, ok := r.entries[name]
	if !ok {
		vs = make(map[int]T)
		r.entries[name] = vs
	}
	if _, taken := vs[version]; taken {
		return false
	}
	vs[version] = v
	return true
}

// Supersede records v for name at version, replacing an earlier entry at
// that version, and pins it as the current entry for name. It is reserved
// for definitions on the override list, which are recompiled on purpose so
// the newest declaration wins.
func (r *Versioned[T]) Supersede(name string, version int, v T) {
	vs, ok := r.entries[name]
	if !ok {
		vs = make(map[int]T)
		r.entries[name] = vs
	}
	vs[version] = v
	r.pinned[name] = version
}

// Has reports whether any version of name is registered.
func (r *Versioned[T]) Has(name string) bool {
	_, ok := r.entries[name]
	return ok
}

// Lookup returns the entry for name at exactly version.
func (r *Versioned[T]) Lookup(name string, version int) (T, bool) {
	v, ok := r.entries[name][version]
	return v, ok
}

// Latest returns the entry with the highest version for name.
func (r *Versioned[T]) Latest(name string) (T, int, bool) {
	var zero T
	vs := r.Versions(name)
	if len(vs) == 0 {
		return zero, 0, false
	}
	top := vs[len(vs)-1]
	return r.entries[name][top], top, true
}

// Current returns the entry generation uses for name: the last superseding
// entry when there is one, the highest version otherwise.
func (r *Versioned[T]) Current(name string) (T, int, bool) {
	if v, ok := r.pinned[name]; ok {
		return r.entries[name][v], v, true
	}
	return r.Latest(name)
}

// Versions returns the registered versions of name, ascending.
func (r *Versioned[T]) Versions(name string) []int {
	return slices.Sorted(maps.Keys(r.entries[name]))
}

// Names returns every registered name, sorted.
func (r *Versioned[T]) Names() []string {
	return slices.Sorted(maps.Keys(r.entries))
}
