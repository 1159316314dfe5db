package rpc

import (
	"maps"
	"slices"
)

// FieldMap holds the two 1:1 name maps of a generated definition.
type FieldMap struct {
	toLocal map[string]string
	toWire  map[string]string
}

// NewFieldMap builds a FieldMap from wire name → local name pairs. It panics
// if two wire names share a local name, which generated code never does.
func NewFieldMap(wireToLocal map[string]string) FieldMap {
	m := FieldMap{
		toLocal: maps.Clone(wireToLocal),
		toWire:  make(map[string]string, len(wireToLocal)),
	}
	for w, l := range wireToLocal {
		if prev, dup := m.toWire[l]; dup {
			panic("rpc: local name " + l + " used by " + prev + " and " + w)
		}
		m.toWire[l] = w
	}
	return m
}

// LocalName returns the local name of a wire key.
func (m FieldMap) LocalName(wire string) (string, bool) {
	l, ok := m.toLocal[wire]
	return l, ok
}

// WireName returns the wire key of a local name.
func (m FieldMap) WireName(local string) (string, bool) {
	w, ok := m.toWire[local]
	return w, ok
}

// WireNames returns the declared wire keys in sorted order.
func (m FieldMap) WireNames() []string {
	return slices.Sorted(maps.Keys(m.toLocal))
}

// Len returns the number of declared fields.
func (m FieldMap) Len() int { return len(m.toLocal) }

// Unknown returns the entries of data that fields does not declare, or nil
// when there are none.
func Unknown(data map[string]any, fields FieldMap) map[string]any {
	var out map[string]any
	for k, v := range data {
		if _, known := fields.toLocal[k]; known {
			continue
		}
		if out == nil {
			out = make(map[string]any)
		}
		out[k] = v
	}
	return out
}

// Merge returns a new map holding unknown overlaid with known. Generated
// Serialize methods use it so retained keys survive a round trip.
func Merge(unknown, known map[string]any) map[string]any {
	out := make(map[string]any, len(unknown)+len(known))
	maps.Copy(out, unknown)
	maps.Copy(out, known)
	return out
}
