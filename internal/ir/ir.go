package ir

// Package ir defines the typed model the compiler builds from schema bundles
// and the emitter renders. This package is internal and not part of the
// public API.

import (
	"slices"
	"strings"
)

// NodeKind identifies a TypeDescriptor variant.
type NodeKind int

const (
	NodeScalar NodeKind = iota
	NodeReference
	NodeSequence
	NodeMapping
	NodeObject
	NodeUnion
)

// TypeDescriptor is the root interface of the type model.
type TypeDescriptor interface {
	Kind() NodeKind
	// String renders the descriptor in a compact, stable notation used for
	// documentation and for comparing shapes.
	String() string
}

// ScalarKind names a schema scalar type.
type ScalarKind string

const (
	ScalarString  ScalarKind = "string"
	ScalarInteger ScalarKind = "integer"
	ScalarFloat   ScalarKind = "float"
	ScalarNumber  ScalarKind = "number"
	ScalarBoolean ScalarKind = "boolean"
	ScalarAny     ScalarKind = "object"
)

// LookupScalar maps a schema "type" value to its scalar kind.
func LookupScalar(name string) (ScalarKind, bool) {
	switch k := ScalarKind(name); k {
	case ScalarString, ScalarInteger, ScalarFloat, ScalarNumber, ScalarBoolean, ScalarAny:
		return k, true
	}
	return "", false
}

// Scalar is a primitive value. ScalarAny stands for untyped JSON.
type Scalar struct {
	Name ScalarKind
}

func (s *Scalar) Kind() NodeKind { return NodeScalar }

func (s *Scalar) String() string {
	if s.Name == ScalarAny {
		return "any"
	}
	return string(s.Name)
}

// Reference is the interned placeholder for a named definition. The compiler
// issues exactly one Reference per name, so pointer equality is name
// equality; the target is bound once every definition has been compiled.
type Reference struct {
	name   string
	target TypeDescriptor
}

// NewReference returns an unbound placeholder. Only the compiler's reference
// registry should call it.
func NewReference(name string) *Reference { return &Reference{name: name} }

func (r *Reference) Kind() NodeKind { return NodeReference }
func (r *Reference) String() string { return r.name }

// Name returns the referenced definition name.
func (r *Reference) Name() string { return r.name }

// Target returns the bound *Object or *Scalar, or nil while unresolved.
func (r *Reference) Target() TypeDescriptor { return r.target }

// Bind attaches the compiled definition. Binding twice keeps the first target.
func (r *Reference) Bind(t TypeDescriptor) {
	if r.target == nil {
		r.target = t
	}
}

// Object returns the bound object, if the reference targets one.
func (r *Reference) Object() (*Object, bool) {
	o, ok := r.target.(*Object)
	return o, ok
}

// Sequence is an ordered list of Element.
type Sequence struct {
	Element TypeDescriptor
}

func (s *Sequence) Kind() NodeKind { return NodeSequence }
func (s *Sequence) String() string { return "[]" + s.Element.String() }

// Mapping is a string-keyed map of Value.
type Mapping struct {
	Value TypeDescriptor
}

func (m *Mapping) Kind() NodeKind { return NodeMapping }
func (m *Mapping) String() string { return "map[string]" + m.Value.String() }

// Union lists the distinct alternative shapes of a result definition (for
// example "the declared result or an error"). Source is the definition the
// alternatives were read from; replies are decoded through it.
type Union struct {
	Source       *Reference
	Alternatives []TypeDescriptor
}

func (u *Union) Kind() NodeKind { return NodeUnion }

func (u *Union) String() string {
	parts := make([]string, len(u.Alternatives))
	for i, a := range u.Alternatives {
		parts[i] = a.String()
	}
	return strings.Join(parts, " | ")
}

// Field maps a wire name to a local name and a type.
type Field struct {
	WireName  string // as transmitted
	LocalName string // unique within the owning object, never reserved
	Type      TypeDescriptor
}

// Object is a compiled object definition (ObjectTypeDef). Fields are sorted
// by wire name.
type Object struct {
	Name   string
	Fields []Field

	toLocal map[string]string
	toWire  map[string]string
}

// NewObject builds an object from fields already sorted by wire name with
// unique local names.
func NewObject(name string, fields []Field) *Object {
	o := &Object{
		Name:    name,
		Fields:  fields,
		toLocal: make(map[string]string, len(fields)),
		toWire:  make(map[string]string, len(fields)),
	}
	for _, f := range fields {
		o.toLocal[f.WireName] = f.LocalName
		o.toWire[f.LocalName] = f.WireName
	}
	return o
}

func (o *Object) Kind() NodeKind { return NodeObject }
func (o *Object) String() string { return o.Name }

// LocalName returns the local name of a wire field.
func (o *Object) LocalName(wire string) (string, bool) {
	l, ok := o.toLocal[wire]
	return l, ok
}

// WireName returns the wire name of a local field.
func (o *Object) WireName(local string) (string, bool) {
	w, ok := o.toWire[local]
	return w, ok
}

// Field returns the field with the given wire name.
func (o *Object) Field(wire string) (Field, bool) {
	i, ok := slices.BinarySearchFunc(o.Fields, wire, func(f Field, w string) int {
		return strings.Compare(f.WireName, w)
	})
	if !ok {
		return Field{}, false
	}
	return o.Fields[i], true
}

// Method is one remote call of a facade. Params is nil for parameterless
// methods and Result is nil when nothing is returned.
type Method struct {
	Name   string
	Params *Reference
	Result TypeDescriptor
}

// ParamsObject returns the object behind Params.
func (m *Method) ParamsObject() *Object {
	if m.Params == nil {
		return nil
	}
	o, _ := m.Params.Object()
	return o
}

// Facade is one versioned RPC service (FacadeDef). Methods are sorted by
// name.
type Facade struct {
	Name    string
	Version int
	Methods []*Method
}

// Method returns the named method.
func (f *Facade) Method(name string) (*Method, bool) {
	i, ok := slices.BinarySearchFunc(f.Methods, name, func(m *Method, n string) int {
		return strings.Compare(m.Name, n)
	})
	if !ok {
		return nil, false
	}
	return f.Methods[i], true
}

// Model is the validated result of one generation run.
type Model struct {
	Types   *Versioned[TypeDescriptor] // *Object or *Scalar per definition
	Facades *Versioned[*Facade]
}

// Objects returns the current entry of every object definition, sorted by
// name.
func (m *Model) Objects() []*Object {
	var out []*Object
	for _, name := range m.Types.Names() {
		t, _, _ := m.Types.Current(name)
		if o, ok := t.(*Object); ok {
			out = append(out, o)
		}
	}
	return out
}

// FacadeVersions returns every version at which at least one facade is
// registered, ascending.
func (m *Model) FacadeVersions() []int {
	seen := map[int]struct{}{}
	for _, name := range m.Facades.Names() {
		for _, v := range m.Facades.Versions(name) {
			seen[v] = struct{}{}
		}
	}
	out := make([]int, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}

// FacadesAt returns the facades registered at version, sorted by name.
func (m *Model) FacadesAt(version int) []*Facade {
	var out []*Facade
	for _, name := range m.Facades.Names() {
		if f, ok := m.Facades.Lookup(name, version); ok {
			out = append(out, f)
		}
	}
	return out
}
