package compiler

import (
	"maps"
	"slices"
	"strings"

	"github.com/reoring/facadegen/internal/ir"
)

const definitionsPrefix = "#/definitions/"

// ReferenceName strips the local definitions prefix from a $ref path.
func ReferenceName(path string) string {
	if strings.HasPrefix(path, definitionsPrefix) {
		return path[strings.LastIndex(path, "/")+1:]
	}
	return path
}

// Refs interns forward references: one placeholder per definition name,
// created on first use and returned unchanged afterwards. Because a
// placeholder exists before its body is compiled, mutually recursive
// definitions can refer to each other.
type Refs struct {
	byName    map[string]*ir.Reference
	byRef     map[*ir.Reference]string
	referrers map[*ir.Reference]map[string]struct{}
}

func newRefs() *Refs {
	return &Refs{
		byName:    make(map[string]*ir.Reference),
		byRef:     make(map[*ir.Reference]string),
		referrers: make(map[*ir.Reference]map[string]struct{}),
	}
}

// Resolve returns the placeholder for path, creating it when needed.
func (r *Refs) Resolve(path string) *ir.Reference {
	name := ReferenceName(path)
	if ref, ok := r.byName[name]; ok {
		return ref
	}
	ref := ir.NewReference(name)
	r.byName[name] = ref
	r.byRef[ref] = name
	return ref
}

// Lookup returns the placeholder already issued for name.
func (r *Refs) Lookup(name string) (*ir.Reference, bool) {
	ref, ok := r.byName[name]
	return ref, ok
}

// NameOf is the reverse of Lookup.
func (r *Refs) NameOf(ref *ir.Reference) (string, bool) {
	name, ok := r.byRef[ref]
	return name, ok
}

// All returns every issued placeholder sorted by name.
func (r *Refs) All() []*ir.Reference {
	out := make([]*ir.Reference, 0, len(r.byName))
	for _, name := range slices.Sorted(maps.Keys(r.byName)) {
		out = append(out, r.byName[name])
	}
	return out
}

func (r *Refs) noteReferrer(ref *ir.Reference, from string) {
	set, ok := r.referrers[ref]
	if !ok {
		set = make(map[string]struct{})
		r.referrers[ref] = set
	}
	set[from] = struct{}{}
}

func (r *Refs) referrersOf(ref *ir.Reference) []string {
	return slices.Sorted(maps.Keys(r.referrers[ref]))
}
