package compiler

import (
	"maps"
	"slices"
	"strings"

	"github.com/reoring/facadegen/internal/ir"
	"github.com/reoring/facadegen/internal/naming"
	"github.com/reoring/facadegen/schema"
)

// wildcardPattern is the only patternProperties key the compiler accepts.
const wildcardPattern = ".*"

type rawField struct {
	wire string
	typ  ir.TypeDescriptor
}

// CompileDefinitions registers every definition of rec at rec.Version.
// Arrays get no standalone type. A name already registered by an earlier
// record is skipped unless it is on the override list.
func (r *Run) CompileDefinitions(rec schema.Record) error {
	return r.compileDefinitions("", rec)
}

func (r *Run) compileDefinitions(token string, rec schema.Record) error {
	defs := rec.Definitions()
	for _, name := range slices.Sorted(maps.Keys(defs)) {
		_, override := r.overrides[name]
		if r.types.Has(name) && !override {
			r.log.Debug().Str("definition", name).Str("facade", rec.Name).Int("version", rec.Version).
				Msg("definition already registered; keeping first declaration")
			continue
		}
		path := joinPath(token, rec.Name, "definitions", name)
		node, ok := defs[name].(map[string]any)
		if !ok {
			return &schema.ShapeError{Path: path, Message: "definition must be an object"}
		}
		node, err := deref(node, defs, path)
		if err != nil {
			return err
		}

		var t ir.TypeDescriptor
		switch kind := typeOf(node); {
		case kind == "array":
			r.log.Debug().Str("definition", name).Msg("array definition gets no standalone type")
			continue
		case kind == "object" || (kind == "" && looksLikeObject(node)):
			obj, err := r.compileObject(node, name, path)
			if err != nil {
				return err
			}
			t = obj
		default:
			s, err := scalar(kind, path)
			if err != nil {
				return err
			}
			t = s
		}
		r.refs.Resolve(name)

		if r.types.Has(name) {
			r.log.Debug().Str("definition", name).Int("version", rec.Version).Msg("recompiling override")
			r.types.Supersede(name, rec.Version, t)
			continue
		}
		r.types.Register(name, rec.Version, t)
	}
	return nil
}

// CompileObject compiles an object node named name.
func (r *Run) CompileObject(node map[string]any, name string) (*ir.Object, error) {
	return r.compileObject(node, name, name)
}

func (r *Run) compileObject(node map[string]any, name, path string) (*ir.Object, error) {
	raw, err := r.objectFields(node, name, path)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(raw, func(a, b rawField) int { return strings.Compare(a.wire, b.wire) })
	fields := make([]ir.Field, 0, len(raw))
	locals := naming.NewSet(naming.IsReserved)
	for i, f := range raw {
		if i > 0 && raw[i-1].wire == f.wire {
			return nil, &schema.DuplicateFieldError{Object: name, WireName: f.wire}
		}
		fields = append(fields, ir.Field{
			WireName:  f.wire,
			LocalName: locals.Claim(naming.Local(f.wire)),
			Type:      f.typ,
		})
	}
	return ir.NewObject(name, fields), nil
}

// objectFields collects the fields of node. Inline objects are field
// grouping, not substructure: their fields are hoisted into the parent.
func (r *Run) objectFields(node map[string]any, name, path string) ([]rawField, error) {
	var out []rawField
	props, err := mapAt(node, "properties", path)
	if err != nil {
		return nil, err
	}
	for _, p := range slices.Sorted(maps.Keys(props)) {
		ppath := path + "/properties/" + p
		prop, ok := props[p].(map[string]any)
		if !ok {
			return nil, &schema.ShapeError{Path: ppath, Message: "property must be an object"}
		}
		if ref, ok := refOf(prop); ok {
			out = append(out, rawField{wire: p, typ: r.reference(ref, name)})
			continue
		}
		switch kind := typeOf(prop); kind {
		case "array":
			seq, err := r.compileArray(prop, name, ppath)
			if err != nil {
				return nil, err
			}
			out = append(out, rawField{wire: p, typ: seq})
		case "object":
			nested, err := r.objectFields(prop, p, ppath)
			if err != nil {
				return nil, err
			}
			if len(nested) == 0 {
				r.log.Debug().Str("path", ppath).Msg("closed inline object without properties yields no field")
			}
			out = append(out, nested...)
		default:
			s, err := scalar(kind, ppath)
			if err != nil {
				return nil, err
			}
			out = append(out, rawField{wire: p, typ: s})
		}
	}

	patterns, err := mapAt(node, "patternProperties", path)
	if err != nil {
		return nil, err
	}
	if len(patterns) > 0 {
		value, ok := patterns[wildcardPattern]
		if len(patterns) > 1 || !ok {
			return nil, &schema.UnsupportedPatternError{Path: path, Patterns: slices.Sorted(maps.Keys(patterns))}
		}
		vnode, ok := value.(map[string]any)
		if !ok {
			return nil, &schema.ShapeError{Path: path + "/patternProperties", Message: "pattern value must be an object"}
		}
		vt, err := r.valueType(vnode, name, path+"/patternProperties")
		if err != nil {
			return nil, err
		}
		out = append(out, rawField{wire: name, typ: &ir.Mapping{Value: vt}})
	}

	if len(out) == 0 && isOpen(node["additionalProperties"]) {
		out = append(out, rawField{wire: name, typ: &ir.Mapping{Value: &ir.Scalar{Name: ir.ScalarAny}}})
	}
	return out, nil
}

// CompileArray compiles an array node; nested arrays nest sequences.
func (r *Run) CompileArray(node map[string]any) (*ir.Sequence, error) {
	return r.compileArray(node, "", "array")
}

func (r *Run) compileArray(node map[string]any, owner, path string) (*ir.Sequence, error) {
	items, ok := node["items"]
	if !ok || items == nil {
		return &ir.Sequence{Element: &ir.Scalar{Name: ir.ScalarAny}}, nil
	}
	inode, ok := items.(map[string]any)
	if !ok {
		return nil, &schema.ShapeError{Path: path + "/items", Message: "only a single items schema is supported"}
	}
	elem, err := r.valueType(inode, owner, path+"/items")
	if err != nil {
		return nil, err
	}
	return &ir.Sequence{Element: elem}, nil
}

// valueType compiles the schema of an array element or map value. Inline
// objects in these positions are untyped.
func (r *Run) valueType(node map[string]any, owner, path string) (ir.TypeDescriptor, error) {
	if ref, ok := refOf(node); ok {
		return r.reference(ref, owner), nil
	}
	switch kind := typeOf(node); kind {
	case "array":
		return r.compileArray(node, owner, path)
	default:
		return scalar(kind, path)
	}
}

func (r *Run) reference(path, from string) *ir.Reference {
	ref := r.refs.Resolve(path)
	if from != "" {
		r.refs.noteReferrer(ref, from)
	}
	return ref
}

func scalar(kind, path string) (*ir.Scalar, error) {
	k, ok := ir.LookupScalar(kind)
	if !ok {
		return nil, &schema.UnknownScalarKindError{Path: path, Kind: kind}
	}
	return &ir.Scalar{Name: k}, nil
}

// deref follows a definition that is itself a $ref to a sibling definition.
func deref(node, defs map[string]any, path string) (map[string]any, error) {
	ref, ok := refOf(node)
	if !ok {
		return node, nil
	}
	target, ok := defs[ReferenceName(ref)].(map[string]any)
	if !ok {
		return nil, &schema.UnresolvedReferenceError{Name: ReferenceName(ref), From: []string{path}}
	}
	return target, nil
}

func refOf(node map[string]any) (string, bool) {
	ref, ok := node["$ref"].(string)
	return ref, ok && ref != ""
}

func typeOf(node map[string]any) string {
	t, _ := node["type"].(string)
	return t
}

func looksLikeObject(node map[string]any) bool {
	for _, k := range []string{"properties", "patternProperties", "additionalProperties"} {
		if _, ok := node[k]; ok {
			return true
		}
	}
	return false
}

func mapAt(node map[string]any, key, path string) (map[string]any, error) {
	v, ok := node[key]
	if !ok || v == nil {
		return nil, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, &schema.ShapeError{Path: path + "/" + key, Message: key + " must be an object"}
	}
	return m, nil
}

// isOpen reports whether additionalProperties allows untyped extra keys.
// Schemas in the wild spell false as the string "false".
func isOpen(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != "" && t != "false"
	case map[string]any:
		return len(t) > 0
	default:
		return true
	}
}

func joinPath(parts ...string) string {
	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('/')
		}
		b.WriteString(p)
	}
	return b.String()
}
