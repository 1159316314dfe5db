package compiler

import (
	"maps"
	"slices"

	"github.com/reoring/facadegen/internal/ir"
	"github.com/reoring/facadegen/schema"
)

// CompileFacade compiles the method property bag of rec. It must run after
// the definitions the methods refer to have been compiled.
func (r *Run) CompileFacade(rec schema.Record) (*ir.Facade, error) {
	return r.compileFacade("", rec)
}

func (r *Run) compileFacade(token string, rec schema.Record) (*ir.Facade, error) {
	methods := rec.Methods()
	f := &ir.Facade{Name: rec.Name, Version: rec.Version, Methods: make([]*ir.Method, 0, len(methods))}
	for _, name := range slices.Sorted(maps.Keys(methods)) {
		m, err := r.compileMethod(token, rec, name)
		if err != nil {
			return nil, err
		}
		f.Methods = append(f.Methods, m)
	}
	return f, nil
}

// CompileMethod compiles one method of rec.
func (r *Run) CompileMethod(rec schema.Record, name string) (*ir.Method, error) {
	return r.compileMethod("", rec, name)
}

func (r *Run) compileMethod(token string, rec schema.Record, name string) (*ir.Method, error) {
	path := joinPath(token, rec.Name, "properties", name)
	node, ok := rec.Methods()[name].(map[string]any)
	if !ok {
		return nil, &schema.ShapeError{Path: path, Message: "method must be an object"}
	}
	m := &ir.Method{Name: name}
	props, err := mapAt(node, "properties", path)
	if err != nil {
		return nil, err
	}
	from := rec.Name + "." + name

	if raw, ok := props["Params"]; ok && raw != nil {
		pnode, ok := raw.(map[string]any)
		ref, hasRef := refOf(pnode)
		if !ok || !hasRef {
			return nil, &schema.ShapeError{Path: path + "/Params", Message: "Params must be a $ref to an object definition"}
		}
		m.Params = r.reference(ref, from)
		r.bind(m.Params)
	}

	if raw, ok := props["Result"]; ok && raw != nil {
		rnode, ok := raw.(map[string]any)
		if !ok {
			return nil, &schema.ShapeError{Path: path + "/Result", Message: "Result must be an object"}
		}
		res, err := r.resultType(rnode, from, path+"/Result")
		if err != nil {
			return nil, err
		}
		m.Result = res
	}
	return m, nil
}

// resultType resolves a Result fragment. A reference to an object whose
// fields have more than one distinct shape becomes a Union over those shapes,
// which is how the schemas spell "the declared result or an error".
func (r *Run) resultType(node map[string]any, from, path string) (ir.TypeDescriptor, error) {
	if ref, ok := refOf(node); ok {
		rt := r.reference(ref, from)
		r.bind(rt)
		if alts := alternatives(rt); len(alts) > 1 {
			return &ir.Union{Source: rt, Alternatives: alts}, nil
		}
		return rt, nil
	}
	if typeOf(node) == "array" {
		return r.compileArray(node, from, path)
	}
	return scalar(typeOf(node), path)
}

func alternatives(ref *ir.Reference) []ir.TypeDescriptor {
	obj, ok := ref.Object()
	if !ok || len(obj.Fields) < 2 {
		return nil
	}
	var out []ir.TypeDescriptor
	seen := make(map[string]struct{}, len(obj.Fields))
	for _, f := range obj.Fields {
		key := f.Type.String()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, f.Type)
	}
	return out
}
