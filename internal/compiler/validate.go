package compiler

import (
	"errors"
	"fmt"

	"github.com/reoring/facadegen/internal/ir"
	"github.com/reoring/facadegen/internal/naming"
	"github.com/reoring/facadegen/schema"
)

// validate checks the model structurally before anything is emitted: every
// reference resolves, params reference objects, and field names are unique.
// All problems are reported together, in a stable order.
func (r *Run) validate(m *ir.Model) error {
	var errs []error
	for _, ref := range r.refs.All() {
		if ref.Target() == nil {
			errs = append(errs, &schema.UnresolvedReferenceError{Name: ref.Name(), From: r.refs.referrersOf(ref)})
		}
	}
	for _, obj := range m.Objects() {
		if err := validateObject(obj); err != nil {
			errs = append(errs, err)
		}
	}
	for _, name := range m.Facades.Names() {
		for _, v := range m.Facades.Versions(name) {
			f, _ := m.Facades.Lookup(name, v)
			for _, meth := range f.Methods {
				if meth.Params == nil || meth.Params.Target() == nil {
					continue
				}
				if _, ok := meth.Params.Object(); !ok {
					errs = append(errs, &schema.ShapeError{
						Path:    fmt.Sprintf("%s/v%d/%s/Params", f.Name, f.Version, meth.Name),
						Message: fmt.Sprintf("%q is not an object definition", meth.Params.Name()),
					})
				}
			}
		}
	}
	return errors.Join(errs...)
}

func validateObject(obj *ir.Object) error {
	locals := make(map[string]struct{}, len(obj.Fields))
	for i, f := range obj.Fields {
		if i > 0 && obj.Fields[i-1].WireName >= f.WireName {
			return &schema.DuplicateFieldError{Object: obj.Name, WireName: f.WireName}
		}
		if _, dup := locals[f.LocalName]; dup || naming.IsReserved(f.LocalName) {
			return &schema.NameConflictError{
				Identifier: f.LocalName,
				First:      obj.Name,
				Second:     fmt.Sprintf("%s.%s", obj.Name, f.WireName),
			}
		}
		locals[f.LocalName] = struct{}{}
		if w, _ := obj.WireName(f.LocalName); w != f.WireName {
			return &schema.NameConflictError{Identifier: f.LocalName, First: obj.Name + "." + w, Second: obj.Name + "." + f.WireName}
		}
	}
	return nil
}
