// Package compiler turns schema bundles into the typed model of package ir.
//
// A generation run is a pure function of its input: every piece of state
// lives in a Run that is created for the run and dropped afterwards.
package compiler

import (
	"cmp"
	"slices"

	"github.com/rs/zerolog"

	"github.com/reoring/facadegen/internal/ir"
	"github.com/reoring/facadegen/schema"
)

// Options configures a run.
type Options struct {
	// Overrides lists definition names that are recompiled every time a
	// bundle declares them, instead of keeping the first declaration. Some
	// server releases redeclare these inconsistently.
	Overrides []string
	Logger    zerolog.Logger
}

// Run is the per-run compiler context.
type Run struct {
	refs      *Refs
	types     *ir.Versioned[ir.TypeDescriptor]
	facades   *ir.Versioned[*ir.Facade]
	overrides map[string]struct{}
	log       zerolog.Logger
}

// NewRun returns an empty context.
func NewRun(opts Options) *Run {
	r := &Run{
		refs:      newRefs(),
		types:     ir.NewVersioned[ir.TypeDescriptor](),
		facades:   ir.NewVersioned[*ir.Facade](),
		overrides: make(map[string]struct{}, len(opts.Overrides)),
		log:       opts.Logger,
	}
	for _, name := range opts.Overrides {
		r.overrides[name] = struct{}{}
	}
	return r
}

// Refs exposes the run's reference registry.
func (r *Run) Refs() *Refs { return r.refs }

// Compile builds and validates the model for bundles.
//
// Definitions are compiled first, oldest bundle first, so a name keeps the
// first declaration seen unless it is on the override list. Facades are then
// compiled newest bundle first, so a facade version redeclared by a later
// release takes that release's shape.
func Compile(bundles []schema.Bundle, opts Options) (*ir.Model, error) {
	run := NewRun(opts)
	ordered := sortBundles(bundles)
	for _, b := range ordered {
		for _, rec := range b.Records {
			if err := run.compileDefinitions(b.Token, rec); err != nil {
				return nil, err
			}
		}
	}
	run.bindReferences()
	for i := len(ordered) - 1; i >= 0; i-- {
		b := ordered[i]
		for _, rec := range b.Records {
			f, err := run.compileFacade(b.Token, rec)
			if err != nil {
				return nil, err
			}
			if !run.facades.Register(f.Name, f.Version, f) {
				run.log.Debug().Str("facade", f.Name).Int("version", f.Version).Str("bundle", b.Token).
					Msg("facade version already registered by a newer bundle; skipping")
			}
		}
	}
	return run.Finish()
}

// Finish validates everything compiled so far and returns the model.
func (r *Run) Finish() (*ir.Model, error) {
	r.bindReferences()
	m := &ir.Model{Types: r.types, Facades: r.facades}
	if err := r.validate(m); err != nil {
		return nil, err
	}
	return m, nil
}

// sortBundles orders bundles by token and the records of each bundle by
// version then name, so results do not depend on input order.
func sortBundles(bundles []schema.Bundle) []schema.Bundle {
	out := make([]schema.Bundle, len(bundles))
	for i, b := range bundles {
		recs := slices.Clone(b.Records)
		slices.SortStableFunc(recs, func(a, b schema.Record) int {
			return cmp.Or(cmp.Compare(a.Version, b.Version), cmp.Compare(a.Name, b.Name))
		})
		out[i] = schema.Bundle{Token: b.Token, Records: recs}
	}
	slices.SortStableFunc(out, func(a, b schema.Bundle) int { return cmp.Compare(a.Token, b.Token) })
	return out
}

// bindReferences attaches every placeholder whose definition is registered.
// Unbound placeholders are reported by validate.
func (r *Run) bindReferences() {
	for _, ref := range r.refs.All() {
		r.bind(ref)
	}
}

func (r *Run) bind(ref *ir.Reference) {
	if ref.Target() != nil {
		return
	}
	if t, _, ok := r.types.Current(ref.Name()); ok {
		ref.Bind(t)
	}
}
