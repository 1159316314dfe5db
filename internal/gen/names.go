package gen

import (
	"fmt"
	"go/token"

	"github.com/reoring/facadegen/internal/ir"
	"github.com/reoring/facadegen/internal/naming"
	"github.com/reoring/facadegen/rpc"
	"github.com/reoring/facadegen/schema"
)

// Package-level identifiers every output declares.
const (
	errorTypeVar    = "ErrorType"
	clientsVar      = "Clients"
	lookupFunc      = "LookupFacade"
	fieldsPrefix    = "fieldsOf"
	errorDefinition = "Error"
)

// Struct members generated types already carry.
var (
	definitionMembers = map[string]bool{"UnknownFields": true, "Serialize": true, "Deserialize": true}
	facadeMembers     = map[string]bool{
		"Binding": true, "Connect": true, "Connection": true, "SetEncoder": true,
		"Encoder": true, "FacadeName": true, "FacadeVersion": true,
	}
)

// names is the identifier plan of one model. Every emitted identifier is
// decided here, before any text is produced, so conflicts are reported
// without partial output.
type names struct {
	types   map[string]string       // definition name → Go type name
	fields  map[*ir.Object][]string // exported field names, parallel to Fields
	methods map[*ir.Facade][]string // Go method names, parallel to Methods
}

func planNames(m *ir.Model) (*names, error) {
	n := &names{
		types:   map[string]string{},
		fields:  map[*ir.Object][]string{},
		methods: map[*ir.Facade][]string{},
	}
	owners := map[string]string{
		errorTypeVar: "declaration " + errorTypeVar,
		clientsVar:   "declaration " + clientsVar,
		lookupFunc:   "declaration " + lookupFunc,
	}
	declare := func(ident, owner string) error {
		if prev, ok := owners[ident]; ok {
			return &schema.NameConflictError{Identifier: ident, First: prev, Second: owner}
		}
		owners[ident] = owner
		return nil
	}

	for _, obj := range m.Objects() {
		tn := naming.Exported(obj.Name)
		owner := "definition " + obj.Name
		if err := declare(tn, owner); err != nil {
			return nil, err
		}
		if err := declare(fieldsPrefix+tn, owner); err != nil {
			return nil, err
		}
		n.types[obj.Name] = tn
		set := naming.NewSet(func(s string) bool { return definitionMembers[s] })
		fs := make([]string, len(obj.Fields))
		for i, f := range obj.Fields {
			fs[i] = set.Claim(naming.Exported(f.WireName))
		}
		n.fields[obj] = fs
	}

	for _, name := range m.Facades.Names() {
		if !token.IsIdentifier(name) || !token.IsExported(name) {
			return nil, &schema.ShapeError{Path: name, Message: "facade name must be an exported Go identifier"}
		}
		if err := declare(markerName(name), "facade "+name); err != nil {
			return nil, err
		}
		for _, v := range m.Facades.Versions(name) {
			f, _ := m.Facades.Lookup(name, v)
			if err := declare(facadeTypeName(f), fmt.Sprintf("facade %s v%d", name, v)); err != nil {
				return nil, err
			}
			set := naming.NewSet(func(s string) bool { return facadeMembers[s] })
			ms := make([]string, len(f.Methods))
			for i, meth := range f.Methods {
				ms[i] = set.Claim(naming.Exported(meth.Name))
			}
			n.methods[f] = ms
		}
	}
	return n, nil
}

// markerName is the name rpc.FromConnection strips rpc.FacadeSuffix from.
func markerName(facade string) string { return facade + rpc.FacadeSuffix }

func facadeTypeName(f *ir.Facade) string {
	return fmt.Sprintf("%s%sV%d", f.Name, rpc.FacadeSuffix, f.Version)
}
