package rpc

import (
	"reflect"
	"slices"
	"strings"
)

// FacadeSuffix ends the name of every generated marker type.
const FacadeSuffix = "Facade"

// Facade is implemented by every generated per-version facade.
type Facade interface {
	Connect(conn Connection)
	FacadeName() string
	FacadeVersion() int
}

// NewFacade constructs an unbound facade.
type NewFacade func() Facade

// Client maps marker type names (for example "ClientFacade") to the
// constructor of one version.
type Client map[string]NewFacade

// Clients maps a version to its Client.
type Clients map[int]Client

// Lookup resolves name at version, falling back to the closest lower version
// down to 1.
func (c Clients) Lookup(name string, version int) (NewFacade, error) {
	for v := version; v >= 1; v-- {
		if f, ok := c[v][name]; ok {
			return f, nil
		}
	}
	return nil, &LookupFailure{Facade: name, Version: version}
}

// Versions reports, per marker name, the versions present in c.
func (c Clients) Versions() map[string][]int {
	out := map[string][]int{}
	for v, client := range c {
		for name := range client {
			out[name] = append(out[name], v)
		}
	}
	for _, vs := range out {
		slices.Sort(vs)
	}
	return out
}

// FromConnection binds the facade marker stands for to conn. The facade base
// name is the marker's type name without FacadeSuffix; its version is the
// one conn advertises, resolved through clients.Lookup.
func FromConnection(conn Connection, clients Clients, marker any) (Facade, error) {
	name := typeName(marker)
	base, ok := strings.CutSuffix(name, FacadeSuffix)
	if !ok || base == "" {
		return nil, &NamingContractError{TypeName: name}
	}
	version, ok := conn.Facades()[base]
	if !ok {
		return nil, &LookupFailure{Facade: base, Unadvertised: true}
	}
	newFacade, err := clients.Lookup(name, version)
	if err != nil {
		return nil, err
	}
	f := newFacade()
	f.Connect(conn)
	return f, nil
}

func typeName(v any) string {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return ""
	}
	return t.Name()
}
