package gen

const headerTemplate = `{{define "header" -}}
// Code generated by facadegen. DO NOT EDIT.

package {{.Package}}

import (
{{- if .Context}}
	"context"
{{end}}
	{{.RPCImport}}
)
{{- end}}`

const definitionsTemplate = `{{template "header" .}}

// ErrorType decodes the error payload of replies.
var ErrorType = {{.ErrorDecoder}}
{{range .Objects}}
// {{.Name}} is the {{printf "%q" .Wire}} definition.
type {{.Name}} struct {
{{- range .Fields}}
	{{.Name}} {{.Type}} {{.Tag}}
{{- end}}
	// UnknownFields holds payload keys the definition does not declare.
	UnknownFields map[string]any ` + "`json:\"-\"`" + `
}

var _ rpc.Type = (*{{.Name}})(nil)

var {{.FieldsVar}} = rpc.NewFieldMap(map[string]string{
{{- range .Fields}}
	{{printf "%q" .Wire}}: {{printf "%q" .Local}},
{{- end}}
})

// Serialize implements rpc.Type.
func (x *{{.Name}}) Serialize() map[string]any {
	if x == nil {
		return nil
	}
	return rpc.Merge(x.UnknownFields, map[string]any{
{{- range .Fields}}
		{{printf "%q" .Wire}}: x.{{.Name}},
{{- end}}
	})
}

// Deserialize implements rpc.Type.
func (x *{{.Name}}) Deserialize(data map[string]any) error {
{{- if .Fields}}
	var err error
{{- range .Fields}}
	if x.{{.Name}}, err = rpc.Field(data, {{printf "%q" .Wire}}, {{.Decoder}}); err != nil {
		return err
	}
{{- end}}
{{- end}}
	x.UnknownFields = rpc.Unknown(data, {{.FieldsVar}})
	return nil
}
{{end}}`

const facadesTemplate = `{{template "header" .}}
{{range $f := .Facades}}
// {{$f.Type}} is version {{$f.Version}} of the {{$f.Name}} facade.
type {{$f.Type}} struct {
	rpc.Binding
}

// FacadeName implements rpc.Facade.
func (*{{$f.Type}}) FacadeName() string { return {{printf "%q" $f.Name}} }

// FacadeVersion implements rpc.Facade.
func (*{{$f.Type}}) FacadeVersion() int { return {{$f.Version}} }
{{- range $m := $f.Methods}}

// {{$m.Name}} calls {{$f.Name}}.{{$m.Wire}}.
{{- if $m.Alternatives}}
// The result definition has the alternatives {{$m.Alternatives}}.
{{- end}}
func (facade *{{$f.Type}}) {{$m.Name}}(ctx context.Context{{range $m.Params}}, {{.Name}} {{.Type}}{{end}}) {{if $m.Result}}({{$m.Result}}, error){{else}}error{{end}} {
	req := &rpc.Request{
		Kind:    {{printf "%q" $f.Name}},
		Request: {{printf "%q" $m.Wire}},
		Version: {{$f.Version}},
{{- if $m.Params}}
		Params: map[string]any{
{{- range $m.Params}}
			{{printf "%q" .Wire}}: {{.Name}},
{{- end}}
		},
{{- end}}
	}
{{- if $m.Result}}
	return rpc.Invoke(ctx, &facade.Binding, req, {{$m.Decoder}}, ErrorType)
{{- else}}
	_, err := rpc.Invoke(ctx, &facade.Binding, req, rpc.Any, ErrorType)
	return err
{{- end}}
}
{{- end}}
{{end}}`

const clientTemplate = `{{template "header" .}}
{{range .Markers}}
// {{.Type}} binds the {{.Name}} facade version a connection advertises.
type {{.Type}} struct{}

// FromConnection returns the newest {{.Name}} facade not newer than the
// version conn advertises, bound to conn.
func ({{.Type}}) FromConnection(conn rpc.Connection) (rpc.Facade, error) {
	return rpc.FromConnection(conn, Clients, {{.Type}}{})
}
{{end}}
// Clients maps each schema version to the facades generated for it.
var Clients = rpc.Clients{
{{- range .Versions}}
	{{.Version}}: {
{{- range .Facades}}
		{{printf "%q" .Marker}}: func() rpc.Facade { return new({{.Type}}) },
{{- end}}
	},
{{- end}}
}

// LookupFacade returns the constructor of the newest facade called name, for
// example "ClientFacade", at or below version.
func LookupFacade(name string, version int) (rpc.NewFacade, error) {
	return Clients.Lookup(name, version)
}
`
