// Package gen renders a compiled model as Go source.
//
// Output is one package made of three kinds of files: one client_v<N>.go per
// schema version holding that version's facades, definitions.go holding every
// object definition, and client.go holding the facade markers and the version
// table. Declarations are emitted in lexical name order and fields in wire
// name order, so unchanged input gives byte-identical files.
package gen

import (
	"bytes"
	"fmt"
	"go/format"
	"go/token"
	"path"
	"slices"
	"strconv"
	"strings"
	"text/template"

	"github.com/reoring/facadegen/internal/ir"
)

const (
	// DefaultPackage names the generated package when Options.Package is empty.
	DefaultPackage = "client"
	// DefaultRuntimeImport is the import path of the runtime support library.
	DefaultRuntimeImport = "github.com/reoring/facadegen/rpc"

	DefinitionsFile = "definitions.go"
	ClientFile      = "client.go"
)

// FacadesFile names the file holding the facades of version.
func FacadesFile(version int) string { return fmt.Sprintf("client_v%d.go", version) }

// Options configures rendering.
type Options struct {
	Package       string
	RuntimeImport string
}

func (o Options) withDefaults() (Options, error) {
	if o.Package == "" {
		o.Package = DefaultPackage
	}
	if o.RuntimeImport == "" {
		o.RuntimeImport = DefaultRuntimeImport
	}
	if !token.IsIdentifier(o.Package) {
		return o, fmt.Errorf("gen: invalid package name %q", o.Package)
	}
	return o, nil
}

// File is one rendered artifact.
type File struct {
	Name    string
	Content []byte
}

var templates = func() *template.Template {
	t := template.Must(template.New("gen").Parse(headerTemplate))
	template.Must(t.New("definitions").Parse(definitionsTemplate))
	template.Must(t.New("facades").Parse(facadesTemplate))
	template.Must(t.New("client").Parse(clientTemplate))
	return t
}()

// Emit renders every artifact of m, sorted by file name. Nothing is returned
// if any identifier of the output would conflict.
func Emit(m *ir.Model, opts Options) ([]File, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}
	n, err := planNames(m)
	if err != nil {
		return nil, err
	}
	var files []File
	add := func(name, tmpl string, data any) error {
		src, err := render(tmpl, data)
		if err != nil {
			return fmt.Errorf("gen: %s: %w", name, err)
		}
		files = append(files, File{Name: name, Content: src})
		return nil
	}
	if err := add(DefinitionsFile, "definitions", n.definitionsView(m, opts)); err != nil {
		return nil, err
	}
	for _, v := range m.FacadeVersions() {
		if err := add(FacadesFile(v), "facades", n.facadesView(m, v, opts)); err != nil {
			return nil, err
		}
	}
	if err := add(ClientFile, "client", n.clientView(m, opts)); err != nil {
		return nil, err
	}
	slices.SortFunc(files, func(a, b File) int { return strings.Compare(a.Name, b.Name) })
	return files, nil
}

// RenderDefinitions renders definitions.go alone.
func RenderDefinitions(m *ir.Model, opts Options) ([]byte, error) {
	return renderOne(m, opts, func(n *names, opts Options) (string, any) {
		return "definitions", n.definitionsView(m, opts)
	})
}

// RenderFacades renders the facades of version alone.
func RenderFacades(m *ir.Model, version int, opts Options) ([]byte, error) {
	return renderOne(m, opts, func(n *names, opts Options) (string, any) {
		return "facades", n.facadesView(m, version, opts)
	})
}

// RenderClient renders client.go alone.
func RenderClient(m *ir.Model, opts Options) ([]byte, error) {
	return renderOne(m, opts, func(n *names, opts Options) (string, any) {
		return "client", n.clientView(m, opts)
	})
}

func renderOne(m *ir.Model, opts Options, view func(*names, Options) (string, any)) ([]byte, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}
	n, err := planNames(m)
	if err != nil {
		return nil, err
	}
	return render(view(n, opts))
}

func render(tmpl string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, tmpl, data); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}
	out, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("formatting output: %w", err)
	}
	return out, nil
}

type header struct {
	Package   string
	RPCImport string
	Context   bool
}

func newHeader(opts Options, withContext bool) header {
	imp := strconv.Quote(opts.RuntimeImport)
	if path.Base(opts.RuntimeImport) != "rpc" {
		imp = "rpc " + imp
	}
	return header{Package: opts.Package, RPCImport: imp, Context: withContext}
}

type fieldView struct {
	Name, Wire, Local, Type, Decoder, Tag string
}

type objectView struct {
	Name, Wire, FieldsVar string
	Fields                []fieldView
}

type definitionsView struct {
	header
	ErrorDecoder string
	Objects      []objectView
}

func (n *names) definitionsView(m *ir.Model, opts Options) definitionsView {
	v := definitionsView{header: newHeader(opts, false), ErrorDecoder: "rpc.Any"}
	if t, _, ok := m.Types.Current(errorDefinition); ok {
		if _, isObj := t.(*ir.Object); isObj {
			v.ErrorDecoder = fmt.Sprintf("rpc.AsAny(%s)", n.decoder(t))
		}
	}
	for _, obj := range m.Objects() {
		ov := objectView{Name: n.types[obj.Name], Wire: obj.Name, FieldsVar: fieldsPrefix + n.types[obj.Name]}
		for i, f := range obj.Fields {
			ov.Fields = append(ov.Fields, fieldView{
				Name:    n.fields[obj][i],
				Wire:    f.WireName,
				Local:   f.LocalName,
				Type:    n.goType(f.Type),
				Decoder: n.decoder(f.Type),
				Tag:     structTag(f.WireName),
			})
		}
		v.Objects = append(v.Objects, ov)
	}
	return v
}

type paramView struct {
	Name, Wire, Type string
}

type methodView struct {
	Name, Wire   string
	Params       []paramView
	Result       string
	Decoder      string
	Alternatives string
}

type facadeView struct {
	Type, Name string
	Version    int
	Methods    []methodView
}

type facadesView struct {
	header
	Facades []facadeView
}

func (n *names) facadesView(m *ir.Model, version int, opts Options) facadesView {
	var v facadesView
	withMethods := false
	for _, f := range m.FacadesAt(version) {
		fv := facadeView{Type: facadeTypeName(f), Name: f.Name, Version: f.Version}
		for i, meth := range f.Methods {
			mv := methodView{Name: n.methods[f][i], Wire: meth.Name}
			if obj := meth.ParamsObject(); obj != nil {
				for _, p := range obj.Fields {
					mv.Params = append(mv.Params, paramView{Name: p.LocalName, Wire: p.WireName, Type: n.goType(p.Type)})
				}
			}
			if meth.Result != nil {
				mv.Result = n.goType(meth.Result)
				mv.Decoder = n.decoder(meth.Result)
				if u, ok := meth.Result.(*ir.Union); ok {
					mv.Alternatives = u.String()
				}
			}
			fv.Methods = append(fv.Methods, mv)
		}
		withMethods = withMethods || len(fv.Methods) > 0
		v.Facades = append(v.Facades, fv)
	}
	v.header = newHeader(opts, withMethods)
	return v
}

type markerView struct {
	Type, Name string
}

type versionEntry struct {
	Marker, Type string
}

type versionView struct {
	Version int
	Facades []versionEntry
}

type clientView struct {
	header
	Markers  []markerView
	Versions []versionView
}

func (n *names) clientView(m *ir.Model, opts Options) clientView {
	v := clientView{header: newHeader(opts, false)}
	for _, name := range m.Facades.Names() {
		v.Markers = append(v.Markers, markerView{Type: markerName(name), Name: name})
	}
	for _, version := range m.FacadeVersions() {
		vv := versionView{Version: version}
		for _, f := range m.FacadesAt(version) {
			vv.Facades = append(vv.Facades, versionEntry{Marker: markerName(f.Name), Type: facadeTypeName(f)})
		}
		v.Versions = append(v.Versions, vv)
	}
	return v
}

func structTag(wire string) string {
	tag := "json:" + strconv.Quote(wire)
	if strconv.CanBackquote(tag) {
		return "`" + tag + "`"
	}
	return strconv.Quote(tag)
}
