package rpc_test

import (
	"context"

	"github.com/reoring/facadegen/rpc"
)

// The declarations below have the shape facadegen emits for the definitions
// Foo{A: string, B: $ref Bar}, Bar{C: integer} and Error{code, message}, and
// for facade Example v1 with method Get(Params: Foo, Result: Bar).

var ErrorType = rpc.AsAny(rpc.ObjectOf[Error]())

type Bar struct {
	C             int            `json:"C"`
	UnknownFields map[string]any `json:"-"`
}

var fieldsOfBar = rpc.NewFieldMap(map[string]string{"C": "c"})

func (x *Bar) Serialize() map[string]any {
	if x == nil {
		return nil
	}
	return rpc.Merge(x.UnknownFields, map[string]any{"C": x.C})
}

func (x *Bar) Deserialize(data map[string]any) error {
	var err error
	if x.C, err = rpc.Field(data, "C", rpc.Int); err != nil {
		return err
	}
	x.UnknownFields = rpc.Unknown(data, fieldsOfBar)
	return nil
}

type Error struct {
	Code          string         `json:"code"`
	Message       string         `json:"message"`
	UnknownFields map[string]any `json:"-"`
}

var fieldsOfError = rpc.NewFieldMap(map[string]string{"code": "code", "message": "message"})

func (x *Error) Serialize() map[string]any {
	if x == nil {
		return nil
	}
	return rpc.Merge(x.UnknownFields, map[string]any{"code": x.Code, "message": x.Message})
}

func (x *Error) Deserialize(data map[string]any) error {
	var err error
	if x.Code, err = rpc.Field(data, "code", rpc.String); err != nil {
		return err
	}
	if x.Message, err = rpc.Field(data, "message", rpc.String); err != nil {
		return err
	}
	x.UnknownFields = rpc.Unknown(data, fieldsOfError)
	return nil
}

type Foo struct {
	A             string         `json:"A"`
	B             *Bar           `json:"B"`
	UnknownFields map[string]any `json:"-"`
}

var fieldsOfFoo = rpc.NewFieldMap(map[string]string{"A": "a", "B": "b"})

func (x *Foo) Serialize() map[string]any {
	if x == nil {
		return nil
	}
	return rpc.Merge(x.UnknownFields, map[string]any{"A": x.A, "B": x.B})
}

func (x *Foo) Deserialize(data map[string]any) error {
	var err error
	if x.A, err = rpc.Field(data, "A", rpc.String); err != nil {
		return err
	}
	if x.B, err = rpc.Field(data, "B", rpc.ObjectOf[Bar]()); err != nil {
		return err
	}
	x.UnknownFields = rpc.Unknown(data, fieldsOfFoo)
	return nil
}

type ExampleFacadeV1 struct {
	rpc.Binding
}

func (*ExampleFacadeV1) FacadeName() string { return "Example" }

func (*ExampleFacadeV1) FacadeVersion() int { return 1 }

func (facade *ExampleFacadeV1) Get(ctx context.Context, a string, b *Foo) (*Bar, error) {
	req := &rpc.Request{
		Kind:    "Example",
		Request: "Get",
		Version: 1,
		Params: map[string]any{
			"A": a,
			"B": b,
		},
	}
	return rpc.Invoke(ctx, &facade.Binding, req, rpc.ObjectOf[Bar](), ErrorType)
}

func (facade *ExampleFacadeV1) List(ctx context.Context) ([]*Bar, error) {
	req := &rpc.Request{Kind: "Example", Request: "List", Version: 1}
	return rpc.Invoke(ctx, &facade.Binding, req, rpc.SequenceOf(rpc.ObjectOf[Bar]()), ErrorType)
}

func (facade *ExampleFacadeV1) Ping(ctx context.Context) error {
	req := &rpc.Request{Kind: "Example", Request: "Ping", Version: 1}
	_, err := rpc.Invoke(ctx, &facade.Binding, req, rpc.Any, ErrorType)
	return err
}

type ExampleFacade struct{}

func (ExampleFacade) FromConnection(conn rpc.Connection) (rpc.Facade, error) {
	return rpc.FromConnection(conn, Clients, ExampleFacade{})
}

var Clients = rpc.Clients{
	1: {"ExampleFacade": func() rpc.Facade { return new(ExampleFacadeV1) }},
}
