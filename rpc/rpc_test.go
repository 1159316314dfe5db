package rpc_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/goccy/go-json"
	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/sync/errgroup"

	"github.com/reoring/facadegen/rpc"
	"github.com/reoring/facadegen/rpc/rpctest"
)

func connect(t *testing.T, conn *rpctest.Conn) *ExampleFacadeV1 {
	t.Helper()
	f, err := ExampleFacade{}.FromConnection(conn)
	if err != nil {
		t.Fatalf("FromConnection: %v", err)
	}
	ex, ok := f.(*ExampleFacadeV1)
	if !ok {
		t.Fatalf("got %T", f)
	}
	return ex
}

func TestInvoke_EndToEnd(t *testing.T) {
	conn := rpctest.New(map[string]int{"Example": 1}).ReplyJSON("Example", "Get", `{"response": {"C": 7}}`)
	ex := connect(t, conn)

	bar, err := ex.Get(context.Background(), "x", &Foo{A: "inner", B: &Bar{C: 1}})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if bar.C != 7 {
		t.Fatalf("C = %d want 7", bar.C)
	}

	calls := conn.Calls()
	if len(calls) != 1 {
		t.Fatalf("calls: %d", len(calls))
	}
	got, _ := json.Marshal(calls[0].Envelope)
	want := `{"params":{"A":"x","B":{"A":"inner","B":{"C":1}}},"request":"Get","type":"Example","version":1}`
	if string(got) != want {
		t.Fatalf("envelope:\n got %s\nwant %s", got, want)
	}
	if string(calls[0].Encoded) != want {
		t.Fatalf("JSON encoder output: %s", calls[0].Encoded)
	}
}

func TestInvoke_UnsetParamsAreSent(t *testing.T) {
	conn := rpctest.New(map[string]int{"Example": 1}).ReplyJSON("Example", "Get", `{"response": {}}`)
	ex := connect(t, conn)
	if _, err := ex.Get(context.Background(), "", nil); err != nil {
		t.Fatalf("Get: %v", err)
	}
	params := conn.Calls()[0].Envelope["params"].(map[string]any)
	if len(params) != 2 || params["A"] != "" || params["B"] != nil {
		t.Fatalf("params: %#v", params)
	}
}

func TestDecodeReply_ErrorWins(t *testing.T) {
	cases := map[string]rpc.Reply{
		"object error": {"error": map[string]any{"code": "not found", "message": "no such thing"}, "response": map[string]any{"C": 1}},
		"string error": {"error": "no such thing", "error-code": "not found", "response": map[string]any{"C": 1}},
	}
	for name, reply := range cases {
		_, err := rpc.DecodeReply(reply, rpc.ObjectOf[Bar](), ErrorType)
		var re *rpc.ReplyError
		if !errors.As(err, &re) {
			t.Fatalf("%s: expected ReplyError, got %v", name, err)
		}
		e, ok := re.Value.(*Error)
		if !ok {
			t.Fatalf("%s: error payload decoded as %T", name, re.Value)
		}
		if e.Code != "not found" || e.Message != "no such thing" {
			t.Fatalf("%s: %+v", name, e)
		}
		if re.Error() != "rpc: server error (not found): no such thing" {
			t.Fatalf("%s: message %q", name, re.Error())
		}
	}
}

func TestDecodeReply_ErrorWinsForEveryResultType(t *testing.T) {
	reply := rpc.Reply{"error": map[string]any{"message": "boom"}, "response": []any{map[string]any{"C": 1}}}
	if _, err := rpc.DecodeReply(reply, rpc.SequenceOf(rpc.ObjectOf[Bar]()), ErrorType); !isReplyError(err) {
		t.Fatalf("sequence: %v", err)
	}
	if _, err := rpc.DecodeReply(reply, rpc.Int, ErrorType); !isReplyError(err) {
		t.Fatalf("scalar: %v", err)
	}
	if _, err := rpc.DecodeReply(reply, rpc.Any, nil); !isReplyError(err) {
		t.Fatalf("untyped: %v", err)
	}
}

func isReplyError(err error) bool {
	var re *rpc.ReplyError
	return errors.As(err, &re)
}

func TestDecodeReply_SequenceElementsIndependent(t *testing.T) {
	conn := rpctest.New(map[string]int{"Example": 1}).
		ReplyJSON("Example", "List", `{"response": [{"C": 1}, {"C": 2, "Extra": true}, {}]}`)
	bars, err := connect(t, conn).List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(bars) != 3 || bars[0].C != 1 || bars[1].C != 2 || bars[2].C != 0 {
		t.Fatalf("bars: %+v", bars)
	}
	if bars[1].UnknownFields["Extra"] != true || bars[0].UnknownFields != nil {
		t.Fatalf("unknown fields: %v / %v", bars[1].UnknownFields, bars[0].UnknownFields)
	}
}

func TestDecodeReply_FailurePath(t *testing.T) {
	reply := rpc.Reply{"response": []any{map[string]any{"C": 1}, map[string]any{"C": "seven"}}}
	_, err := rpc.DecodeReply(reply, rpc.SequenceOf(rpc.ObjectOf[Bar]()), ErrorType)
	var df *rpc.DecodeFailure
	if !errors.As(err, &df) {
		t.Fatalf("expected DecodeFailure, got %v", err)
	}
	if df.Path != "/response/1/C" || df.Want != "integer" {
		t.Fatalf("failure: %+v", df)
	}
}

func TestObjectOf_UnknownFieldsRoundTrip(t *testing.T) {
	foo, err := rpc.FromJSON([]byte(`{"A": "a", "B": {"C": 3}, "Future": [1, 2]}`), rpc.ObjectOf[Foo]())
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if foo.A != "a" || foo.B.C != 3 {
		t.Fatalf("foo: %+v", foo)
	}
	if _, ok := foo.UnknownFields["Future"]; !ok {
		t.Fatalf("unknown key dropped: %v", foo.UnknownFields)
	}
	out, _ := json.Marshal(rpc.Plain(foo))
	if string(out) != `{"A":"a","B":{"C":3},"Future":[1,2]}` {
		t.Fatalf("serialized: %s", out)
	}
}

func TestObjectOf_AcceptedInputs(t *testing.T) {
	dec := rpc.ObjectOf[Bar]()
	for _, in := range []any{map[string]any{"C": 5}, `{"C": 5}`, []byte(`{"C": 5}`), &Bar{C: 5}, Bar{C: 5}} {
		bar, err := dec(in)
		if err != nil || bar.C != 5 {
			t.Fatalf("%T: %+v %v", in, bar, err)
		}
	}
	if bar, err := dec(nil); bar != nil || err != nil {
		t.Fatalf("nil payload: %v %v", bar, err)
	}
	var df *rpc.DecodeFailure
	if _, err := dec(42); !errors.As(err, &df) {
		t.Fatalf("number payload: %v", err)
	}
}

func TestScalarDecoders(t *testing.T) {
	if n, err := rpc.Int(json.Number("12")); err != nil || n != 12 {
		t.Fatalf("json.Number: %d %v", n, err)
	}
	if n, err := rpc.Int(float64(3)); err != nil || n != 3 {
		t.Fatalf("float64: %d %v", n, err)
	}
	if _, err := rpc.Int(3.5); err == nil {
		t.Fatalf("fractional value must not decode as integer")
	}
	if f, err := rpc.Float(json.Number("1.5")); err != nil || f != 1.5 {
		t.Fatalf("float: %v %v", f, err)
	}
	if _, err := rpc.String(1); err == nil {
		t.Fatalf("number must not decode as string")
	}
	m, err := rpc.MappingOf(rpc.Int)(map[string]any{"a": 1, "b": json.Number("2")})
	if err != nil || m["a"] != 1 || m["b"] != 2 {
		t.Fatalf("mapping: %v %v", m, err)
	}
}

func TestClientsLookup_Fallback(t *testing.T) {
	mk := func(v int) rpc.NewFacade {
		return func() rpc.Facade { return &versioned{v: v} }
	}
	clients := rpc.Clients{
		1: {"FFacade": mk(1)},
		3: {"FFacade": mk(3)},
		5: {"FFacade": mk(5)},
	}
	for requested, want := range map[int]int{4: 3, 2: 1, 5: 5, 9: 5, 1: 1} {
		f, err := clients.Lookup("FFacade", requested)
		if err != nil {
			t.Fatalf("Lookup(%d): %v", requested, err)
		}
		if got := f().FacadeVersion(); got != want {
			t.Errorf("Lookup(%d) = v%d want v%d", requested, got, want)
		}
	}
	_, err := clients.Lookup("FFacade", 0)
	var lf *rpc.LookupFailure
	if !errors.As(err, &lf) || lf.Facade != "FFacade" {
		t.Fatalf("Lookup(0): %v", err)
	}
	if _, err := clients.Lookup("Other", 5); !errors.As(err, &lf) {
		t.Fatalf("unknown facade: %v", err)
	}
	if vs := clients.Versions()["FFacade"]; fmt.Sprint(vs) != "[1 3 5]" {
		t.Fatalf("versions: %v", vs)
	}
}

type versioned struct {
	rpc.Binding
	v int
}

func (f *versioned) FacadeName() string { return "F" }
func (f *versioned) FacadeVersion() int { return f.v }

type badName struct{}

func TestFromConnection_Errors(t *testing.T) {
	conn := rpctest.New(map[string]int{"Other": 1})

	_, err := rpc.FromConnection(conn, Clients, badName{})
	var nc *rpc.NamingContractError
	if !errors.As(err, &nc) || nc.TypeName != "badName" {
		t.Fatalf("expected NamingContractError, got %v", err)
	}

	_, err = ExampleFacade{}.FromConnection(conn)
	var lf *rpc.LookupFailure
	if !errors.As(err, &lf) || !lf.Unadvertised || lf.Facade != "Example" {
		t.Fatalf("expected unadvertised LookupFailure, got %v", err)
	}

	_, err = ExampleFacade{}.FromConnection(rpctest.New(map[string]int{"Example": 0}))
	if !errors.As(err, &lf) || lf.Unadvertised {
		t.Fatalf("expected LookupFailure for version 0, got %v", err)
	}
}

func TestFromConnection_NewerServerFallsBack(t *testing.T) {
	conn := rpctest.New(map[string]int{"Example": 7})
	ex := connect(t, conn)
	if ex.Connection() != conn {
		t.Fatalf("facade not bound to the connection")
	}
	if len(conn.Calls()) != 0 {
		t.Fatalf("binding must not perform I/O")
	}
}

func TestInvoke_NotConnected(t *testing.T) {
	var ex ExampleFacadeV1
	if err := ex.Ping(context.Background()); !errors.Is(err, rpc.ErrNotConnected) {
		t.Fatalf("expected ErrNotConnected, got %v", err)
	}
}

func TestInvoke_NoResult(t *testing.T) {
	conn := rpctest.New(map[string]int{"Example": 1}).ReplyJSON("Example", "Ping", `{}`)
	if err := connect(t, conn).Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	conn.ReplyJSON("Example", "Ping", `{"error": "denied", "error-code": "unauthorized"}`)
	if err := connect(t, conn).Ping(context.Background()); !isReplyError(err) {
		t.Fatalf("Ping error: %v", err)
	}
}

func TestMsgpackEncoder(t *testing.T) {
	conn := rpctest.New(map[string]int{"Example": 1}).ReplyJSON("Example", "Get", `{"response": {"C": 1}}`)
	ex := connect(t, conn)
	ex.SetEncoder(rpc.Msgpack)
	if _, err := ex.Get(context.Background(), "x", nil); err != nil {
		t.Fatalf("Get: %v", err)
	}
	var decoded map[string]any
	if err := msgpack.Unmarshal(conn.Calls()[0].Encoded, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["type"] != "Example" || decoded["request"] != "Get" {
		t.Fatalf("decoded: %#v", decoded)
	}
	params := decoded["params"].(map[string]any)
	if params["A"] != "x" {
		t.Fatalf("params: %#v", params)
	}

	again, err := rpc.Msgpack.Encode(&rpc.Request{Kind: "Example", Request: "Get", Version: 1, Params: map[string]any{"A": "x", "B": nil}})
	if err != nil || string(again) != string(conn.Calls()[0].Encoded) {
		t.Fatalf("msgpack output is not stable: %v", err)
	}
}

func TestInvoke_ConcurrentCalls(t *testing.T) {
	conn := rpctest.New(map[string]int{"Example": 1}).ReplyJSON("Example", "Get", `{"response": {"C": 9}}`)
	ex := connect(t, conn)
	g, ctx := errgroup.WithContext(context.Background())
	for i := 0; i < 32; i++ {
		g.Go(func() error {
			bar, err := ex.Get(ctx, fmt.Sprint(i), nil)
			if err != nil {
				return err
			}
			if bar.C != 9 {
				return fmt.Errorf("call %d: C = %d", i, bar.C)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
	if n := len(conn.Calls()); n != 32 {
		t.Fatalf("calls: %d", n)
	}
}

func TestInvoke_ContextCancelled(t *testing.T) {
	conn := rpctest.New(map[string]int{"Example": 1})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := connect(t, conn).Get(ctx, "x", nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
