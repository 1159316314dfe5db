package rpc

import "context"

// Request is the envelope of one facade call.
type Request struct {
	Kind    string         `json:"type"`
	Request string         `json:"request"`
	Version int            `json:"version"`
	Params  map[string]any `json:"params"`
}

// Envelope returns the wire form of r with every typed value flattened.
func (r *Request) Envelope() map[string]any {
	params, _ := Plain(r.Params).(map[string]any)
	if params == nil {
		params = map[string]any{}
	}
	return map[string]any{
		"type":    r.Kind,
		"request": r.Request,
		"version": r.Version,
		"params":  params,
	}
}

// Reply is a decoded server reply.
type Reply map[string]any

// ErrorPayload returns the error carried by the reply, if any. A string
// error is expanded into an object with its sibling code and info keys.
func (r Reply) ErrorPayload() (any, bool) {
	switch e := r["error"].(type) {
	case nil:
		return nil, false
	case string:
		if e == "" {
			return nil, false
		}
		return map[string]any{
			"message": e,
			"code":    r["error-code"],
			"info":    r["error-info"],
		}, true
	default:
		return e, true
	}
}

// Response returns the success payload.
func (r Reply) Response() any { return r["response"] }

// Connection is the transport collaborator. RPC blocks until the reply to
// req arrives or ctx is done; cancellation is the transport's concern.
type Connection interface {
	RPC(ctx context.Context, req *Request, enc Encoder) (Reply, error)
	// Facades reports the negotiated version of every facade the server
	// advertises. Callers must not modify the result.
	Facades() map[string]int
}

// Binding holds the connection of a facade. Generated facades embed it.
type Binding struct {
	conn Connection
	enc  Encoder
}

// Connect stores conn for later calls. It performs no I/O.
func (b *Binding) Connect(conn Connection) { b.conn = conn }

// Connection returns the bound connection, or nil.
func (b *Binding) Connection() Connection { return b.conn }

// SetEncoder selects the envelope encoder. The default is JSON.
func (b *Binding) SetEncoder(enc Encoder) { b.enc = enc }

// Encoder returns the envelope encoder in use.
func (b *Binding) Encoder() Encoder {
	if b.enc == nil {
		return JSON
	}
	return b.enc
}

// Invoke sends req over the binding's connection and decodes the reply; see
// DecodeReply.
func Invoke[T any](ctx context.Context, b *Binding, req *Request, decode DecodeFunc[T], errType DecodeFunc[any]) (T, error) {
	var zero T
	if b == nil || b.conn == nil {
		return zero, ErrNotConnected
	}
	reply, err := b.conn.RPC(ctx, req, b.Encoder())
	if err != nil {
		return zero, err
	}
	return DecodeReply(reply, decode, errType)
}

// DecodeReply applies the decode contract. If the reply carries an error it
// is decoded through errType and returned as a *ReplyError, whatever the
// declared result type. Otherwise the response payload is decoded through
// decode; sequence decoders handle each element independently.
func DecodeReply[T any](reply Reply, decode DecodeFunc[T], errType DecodeFunc[any]) (T, error) {
	var zero T
	if payload, ok := reply.ErrorPayload(); ok {
		if errType == nil {
			errType = Any
		}
		v, err := errType(payload)
		if err != nil {
			return zero, atPath(err, "error")
		}
		return zero, &ReplyError{Value: v}
	}
	out, err := decode(reply.Response())
	if err != nil {
		return zero, atPath(err, "response")
	}
	return out, nil
}
