package rpc

import (
	"bytes"
	"reflect"

	"github.com/goccy/go-json"
	"github.com/vmihailenco/msgpack/v5"
)

// Encoder turns a request envelope into bytes for a transport.
type Encoder interface {
	Encode(req *Request) ([]byte, error)
}

// EncoderFunc adapts a function to Encoder.
type EncoderFunc func(req *Request) ([]byte, error)

func (f EncoderFunc) Encode(req *Request) ([]byte, error) { return f(req) }

var (
	// JSON encodes envelopes as JSON with sorted object keys.
	JSON Encoder = EncoderFunc(func(req *Request) ([]byte, error) {
		return json.Marshal(req.Envelope())
	})
	// Msgpack encodes envelopes as MessagePack with sorted map keys.
	Msgpack Encoder = EncoderFunc(func(req *Request) ([]byte, error) {
		var buf bytes.Buffer
		enc := msgpack.NewEncoder(&buf)
		enc.SetSortMapKeys(true)
		if err := enc.Encode(req.Envelope()); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	})
)

var typeIface = reflect.TypeFor[Type]()

// Plain flattens v into maps, slices and scalars only: Type values are
// replaced by their Serialize output, recursively. Nil pointers become nil.
func Plain(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case string, bool, int, int64, float64, json.Number:
		return t
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = Plain(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = Plain(e)
		}
		return out
	}
	return plainValue(reflect.ValueOf(v))
}

func plainValue(rv reflect.Value) any {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		if rv.IsNil() {
			return nil
		}
	}
	if rv.Type().Implements(typeIface) {
		return Plain(rv.Interface().(Type).Serialize())
	}
	switch rv.Kind() {
	case reflect.Interface, reflect.Pointer:
		return Plain(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return rv.Interface()
		}
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = Plain(rv.Index(i).Interface())
		}
		return out
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return rv.Interface()
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = Plain(iter.Value().Interface())
		}
		return out
	}
	return rv.Interface()
}

// ParseReply decodes a raw JSON reply. Numbers are kept as json.Number so
// large integers survive.
func ParseReply(data []byte) (Reply, error) {
	m, err := rawMap(data)
	if err != nil {
		return nil, err
	}
	return Reply(m), nil
}

func decodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}
