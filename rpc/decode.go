package rpc

import (
	"math"
	"slices"
	"strconv"

	"fortio.org/safecast"
)

// Type is implemented by every generated definition.
type Type interface {
	// Serialize returns the wire form keyed by wire name, unknown fields
	// included.
	Serialize() map[string]any
	// Deserialize populates the receiver from a decoded payload. Keys that
	// are not part of the definition are retained, not rejected.
	Deserialize(data map[string]any) error
}

// DecodeFunc builds a T from a decoded payload value. A nil payload yields
// the zero value.
type DecodeFunc[T any] func(v any) (T, error)

// Scalar decoders.
var (
	String DecodeFunc[string]  = decodeString
	Int    DecodeFunc[int]     = decodeInt
	Float  DecodeFunc[float64] = decodeFloat
	Bool   DecodeFunc[bool]    = decodeBool
	Any    DecodeFunc[any]     = func(v any) (any, error) { return v, nil }
)

func decodeString(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	}
	return "", &DecodeFailure{Want: "string", Got: v}
}

func decodeBool(v any) (bool, error) {
	switch t := v.(type) {
	case nil:
		return false, nil
	case bool:
		return t, nil
	}
	return false, &DecodeFailure{Want: "boolean", Got: v}
}

// number is satisfied by json.Number from both encoding/json and go-json.
type number interface {
	Int64() (int64, error)
	Float64() (float64, error)
}

func decodeInt(v any) (int, error) {
	var (
		n   int
		err error
	)
	switch t := v.(type) {
	case nil:
		return 0, nil
	case int:
		return t, nil
	case int8:
		return int(t), nil
	case int16:
		return int(t), nil
	case int32:
		return int(t), nil
	case int64:
		n, err = safecast.Conv[int](t)
	case uint8:
		return int(t), nil
	case uint16:
		return int(t), nil
	case uint32:
		n, err = safecast.Conv[int](t)
	case uint64:
		n, err = safecast.Conv[int](t)
	case uint:
		n, err = safecast.Conv[int](t)
	case float32:
		return decodeInt(float64(t))
	case float64:
		if t != math.Trunc(t) || t < math.MinInt64 || t >= math.MaxInt64 {
			return 0, &DecodeFailure{Want: "integer", Got: v}
		}
		n, err = safecast.Conv[int](int64(t))
	case number:
		i, ierr := t.Int64()
		if ierr != nil {
			return 0, &DecodeFailure{Want: "integer", Got: v, Err: ierr}
		}
		n, err = safecast.Conv[int](i)
	default:
		return 0, &DecodeFailure{Want: "integer", Got: v}
	}
	if err != nil {
		return 0, &DecodeFailure{Want: "integer", Got: v, Err: err}
	}
	return n, nil
}

func decodeFloat(v any) (float64, error) {
	switch t := v.(type) {
	case nil:
		return 0, nil
	case float64:
		return t, nil
	case float32:
		return float64(t), nil
	case int:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case uint64:
		return float64(t), nil
	case number:
		f, err := t.Float64()
		if err != nil {
			return 0, &DecodeFailure{Want: "float", Got: v, Err: err}
		}
		return f, nil
	}
	return 0, &DecodeFailure{Want: "float", Got: v}
}

// ObjectOf returns the decoder for the generated definition T. It accepts a
// decoded map, raw JSON text, or an already typed *T.
func ObjectOf[T any, PT interface {
	*T
	Type
}]() DecodeFunc[PT] {
	return func(v any) (PT, error) {
		switch t := v.(type) {
		case nil:
			return nil, nil
		case PT:
			return t, nil
		case T:
			return PT(&t), nil
		case map[string]any:
			out := PT(new(T))
			if err := out.Deserialize(t); err != nil {
				return nil, err
			}
			return out, nil
		case []byte, string:
			data, err := rawMap(t)
			if err != nil {
				return nil, err
			}
			out := PT(new(T))
			if err := out.Deserialize(data); err != nil {
				return nil, err
			}
			return out, nil
		}
		return nil, &DecodeFailure{Want: "object", Got: v}
	}
}

// SequenceOf decodes a list, each element independently through elem.
func SequenceOf[E any](elem DecodeFunc[E]) DecodeFunc[[]E] {
	return func(v any) ([]E, error) {
		switch t := v.(type) {
		case nil:
			return nil, nil
		case []E:
			return t, nil
		case []any:
			out := make([]E, len(t))
			for i, item := range t {
				e, err := elem(item)
				if err != nil {
					return nil, atPath(err, strconv.Itoa(i))
				}
				out[i] = e
			}
			return out, nil
		}
		return nil, &DecodeFailure{Want: "array", Got: v}
	}
}

// MappingOf decodes a string-keyed map, each value through value.
func MappingOf[V any](value DecodeFunc[V]) DecodeFunc[map[string]V] {
	return func(v any) (map[string]V, error) {
		switch t := v.(type) {
		case nil:
			return nil, nil
		case map[string]V:
			return t, nil
		case map[string]any:
			out := make(map[string]V, len(t))
			// Sorted so the first failure reported is stable.
			keys := make([]string, 0, len(t))
			for k := range t {
				keys = append(keys, k)
			}
			slices.Sort(keys)
			for _, k := range keys {
				e, err := value(t[k])
				if err != nil {
					return nil, atPath(err, k)
				}
				out[k] = e
			}
			return out, nil
		}
		return nil, &DecodeFailure{Want: "object", Got: v}
	}
}

// AsAny erases the result type of decode.
func AsAny[T any](decode DecodeFunc[T]) DecodeFunc[any] {
	return func(v any) (any, error) {
		out, err := decode(v)
		if err != nil {
			return nil, err
		}
		return out, nil
	}
}

// Field decodes data[key] and scopes any failure to that key.
func Field[T any](data map[string]any, key string, decode DecodeFunc[T]) (T, error) {
	out, err := decode(data[key])
	if err != nil {
		return out, atPath(err, key)
	}
	return out, nil
}

// FromJSON builds a T from raw JSON text.
func FromJSON[T any](data []byte, decode DecodeFunc[T]) (T, error) {
	var zero T
	v, err := decodeJSON(data)
	if err != nil {
		return zero, &DecodeFailure{Want: "JSON", Got: data, Err: err}
	}
	return decode(v)
}

func rawMap(v any) (map[string]any, error) {
	var data []byte
	switch t := v.(type) {
	case []byte:
		data = t
	case string:
		data = []byte(t)
	}
	decoded, err := decodeJSON(data)
	if err != nil {
		return nil, &DecodeFailure{Want: "object", Got: v, Err: err}
	}
	m, ok := decoded.(map[string]any)
	if !ok {
		return nil, &DecodeFailure{Want: "object", Got: decoded}
	}
	return m, nil
}
