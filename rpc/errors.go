package rpc

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotConnected is returned by calls on a facade that was never bound to a
// Connection.
var ErrNotConnected = errors.New("rpc: facade is not connected")

// LookupFailure reports that no facade could be resolved.
type LookupFailure struct {
	Facade  string
	Version int
	// Unadvertised is set when the connection does not list Facade at all.
	Unadvertised bool
}

func (e *LookupFailure) Error() string {
	if e.Unadvertised {
		return fmt.Sprintf("rpc: connection does not advertise facade %q", e.Facade)
	}
	return fmt.Sprintf("rpc: no facade %q registered at version %d or below", e.Facade, e.Version)
}

// NamingContractError reports a marker type whose name lacks FacadeSuffix.
type NamingContractError struct {
	TypeName string
}

func (e *NamingContractError) Error() string {
	return fmt.Sprintf("rpc: type name %q does not end in %q", e.TypeName, FacadeSuffix)
}

// DecodeFailure reports a payload that does not have the expected shape.
type DecodeFailure struct {
	Path string // JSON Pointer of the offending value, "" for the root
	Want string
	Got  any
	Err  error // Optional: underlying error.
}

func (e *DecodeFailure) Error() string {
	b := &strings.Builder{}
	path := e.Path
	if path == "" {
		path = "/"
	}
	fmt.Fprintf(b, "rpc: cannot decode %T as %s at %s", e.Got, e.Want, path)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *DecodeFailure) Unwrap() error { return e.Err }

// ReplyError carries the decoded error payload of a reply. Value is whatever
// the error decoder produced, usually the generated Error type.
type ReplyError struct {
	Value any
}

func (e *ReplyError) Error() string {
	var fields map[string]any
	switch v := e.Value.(type) {
	case Type:
		fields = v.Serialize()
	case map[string]any:
		fields = v
	default:
		return fmt.Sprintf("rpc: server error: %v", v)
	}
	msg, _ := fields["message"].(string)
	if code, _ := fields["code"].(string); code != "" {
		return fmt.Sprintf("rpc: server error (%s): %s", code, msg)
	}
	return "rpc: server error: " + msg
}

// atPath prefixes the JSON Pointer segment seg onto a decode error.
func atPath(err error, seg string) error {
	seg = strings.ReplaceAll(strings.ReplaceAll(seg, "~", "~0"), "/", "~1")
	var df *DecodeFailure
	if errors.As(err, &df) {
		out := *df
		out.Path = "/" + seg + df.Path
		return &out
	}
	return &DecodeFailure{Path: "/" + seg, Want: "value", Err: err}
}
