// Package naming derives generated identifiers from wire names.
//
// Local names are what a field is called inside generated code (method
// parameters); exported names are the Go struct fields and type names built
// from them. Both are pure functions of their input so regenerated output is
// stable.
package naming

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// reserved holds identifiers a local name must never take: Go keywords,
// predeclared identifiers, and the names emitted method bodies rely on.
var reserved = map[string]struct{}{}

func init() {
	for _, w := range []string{
		// keywords
		"break", "case", "chan", "const", "continue", "default", "defer",
		"else", "fallthrough", "for", "func", "go", "goto", "if", "import",
		"interface", "map", "package", "range", "return", "select", "struct",
		"switch", "type", "var",
		// predeclared
		"any", "bool", "byte", "comparable", "complex64", "complex128",
		"error", "float32", "float64", "int", "int8", "int16", "int32",
		"int64", "rune", "string", "uint", "uint8", "uint16", "uint32",
		"uint64", "uintptr", "true", "false", "iota", "nil", "append", "cap",
		"clear", "close", "complex", "copy", "delete", "imag", "len", "make",
		"max", "min", "new", "panic", "print", "println", "real", "recover",
		// used by generated method bodies
		"_", "context", "ctx", "err", "facade", "req", "rpc",
	} {
		reserved[w] = struct{}{}
	}
}

// IsReserved reports whether name collides with a reserved identifier of the
// generated Go code.
func IsReserved(name string) bool {
	_, ok := reserved[name]
	return ok
}

// Local normalizes a wire name: every rune that cannot appear in a Go
// identifier becomes '_' and the result is lowercased. "Life-Status" becomes
// "life_status". Reserved words are not handled here; see Set.Claim.
func Local(wire string) string {
	if wire == "" {
		return "_"
	}
	var b strings.Builder
	b.Grow(len(wire))
	for _, r := range wire {
		switch {
		case r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteByte('_')
		}
	}
	out := b.String()
	if r, _ := utf8.DecodeRuneInString(out); unicode.IsDigit(r) {
		out = "_" + out
	}
	return out
}

// Exported turns a local or wire name into an exported Go identifier:
// "life_status" becomes "LifeStatus".
func Exported(name string) string {
	var b strings.Builder
	for _, part := range strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || !(unicode.IsLetter(r) || unicode.IsDigit(r))
	}) {
		rs := []rune(part)
		rs[0] = unicode.ToUpper(rs[0])
		b.WriteString(string(rs))
	}
	out := b.String()
	if r, _ := utf8.DecodeRuneInString(out); !unicode.IsLetter(r) {
		out = "X" + out
	}
	return out
}

// Set hands out identifiers that are unique within one scope.
type Set struct {
	used  map[string]struct{}
	avoid func(string) bool
}

// NewSet returns a Set. Names for which avoid reports true are never handed
// out; avoid may be nil.
func NewSet(avoid func(string) bool) *Set {
	return &Set{used: make(map[string]struct{}), avoid: avoid}
}

// Claim returns name, suffixed with '_' as many times as needed so that it is
// unused in the set and not avoided; the result is recorded as used.
func (s *Set) Claim(name string) string {
	for {
		_, taken := s.used[name]
		if !taken && (s.avoid == nil || !s.avoid(name)) {
			s.used[name] = struct{}{}
			return name
		}
		name += "_"
	}
}
