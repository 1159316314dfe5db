package schema

import (
	"fmt"
	"strings"
)

// Build-time errors. Any of them aborts a generation run before emission.

// UnresolvedReferenceError reports a $ref to a definition that no bundle
// declares as an object or scalar.
type UnresolvedReferenceError struct {
	Name string
	// From lists the definitions or facades that refer to Name, sorted.
	From []string
}

func (e *UnresolvedReferenceError) Error() string {
	if len(e.From) == 0 {
		return fmt.Sprintf("schema: unresolved reference %q", e.Name)
	}
	return fmt.Sprintf("schema: unresolved reference %q (from %s)", e.Name, strings.Join(e.From, ", "))
}

// UnsupportedPatternError reports patternProperties other than a single
// wildcard.
type UnsupportedPatternError struct {
	Path     string
	Patterns []string
}

func (e *UnsupportedPatternError) Error() string {
	return fmt.Sprintf("schema: unsupported patternProperties at %s: %q (only a single \".*\" is supported)", e.Path, e.Patterns)
}

// UnknownScalarKindError reports a "type" value outside the supported
// scalar set, or a node with no type at all.
type UnknownScalarKindError struct {
	Path string
	Kind string
}

func (e *UnknownScalarKindError) Error() string {
	if e.Kind == "" {
		return fmt.Sprintf("schema: %s has no type", e.Path)
	}
	return fmt.Sprintf("schema: %s has unknown type %q", e.Path, e.Kind)
}

// VersionTokenMissingError reports a schema file whose name carries no
// version token.
type VersionTokenMissingError struct {
	Path string
}

func (e *VersionTokenMissingError) Error() string {
	return fmt.Sprintf("schema: cannot extract a version from %q; schema file names must include one", e.Path)
}

// ShapeError reports a node whose JSON shape does not match what the
// compiler expects.
type ShapeError struct {
	Path    string
	Message string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("schema: %s: %s", e.Path, e.Message)
}

// DuplicateFieldError reports two fields of one object sharing a wire name,
// typically after inline objects were hoisted into their parent.
type DuplicateFieldError struct {
	Object   string
	WireName string
}

func (e *DuplicateFieldError) Error() string {
	return fmt.Sprintf("schema: definition %q declares field %q more than once", e.Object, e.WireName)
}

// NameConflictError reports two generated declarations that would share an
// identifier.
type NameConflictError struct {
	Identifier string
	First      string
	Second     string
}

func (e *NameConflictError) Error() string {
	return fmt.Sprintf("schema: %s and %s both generate identifier %s", e.First, e.Second, e.Identifier)
}
