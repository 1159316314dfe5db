package gen

import (
	"fmt"

	"github.com/reoring/facadegen/internal/ir"
)

// goType renders the Go type expression of t.
func (n *names) goType(t ir.TypeDescriptor) string {
	switch t := t.(type) {
	case *ir.Scalar:
		return scalarType(t.Name)
	case *ir.Reference:
		return n.goType(t.Target())
	case *ir.Object:
		return "*" + n.types[t.Name]
	case *ir.Sequence:
		return "[]" + n.goType(t.Element)
	case *ir.Mapping:
		return "map[string]" + n.goType(t.Value)
	case *ir.Union:
		return n.goType(t.Source)
	}
	panic(fmt.Sprintf("gen: unexpected type descriptor %T", t))
}

// decoder renders the rpc.DecodeFunc expression that builds a value of
// goType(t).
func (n *names) decoder(t ir.TypeDescriptor) string {
	switch t := t.(type) {
	case *ir.Scalar:
		return scalarDecoder(t.Name)
	case *ir.Reference:
		return n.decoder(t.Target())
	case *ir.Object:
		return fmt.Sprintf("rpc.ObjectOf[%s]()", n.types[t.Name])
	case *ir.Sequence:
		return fmt.Sprintf("rpc.SequenceOf(%s)", n.decoder(t.Element))
	case *ir.Mapping:
		return fmt.Sprintf("rpc.MappingOf(%s)", n.decoder(t.Value))
	case *ir.Union:
		return n.decoder(t.Source)
	}
	panic(fmt.Sprintf("gen: unexpected type descriptor %T", t))
}

func scalarType(k ir.ScalarKind) string {
	switch k {
	case ir.ScalarString:
		return "string"
	case ir.ScalarInteger:
		return "int"
	case ir.ScalarFloat, ir.ScalarNumber:
		return "float64"
	case ir.ScalarBoolean:
		return "bool"
	}
	return "any"
}

func scalarDecoder(k ir.ScalarKind) string {
	switch k {
	case ir.ScalarString:
		return "rpc.String"
	case ir.ScalarInteger:
		return "rpc.Int"
	case ir.ScalarFloat, ir.ScalarNumber:
		return "rpc.Float"
	case ir.ScalarBoolean:
		return "rpc.Bool"
	}
	return "rpc.Any"
}
