package lower

import (
	"fmt"
	"go/token"

	"github.com/gitter-badger/spectra/pkg/ast"
)

// ConversionErrorKind enumerates the GLSLConversionError taxonomy from
// spec §6, bit-exact.
type ConversionErrorKind int

const (
	NoVertexShader ConversionErrorKind = iota
	NoFragmentShader
	OutputHasMainQualifier
	WrongOutputFirstField
	ReturnTypeMustBeAStruct
	UnknownInputType
	WrongNumberOfArgs
	WrongGeometryInput
	WrongGeometryInputDim
	WrongGeometryOutputLayout
)

// ConversionError is the lowerers'/driver's error type. The lowerers
// record the offending function's position in Pos for diagnostics
// (Node is left nil), and for WrongNumberOfArgs the expected/actual
// counts.
type ConversionError struct {
	Kind     ConversionErrorKind
	Node     ast.ExternalDecl
	Pos      token.Pos
	Name     string
	Expected int
	Actual   int
}

func (e *ConversionError) Error() string {
	switch e.Kind {
	case NoVertexShader:
		return "no map_vertex function found"
	case NoFragmentShader:
		return "no map_frag_data function found"
	case OutputHasMainQualifier:
		return "pipeline function return type must not carry a qualifier"
	case WrongOutputFirstField:
		return "return struct's first field must be `vec4 chdr_Position` with no qualifier"
	case ReturnTypeMustBeAStruct:
		return fmt.Sprintf("return type %q must name a known struct", e.Name)
	case UnknownInputType:
		return fmt.Sprintf("input type %q does not match the previous stage's output type", e.Name)
	case WrongNumberOfArgs:
		return fmt.Sprintf("expected %d argument(s), got %d", e.Expected, e.Actual)
	case WrongGeometryInput:
		return "geometry input must be a sized array of the previous stage's return type"
	case WrongGeometryInputDim:
		return fmt.Sprintf("geometry input array dimension %d is not one of 1, 2, 3, 4, 6", e.Actual)
	case WrongGeometryOutputLayout:
		return "geometry output must carry layout(<prim>, max_vertices = N) out"
	default:
		return "glsl conversion error"
	}
}
