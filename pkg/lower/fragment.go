package lower

import (
	"strings"

	"github.com/gitter-badger/spectra/pkg/ast"
	"github.com/gitter-badger/spectra/pkg/printer"
)

// FragmentResult is the final stage's output; there is no further
// stage to hand inter-stage state to.
type FragmentResult struct {
	Source string
}

// Fragment lowers map_frag_data into fragment-stage source, per spec
// §4.6. prevStruct/prevOutputs are either the vertex stage's (no
// geometry stage present) or the geometry stage's return struct and
// outputs.
func Fragment(fn *ast.FunctionDef, prevStruct *ast.StructSpecifier, prevOutputs []*ast.InitDeclList, structs StructTable) (*FragmentResult, *ConversionError) {
	named := namedParams(fn)
	if len(named) != 1 {
		return nil, &ConversionError{Kind: WrongNumberOfArgs, Expected: 1, Actual: len(named), Pos: fn.Pos()}
	}
	inParam := named[0]
	inName, ok := inParam.Type.TypeName()
	if !ok || inName != prevStruct.Name {
		return nil, &ConversionError{Kind: UnknownInputType, Name: inName, Pos: fn.Pos()}
	}

	retName, ok := fn.Prototype.ReturnType.TypeName()
	if !ok {
		return nil, &ConversionError{Kind: ReturnTypeMustBeAStruct, Pos: fn.Pos()}
	}
	retStruct, ok := structs[retName]
	if !ok {
		return nil, &ConversionError{Kind: ReturnTypeMustBeAStruct, Name: retName, Pos: fn.Pos()}
	}

	inputs := inputsFromOutputs(prevOutputs, false)
	outputs, cerr := fieldsToDecls(retStruct.Fields, "chdr_f_", ast.StorageOut)
	if cerr != nil {
		return nil, cerr.(*ConversionError)
	}

	var sb strings.Builder
	for _, in := range inputs {
		printer.ShowSingleDeclaration(&sb, in)
		sb.WriteString(";\n")
	}
	for _, out := range outputs {
		printer.ShowSingleDeclaration(&sb, out)
		sb.WriteString(";\n")
	}

	printer.ShowStruct(&sb, prevStruct)
	printer.ShowStruct(&sb, retStruct)

	reduced := removeUnusedArgs(fn)
	printer.ShowFunctionDefinition(&sb, reduced)

	sb.WriteString("void main() {\n  ")
	sb.WriteString(prevStruct.Name)
	sb.WriteString(" i = ")
	sb.WriteString(prevStruct.Name)
	sb.WriteString("(")
	for i, in := range inputs {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(in.Head.Name)
	}
	sb.WriteString(");\n  ")
	sb.WriteString(retStruct.Name)
	sb.WriteString(" o = map_frag_data(i);\n")
	for _, f := range retStruct.Fields {
		for _, id := range f.Identifiers {
			sb.WriteString("  chdr_f_")
			sb.WriteString(id.Name)
			sb.WriteString(" = o.")
			sb.WriteString(id.Name)
			sb.WriteString(";\n")
		}
	}
	sb.WriteString("}\n\n")

	return &FragmentResult{Source: sb.String()}, nil
}

func namedParams(fn *ast.FunctionDef) []ast.Param {
	var named []ast.Param
	for _, p := range fn.Prototype.Params {
		if p.Named() {
			named = append(named, p)
		}
	}
	return named
}
