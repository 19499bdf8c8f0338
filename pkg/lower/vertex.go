package lower

import (
	"fmt"
	"strings"

	"github.com/gitter-badger/spectra/pkg/ast"
	"github.com/gitter-badger/spectra/pkg/printer"
)

// StructTable looks up a declared struct by name.
type StructTable map[string]*ast.StructSpecifier

// VertexResult is what the vertex lowerer hands to the next stage.
type VertexResult struct {
	Source  string
	RetType *ast.StructSpecifier // fixed: chdr_Position dropped
	Outputs []*ast.InitDeclList  // chdr_v_<field> declarations
}

// Vertex lowers the mandatory map_vertex function into vertex-stage
// source, per spec §4.4.
func Vertex(mv *ast.FunctionDef, structs StructTable) (*VertexResult, *ConversionError) {
	inputs, err := vertexInputs(mv)
	if err != nil {
		return nil, err
	}

	if mv.Prototype.ReturnType.Qualifier != nil && len(mv.Prototype.ReturnType.Qualifier.Specs) > 0 {
		return nil, &ConversionError{Kind: OutputHasMainQualifier, Pos: mv.Pos()}
	}

	retTy, cerr := vertexReturnStruct(mv, structs)
	if cerr != nil {
		return nil, cerr
	}
	outputs, cerr := vertexOutputs(mv, retTy)
	if cerr != nil {
		return nil, cerr
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

	printer.ShowStruct(&sb, retTy)

	reduced := removeUnusedArgs(mv)
	printer.ShowFunctionDefinition(&sb, reduced)

	sb.WriteString("void main() {\n  ")
	sb.WriteString(retTy.Name)
	sb.WriteString(" v = map_vertex(")
	writeCallArgs(&sb, mv)
	sb.WriteString(");\n")
	sb.WriteString("  gl_Position = v.chdr_Position;\n")
	for _, f := range retTy.Fields[1:] {
		for _, id := range f.Identifiers {
			fmt.Fprintf(&sb, "  chdr_v_%s = v.%s;\n", id.Name, id.Name)
		}
	}
	sb.WriteString("}\n\n")

	return &VertexResult{
		Source:  sb.String(),
		RetType: dropFirstField(retTy),
		Outputs: outputs,
	}, nil
}

// vertexInputs synthesises one layout(location=i) in declaration per
// named parameter; unnamed parameters contribute no input.
func vertexInputs(mv *ast.FunctionDef) ([]*ast.InitDeclList, *ConversionError) {
	var inputs []*ast.InitDeclList
	for i, p := range mv.Prototype.Params {
		if !p.Named() {
			continue
		}
		layout := ast.LayoutQualifierSpec{Layout: ast.LayoutQualifier{
			IDs: []ast.LayoutQualifierID{{Name: "location", Value: printer.IntExpr(i)}},
		}}
		q := p.Type.Qualifier.WithPrepended(layout, ast.StorageQualifierSpec{Storage: ast.StorageIn})
		inputs = append(inputs, &ast.InitDeclList{
			Type: ast.FullType{Qualifier: q, Spec: p.Type.Spec},
			Head: ast.Declarator{Name: p.Name},
		})
	}
	return inputs, nil
}

func vertexReturnStruct(mv *ast.FunctionDef, structs StructTable) (*ast.StructSpecifier, *ConversionError) {
	name, ok := mv.Prototype.ReturnType.TypeName()
	if !ok {
		return nil, &ConversionError{Kind: ReturnTypeMustBeAStruct, Pos: mv.Pos()}
	}
	s, ok := structs[name]
	if !ok {
		return nil, &ConversionError{Kind: ReturnTypeMustBeAStruct, Name: name, Pos: mv.Pos()}
	}
	return s, nil
}

func vertexOutputs(mv *ast.FunctionDef, retTy *ast.StructSpecifier) ([]*ast.InitDeclList, *ConversionError) {
	if len(retTy.Fields) == 0 {
		return nil, &ConversionError{Kind: WrongOutputFirstField, Pos: mv.Pos()}
	}
	first := retTy.Fields[0]
	if !isBareChdrPosition(first) {
		return nil, &ConversionError{Kind: WrongOutputFirstField, Pos: mv.Pos()}
	}
	outputs, err := fieldsToDecls(retTy.Fields[1:], "chdr_v_", ast.StorageOut)
	if err != nil {
		return nil, err.(*ConversionError)
	}
	return outputs, nil
}

func isBareChdrPosition(f ast.Field) bool {
	if f.Qualifier != nil && len(f.Qualifier.Specs) > 0 {
		return false
	}
	name, ok := f.Type.NonArray.(ast.TypeName)
	if !ok || name != "vec4" {
		return false
	}
	return len(f.Identifiers) == 1 && f.Identifiers[0].Name == "chdr_Position" && f.Identifiers[0].Array == nil
}

// writeCallArgs emits map_vertex's call-site argument list, substituting
// chdr_unused<i> for each unnamed parameter's reserved slot.
func writeCallArgs(sb *strings.Builder, mv *ast.FunctionDef) {
	first := true
	for i, p := range mv.Prototype.Params {
		if !first {
			sb.WriteString(", ")
		}
		first = false
		if p.Named() {
			sb.WriteString(p.Name)
		} else {
			fmt.Fprintf(sb, "chdr_unused%d", i)
		}
	}
}
