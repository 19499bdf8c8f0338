package lower

import (
	goast "go/ast"
	"go/token"
	"strconv"
	"strings"

	"github.com/gitter-badger/spectra/pkg/ast"
	"github.com/gitter-badger/spectra/pkg/printer"
)

// GeometryResult is what the geometry lowerer hands to the fragment
// stage, when the geometry stage is present.
type GeometryResult struct {
	Source  string
	RetType *ast.StructSpecifier // the geometry output struct, verbatim
	Outputs []*ast.InitDeclList  // chdr_g_<field> declarations
}

var inputPrimByDim = map[int]string{
	1: "points",
	2: "lines",
	3: "triangles",
	4: "lines_adjacency",
	6: "triangles_adjacency",
}

var validOutputPrims = map[string]bool{
	"points":         true,
	"line_strip":     true,
	"triangle_strip": true,
}

// Geometry lowers an optional concat_map_prim function into geometry-
// stage source, per spec §4.5.
func Geometry(fn *ast.FunctionDef, vertexStruct *ast.StructSpecifier, vertexOutputs []*ast.InitDeclList, structs StructTable) (*GeometryResult, *ConversionError) {
	if len(fn.Prototype.Params) != 2 {
		return nil, &ConversionError{Kind: WrongNumberOfArgs, Expected: 2, Actual: len(fn.Prototype.Params), Pos: fn.Pos()}
	}
	inParam := fn.Prototype.Params[0]
	outParam := fn.Prototype.Params[1]

	inName, ok := inParam.Type.TypeName()
	if !ok || inName != vertexStruct.Name {
		return nil, &ConversionError{Kind: UnknownInputType, Name: inName, Pos: fn.Pos()}
	}
	dim, ok := inParam.Type.Spec.Array.IntSize()
	if !ok {
		return nil, &ConversionError{Kind: WrongGeometryInput, Pos: fn.Pos()}
	}
	inPrim, ok := inputPrimByDim[dim]
	if !ok {
		return nil, &ConversionError{Kind: WrongGeometryInputDim, Actual: dim, Pos: fn.Pos()}
	}

	outName, ok := outParam.Type.TypeName()
	if !ok {
		return nil, &ConversionError{Kind: WrongGeometryOutputLayout, Pos: fn.Pos()}
	}
	outStruct, ok := structs[outName]
	if !ok {
		return nil, &ConversionError{Kind: WrongGeometryOutputLayout, Name: outName, Pos: fn.Pos()}
	}
	layout, ok := outParam.Type.Qualifier.Layout()
	if !ok || !outParam.Type.Qualifier.HasStorage(ast.StorageOut) {
		return nil, &ConversionError{Kind: WrongGeometryOutputLayout, Pos: fn.Pos()}
	}
	outPrim := ""
	for prim := range validOutputPrims {
		if layout.Has(prim) {
			outPrim = prim
			break
		}
	}
	if outPrim == "" || !layout.Has("max_vertices") {
		return nil, &ConversionError{Kind: WrongGeometryOutputLayout, Pos: fn.Pos()}
	}
	maxVerts, hasVal := layout.Get("max_vertices")
	if lit, isLit := maxVerts.(*goast.BasicLit); !hasVal || !isLit || lit.Kind != token.INT {
		return nil, &ConversionError{Kind: WrongGeometryOutputLayout, Pos: fn.Pos()}
	}

	inputs := inputsFromOutputs(vertexOutputs, true)
	outputs, err := fieldsToDecls(outStruct.Fields, "chdr_g_", ast.StorageOut)
	if err != nil {
		return nil, err.(*ConversionError)
	}

	var sb strings.Builder
	sb.WriteString("layout(")
	sb.WriteString(inPrim)
	sb.WriteString(") in;\n")
	sb.WriteString("layout(")
	sb.WriteString(outPrim)
	sb.WriteString(", max_vertices = ")
	sb.WriteString(exprText(maxVerts))
	sb.WriteString(") out;\n")

	for _, in := range inputs {
		printer.ShowSingleDeclaration(&sb, in)
		sb.WriteString(";\n")
	}
	for _, out := range outputs {
		printer.ShowSingleDeclaration(&sb, out)
		sb.WriteString(";\n")
	}

	printer.ShowStruct(&sb, vertexStruct)
	printer.ShowStruct(&sb, outStruct)

	rewritten, cerr := fixConcatMapPrim(fn, outStruct)
	if cerr != nil {
		return nil, cerr
	}
	printer.ShowFunctionDefinition(&sb, rewritten)

	sb.WriteString("void main() {\n")
	sb.WriteString("  ")
	sb.WriteString(vertexStruct.Name)
	sb.WriteString(" ")
	sb.WriteString(inParam.Name)
	sb.WriteString("[")
	sb.WriteString(strconv.Itoa(dim))
	sb.WriteString("] = ")
	sb.WriteString(vertexStruct.Name)
	sb.WriteString("[](\n")
	for i := 0; i < dim; i++ {
		sb.WriteString("    ")
		sb.WriteString(vertexStruct.Name)
		sb.WriteString("(")
		first := true
		for _, f := range vertexStruct.Fields {
			for _, id := range f.Identifiers {
				if !first {
					sb.WriteString(", ")
				}
				first = false
				sb.WriteString("chdr_v_")
				sb.WriteString(id.Name)
				sb.WriteString("[")
				sb.WriteString(strconv.Itoa(i))
				sb.WriteString("]")
			}
		}
		sb.WriteString(")")
		if i < dim-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("  );\n")
	sb.WriteString("  concat_map_prim(")
	sb.WriteString(inParam.Name)
	sb.WriteString(");\n")
	sb.WriteString("}\n\n")

	return &GeometryResult{Source: sb.String(), RetType: outStruct, Outputs: outputs}, nil
}

// fixConcatMapPrim walks fn's top-level statements and rewrites
// yield_vertex/yield_primitive expression statements into their base-
// language equivalents, keeping only fn's first parameter. Statements
// inside nested blocks are left untouched (spec §9).
func fixConcatMapPrim(fn *ast.FunctionDef, outStruct *ast.StructSpecifier) (*ast.FunctionDef, *ConversionError) {
	newList := make([]goast.Stmt, 0, len(fn.Body.List))
	for _, stmt := range fn.Body.List {
		exprStmt, ok := stmt.(*goast.ExprStmt)
		if !ok {
			newList = append(newList, stmt)
			continue
		}
		call, ok := exprStmt.X.(*goast.CallExpr)
		if !ok {
			newList = append(newList, stmt)
			continue
		}
		ident, ok := call.Fun.(*goast.Ident)
		if !ok {
			newList = append(newList, stmt)
			continue
		}
		switch ident.Name {
		case "yield_vertex":
			if len(call.Args) != 1 {
				return nil, &ConversionError{Kind: WrongNumberOfArgs, Expected: 1, Actual: len(call.Args), Pos: fn.Pos()}
			}
			newList = append(newList, yieldVertexBlock(call.Args[0], outStruct))
		case "yield_primitive":
			newList = append(newList, &goast.ExprStmt{X: &goast.CallExpr{Fun: goast.NewIdent("EndPrimitive")}})
		default:
			newList = append(newList, stmt)
		}
	}

	out := *fn
	out.Prototype.Params = fn.Prototype.Params[:1]
	out.Body = &goast.BlockStmt{List: newList}
	return &out, nil
}

func yieldVertexBlock(e goast.Expr, outStruct *ast.StructSpecifier) *goast.BlockStmt {
	list := []goast.Stmt{
		&goast.DeclStmt{Decl: &goast.GenDecl{
			Tok: token.VAR,
			Specs: []goast.Spec{&goast.ValueSpec{
				Type:   goast.NewIdent(outStruct.Name),
				Names:  []*goast.Ident{goast.NewIdent("chdr_v")},
				Values: []goast.Expr{e},
			}},
		}},
	}
	for _, f := range outStruct.Fields {
		for _, id := range f.Identifiers {
			list = append(list, &goast.AssignStmt{
				Lhs: []goast.Expr{goast.NewIdent("chdr_g_" + id.Name)},
				Tok: token.ASSIGN,
				Rhs: []goast.Expr{&goast.SelectorExpr{X: goast.NewIdent("chdr_v"), Sel: goast.NewIdent(id.Name)}},
			})
		}
	}
	list = append(list, &goast.ExprStmt{X: &goast.CallExpr{Fun: goast.NewIdent("EmitVertex")}})
	return &goast.BlockStmt{List: list}
}

// exprText renders the integer literal expression bound to
// max_vertices. Geometry has already rejected any max_vertices value
// that is not an integer *goast.BasicLit.
func exprText(e goast.Expr) string {
	if lit, ok := e.(*goast.BasicLit); ok {
		return lit.Value
	}
	return ""
}
