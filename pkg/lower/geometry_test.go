package lower

import (
	goast "go/ast"
	"go/token"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitter-badger/spectra/pkg/ast"
)

func intArray(n int) *ast.ArraySpecifier {
	return &ast.ArraySpecifier{Size: &goast.BasicLit{Kind: token.INT, Value: strconv.Itoa(n)}}
}

func layoutQualifier(prim string, maxVerts int) *ast.TypeQualifier {
	return &ast.TypeQualifier{
		Specs: []ast.TypeQualifierSpec{
			ast.LayoutQualifierSpec{Layout: ast.LayoutQualifier{IDs: []ast.LayoutQualifierID{
				{Name: prim},
				{Name: "max_vertices", Value: &goast.BasicLit{Kind: token.INT, Value: strconv.Itoa(maxVerts)}},
			}}},
			ast.StorageQualifierSpec{Storage: ast.StorageOut},
		},
	}
}

func geometryFunc(dim int, outPrim string, maxVerts int, body []goast.Stmt) *ast.FunctionDef {
	return &ast.FunctionDef{
		Prototype: ast.FunctionPrototype{
			Name:       "concat_map_prim",
			ReturnType: ast.FullType{Spec: ast.TypeSpecifier{NonArray: ast.TypeName("void")}},
			Params: []ast.Param{
				{Name: "vs", Type: ast.FullType{Spec: ast.TypeSpecifier{NonArray: ast.TypeName("VsOut"), Array: intArray(dim)}}},
				{Type: ast.FullType{Qualifier: layoutQualifier(outPrim, maxVerts), Spec: ast.TypeSpecifier{NonArray: ast.TypeName("GOut")}}},
			},
		},
		Body: &goast.BlockStmt{List: body},
	}
}

func geomStructs() StructTable {
	vsOut := &ast.StructSpecifier{Name: "VsOut", Fields: []ast.Field{scalarField("vec3", "normal")}}
	gOut := &ast.StructSpecifier{Name: "GOut", Fields: []ast.Field{scalarField("vec3", "normal")}}
	return StructTable{"VsOut": vsOut, "GOut": gOut}
}

func geomPrevOutputs() []*ast.InitDeclList {
	outs, _ := fieldsToDecls([]ast.Field{scalarField("vec3", "normal")}, "chdr_v_", ast.StorageOut)
	return outs
}

func TestGeometry_TriangleDim3(t *testing.T) {
	structs := geomStructs()
	fn := geometryFunc(3, "triangle_strip", 3, nil)

	res, cerr := Geometry(fn, structs["VsOut"], geomPrevOutputs(), structs)
	require.Nil(t, cerr)
	assert.Contains(t, res.Source, "layout(triangles) in;")
	assert.Contains(t, res.Source, "layout(triangle_strip, max_vertices = 3) out;")
}

func TestGeometry_InputDimToPrimitive(t *testing.T) {
	cases := map[int]string{1: "points", 2: "lines", 4: "lines_adjacency", 6: "triangles_adjacency"}
	for dim, prim := range cases {
		structs := geomStructs()
		fn := geometryFunc(dim, "points", 1, nil)
		res, cerr := Geometry(fn, structs["VsOut"], geomPrevOutputs(), structs)
		require.Nil(t, cerr, "dim %d", dim)
		assert.Contains(t, res.Source, "layout("+prim+") in;", "dim %d", dim)
	}
}

func TestGeometry_WrongInputDim(t *testing.T) {
	structs := geomStructs()
	fn := geometryFunc(5, "points", 1, nil)
	_, cerr := Geometry(fn, structs["VsOut"], geomPrevOutputs(), structs)
	require.NotNil(t, cerr)
	assert.Equal(t, WrongGeometryInputDim, cerr.Kind)
	assert.Equal(t, 5, cerr.Actual)
}

func TestGeometry_UnknownInputType(t *testing.T) {
	structs := geomStructs()
	fn := geometryFunc(3, "triangle_strip", 3, nil)
	fn.Prototype.Params[0].Type.Spec.NonArray = ast.TypeName("SomethingElse")
	_, cerr := Geometry(fn, structs["VsOut"], geomPrevOutputs(), structs)
	require.NotNil(t, cerr)
	assert.Equal(t, UnknownInputType, cerr.Kind)
}

func TestGeometry_BadOutputLayoutMissingMaxVertices(t *testing.T) {
	structs := geomStructs()
	fn := geometryFunc(3, "triangle_strip", 3, nil)
	fn.Prototype.Params[1].Type.Qualifier = &ast.TypeQualifier{
		Specs: []ast.TypeQualifierSpec{
			ast.LayoutQualifierSpec{Layout: ast.LayoutQualifier{IDs: []ast.LayoutQualifierID{{Name: "triangle_strip"}}}},
			ast.StorageQualifierSpec{Storage: ast.StorageOut},
		},
	}
	_, cerr := Geometry(fn, structs["VsOut"], geomPrevOutputs(), structs)
	require.NotNil(t, cerr)
	assert.Equal(t, WrongGeometryOutputLayout, cerr.Kind)
}

func TestGeometry_WrongNumberOfArgs(t *testing.T) {
	structs := geomStructs()
	fn := geometryFunc(3, "triangle_strip", 3, nil)
	fn.Prototype.Params = fn.Prototype.Params[:1]
	_, cerr := Geometry(fn, structs["VsOut"], geomPrevOutputs(), structs)
	require.NotNil(t, cerr)
	assert.Equal(t, WrongNumberOfArgs, cerr.Kind)
	assert.Equal(t, 2, cerr.Expected)
	assert.Equal(t, 1, cerr.Actual)
}

func TestGeometry_RewritesYieldVertexAndYieldPrimitive(t *testing.T) {
	structs := geomStructs()
	body := []goast.Stmt{
		&goast.ExprStmt{X: &goast.CallExpr{
			Fun:  goast.NewIdent("yield_vertex"),
			Args: []goast.Expr{&goast.CallExpr{Fun: goast.NewIdent("GOut"), Args: []goast.Expr{goast.NewIdent("x")}}},
		}},
		&goast.ExprStmt{X: &goast.CallExpr{Fun: goast.NewIdent("yield_primitive")}},
	}
	fn := geometryFunc(3, "triangle_strip", 3, body)

	res, cerr := Geometry(fn, structs["VsOut"], geomPrevOutputs(), structs)
	require.Nil(t, cerr)
	assert.Contains(t, res.Source, "EmitVertex();")
	assert.Contains(t, res.Source, "EndPrimitive();")
	assert.Contains(t, res.Source, "chdr_g_normal = chdr_v.normal;")
	assert.Contains(t, res.Source, "GOut chdr_v = GOut(x);")
}

func TestGeometry_YieldVertexWrongArgCount(t *testing.T) {
	structs := geomStructs()
	body := []goast.Stmt{
		&goast.ExprStmt{X: &goast.CallExpr{Fun: goast.NewIdent("yield_vertex")}},
	}
	fn := geometryFunc(3, "triangle_strip", 3, body)
	_, cerr := Geometry(fn, structs["VsOut"], geomPrevOutputs(), structs)
	require.NotNil(t, cerr)
	assert.Equal(t, WrongNumberOfArgs, cerr.Kind)
	assert.Equal(t, 1, cerr.Expected)
	assert.Equal(t, 0, cerr.Actual)
}

func TestGeometry_IdempotentWhenNoYieldCalls(t *testing.T) {
	structs := geomStructs()
	body := []goast.Stmt{
		&goast.ExprStmt{X: &goast.CallExpr{Fun: goast.NewIdent("someOtherCall")}},
	}
	fn := geometryFunc(3, "triangle_strip", 3, body)
	res, cerr := Geometry(fn, structs["VsOut"], geomPrevOutputs(), structs)
	require.Nil(t, cerr)
	assert.Contains(t, res.Source, "someOtherCall();")
}
