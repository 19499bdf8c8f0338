package lower

import (
	goast "go/ast"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitter-badger/spectra/pkg/ast"
)

func scalarField(typeName, name string) ast.Field {
	return ast.Field{
		Type:        ast.TypeSpecifier{NonArray: ast.TypeName(typeName)},
		Identifiers: []ast.FieldIdentifier{{Name: name}},
	}
}

func TestFieldsToDecls(t *testing.T) {
	fields := []ast.Field{scalarField("vec3", "normal"), scalarField("vec2", "uv")}

	decls, err := fieldsToDecls(fields, "chdr_v_", ast.StorageOut)
	require.NoError(t, err)
	require.Len(t, decls, 2)

	assert.Equal(t, "chdr_v_normal", decls[0].Head.Name)
	assert.True(t, decls[0].Type.HasStorage(ast.StorageOut))
	assert.Equal(t, ast.TypeName("vec3"), decls[0].Type.Spec.NonArray)

	assert.Equal(t, "chdr_v_uv", decls[1].Head.Name)
}

func TestFieldsToDecls_MultipleIdentifiersPerField(t *testing.T) {
	field := ast.Field{
		Type:        ast.TypeSpecifier{NonArray: ast.TypeName("float")},
		Identifiers: []ast.FieldIdentifier{{Name: "a"}, {Name: "b"}},
	}
	decls, err := fieldsToDecls([]ast.Field{field}, "chdr_f_", ast.StorageOut)
	require.NoError(t, err)
	require.Len(t, decls, 2)
	assert.Equal(t, "chdr_f_a", decls[0].Head.Name)
	assert.Equal(t, "chdr_f_b", decls[1].Head.Name)
}

func TestFieldsToDecls_RejectsCompositeField(t *testing.T) {
	field := ast.Field{
		Type:        ast.TypeSpecifier{NonArray: &ast.StructSpecifier{Name: "Inner"}},
		Identifiers: []ast.FieldIdentifier{{Name: "nested"}},
	}
	_, err := fieldsToDecls([]ast.Field{field}, "chdr_v_", ast.StorageOut)
	require.Error(t, err)
	cerr, ok := err.(*ConversionError)
	require.True(t, ok)
	assert.Equal(t, ReturnTypeMustBeAStruct, cerr.Kind)
}

func TestInputsFromOutputs_SwapsStorageAndKeepsName(t *testing.T) {
	outputs := []*ast.InitDeclList{
		{
			Type: ast.FullType{
				Qualifier: &ast.TypeQualifier{Specs: []ast.TypeQualifierSpec{ast.StorageQualifierSpec{Storage: ast.StorageOut}}},
				Spec:      ast.TypeSpecifier{NonArray: ast.TypeName("vec3")},
			},
			Head: ast.Declarator{Name: "chdr_v_normal"},
		},
	}

	ins := inputsFromOutputs(outputs, false)
	require.Len(t, ins, 1)
	assert.True(t, ins[0].Type.HasStorage(ast.StorageIn))
	assert.False(t, ins[0].Type.HasStorage(ast.StorageOut))
	assert.Equal(t, "chdr_v_normal", ins[0].Head.Name)
	assert.Nil(t, ins[0].Head.Array)
}

func TestInputsFromOutputs_ArrayWrapForGeometry(t *testing.T) {
	outputs := []*ast.InitDeclList{
		{
			Type: ast.FullType{Spec: ast.TypeSpecifier{NonArray: ast.TypeName("vec3")}},
			Head: ast.Declarator{Name: "chdr_v_normal"},
		},
	}

	ins := inputsFromOutputs(outputs, true)
	require.Len(t, ins, 1)
	require.NotNil(t, ins[0].Head.Array)
	assert.True(t, ins[0].Head.Array.Unsized)
}

func TestRemoveUnusedArgs(t *testing.T) {
	fn := &ast.FunctionDef{
		Prototype: ast.FunctionPrototype{
			Name: "map_vertex",
			Params: []ast.Param{
				{Name: "p", Type: ast.FullType{Spec: ast.TypeSpecifier{NonArray: ast.TypeName("vec3")}}},
				{Type: ast.FullType{Spec: ast.TypeSpecifier{NonArray: ast.TypeName("vec2")}}},
				{Name: "n", Type: ast.FullType{Spec: ast.TypeSpecifier{NonArray: ast.TypeName("vec3")}}},
			},
		},
		Body: &goast.BlockStmt{},
	}

	reduced := removeUnusedArgs(fn)
	require.Len(t, reduced.Prototype.Params, 2)
	assert.Equal(t, "p", reduced.Prototype.Params[0].Name)
	assert.Equal(t, "n", reduced.Prototype.Params[1].Name)
	// original is untouched
	assert.Len(t, fn.Prototype.Params, 3)
}

func TestDropFirstField(t *testing.T) {
	s := &ast.StructSpecifier{
		Name: "VsOut",
		Fields: []ast.Field{
			scalarField("vec4", "chdr_Position"),
			scalarField("vec3", "normal"),
		},
	}
	out := dropFirstField(s)
	require.Len(t, out.Fields, 1)
	assert.Equal(t, "normal", out.Fields[0].Identifiers[0].Name)
	// original is untouched
	assert.Len(t, s.Fields, 2)
}

func TestDropFirstField_EmptyFields(t *testing.T) {
	s := &ast.StructSpecifier{Name: "Empty"}
	out := dropFirstField(s)
	assert.Empty(t, out.Fields)
}
