package lower

import (
	"github.com/gitter-badger/spectra/pkg/ast"
)

// fieldsToDecls expands fields into one InitDeclList per declared
// identifier, named prefix+identifier, carrying the given storage
// qualifier and the field's own array specifier. Composite
// (struct-typed) fields are rejected: the inter-stage naming
// convention is per-scalar/vector field, not per-struct.
func fieldsToDecls(fields []ast.Field, prefix string, storage ast.StorageQualifier) ([]*ast.InitDeclList, error) {
	var out []*ast.InitDeclList
	for _, f := range fields {
		if _, composite := f.Type.NonArray.(*ast.StructSpecifier); composite {
			return nil, &ConversionError{Kind: ReturnTypeMustBeAStruct}
		}
		for _, id := range f.Identifiers {
			q := &ast.TypeQualifier{Specs: []ast.TypeQualifierSpec{ast.StorageQualifierSpec{Storage: storage}}}
			decl := &ast.InitDeclList{
				Type: ast.FullType{
					Qualifier: q,
					Spec:      ast.TypeSpecifier{NonArray: f.Type.NonArray},
				},
				Head: ast.Declarator{Name: prefix + id.Name, Array: id.Array},
			}
			out = append(out, decl)
		}
	}
	return out, nil
}

// inputsFromOutputs derives the next stage's inter-stage inputs from
// the previous stage's outputs: swap the Out storage qualifier for In,
// keep the chdr_*_<field> name untouched, and — when arrayWrap is set
// (the geometry stage, whose inputs are per-vertex arrays) — give the
// declared name an unsized array specifier in place of its own.
func inputsFromOutputs(outputs []*ast.InitDeclList, arrayWrap bool) []*ast.InitDeclList {
	ins := make([]*ast.InitDeclList, len(outputs))
	for i, o := range outputs {
		q := &ast.TypeQualifier{Specs: []ast.TypeQualifierSpec{ast.StorageQualifierSpec{Storage: ast.StorageIn}}}
		spec := o.Type.Spec
		array := o.Head.Array
		if arrayWrap {
			array = &ast.ArraySpecifier{Unsized: true}
		}
		ins[i] = &ast.InitDeclList{
			Type: ast.FullType{Qualifier: q, Spec: spec},
			Head: ast.Declarator{Name: o.Head.Name, Array: array},
		}
	}
	return ins
}

// removeUnusedArgs drops a function prototype's unnamed parameters,
// leaving only the ones that are actually passed at the call site.
func removeUnusedArgs(f *ast.FunctionDef) *ast.FunctionDef {
	out := *f
	out.Prototype.Params = nil
	for _, p := range f.Prototype.Params {
		if p.Named() {
			out.Prototype.Params = append(out.Prototype.Params, p)
		}
	}
	return &out
}

// dropFirstField returns a copy of s without its first field, used to
// turn a vertex-stage return struct (whose first field is the
// mandatory, stage-local chdr_Position) into the struct the next stage
// actually receives.
func dropFirstField(s *ast.StructSpecifier) *ast.StructSpecifier {
	out := *s
	if len(s.Fields) > 0 {
		out.Fields = s.Fields[1:]
	}
	return &out
}
