// Package classify partitions a folded module's declarations into the
// four buckets the stage lowerers consume.
package classify

import (
	"github.com/gitter-badger/spectra/pkg/ast"
)

// Uniform is one single-declaration uniform entry: a tail declarator is
// expanded to its own entry sharing the head type, per spec §4.3.
type Uniform struct {
	Type       ast.FullType
	Declarator ast.Declarator
}

// Buckets is the classifier's output, one ordered list per kind,
// source order preserved within each.
type Buckets struct {
	Uniforms  []Uniform
	Blocks    []*ast.Block
	Functions []*ast.FunctionDef
	Structs   []*ast.StructSpecifier
}

// Classify partitions folded's declarations. It never consults the
// advisory Export list.
func Classify(folded *ast.Module) Buckets {
	var b Buckets
	for _, decl := range folded.Decls {
		switch d := decl.(type) {
		case *ast.InitDeclList:
			if d.IsUniform() {
				b.Uniforms = append(b.Uniforms, Uniform{Type: d.Type, Declarator: d.Head})
				for _, tail := range d.Tail {
					b.Uniforms = append(b.Uniforms, Uniform{Type: d.Type, Declarator: tail})
				}
			}
			if s, ok := d.InlineStruct(); ok {
				b.Structs = append(b.Structs, s)
			}
		case *ast.Block:
			b.Blocks = append(b.Blocks, d)
		case *ast.FunctionDef:
			b.Functions = append(b.Functions, d)
		case *ast.Global:
			// Bare qualifier statements carry no classifier-visible
			// payload; they only matter as geometry-stage input/output
			// layout, which the geometry lowerer emits itself rather
			// than reading from here.
		}
	}
	return b
}

// FindFunction returns the function named name, if present.
func (b Buckets) FindFunction(name string) (*ast.FunctionDef, bool) {
	for _, f := range b.Functions {
		if f.Prototype.Name == name {
			return f, true
		}
	}
	return nil, false
}

// FindStruct returns the struct named name, if present.
func (b Buckets) FindStruct(name string) (*ast.StructSpecifier, bool) {
	for _, s := range b.Structs {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}

const (
	// VertexFunc is the mandatory vertex-stage pipeline function name.
	VertexFunc = "map_vertex"
	// GeometryFunc is the optional geometry-stage pipeline function name.
	GeometryFunc = "concat_map_prim"
	// FragmentFunc is the mandatory fragment-stage pipeline function name.
	FragmentFunc = "map_frag_data"
)
