// Package ast defines the in-memory declaration tree that the Cheddar
// parser produces and the resolver/classifier/lowerers consume.
//
// Strategy: reuse go/ast and go/token for the statement/expression level
// (identifiers, calls, assignments, blocks, literals all mean the same
// thing in Cheddar's statement subset as they do in Go), and define
// custom node types only where GLSL has no Go equivalent: qualified
// declarations, interface blocks, struct specifiers, layout qualifiers.
// This mirrors how a Go-hosted DSL front end typically piggybacks on
// go/token.Pos and go/ast.Expr rather than inventing its own position
// and expression machinery from scratch.
package ast

import (
	"go/ast"
	"go/token"
	"strconv"
	"strings"
)

// ModuleKey is a dotted logical module path, e.g. "foo.bar.zoo".
type ModuleKey string

func (k ModuleKey) String() string { return string(k) }

// Path returns the slash-separated relative path (without extension)
// this key maps to under a module store root.
func (k ModuleKey) Path() string {
	return strings.ReplaceAll(string(k), ".", "/")
}

// NewModuleKey builds a ModuleKey from the dotted path segments of a
// `from a.b.c import (...)` target.
func NewModuleKey(segments []string) ModuleKey {
	return ModuleKey(strings.Join(segments, "."))
}

// Import is one `from <Module> import (Symbols...)` header entry.
// Symbols is parsed but semantically advisory: imports are whole-module.
type Import struct {
	Pos     token.Pos
	Module  ModuleKey
	Symbols []string
}

// Export is one `export (Symbols...)` header entry. Like Import.Symbols,
// this is parsed and retained but never consulted by resolution or
// lowering.
type Export struct {
	Pos     token.Pos
	Symbols []string
}

// Module is the parsed contents of one file.
type Module struct {
	Imports []Import
	Exports []Export
	Decls   []ExternalDecl
}

// ExternalDecl is the tagged variant of spec §3: InitDeclList, Block,
// FunctionDef, or Global.
type ExternalDecl interface {
	externalDecl()
	Pos() token.Pos
}

// InitDeclList is a variable-like declaration: `Type head, tail...;`.
// It is a uniform when Type carries the Uniform storage qualifier, and
// a struct declaration when Type's specifier is an inline struct.
type InitDeclList struct {
	DeclPos token.Pos
	Type    FullType
	Head    Declarator
	Tail    []Declarator
}

func (*InitDeclList) externalDecl()    {}
func (d *InitDeclList) Pos() token.Pos { return d.DeclPos }

// IsUniform reports whether this declaration carries the uniform
// storage qualifier.
func (d *InitDeclList) IsUniform() bool { return d.Type.HasStorage(StorageUniform) }

// InlineStruct returns the inline struct specifier named by this
// declaration's type, if its type specifier is a struct definition.
func (d *InitDeclList) InlineStruct() (*StructSpecifier, bool) {
	s, ok := d.Type.Spec.NonArray.(*StructSpecifier)
	return s, ok
}

// Block is a GLSL interface block declaration.
type Block struct {
	DeclPos      token.Pos
	Qualifier    TypeQualifier
	Name         string
	Fields       []Field
	InstanceName string
	ArraySpec    *ArraySpecifier
}

func (*Block) externalDecl()    {}
func (b *Block) Pos() token.Pos { return b.DeclPos }

// FunctionDef is a function definition, including the three pipeline
// functions recognised by name.
type FunctionDef struct {
	Prototype FunctionPrototype
	Body      *ast.BlockStmt
}

func (*FunctionDef) externalDecl()    {}
func (f *FunctionDef) Pos() token.Pos { return f.Prototype.Pos }

// Global is a bare qualifier statement, used for layout metadata such
// as `layout(triangles) in;`.
type Global struct {
	DeclPos   token.Pos
	Qualifier TypeQualifier
}

func (*Global) externalDecl()    {}
func (g *Global) Pos() token.Pos { return g.DeclPos }

// FullType is a type specifier plus its optional qualifier.
type FullType struct {
	Qualifier *TypeQualifier
	Spec      TypeSpecifier
}

// HasStorage reports whether this type carries the given storage
// qualifier.
func (t FullType) HasStorage(s StorageQualifier) bool { return t.Qualifier.HasStorage(s) }

// TypeName returns the declared type name when the specifier names a
// type (rather than an inline struct), e.g. "vec4" or "Vertex".
func (t FullType) TypeName() (string, bool) {
	n, ok := t.Spec.NonArray.(TypeName)
	return string(n), ok
}

// TypeSpecifier is a (possibly array) type reference.
type TypeSpecifier struct {
	NonArray TypeSpecifierNonArray
	Array    *ArraySpecifier
}

// TypeSpecifierNonArray is TypeName(string) | *StructSpecifier.
type TypeSpecifierNonArray interface{ typeSpecifierNonArray() }

// TypeName is a reference to a named type, built-in (vec4, float, ...)
// or user-declared (a struct name).
type TypeName string

func (TypeName) typeSpecifierNonArray() {}

// StructSpecifier is an inline or named struct definition.
type StructSpecifier struct {
	NamePos token.Pos
	Name    string
	Fields  []Field
}

func (*StructSpecifier) typeSpecifierNonArray() {}

// Field is one struct or block field: a type shared by one or more
// identifiers (GLSL allows `vec3 a, b[2];`).
type Field struct {
	Qualifier   *TypeQualifier
	Type        TypeSpecifier
	Identifiers []FieldIdentifier
}

// FieldIdentifier is one declared name within a Field, with its own
// optional array specifier.
type FieldIdentifier struct {
	Name  string
	Array *ArraySpecifier
}

// Declarator is one name in an InitDeclList's head/tail: a name, its
// own array specifier, and an optional initializer expression.
type Declarator struct {
	NamePos token.Pos
	Name    string
	Array   *ArraySpecifier
	Init    ast.Expr
}

// ArraySpecifier is `[]` (Unsized) or `[N]` (Size holding the literal
// or computed dimension expression).
type ArraySpecifier struct {
	Unsized bool
	Size    ast.Expr
}

// IntSize reports the array's dimension as a literal integer, and
// whether the dimension was present as one (as opposed to unsized or
// a non-literal expression).
func (a *ArraySpecifier) IntSize() (int, bool) {
	if a == nil || a.Unsized || a.Size == nil {
		return 0, false
	}
	lit, ok := a.Size.(*ast.BasicLit)
	if !ok || lit.Kind != token.INT {
		return 0, false
	}
	n, err := strconv.Atoi(lit.Value)
	if err != nil {
		return 0, false
	}
	return n, true
}

// StorageQualifier enumerates the storage qualifiers the core cares
// about.
type StorageQualifier int

const (
	StorageNone StorageQualifier = iota
	StorageConst
	StorageIn
	StorageOut
	StorageUniform
	StorageVarying
)

func (s StorageQualifier) String() string {
	switch s {
	case StorageConst:
		return "const"
	case StorageIn:
		return "in"
	case StorageOut:
		return "out"
	case StorageUniform:
		return "uniform"
	case StorageVarying:
		return "varying"
	default:
		return ""
	}
}

// LayoutQualifierID is one entry of a `layout(...)` list, e.g.
// `location = 0` or the bare identifier `triangle_strip`.
type LayoutQualifierID struct {
	Name  string
	Value ast.Expr // nil for a bare identifier
}

// LayoutQualifier is a full `layout(id, id = expr, ...)` qualifier.
type LayoutQualifier struct {
	IDs []LayoutQualifierID
}

// Get returns the value expression bound to name, if present.
func (l LayoutQualifier) Get(name string) (ast.Expr, bool) {
	for _, id := range l.IDs {
		if id.Name == name {
			return id.Value, true
		}
	}
	return nil, false
}

// Has reports whether name appears in the layout list (with or
// without a bound value).
func (l LayoutQualifier) Has(name string) bool {
	for _, id := range l.IDs {
		if id.Name == name {
			return true
		}
	}
	return false
}

// TypeQualifierSpec is one qualifier token within a TypeQualifier: a
// storage qualifier, a layout qualifier, or a bare keyword (flat,
// smooth, centroid, ...).
type TypeQualifierSpec interface{ typeQualifierSpec() }

type StorageQualifierSpec struct{ Storage StorageQualifier }

func (StorageQualifierSpec) typeQualifierSpec() {}

type LayoutQualifierSpec struct{ Layout LayoutQualifier }

func (LayoutQualifierSpec) typeQualifierSpec() {}

type KeywordQualifierSpec struct{ Keyword string }

func (KeywordQualifierSpec) typeQualifierSpec() {}

// TypeQualifier is an ordered sequence of qualifier specs, e.g.
// `layout(location = 0) in`.
type TypeQualifier struct {
	Specs []TypeQualifierSpec
}

// HasStorage reports whether q carries the given storage qualifier. A
// nil receiver (no qualifier at all) never carries any storage.
func (q *TypeQualifier) HasStorage(s StorageQualifier) bool {
	if q == nil {
		return false
	}
	for _, spec := range q.Specs {
		if sq, ok := spec.(StorageQualifierSpec); ok && sq.Storage == s {
			return true
		}
	}
	return false
}

// Layout returns the layout qualifier carried by q, if any.
func (q *TypeQualifier) Layout() (LayoutQualifier, bool) {
	if q == nil {
		return LayoutQualifier{}, false
	}
	for _, spec := range q.Specs {
		if lq, ok := spec.(LayoutQualifierSpec); ok {
			return lq.Layout, true
		}
	}
	return LayoutQualifier{}, false
}

// WithPrepended returns a new qualifier with extra specs placed before
// q's own specs, used to compose a synthesised `layout(location=i) in`
// prefix onto a user-supplied qualifier (spec §4.4 step 1).
func (q *TypeQualifier) WithPrepended(extra ...TypeQualifierSpec) *TypeQualifier {
	out := &TypeQualifier{Specs: append([]TypeQualifierSpec{}, extra...)}
	if q != nil {
		out.Specs = append(out.Specs, q.Specs...)
	}
	return out
}

// FunctionPrototype is a function's name, parameter list, and return
// type.
type FunctionPrototype struct {
	Pos        token.Pos
	Name       string
	ReturnType FullType
	Params     []Param
}

// Param is one function parameter. An empty Name marks an unnamed,
// reserved-slot parameter (spec §4.4 step 1).
type Param struct {
	Pos  token.Pos
	Name string
	Type FullType
}

// Named reports whether this parameter declares a name.
func (p Param) Named() bool { return p.Name != "" }
