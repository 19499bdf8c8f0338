package parser

import "github.com/alecthomas/participle/v2/lexer"

// The grammar below is a pure parse tree: every alternative field is a
// pointer so a nil field means "this branch wasn't taken" (the
// convention participle examples use for disjunctions). lower.go turns
// this tree into pkg/ast nodes; go/ast.Expr and go/ast.Stmt values are
// only constructed during that lowering pass, never here.

type file struct {
	Headers []*header `parser:"@@*"`
	Decls   []*decl   `parser:"@@*"`
}

type header struct {
	Import *importHeader `parser:"(  @@"`
	Export *exportHeader `parser:" | @@ )"`
}

type importHeader struct {
	Pos     lexer.Position
	Path    *qualifiedName `parser:"'from' @@ 'import'"`
	Symbols []string       `parser:"'(' @Ident (',' @Ident)* ')'"`
}

type exportHeader struct {
	Pos     lexer.Position
	Symbols []string `parser:"'export' '(' @Ident (',' @Ident)* ')'"`
}

type qualifiedName struct {
	Parts []string `parser:"@Ident ('.' @Ident)*"`
}

// decl is one top-level external declaration. Order matters only for
// backtracking efficiency: participle rewinds and tries the next
// alternative on failure, so any order is correct, but trying the most
// selective shapes first (a bare qualifier statement, a function's
// trailing parameter list) avoids needless re-parsing of long bodies.
type decl struct {
	Global *globalDecl `parser:"(  @@"`
	Func   *funcDecl   `parser:" | @@"`
	Block  *blockDecl  `parser:" | @@"`
	Var    *varDecl    `parser:" | @@ )"`
}

type globalDecl struct {
	Pos       lexer.Position
	Qualifier *qualifier `parser:"@@ ';'"`
}

type funcDecl struct {
	Pos        lexer.Position
	ReturnType *fullType    `parser:"@@"`
	Name       string       `parser:"@Ident"`
	Params     []*paramDecl `parser:"'(' (@@ (',' @@)*)? ')'"`
	Body       *block       `parser:"@@"`
}

type paramDecl struct {
	Pos       lexer.Position
	Qualifier *qualifier `parser:"@@?"`
	Type      *typeSpec  `parser:"@@"`
	Name      *string    `parser:"@Ident?"`
}

type blockDecl struct {
	Pos       lexer.Position
	Qualifier *qualifier      `parser:"@@"`
	Name      string          `parser:"@Ident"`
	Fields    []*fieldDecl    `parser:"'{' @@* '}'"`
	Instance  *declaratorName `parser:"@@? ';'"`
}

type varDecl struct {
	Pos  lexer.Position
	Body *declBody `parser:"@@ ';'"`
}

// Names is optional: a bare struct definition with no instance name
// ("struct Foo { ... };") is a valid declBody with zero declarators.
type declBody struct {
	Type  *fullType         `parser:"@@"`
	Names []*declaratorName `parser:"(@@ (',' @@)*)?"`
}

type declaratorName struct {
	Pos   lexer.Position
	Name  string     `parser:"@Ident"`
	Array *arraySpec `parser:"@@?"`
	Init  *expr      `parser:"('=' @@)?"`
}

type arraySpec struct {
	Size *expr `parser:"'[' @@? ']'"`
}

type fieldDecl struct {
	Qualifier *qualifier        `parser:"@@?"`
	Type      *typeSpec         `parser:"@@"`
	Names     []*declaratorName `parser:"@@ (',' @@)* ';'"`
}

type fullType struct {
	Qualifier *qualifier `parser:"@@?"`
	Spec      *typeSpec  `parser:"@@"`
}

type typeSpec struct {
	Struct *structSpec `parser:"(  @@"`
	Name   *string     `parser:" | @Ident )"`
	Array  *arraySpec  `parser:"@@?"`
}

type structSpec struct {
	Pos    lexer.Position
	Name   *string      `parser:"'struct' @Ident?"`
	Fields []*fieldDecl `parser:"'{' @@* '}'"`
}

// qualifier is a non-empty run of qualifier specs. The storage and
// keyword alternatives are closed literal sets deliberately: a bare
// `@Ident` here would greedily also swallow the very next declaration's
// type or block name, since nothing but the literal set distinguishes
// "uniform" (a qualifier) from "Matrices" (a block name) at the token
// level.
type qualifier struct {
	Specs []*qualifierSpec `parser:"@@+"`
}

type qualifierSpec struct {
	Layout  *layoutQualifier `parser:"(  @@"`
	Storage *string          `parser:" | @('const' | 'in' | 'out' | 'uniform' | 'varying' | 'buffer' | 'shared')"`
	Keyword *string          `parser:" | @('flat' | 'smooth' | 'noperspective' | 'centroid' | 'invariant' | 'highp' | 'mediump' | 'lowp' | 'coherent' | 'volatile' | 'restrict' | 'readonly' | 'writeonly') )"`
}

type layoutQualifier struct {
	IDs []*layoutQualifierID `parser:"'layout' '(' @@ (',' @@)* ')'"`
}

type layoutQualifierID struct {
	Name  string `parser:"@Ident"`
	Value *expr  `parser:"('=' @@)?"`
}

// --- statements -------------------------------------------------------

type block struct {
	Statements []*statement `parser:"'{' @@* '}'"`
}

type statement struct {
	Return *returnStmt `parser:"(  @@"`
	If     *ifStmt     `parser:" | @@"`
	For    *forStmt    `parser:" | @@"`
	Nested *block      `parser:" | @@"`
	Decl   *localDecl  `parser:" | @@"`
	Assign *assignStmt `parser:" | @@"`
	Expr   *exprStmt   `parser:" | @@ )"`
}

type returnStmt struct {
	Pos   lexer.Position
	Value *expr `parser:"'return' @@? ';'"`
}

type ifStmt struct {
	Cond *expr  `parser:"'if' '(' @@ ')'"`
	Then *block `parser:"@@"`
	Else *block `parser:"('else' @@)?"`
}

type forStmt struct {
	Init *declBody `parser:"'for' '(' @@? ';'"`
	Cond *expr     `parser:"@@? ';'"`
	Post *expr     `parser:"@@? ')'"`
	Body *block    `parser:"@@"`
}

type localDecl struct {
	Body *declBody `parser:"@@ ';'"`
}

type assignStmt struct {
	Pos lexer.Position
	Lhs *expr `parser:"@@ '='"`
	Rhs *expr `parser:"@@ ';'"`
}

type exprStmt struct {
	Pos lexer.Position
	X   *expr `parser:"@@ ';'"`
}

// --- expressions (precedence climbing) --------------------------------

type expr struct {
	Left *additive `parser:"@@"`
}

type additive struct {
	Left *multiplicative `parser:"@@"`
	Ops  []*addOp        `parser:"@@*"`
}

type addOp struct {
	Op    string          `parser:"@('+' | '-')"`
	Right *multiplicative `parser:"@@"`
}

type multiplicative struct {
	Left *unary   `parser:"@@"`
	Ops  []*mulOp `parser:"@@*"`
}

type mulOp struct {
	Op    string `parser:"@('*' | '/' | '%')"`
	Right *unary `parser:"@@"`
}

type unary struct {
	Op   *string  `parser:"@('-' | '!')?"`
	Expr *postfix `parser:"@@"`
}

type postfix struct {
	Base *primary     `parser:"@@"`
	Ops  []*postfixOp `parser:"@@*"`
}

type postfixOp struct {
	Call     *callArgs `parser:"(  @@"`
	Index    *expr     `parser:" | '[' @@ ']'"`
	Selector *string   `parser:" | '.' @Ident )"`
}

type callArgs struct {
	Args []*expr `parser:"'(' (@@ (',' @@)*)? ')'"`
}

type primary struct {
	Pos   lexer.Position
	Float *string `parser:"(  @Float"`
	Int   *string `parser:"  | @Int"`
	Ident *string `parser:"  | @Ident"`
	Sub   *expr   `parser:"  | '(' @@ ')' )"`
}
