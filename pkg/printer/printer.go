// Package printer renders pkg/ast nodes back into GLSL-superset source
// text. Each Show* function appends onto an io.StringWriter, mirroring
// the "one show_* per node kind" printer contract the core's lowerers
// are written against. Formatting is deterministic: stable field
// order, ';'-terminated statements, LF newlines, so repeated calls on
// the same tree are byte-identical.
package printer

import (
	"go/ast"
	"go/token"
	"io"
	"strconv"
	"strings"

	chast "github.com/gitter-badger/spectra/pkg/ast"
)

// ShowExternalDeclaration dispatches to the matching Show* function.
func ShowExternalDeclaration(w io.StringWriter, d chast.ExternalDecl) {
	switch v := d.(type) {
	case *chast.InitDeclList:
		ShowSingleDeclaration(w, v)
		w.WriteString(";\n")
	case *chast.Block:
		ShowBlock(w, v)
	case *chast.FunctionDef:
		ShowFunctionDefinition(w, v)
	case *chast.Global:
		w.WriteString(qualifierString(&v.Qualifier))
		w.WriteString(";\n")
	}
}

// ShowSingleDeclaration renders an InitDeclList's head declaration and
// every tail declarator, comma-separated, without a trailing ';'
// (callers decide statement vs. declaration-list termination).
func ShowSingleDeclaration(w io.StringWriter, d *chast.InitDeclList) {
	w.WriteString(fullTypeString(d.Type))
	w.WriteString(" ")
	w.WriteString(declaratorString(d.Head))
	for _, tail := range d.Tail {
		w.WriteString(", ")
		w.WriteString(declaratorString(tail))
	}
}

// ShowBlock renders a GLSL interface block.
func ShowBlock(w io.StringWriter, b *chast.Block) {
	w.WriteString(qualifierString(&b.Qualifier))
	w.WriteString(" ")
	w.WriteString(b.Name)
	w.WriteString(" {\n")
	for _, f := range b.Fields {
		w.WriteString("  ")
		w.WriteString(fieldString(f))
		w.WriteString(";\n")
	}
	w.WriteString("}")
	if b.InstanceName != "" {
		w.WriteString(" ")
		w.WriteString(b.InstanceName)
		w.WriteString(arraySpecString(b.ArraySpec))
	}
	w.WriteString(";\n")
}

// ShowStruct renders a named struct definition, terminated as an
// external declaration (`struct Name { ... };`).
func ShowStruct(w io.StringWriter, s *chast.StructSpecifier) {
	w.WriteString("struct ")
	w.WriteString(s.Name)
	w.WriteString(" {\n")
	for _, f := range s.Fields {
		w.WriteString("  ")
		w.WriteString(fieldString(f))
		w.WriteString(";\n")
	}
	w.WriteString("};\n")
}

// ShowFunctionDefinition renders a full function definition.
func ShowFunctionDefinition(w io.StringWriter, f *chast.FunctionDef) {
	w.WriteString(fullTypeString(f.Prototype.ReturnType))
	w.WriteString(" ")
	w.WriteString(f.Prototype.Name)
	w.WriteString("(")
	first := true
	for _, p := range f.Prototype.Params {
		if !first {
			w.WriteString(", ")
		}
		first = false
		w.WriteString(paramString(p))
	}
	w.WriteString(") {\n")
	for _, stmt := range f.Body.List {
		ShowStatement(w, stmt, 1)
	}
	w.WriteString("}\n\n")
}

// ShowStatement renders one go/ast.Stmt in the small statement subset
// the pipeline functions use, indented by depth levels of two spaces.
func ShowStatement(w io.StringWriter, stmt ast.Stmt, depth int) {
	indent := strings.Repeat("  ", depth)
	switch s := stmt.(type) {
	case *ast.ExprStmt:
		w.WriteString(indent)
		w.WriteString(exprString(s.X))
		w.WriteString(";\n")

	case *ast.AssignStmt:
		w.WriteString(indent)
		w.WriteString(exprString(s.Lhs[0]))
		w.WriteString(" = ")
		w.WriteString(exprString(s.Rhs[0]))
		w.WriteString(";\n")

	case *ast.ReturnStmt:
		w.WriteString(indent)
		w.WriteString("return")
		if len(s.Results) > 0 {
			w.WriteString(" ")
			w.WriteString(exprString(s.Results[0]))
		}
		w.WriteString(";\n")

	case *ast.DeclStmt:
		w.WriteString(indent)
		w.WriteString(genDeclString(s.Decl.(*ast.GenDecl)))
		w.WriteString(";\n")

	case *ast.BlockStmt:
		w.WriteString(indent)
		w.WriteString("{\n")
		for _, inner := range s.List {
			ShowStatement(w, inner, depth+1)
		}
		w.WriteString(indent)
		w.WriteString("}\n")

	case *ast.IfStmt:
		w.WriteString(indent)
		w.WriteString("if (")
		w.WriteString(exprString(s.Cond))
		w.WriteString(") {\n")
		for _, inner := range s.Body.List {
			ShowStatement(w, inner, depth+1)
		}
		w.WriteString(indent)
		w.WriteString("}")
		if s.Else != nil {
			w.WriteString(" else {\n")
			if block, ok := s.Else.(*ast.BlockStmt); ok {
				for _, inner := range block.List {
					ShowStatement(w, inner, depth+1)
				}
			}
			w.WriteString(indent)
			w.WriteString("}")
		}
		w.WriteString("\n")

	case *ast.ForStmt:
		w.WriteString(indent)
		w.WriteString("for (")
		if s.Init != nil {
			w.WriteString(genDeclString(s.Init.(*ast.DeclStmt).Decl.(*ast.GenDecl)))
		}
		w.WriteString("; ")
		if s.Cond != nil {
			w.WriteString(exprString(s.Cond))
		}
		w.WriteString("; ")
		if s.Post != nil {
			w.WriteString(exprString(s.Post.(*ast.ExprStmt).X))
		}
		w.WriteString(") {\n")
		for _, inner := range s.Body.List {
			ShowStatement(w, inner, depth+1)
		}
		w.WriteString(indent)
		w.WriteString("}\n")
	}
}

func genDeclString(d *ast.GenDecl) string {
	spec := d.Specs[0].(*ast.ValueSpec)
	var sb strings.Builder
	if spec.Type != nil {
		sb.WriteString(exprString(spec.Type))
		sb.WriteString(" ")
	}
	for i, name := range spec.Names {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(name.Name)
		if i < len(spec.Values) {
			sb.WriteString(" = ")
			sb.WriteString(exprString(spec.Values[i]))
		}
	}
	return sb.String()
}

// exprString renders the small go/ast.Expr subset the parser's
// lowering pass produces (identifiers, literals, calls, selectors,
// indexing, unary/binary arithmetic).
func exprString(e ast.Expr) string {
	switch v := e.(type) {
	case *ast.Ident:
		return v.Name
	case *ast.BasicLit:
		return v.Value
	case *ast.BinaryExpr:
		return exprString(v.X) + " " + v.Op.String() + " " + exprString(v.Y)
	case *ast.UnaryExpr:
		return v.Op.String() + exprString(v.X)
	case *ast.ParenExpr:
		return "(" + exprString(v.X) + ")"
	case *ast.SelectorExpr:
		return exprString(v.X) + "." + v.Sel.Name
	case *ast.IndexExpr:
		return exprString(v.X) + "[" + exprString(v.Index) + "]"
	case *ast.CallExpr:
		args := make([]string, len(v.Args))
		for i, a := range v.Args {
			args[i] = exprString(a)
		}
		return exprString(v.Fun) + "(" + strings.Join(args, ", ") + ")"
	}
	return ""
}

func fullTypeString(t chast.FullType) string {
	var sb strings.Builder
	if t.Qualifier != nil && len(t.Qualifier.Specs) > 0 {
		sb.WriteString(qualifierString(t.Qualifier))
		sb.WriteString(" ")
	}
	sb.WriteString(typeSpecString(t.Spec))
	return sb.String()
}

func typeSpecString(t chast.TypeSpecifier) string {
	var base string
	switch v := t.NonArray.(type) {
	case chast.TypeName:
		base = string(v)
	case *chast.StructSpecifier:
		base = inlineStructString(v)
	}
	return base + arraySpecString(t.Array)
}

func inlineStructString(s *chast.StructSpecifier) string {
	var sb strings.Builder
	sb.WriteString("struct ")
	if s.Name != "" {
		sb.WriteString(s.Name)
		sb.WriteString(" ")
	}
	sb.WriteString("{\n")
	for _, f := range s.Fields {
		sb.WriteString("  ")
		sb.WriteString(fieldString(f))
		sb.WriteString(";\n")
	}
	sb.WriteString("}")
	return sb.String()
}

func fieldString(f chast.Field) string {
	var sb strings.Builder
	if f.Qualifier != nil && len(f.Qualifier.Specs) > 0 {
		sb.WriteString(qualifierString(f.Qualifier))
		sb.WriteString(" ")
	}
	sb.WriteString(typeSpecString(f.Type))
	sb.WriteString(" ")
	for i, id := range f.Identifiers {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(id.Name)
		sb.WriteString(arraySpecString(id.Array))
	}
	return sb.String()
}

func declaratorString(d chast.Declarator) string {
	var sb strings.Builder
	sb.WriteString(d.Name)
	sb.WriteString(arraySpecString(d.Array))
	if d.Init != nil {
		sb.WriteString(" = ")
		sb.WriteString(exprString(d.Init))
	}
	return sb.String()
}

func paramString(p chast.Param) string {
	s := fullTypeString(p.Type)
	if p.Named() {
		s += " " + p.Name
	}
	return s
}

func arraySpecString(a *chast.ArraySpecifier) string {
	if a == nil {
		return ""
	}
	if a.Unsized {
		return "[]"
	}
	return "[" + exprString(a.Size) + "]"
}

func qualifierString(q *chast.TypeQualifier) string {
	if q == nil {
		return ""
	}
	parts := make([]string, 0, len(q.Specs))
	for _, spec := range q.Specs {
		switch v := spec.(type) {
		case chast.StorageQualifierSpec:
			parts = append(parts, v.Storage.String())
		case chast.KeywordQualifierSpec:
			parts = append(parts, v.Keyword)
		case chast.LayoutQualifierSpec:
			parts = append(parts, layoutQualifierString(v.Layout))
		}
	}
	return strings.Join(parts, " ")
}

func layoutQualifierString(l chast.LayoutQualifier) string {
	ids := make([]string, len(l.IDs))
	for i, id := range l.IDs {
		if id.Value != nil {
			ids[i] = id.Name + " = " + exprString(id.Value)
		} else {
			ids[i] = id.Name
		}
	}
	return "layout(" + strings.Join(ids, ", ") + ")"
}

// intExpr builds a go/ast integer literal expression, used by lowerers
// that synthesise layout(location = i) qualifiers and array dimensions
// the printer then renders with exprString.
func intExpr(n int) ast.Expr {
	return &ast.BasicLit{Kind: token.INT, Value: strconv.Itoa(n)}
}

// IntExpr is the exported form of intExpr for pkg/lower.
func IntExpr(n int) ast.Expr { return intExpr(n) }
