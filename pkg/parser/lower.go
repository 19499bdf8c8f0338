package parser

import (
	"fmt"
	goast "go/ast"
	"go/token"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/gitter-badger/spectra/pkg/ast"
)

// lowering carries the token.File positions are resolved against, so
// every lower* helper can turn a lexer.Position into a token.Pos
// without threading the file through every call.
type lowering struct {
	file *token.File
}

func lowerFile(f *file, tokFile *token.File) (*ast.Module, error) {
	l := &lowering{file: tokFile}

	mod := &ast.Module{}
	for _, h := range f.Headers {
		switch {
		case h.Import != nil:
			mod.Imports = append(mod.Imports, ast.Import{
				Pos:     l.pos(h.Import.Pos),
				Module:  ast.NewModuleKey(h.Import.Path.Parts),
				Symbols: h.Import.Symbols,
			})
		case h.Export != nil:
			mod.Exports = append(mod.Exports, ast.Export{
				Pos:     l.pos(h.Export.Pos),
				Symbols: h.Export.Symbols,
			})
		}
	}

	for _, d := range f.Decls {
		ed, err := l.lowerDecl(d)
		if err != nil {
			return nil, err
		}
		mod.Decls = append(mod.Decls, ed)
	}
	return mod, nil
}

func (l *lowering) pos(p lexer.Position) token.Pos {
	if l.file == nil || p.Offset < 0 || p.Offset > l.file.Size() {
		return token.NoPos
	}
	return l.file.Pos(p.Offset)
}

func (l *lowering) lowerDecl(d *decl) (ast.ExternalDecl, error) {
	switch {
	case d.Global != nil:
		q, err := l.lowerQualifier(d.Global.Qualifier)
		if err != nil {
			return nil, err
		}
		return &ast.Global{DeclPos: l.pos(d.Global.Pos), Qualifier: *q}, nil

	case d.Func != nil:
		return l.lowerFunc(d.Func)

	case d.Block != nil:
		return l.lowerBlock(d.Block)

	case d.Var != nil:
		return l.lowerVarDecl(d.Var)
	}
	return nil, fmt.Errorf("parser: empty declaration alternative")
}

func (l *lowering) lowerFunc(f *funcDecl) (*ast.FunctionDef, error) {
	rt, err := l.lowerFullType(f.ReturnType)
	if err != nil {
		return nil, err
	}
	proto := ast.FunctionPrototype{
		Pos:        l.pos(f.Pos),
		Name:       f.Name,
		ReturnType: *rt,
	}
	for _, p := range f.Params {
		param, err := l.lowerParam(p)
		if err != nil {
			return nil, err
		}
		proto.Params = append(proto.Params, *param)
	}
	body, err := l.lowerBlockStmt(f.Body)
	if err != nil {
		return nil, err
	}
	return &ast.FunctionDef{Prototype: proto, Body: body}, nil
}

func (l *lowering) lowerParam(p *paramDecl) (*ast.Param, error) {
	spec, err := l.lowerTypeSpec(p.Type)
	if err != nil {
		return nil, err
	}
	var q *ast.TypeQualifier
	if p.Qualifier != nil {
		q, err = l.lowerQualifier(p.Qualifier)
		if err != nil {
			return nil, err
		}
	}
	name := ""
	if p.Name != nil {
		name = *p.Name
	}
	return &ast.Param{
		Pos:  l.pos(p.Pos),
		Name: name,
		Type: ast.FullType{Qualifier: q, Spec: *spec},
	}, nil
}

func (l *lowering) lowerBlock(b *blockDecl) (*ast.Block, error) {
	q, err := l.lowerQualifier(b.Qualifier)
	if err != nil {
		return nil, err
	}
	out := &ast.Block{
		DeclPos:   l.pos(b.Pos),
		Qualifier: *q,
		Name:      b.Name,
	}
	for _, fd := range b.Fields {
		field, err := l.lowerField(fd)
		if err != nil {
			return nil, err
		}
		out.Fields = append(out.Fields, *field)
	}
	if b.Instance != nil {
		out.InstanceName = b.Instance.Name
		arr, err := l.lowerArraySpec(b.Instance.Array)
		if err != nil {
			return nil, err
		}
		out.ArraySpec = arr
	}
	return out, nil
}

func (l *lowering) lowerVarDecl(v *varDecl) (*ast.InitDeclList, error) {
	ft, err := l.lowerFullType(v.Body.Type)
	if err != nil {
		return nil, err
	}
	if len(v.Body.Names) == 0 {
		if _, ok := ft.Spec.NonArray.(*ast.StructSpecifier); !ok {
			return nil, fmt.Errorf("parser: declaration with no names")
		}
		return &ast.InitDeclList{DeclPos: l.pos(v.Pos), Type: *ft}, nil
	}
	head, err := l.lowerDeclarator(v.Body.Names[0])
	if err != nil {
		return nil, err
	}
	decl := &ast.InitDeclList{
		DeclPos: l.pos(v.Pos),
		Type:    *ft,
		Head:    *head,
	}
	for _, n := range v.Body.Names[1:] {
		d, err := l.lowerDeclarator(n)
		if err != nil {
			return nil, err
		}
		decl.Tail = append(decl.Tail, *d)
	}
	return decl, nil
}

func (l *lowering) lowerDeclarator(n *declaratorName) (*ast.Declarator, error) {
	arr, err := l.lowerArraySpec(n.Array)
	if err != nil {
		return nil, err
	}
	var init goast.Expr
	if n.Init != nil {
		init, err = l.lowerExpr(n.Init)
		if err != nil {
			return nil, err
		}
	}
	return &ast.Declarator{
		NamePos: l.pos(n.Pos),
		Name:    n.Name,
		Array:   arr,
		Init:    init,
	}, nil
}

func (l *lowering) lowerFullType(ft *fullType) (*ast.FullType, error) {
	spec, err := l.lowerTypeSpec(ft.Spec)
	if err != nil {
		return nil, err
	}
	var q *ast.TypeQualifier
	if ft.Qualifier != nil {
		q, err = l.lowerQualifier(ft.Qualifier)
		if err != nil {
			return nil, err
		}
	}
	return &ast.FullType{Qualifier: q, Spec: *spec}, nil
}

func (l *lowering) lowerTypeSpec(t *typeSpec) (*ast.TypeSpecifier, error) {
	var nonArray ast.TypeSpecifierNonArray
	switch {
	case t.Struct != nil:
		s, err := l.lowerStructSpec(t.Struct)
		if err != nil {
			return nil, err
		}
		nonArray = s
	case t.Name != nil:
		nonArray = ast.TypeName(*t.Name)
	default:
		return nil, fmt.Errorf("parser: empty type specifier")
	}
	arr, err := l.lowerArraySpec(t.Array)
	if err != nil {
		return nil, err
	}
	return &ast.TypeSpecifier{NonArray: nonArray, Array: arr}, nil
}

func (l *lowering) lowerStructSpec(s *structSpec) (*ast.StructSpecifier, error) {
	name := ""
	if s.Name != nil {
		name = *s.Name
	}
	out := &ast.StructSpecifier{NamePos: l.pos(s.Pos), Name: name}
	for _, fd := range s.Fields {
		field, err := l.lowerField(fd)
		if err != nil {
			return nil, err
		}
		out.Fields = append(out.Fields, *field)
	}
	return out, nil
}

func (l *lowering) lowerField(fd *fieldDecl) (*ast.Field, error) {
	spec, err := l.lowerTypeSpec(fd.Type)
	if err != nil {
		return nil, err
	}
	var q *ast.TypeQualifier
	if fd.Qualifier != nil {
		q, err = l.lowerQualifier(fd.Qualifier)
		if err != nil {
			return nil, err
		}
	}
	field := &ast.Field{Qualifier: q, Type: *spec}
	for _, n := range fd.Names {
		arr, err := l.lowerArraySpec(n.Array)
		if err != nil {
			return nil, err
		}
		field.Identifiers = append(field.Identifiers, ast.FieldIdentifier{Name: n.Name, Array: arr})
	}
	return field, nil
}

func (l *lowering) lowerArraySpec(a *arraySpec) (*ast.ArraySpecifier, error) {
	if a == nil {
		return nil, nil
	}
	if a.Size == nil {
		return &ast.ArraySpecifier{Unsized: true}, nil
	}
	size, err := l.lowerExpr(a.Size)
	if err != nil {
		return nil, err
	}
	return &ast.ArraySpecifier{Size: size}, nil
}

func (l *lowering) lowerQualifier(q *qualifier) (*ast.TypeQualifier, error) {
	out := &ast.TypeQualifier{}
	for _, spec := range q.Specs {
		switch {
		case spec.Layout != nil:
			lq, err := l.lowerLayoutQualifier(spec.Layout)
			if err != nil {
				return nil, err
			}
			out.Specs = append(out.Specs, ast.LayoutQualifierSpec{Layout: *lq})
		case spec.Storage != nil:
			out.Specs = append(out.Specs, ast.StorageQualifierSpec{Storage: storageFromKeyword(*spec.Storage)})
		case spec.Keyword != nil:
			out.Specs = append(out.Specs, ast.KeywordQualifierSpec{Keyword: *spec.Keyword})
		}
	}
	return out, nil
}

func storageFromKeyword(kw string) ast.StorageQualifier {
	switch kw {
	case "const":
		return ast.StorageConst
	case "in":
		return ast.StorageIn
	case "out":
		return ast.StorageOut
	case "uniform":
		return ast.StorageUniform
	case "varying":
		return ast.StorageVarying
	default:
		return ast.StorageNone
	}
}

func (l *lowering) lowerLayoutQualifier(lq *layoutQualifier) (*ast.LayoutQualifier, error) {
	out := &ast.LayoutQualifier{}
	for _, id := range lq.IDs {
		var val goast.Expr
		if id.Value != nil {
			v, err := l.lowerExpr(id.Value)
			if err != nil {
				return nil, err
			}
			val = v
		}
		out.IDs = append(out.IDs, ast.LayoutQualifierID{Name: id.Name, Value: val})
	}
	return out, nil
}

// --- statements ---------------------------------------------------------

func (l *lowering) lowerBlockStmt(b *block) (*goast.BlockStmt, error) {
	out := &goast.BlockStmt{}
	for _, s := range b.Statements {
		stmt, err := l.lowerStatement(s)
		if err != nil {
			return nil, err
		}
		out.List = append(out.List, stmt)
	}
	return out, nil
}

func (l *lowering) lowerStatement(s *statement) (goast.Stmt, error) {
	switch {
	case s.Return != nil:
		var results []goast.Expr
		if s.Return.Value != nil {
			e, err := l.lowerExpr(s.Return.Value)
			if err != nil {
				return nil, err
			}
			results = []goast.Expr{e}
		}
		return &goast.ReturnStmt{Return: l.pos(s.Return.Pos), Results: results}, nil

	case s.If != nil:
		cond, err := l.lowerExpr(s.If.Cond)
		if err != nil {
			return nil, err
		}
		then, err := l.lowerBlockStmt(s.If.Then)
		if err != nil {
			return nil, err
		}
		out := &goast.IfStmt{Cond: cond, Body: then}
		if s.If.Else != nil {
			els, err := l.lowerBlockStmt(s.If.Else)
			if err != nil {
				return nil, err
			}
			out.Else = els
		}
		return out, nil

	case s.For != nil:
		var init goast.Stmt
		if s.For.Init != nil {
			d, err := l.lowerDeclBodyAsDecl(s.For.Init)
			if err != nil {
				return nil, err
			}
			init = &goast.DeclStmt{Decl: d}
		}
		var cond goast.Expr
		if s.For.Cond != nil {
			c, err := l.lowerExpr(s.For.Cond)
			if err != nil {
				return nil, err
			}
			cond = c
		}
		var post goast.Stmt
		if s.For.Post != nil {
			p, err := l.lowerExpr(s.For.Post)
			if err != nil {
				return nil, err
			}
			post = &goast.ExprStmt{X: p}
		}
		body, err := l.lowerBlockStmt(s.For.Body)
		if err != nil {
			return nil, err
		}
		return &goast.ForStmt{Init: init, Cond: cond, Post: post, Body: body}, nil

	case s.Nested != nil:
		return l.lowerBlockStmt(s.Nested)

	case s.Decl != nil:
		d, err := l.lowerDeclBodyAsDecl(s.Decl.Body)
		if err != nil {
			return nil, err
		}
		return &goast.DeclStmt{Decl: d}, nil

	case s.Assign != nil:
		lhs, err := l.lowerExpr(s.Assign.Lhs)
		if err != nil {
			return nil, err
		}
		rhs, err := l.lowerExpr(s.Assign.Rhs)
		if err != nil {
			return nil, err
		}
		return &goast.AssignStmt{
			Lhs:    []goast.Expr{lhs},
			TokPos: l.pos(s.Assign.Pos),
			Tok:    token.ASSIGN,
			Rhs:    []goast.Expr{rhs},
		}, nil

	case s.Expr != nil:
		x, err := l.lowerExpr(s.Expr.X)
		if err != nil {
			return nil, err
		}
		return &goast.ExprStmt{X: x}, nil
	}
	return nil, fmt.Errorf("parser: empty statement alternative")
}

// lowerDeclBodyAsDecl wraps a local `Type name = init, ...;` in a
// go/ast.GenDecl/ValueSpec pair so local variable declarations can be
// carried as go/ast.Stmt via go/ast.DeclStmt, matching how go/ast
// represents `var x = e` inside a function body.
func (l *lowering) lowerDeclBodyAsDecl(b *declBody) (goast.Decl, error) {
	ft, err := l.lowerFullType(b.Type)
	if err != nil {
		return nil, err
	}
	typeName, _ := ft.TypeName()

	spec := &goast.ValueSpec{}
	for _, n := range b.Names {
		spec.Names = append(spec.Names, goast.NewIdent(n.Name))
		if n.Init != nil {
			init, err := l.lowerExpr(n.Init)
			if err != nil {
				return nil, err
			}
			spec.Values = append(spec.Values, init)
		}
	}
	if typeName != "" {
		spec.Type = goast.NewIdent(typeName)
	}
	return &goast.GenDecl{Tok: token.VAR, Specs: []goast.Spec{spec}}, nil
}

// --- expressions ----------------------------------------------------------

func (l *lowering) lowerExpr(e *expr) (goast.Expr, error) {
	return l.lowerAdditive(e.Left)
}

func (l *lowering) lowerAdditive(a *additive) (goast.Expr, error) {
	x, err := l.lowerMultiplicative(a.Left)
	if err != nil {
		return nil, err
	}
	for _, op := range a.Ops {
		y, err := l.lowerMultiplicative(op.Right)
		if err != nil {
			return nil, err
		}
		x = &goast.BinaryExpr{X: x, Op: binOpToken(op.Op), Y: y}
	}
	return x, nil
}

func (l *lowering) lowerMultiplicative(m *multiplicative) (goast.Expr, error) {
	x, err := l.lowerUnary(m.Left)
	if err != nil {
		return nil, err
	}
	for _, op := range m.Ops {
		y, err := l.lowerUnary(op.Right)
		if err != nil {
			return nil, err
		}
		x = &goast.BinaryExpr{X: x, Op: binOpToken(op.Op), Y: y}
	}
	return x, nil
}

func (l *lowering) lowerUnary(u *unary) (goast.Expr, error) {
	x, err := l.lowerPostfix(u.Expr)
	if err != nil {
		return nil, err
	}
	if u.Op != nil {
		return &goast.UnaryExpr{Op: unOpToken(*u.Op), X: x}, nil
	}
	return x, nil
}

func (l *lowering) lowerPostfix(p *postfix) (goast.Expr, error) {
	x, err := l.lowerPrimary(p.Base)
	if err != nil {
		return nil, err
	}
	for _, op := range p.Ops {
		switch {
		case op.Call != nil:
			var args []goast.Expr
			for _, a := range op.Call.Args {
				ae, err := l.lowerExpr(a)
				if err != nil {
					return nil, err
				}
				args = append(args, ae)
			}
			x = &goast.CallExpr{Fun: x, Args: args}
		case op.Index != nil:
			idx, err := l.lowerExpr(op.Index)
			if err != nil {
				return nil, err
			}
			x = &goast.IndexExpr{X: x, Index: idx}
		case op.Selector != nil:
			x = &goast.SelectorExpr{X: x, Sel: goast.NewIdent(*op.Selector)}
		}
	}
	return x, nil
}

func (l *lowering) lowerPrimary(p *primary) (goast.Expr, error) {
	pos := l.pos(p.Pos)
	switch {
	case p.Float != nil:
		v := strings.TrimRight(*p.Float, "fF")
		return &goast.BasicLit{ValuePos: pos, Kind: token.FLOAT, Value: v}, nil
	case p.Int != nil:
		return &goast.BasicLit{ValuePos: pos, Kind: token.INT, Value: *p.Int}, nil
	case p.Ident != nil:
		return &goast.Ident{NamePos: pos, Name: *p.Ident}, nil
	case p.Sub != nil:
		x, err := l.lowerExpr(p.Sub)
		if err != nil {
			return nil, err
		}
		return &goast.ParenExpr{X: x}, nil
	}
	return nil, fmt.Errorf("parser: empty primary expression")
}

func binOpToken(op string) token.Token {
	switch op {
	case "+":
		return token.ADD
	case "-":
		return token.SUB
	case "*":
		return token.MUL
	case "/":
		return token.QUO
	case "%":
		return token.REM
	}
	return token.ILLEGAL
}

func unOpToken(op string) token.Token {
	switch op {
	case "-":
		return token.SUB
	case "!":
		return token.NOT
	}
	return token.ILLEGAL
}
