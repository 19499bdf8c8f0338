// Package parser turns Cheddar source text into a pkg/ast.Module using a
// participle-generated grammar (see grammar.go) and a lowering pass
// (see lower.go) that rebuilds go/ast expression and statement nodes
// from the parsed tree.
package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"

	"github.com/gitter-badger/spectra/pkg/ast"
)

// ErrIncomplete is returned when the lexer hits end-of-input while still
// inside an open block or parenthesis. pkg/store maps it to the
// "incomplete input" load error.
var ErrIncomplete = errors.New("parser: incomplete input")

var build = participle.MustBuild[file](
	participle.Lexer(cheddarLexer),
	participle.Elide("Whitespace", "Comment"),
	participle.UseLookahead(2),
)

// ParseModule parses the contents of one Cheddar source file into a
// pkg/ast.Module. name is the module key the source was loaded for; it
// is registered with ast.Fset so later diagnostics can resolve
// positions back to (filename, line, column).
func ParseModule(name ast.ModuleKey, src string) (*ast.Module, error) {
	tokFile := ast.Fset.AddFile(name.String(), -1, len(src))
	tokFile.SetLinesForContent([]byte(src))

	var f file
	err := build.ParseString(name.String(), src, &f)
	if err != nil {
		if isIncomplete(err) {
			return nil, ErrIncomplete
		}
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}

	return lowerFile(&f, tokFile)
}

// isIncomplete recognises the class of participle parse error produced
// when the lexer runs out of input mid-construct (an unterminated
// block, call, or qualifier list). participle reports this as an
// "unexpected token EOF" parse error rather than a distinct error type,
// so we match on that.
func isIncomplete(err error) bool {
	var perr participle.Error
	if errors.As(err, &perr) {
		return strings.Contains(perr.Error(), "EOF")
	}
	return strings.Contains(err.Error(), "EOF")
}
