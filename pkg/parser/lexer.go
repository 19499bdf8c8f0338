package parser

import "github.com/alecthomas/participle/v2/lexer"

// cheddarLexer tokenizes Cheddar source. Order matters: longer patterns
// must come before the ones they are a prefix of.
var cheddarLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
	{Name: "Comment", Pattern: `//[^\n]*|/\*[\s\S]*?\*/`},
	{Name: "Float", Pattern: `[0-9]+\.[0-9]*[fF]?|\.[0-9]+[fF]?`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "EqEq", Pattern: `==`},
	{Name: "NotEq", Pattern: `!=`},
	{Name: "LessEq", Pattern: `<=`},
	{Name: "GreaterEq", Pattern: `>=`},
	{Name: "Punct", Pattern: `[-+*/%(){}\[\].,;:=<>!]`},
})
