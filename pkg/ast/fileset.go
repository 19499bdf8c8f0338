package ast

import "go/token"

// Fset is the shared position base for every module the store parses.
// Folding concatenates declarations from many files into one
// FoldedModule, so positions need one common FileSet for diagnostics
// (pkg/diag) to resolve them back to a (filename, line, column)
// regardless of which module a declaration originated from.
var Fset = token.NewFileSet()
