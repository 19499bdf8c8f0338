// Package compile wires the store, resolver, classifier, and lowerer
// into the single operation both cmd/cheddarc and cmd/cheddar-lsp
// drive: ModuleKey in, StageSources or a rendered diagnostic out.
package compile

import (
	"go/token"

	"github.com/gitter-badger/spectra/pkg/ast"
	"github.com/gitter-badger/spectra/pkg/classify"
	"github.com/gitter-badger/spectra/pkg/diag"
	"github.com/gitter-badger/spectra/pkg/lower"
	"github.com/gitter-badger/spectra/pkg/resolve"
	"github.com/gitter-badger/spectra/pkg/store"
)

// Result is one compile attempt's outcome.
type Result struct {
	Sources *lower.StageSources
	Deps    []ast.ModuleKey
	Diag    *diag.Diagnostic // nil on success
}

// Module compiles root through resolution, classification, and
// lowering, rendering any failure as a single Diagnostic.
func Module(s store.Store, root ast.ModuleKey) Result {
	folded, deps, err := resolve.Gather(s, root)
	if err != nil {
		depsErr, _ := err.(*resolve.DepsError)
		if depsErr == nil {
			return Result{Diag: &diag.Diagnostic{Message: err.Error()}}
		}
		return Result{Deps: deps, Diag: diag.FromDepsError(depsErr)}
	}

	buckets := classify.Classify(folded)
	sources, cerr := lower.Lower(buckets)
	if cerr != nil {
		return Result{Deps: deps, Diag: diag.FromConversionError(ast.Fset, cerr)}
	}

	return Result{Sources: sources, Deps: deps}
}

// Position resolves a token.Pos to a filename/line/col against the
// shared ast.Fset.
func Position(pos token.Pos) token.Position {
	return ast.Fset.Position(pos)
}
