package diag

import (
	"fmt"
	"go/token"

	"github.com/gitter-badger/spectra/pkg/lower"
	"github.com/gitter-badger/spectra/pkg/resolve"
)

// FromDepsError renders a resolver failure. DepsError carries no
// source position — it names a ModuleKey, not a point inside a file —
// so the diagnostic has no snippet.
func FromDepsError(err *resolve.DepsError) *Diagnostic {
	return &Diagnostic{Message: err.Error()}
}

// FromConversionError renders a lowerer/driver failure, attaching a
// source snippet when the error carries a valid position.
func FromConversionError(fset *token.FileSet, err *lower.ConversionError) *Diagnostic {
	if !err.Pos.IsValid() {
		return &Diagnostic{Message: err.Error()}
	}
	d := New(fset, err.Pos, err.Error())
	if err.Kind == lower.WrongNumberOfArgs {
		d = d.WithAnnotation(fmt.Sprintf("expected %d, got %d", err.Expected, err.Actual))
	}
	return d
}
