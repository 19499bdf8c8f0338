// Package store provides the Store interface the core resolver
// consumes, plus a file-system-backed implementation.
package store

import "github.com/gitter-badger/spectra/pkg/ast"

// Store looks up a parsed Module by its key; a cache miss loads and
// parses the module. A missing file and a parse failure are
// indistinguishable to the core: Get reports ok=false and the resolver
// attributes a LoadError to key. The
// core never mutates the returned Module and treats it as shared,
// read-only, live for the duration of the compile.
type Store interface {
	Get(key ast.ModuleKey) (*ast.Module, bool)
}
