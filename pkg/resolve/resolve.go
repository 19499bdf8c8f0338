// Package resolve implements the module resolver: depth-first
// traversal of a module's import graph into a topologically ordered,
// cycle-free, import-flattened FoldedModule.
package resolve

import (
	"fmt"

	"github.com/gitter-badger/spectra/pkg/ast"
	"github.com/gitter-badger/spectra/pkg/store"
)

// DepsErrorKind distinguishes the two ways resolution can fail.
type DepsErrorKind int

const (
	// Cycle: the dependency graph has a back-edge.
	Cycle DepsErrorKind = iota
	// LoadError: the store could not produce a module for a key.
	LoadError
)

// DepsError is the resolver's error type. It carries the offending
// ModuleKey for both kinds, matching spec's
// DepsError::{Cycle(key,key), LoadError(key)}: the cycle's "from" and
// "to" are always the same back-edge target, so one Key field covers
// both entries of the pair.
type DepsError struct {
	Kind DepsErrorKind
	Key  ast.ModuleKey
}

func (e *DepsError) Error() string {
	switch e.Kind {
	case Cycle:
		return fmt.Sprintf("dependency cycle through module %q", e.Key)
	default:
		return fmt.Sprintf("failed to load module %q", e.Key)
	}
}

// Gather resolves root's transitive dependency graph and returns the
// folded module (import-free, declarations in dependency-topological
// order followed by root's own) plus the dependency list in the order
// they were completed (children before parents, i.e. a valid
// topological order).
func Gather(s store.Store, root ast.ModuleKey) (*ast.Module, []ast.ModuleKey, error) {
	r := &resolver{store: s, seenSet: map[ast.ModuleKey]bool{}, ancestors: map[ast.ModuleKey]bool{}}
	if err := r.visit(root); err != nil {
		return nil, nil, err
	}

	folded := &ast.Module{}
	for _, key := range r.seen {
		mod, _ := r.store.Get(key)
		folded.Decls = append(folded.Decls, mod.Decls...)
	}
	rootMod, _ := r.store.Get(root)
	folded.Decls = append(folded.Decls, rootMod.Decls...)

	return folded, r.seen, nil
}

type resolver struct {
	store store.Store

	ancestorStack []ast.ModuleKey
	ancestors     map[ast.ModuleKey]bool

	seen    []ast.ModuleKey
	seenSet map[ast.ModuleKey]bool
}

func (r *resolver) visit(key ast.ModuleKey) error {
	r.ancestorStack = append(r.ancestorStack, key)
	r.ancestors[key] = true

	mod, ok := r.store.Get(key)
	if !ok {
		return &DepsError{Kind: LoadError, Key: key}
	}

	for _, imp := range mod.Imports {
		child := imp.Module
		if r.seenSet[child] {
			continue
		}
		if r.ancestors[child] {
			return &DepsError{Kind: Cycle, Key: child}
		}
		if err := r.visit(child); err != nil {
			return err
		}
		if !r.seenSet[child] {
			r.seenSet[child] = true
			r.seen = append(r.seen, child)
		}
	}

	r.ancestorStack = r.ancestorStack[:len(r.ancestorStack)-1]
	delete(r.ancestors, key)
	return nil
}
