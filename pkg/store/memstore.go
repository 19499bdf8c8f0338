package store

import (
	"sync"

	"github.com/gitter-badger/spectra/pkg/ast"
	"github.com/gitter-badger/spectra/pkg/parser"
)

// MemStore is an in-memory Store over a fixed set of sources, keyed by
// ModuleKey, used by golden tests that hold a virtual module tree as
// in-memory source strings instead of real files on disk.
type MemStore struct {
	Sources map[ast.ModuleKey]string

	mu    sync.Mutex
	cache map[ast.ModuleKey]*ast.Module
	errs  map[ast.ModuleKey]error
}

// NewMemStore builds a MemStore from a key->source map.
func NewMemStore(sources map[ast.ModuleKey]string) *MemStore {
	return &MemStore{
		Sources: sources,
		cache:   make(map[ast.ModuleKey]*ast.Module),
		errs:    make(map[ast.ModuleKey]error),
	}
}

// Get implements Store.
func (s *MemStore) Get(key ast.ModuleKey) (*ast.Module, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if mod, ok := s.cache[key]; ok {
		return mod, true
	}
	if _, failed := s.errs[key]; failed {
		return nil, false
	}

	src, ok := s.Sources[key]
	if !ok {
		s.errs[key] = errModuleNotFound(key)
		return nil, false
	}
	mod, err := parser.ParseModule(key, src)
	if err != nil {
		s.errs[key] = err
		return nil, false
	}
	s.cache[key] = mod
	return mod, true
}

// Err returns the load failure recorded for key, if Get previously
// failed for it.
func (s *MemStore) Err(key ast.ModuleKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errs[key]
}

type notFoundError struct{ key ast.ModuleKey }

func (e notFoundError) Error() string { return "module not found: " + e.key.String() }

func errModuleNotFound(key ast.ModuleKey) error { return notFoundError{key} }
