package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/gitter-badger/spectra/pkg/ast"
	"github.com/gitter-badger/spectra/pkg/parser"
)

// FSStore resolves a ModuleKey against files under Root, parsing on a
// cache miss and caching the result for the life of the store. A
// singleflight.Group collapses concurrent first loads of the same key
// into a single parse, satisfying the "concurrent get calls must
// observe the same parsed value" requirement without the resolver (a
// synchronous, single-threaded caller) ever needing to know.
type FSStore struct {
	Root string
	Ext  string

	cache sync.Map // ast.ModuleKey -> *ast.Module
	errs  sync.Map // ast.ModuleKey -> error
	group singleflight.Group
}

// NewFSStore builds a store rooted at root, mapping a ModuleKey a.b.c
// to root/a/b/c.<ext>. ext is given without its leading dot.
func NewFSStore(root, ext string) *FSStore {
	return &FSStore{Root: root, Ext: ext}
}

// Path returns the file path key maps to under this store's root.
func (s *FSStore) Path(key ast.ModuleKey) string {
	return filepath.Join(s.Root, key.Path()+"."+s.Ext)
}

// Get implements Store. Any failure (missing file, unreadable file,
// parse error, or parser.ErrIncomplete) collapses to ok=false; the
// specific cause is retained and retrievable via Err for presentation
// at the CLI/LSP boundary, never consulted by the core itself.
func (s *FSStore) Get(key ast.ModuleKey) (*ast.Module, bool) {
	if mod, ok := s.cache.Load(key); ok {
		return mod.(*ast.Module), true
	}
	if _, failed := s.errs.Load(key); failed {
		return nil, false
	}

	v, err, _ := s.group.Do(string(key), func() (interface{}, error) {
		if cached, ok := s.cache.Load(key); ok {
			return cached, nil
		}
		mod, err := s.load(key)
		if err != nil {
			s.errs.Store(key, err)
			return nil, err
		}
		s.cache.Store(key, mod)
		return mod, nil
	})
	if err != nil {
		return nil, false
	}
	return v.(*ast.Module), true
}

// KeyForPath is Path's inverse: given a file path under Root, it
// recovers the ModuleKey that maps to it, or ok=false if path does not
// carry this store's extension or lies outside Root.
func (s *FSStore) KeyForPath(path string) (ast.ModuleKey, bool) {
	rel, err := filepath.Rel(s.Root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", false
	}
	ext := "." + s.Ext
	if filepath.Ext(rel) != ext {
		return "", false
	}
	rel = strings.TrimSuffix(rel, ext)
	segments := strings.Split(filepath.ToSlash(rel), "/")
	return ast.NewModuleKey(segments), true
}

// Invalidate drops key's cached module and recorded error, so the next
// Get re-reads and re-parses it from disk. Used by long-lived callers:
// the LSP server on didChange/didSave, and cheddarc's watch mode when
// a module file changes.
func (s *FSStore) Invalidate(key ast.ModuleKey) {
	s.cache.Delete(key)
	s.errs.Delete(key)
}

// Err returns the load failure recorded for key, if Get previously
// failed for it.
func (s *FSStore) Err(key ast.ModuleKey) error {
	v, ok := s.errs.Load(key)
	if !ok {
		return nil
	}
	return v.(error)
}

func (s *FSStore) load(key ast.ModuleKey) (*ast.Module, error) {
	path := s.Path(key)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	mod, err := parser.ParseModule(key, string(data))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", key, err)
	}
	return mod, nil
}
