package store_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitter-badger/spectra/pkg/ast"
	"github.com/gitter-badger/spectra/pkg/store"
)

func TestMemStore_GetParsesAndCaches(t *testing.T) {
	s := store.NewMemStore(map[ast.ModuleKey]string{
		"a": "struct Foo { vec3 p; };",
	})

	mod, ok := s.Get("a")
	require.True(t, ok)
	require.Len(t, mod.Decls, 1)

	again, ok := s.Get("a")
	require.True(t, ok)
	assert.Same(t, mod, again, "a cache hit must return the same parsed module")
}

func TestMemStore_MissingKey(t *testing.T) {
	s := store.NewMemStore(map[ast.ModuleKey]string{})
	_, ok := s.Get("missing")
	require.False(t, ok)
	require.Error(t, s.Err("missing"))
}

func TestMemStore_ParseErrorRecorded(t *testing.T) {
	s := store.NewMemStore(map[ast.ModuleKey]string{
		"bad": "struct { ;;; not valid chdr",
	})
	_, ok := s.Get("bad")
	require.False(t, ok)
	require.Error(t, s.Err("bad"))
}
