package resolve_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitter-badger/spectra/pkg/ast"
	"github.com/gitter-badger/spectra/pkg/resolve"
)

type memStore map[ast.ModuleKey]*ast.Module

func (m memStore) Get(key ast.ModuleKey) (*ast.Module, bool) {
	mod, ok := m[key]
	return mod, ok
}

func marker(name string) ast.ExternalDecl {
	return &ast.InitDeclList{Head: ast.Declarator{Name: name}}
}

func TestGatherTopologicalOrder(t *testing.T) {
	s := memStore{
		"leaf":   {Decls: []ast.ExternalDecl{marker("leaf")}},
		"middle": {Imports: []ast.Import{{Module: "leaf"}}, Decls: []ast.ExternalDecl{marker("middle")}},
		"root":   {Imports: []ast.Import{{Module: "middle"}}, Decls: []ast.ExternalDecl{marker("root")}},
	}

	folded, deps, err := resolve.Gather(s, "root")
	require.NoError(t, err)
	assert.Equal(t, []ast.ModuleKey{"leaf", "middle"}, deps)
	require.Len(t, folded.Decls, 3)
	assert.Equal(t, "leaf", folded.Decls[0].(*ast.InitDeclList).Head.Name)
	assert.Equal(t, "middle", folded.Decls[1].(*ast.InitDeclList).Head.Name)
	assert.Equal(t, "root", folded.Decls[2].(*ast.InitDeclList).Head.Name)
}

func TestGatherDiamondDeduplicates(t *testing.T) {
	s := memStore{
		"common": {Decls: []ast.ExternalDecl{marker("common")}},
		"left":   {Imports: []ast.Import{{Module: "common"}}, Decls: []ast.ExternalDecl{marker("left")}},
		"right":  {Imports: []ast.Import{{Module: "common"}}, Decls: []ast.ExternalDecl{marker("right")}},
		"root":   {Imports: []ast.Import{{Module: "left"}, {Module: "right"}}, Decls: []ast.ExternalDecl{marker("root")}},
	}

	folded, deps, err := resolve.Gather(s, "root")
	require.NoError(t, err)
	assert.Len(t, deps, 3, "common must appear once despite two import paths")
	assert.Len(t, folded.Decls, 4)
}

func TestGatherCycleDetected(t *testing.T) {
	s := memStore{
		"a": {Imports: []ast.Import{{Module: "b"}}},
		"b": {Imports: []ast.Import{{Module: "a"}}},
	}

	_, _, err := resolve.Gather(s, "a")
	require.Error(t, err)
	depsErr, ok := err.(*resolve.DepsError)
	require.True(t, ok)
	assert.Equal(t, resolve.Cycle, depsErr.Kind)
}

func TestGatherLoadError(t *testing.T) {
	s := memStore{}
	_, _, err := resolve.Gather(s, "missing")
	require.Error(t, err)
	depsErr, ok := err.(*resolve.DepsError)
	require.True(t, ok)
	assert.Equal(t, resolve.LoadError, depsErr.Kind)
	assert.Equal(t, ast.ModuleKey("missing"), depsErr.Key)
}

func TestGatherSelfCycle(t *testing.T) {
	s := memStore{
		"a": {Imports: []ast.Import{{Module: "a"}}},
	}
	_, _, err := resolve.Gather(s, "a")
	require.Error(t, err)
	depsErr := err.(*resolve.DepsError)
	assert.Equal(t, resolve.Cycle, depsErr.Kind)
	assert.Equal(t, ast.ModuleKey("a"), depsErr.Key)
}
