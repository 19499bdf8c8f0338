// Package golden_test runs small multi-module Cheddar projects end to
// end through resolve, classify, and lower together, the way cheddarc
// and cheddar-lsp actually call them via pkg/compile.
package golden_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitter-badger/spectra/pkg/ast"
	"github.com/gitter-badger/spectra/pkg/classify"
	"github.com/gitter-badger/spectra/pkg/compile"
	"github.com/gitter-badger/spectra/pkg/lower"
	"github.com/gitter-badger/spectra/pkg/resolve"
	"github.com/gitter-badger/spectra/pkg/store"
)

const commonSrc = `
struct VsOut { vec4 chdr_Position; vec3 normal; };
struct FsOut { vec4 c; };
`

const rootSrc = `
from common import (VsOut, FsOut)

VsOut map_vertex(vec3 p, vec3 n) {
  VsOut o;
  o.chdr_Position = vec4(p, 1.0);
  o.normal = n;
  return o;
}

FsOut map_frag_data(VsOut v) {
  FsOut o;
  o.c = vec4(v.normal, 1.0);
  return o;
}
`

func newFixtureStore() *store.MemStore {
	return store.NewMemStore(map[ast.ModuleKey]string{
		"common": commonSrc,
		"root":   rootSrc,
	})
}

func TestGolden_DiamondFreeImportCompiles(t *testing.T) {
	s := newFixtureStore()

	folded, order, err := resolve.Gather(s, "root")
	require.NoError(t, err)
	assert.Equal(t, []ast.ModuleKey{"common"}, order)

	buckets := classify.Classify(folded)
	require.Len(t, buckets.Structs, 2)

	sources, cerr := lower.Lower(buckets)
	require.Nil(t, cerr)
	assert.Empty(t, sources.Geometry)
	assert.Contains(t, sources.Vertex, "layout(location = 0) in vec3 p;")
	assert.Contains(t, sources.Fragment, "out vec4 chdr_f_c;")
}

func TestGolden_CompileModuleWrapsTheSamePipeline(t *testing.T) {
	s := newFixtureStore()

	result := compile.Module(s, "root")
	require.Nil(t, result.Diag)
	require.NotNil(t, result.Sources)
	assert.Contains(t, result.Sources.Vertex, "gl_Position = v.chdr_Position;")
}

func TestGolden_MissingImportIsALoadError(t *testing.T) {
	s := store.NewMemStore(map[ast.ModuleKey]string{"root": rootSrc})

	result := compile.Module(s, "root")
	require.NotNil(t, result.Diag)
	assert.Contains(t, result.Diag.Message, "common")
}

func TestGolden_SelfImportIsACycle(t *testing.T) {
	s := store.NewMemStore(map[ast.ModuleKey]string{
		"root": "from root import (Foo)\n" + rootSrc,
	})

	_, _, err := resolve.Gather(s, "root")
	require.Error(t, err)
	var depsErr *resolve.DepsError
	require.ErrorAs(t, err, &depsErr)
	assert.Equal(t, resolve.Cycle, depsErr.Kind)
}
