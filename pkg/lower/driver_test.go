package lower_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitter-badger/spectra/pkg/ast"
	"github.com/gitter-badger/spectra/pkg/classify"
	"github.com/gitter-badger/spectra/pkg/lower"
	"github.com/gitter-badger/spectra/pkg/parser"
)

func parseAndClassify(t *testing.T, src string) classify.Buckets {
	t.Helper()
	mod, err := parser.ParseModule(ast.ModuleKey("test.module"), src)
	require.NoError(t, err)
	return classify.Classify(mod)
}

func TestDriver_MinimumPipeline(t *testing.T) {
	src := `
struct Vertex { vec4 chdr_Position; };
struct VsOut { vec4 chdr_Position; vec3 normal; };
struct FsOut { vec4 c; };

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
	buckets := parseAndClassify(t, src)
	res, cerr := lower.Lower(buckets)
	require.Nil(t, cerr)
	require.NotNil(t, res)

	assert.Empty(t, res.Geometry)
	assert.Contains(t, res.Vertex, "layout(location = 0) in vec3 p;")
	assert.Contains(t, res.Vertex, "layout(location = 1) in vec3 n;")

	// The fragment stage's main() reconstructs the vertex stage's
	// output struct by name (VsOut i = VsOut(...)); VsOut is
	// stage-local and elided from the shared prelude, so the fragment
	// source must define it itself or the emitted fs references an
	// undefined type.
	assert.Contains(t, res.Fragment, "struct VsOut {\n  vec3 normal;\n};\n", "fragment stage must re-emit the previous stage's return struct")
	assert.Contains(t, res.Fragment, "in vec3 chdr_v_normal;")
	assert.Contains(t, res.Fragment, "out vec4 chdr_f_c;")
	assert.Contains(t, res.Fragment, "VsOut i = VsOut(chdr_v_normal);")
	assert.Contains(t, res.Fragment, "FsOut o = map_frag_data(i);")
	assert.Contains(t, res.Fragment, "chdr_f_c = o.c;")
}

func TestDriver_MissingVertex(t *testing.T) {
	src := `
struct VsOut { vec4 chdr_Position; };
struct FsOut { vec4 c; };

FsOut map_frag_data(VsOut v) {
  FsOut o;
  o.c = vec4(1.0, 1.0, 1.0, 1.0);
  return o;
}
`
	buckets := parseAndClassify(t, src)
	_, cerr := lower.Lower(buckets)
	require.NotNil(t, cerr)
	assert.Equal(t, lower.NoVertexShader, cerr.Kind)
}

func TestDriver_BadFirstField(t *testing.T) {
	src := `
struct VsOut { vec3 chdr_Position; };
struct FsOut { vec4 c; };

VsOut map_vertex(vec3 p) {
  VsOut o;
  return o;
}

FsOut map_frag_data(VsOut v) {
  FsOut o;
  return o;
}
`
	buckets := parseAndClassify(t, src)
	_, cerr := lower.Lower(buckets)
	require.NotNil(t, cerr)
	assert.Equal(t, lower.WrongOutputFirstField, cerr.Kind)
}

func TestDriver_GeometryDim3(t *testing.T) {
	src := `
struct VsOut { vec4 chdr_Position; vec3 normal; };
struct GOut { vec4 chdr_Position; vec3 normal; };
struct FsOut { vec4 c; };

VsOut map_vertex(vec3 p, vec3 n) {
  VsOut o;
  o.chdr_Position = vec4(p, 1.0);
  o.normal = n;
  return o;
}

void concat_map_prim(VsOut[3] vs, layout(triangle_strip, max_vertices=3) out GOut) {
  yield_vertex(GOut(vs[0].normal));
  yield_primitive();
}

FsOut map_frag_data(GOut g) {
  FsOut o;
  o.c = vec4(g.normal, 1.0);
  return o;
}
`
	buckets := parseAndClassify(t, src)
	res, cerr := lower.Lower(buckets)
	require.Nil(t, cerr)
	require.NotNil(t, res)

	assert.Contains(t, res.Geometry, "layout(triangles) in;")
	assert.Contains(t, res.Geometry, "layout(triangle_strip, max_vertices = 3) out;")

	// GOut is geometry-stage-local and elided from the shared prelude,
	// so the fragment stage (which reconstructs it via GOut(...)) must
	// define it itself.
	assert.Contains(t, res.Fragment, "struct GOut {\n  vec4 chdr_Position;\n  vec3 normal;\n};\n", "fragment stage must re-emit the geometry stage's return struct")
	assert.Contains(t, res.Fragment, "in vec4 chdr_g_chdr_Position;")
	assert.Contains(t, res.Fragment, "in vec3 chdr_g_normal;")
	assert.Contains(t, res.Fragment, "GOut i = GOut(chdr_g_chdr_Position, chdr_g_normal);")
	assert.Contains(t, res.Fragment, "chdr_f_c = o.c;")
}
