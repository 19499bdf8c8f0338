// Package lower implements the pipeline lowerer: given a classified,
// folded module, it rewrites the three pipeline functions into
// standalone vertex/geometry/fragment stage sources and assembles the
// shared prelude, per the vertex/geometry/fragment lowerers in this
// package.
package lower

import (
	"strings"

	"github.com/gitter-badger/spectra/pkg/ast"
	"github.com/gitter-badger/spectra/pkg/classify"
	"github.com/gitter-badger/spectra/pkg/printer"
)

// StageSources is the driver's output: three shader source strings,
// with Geometry empty when the module has no concat_map_prim.
type StageSources struct {
	Vertex   string
	Geometry string
	Fragment string
}

// Lower runs the full pipeline-lowering pass over a classified module.
func Lower(buckets classify.Buckets) (*StageSources, *ConversionError) {
	structs := make(StructTable, len(buckets.Structs))
	for _, s := range buckets.Structs {
		structs[s.Name] = s
	}

	mv, ok := buckets.FindFunction(classify.VertexFunc)
	if !ok {
		return nil, &ConversionError{Kind: NoVertexShader}
	}
	mf, ok := buckets.FindFunction(classify.FragmentFunc)
	if !ok {
		return nil, &ConversionError{Kind: NoFragmentShader}
	}
	cmp, hasGeometry := buckets.FindFunction(classify.GeometryFunc)

	vres, cerr := Vertex(mv, structs)
	if cerr != nil {
		return nil, cerr
	}

	prevStruct := vres.RetType
	prevOutputs := vres.Outputs

	var gres *GeometryResult
	if hasGeometry {
		gres, cerr = Geometry(cmp, prevStruct, prevOutputs, structs)
		if cerr != nil {
			return nil, cerr
		}
		prevStruct = gres.RetType
		prevOutputs = gres.Outputs
	}

	fres, cerr := Fragment(mf, prevStruct, prevOutputs, structs)
	if cerr != nil {
		return nil, cerr
	}

	common := commonPrelude(buckets, vres.RetType, gres, mv, cmp, mf)

	vs := common + vres.Source
	fs := common + fres.Source
	gs := ""
	if gres != nil {
		gs = gres.Source
	}

	if strings.TrimSpace(vs) == "" {
		return nil, &ConversionError{Kind: NoVertexShader}
	}
	if strings.TrimSpace(fs) == "" {
		return nil, &ConversionError{Kind: NoFragmentShader}
	}

	return &StageSources{Vertex: vs, Geometry: gs, Fragment: fs}, nil
}

// commonPrelude builds the shared uniforms/blocks/non-pipeline-
// function text, prefixed by every struct definition except the
// stage-owned ones (spec §4.7 steps 3-5).
func commonPrelude(buckets classify.Buckets, vertexRet *ast.StructSpecifier, gres *GeometryResult, mv, cmp, mf *ast.FunctionDef) string {
	stageLocal := map[string]bool{vertexRet.Name: true}
	if gres != nil {
		stageLocal[gres.RetType.Name] = true
	}
	// The fragment return struct name is recovered from mf's return
	// type; Fragment already validated it resolves to a known struct.
	if name, ok := mf.Prototype.ReturnType.TypeName(); ok {
		stageLocal[name] = true
	}

	var structsBuf strings.Builder
	for _, s := range buckets.Structs {
		if stageLocal[s.Name] {
			continue
		}
		printer.ShowStruct(&structsBuf, s)
	}

	var sb strings.Builder
	sb.WriteString(structsBuf.String())

	for _, u := range buckets.Uniforms {
		decl := &ast.InitDeclList{Type: u.Type, Head: u.Declarator}
		printer.ShowSingleDeclaration(&sb, decl)
		sb.WriteString(";\n")
	}
	for _, b := range buckets.Blocks {
		printer.ShowBlock(&sb, b)
	}
	for _, f := range buckets.Functions {
		if f == mv || f == cmp || f == mf {
			continue
		}
		printer.ShowFunctionDefinition(&sb, f)
	}

	return sb.String()
}
