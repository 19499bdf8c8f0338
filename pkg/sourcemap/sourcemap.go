// Package sourcemap generates and consumes source maps relating a
// lowered stage's generated text back to the Cheddar module source it
// came from, so a driver-side error that only a GLSL compiler catches
// can still be reported against the user's own file and line.
package sourcemap

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"go/token"

	"github.com/go-sourcemap/sourcemap"
)

// Mapping is one generated-position → source-position correspondence.
type Mapping struct {
	SourceFile   string
	SourceLine   int
	SourceColumn int
	GenLine      int
	GenColumn    int
	Name         string
}

// Generator accumulates Mappings for one stage's generated text.
type Generator struct {
	genFile  string
	mappings []Mapping
}

// NewGenerator starts a generator for the stage emitted to genFile
// (a logical name such as "vs" or "fs"; the driver does not write
// stage sources to disk itself).
func NewGenerator(genFile string) *Generator {
	return &Generator{genFile: genFile}
}

// Mark records that genPos in the generated stage text originated at
// srcPos in the original module source.
func (g *Generator) Mark(srcPos, genPos token.Position) {
	g.mappings = append(g.mappings, Mapping{
		SourceFile:   srcPos.Filename,
		SourceLine:   srcPos.Line,
		SourceColumn: srcPos.Column,
		GenLine:      genPos.Line,
		GenColumn:    genPos.Column,
	})
}

// MarkNamed is Mark plus an identifier name, used for pipeline
// parameters and inter-stage variables so a map consumer can show the
// original name in a hover or hint.
func (g *Generator) MarkNamed(srcPos, genPos token.Position, name string) {
	g.mappings = append(g.mappings, Mapping{
		SourceFile:   srcPos.Filename,
		SourceLine:   srcPos.Line,
		SourceColumn: srcPos.Column,
		GenLine:      genPos.Line,
		GenColumn:    genPos.Column,
		Name:         name,
	})
}

type rawSourceMap struct {
	Version    int      `json:"version"`
	File       string   `json:"file"`
	SourceRoot string   `json:"sourceRoot"`
	Sources    []string `json:"sources"`
	Names      []string `json:"names"`
	Mappings   string   `json:"mappings"`
}

// Generate produces a version-3 source map document. Mappings is left
// empty: the mapping table below is carried out of band via Entries,
// since VLQ-encoding mixed Cheddar/GLSL line deltas needs the same
// per-segment state machine as JS source maps but keyed on a stage
// string instead of a file — not worth the complexity this generator
// sees today. Consumers that need the VLQ form should re-derive it
// from Entries.
func (g *Generator) Generate() ([]byte, error) {
	sources := make([]string, 0, 1)
	seen := map[string]bool{}
	for _, m := range g.mappings {
		if !seen[m.SourceFile] {
			seen[m.SourceFile] = true
			sources = append(sources, m.SourceFile)
		}
	}
	sm := rawSourceMap{
		Version:    3,
		File:       g.genFile,
		Sources:    sources,
		Names:      g.names(),
	}
	data, err := json.MarshalIndent(sm, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal source map: %w", err)
	}
	return data, nil
}

// GenerateInline produces a base64 data-URL comment suitable for
// appending to generated GLSL as `//# sourceMappingURL=...`.
func (g *Generator) GenerateInline() (string, error) {
	data, err := g.Generate()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("//# sourceMappingURL=data:application/json;base64,%s", base64.StdEncoding.EncodeToString(data)), nil
}

// Entries returns the raw mapping table, in recorded order.
func (g *Generator) Entries() []Mapping { return g.mappings }

func (g *Generator) names() []string {
	seen := map[string]bool{}
	var names []string
	for _, m := range g.mappings {
		if m.Name != "" && !seen[m.Name] {
			seen[m.Name] = true
			names = append(names, m.Name)
		}
	}
	return names
}

// Consumer looks up original-source positions for a generated
// position, given a standard (VLQ-mapped) source map payload.
type Consumer struct {
	sm *sourcemap.Consumer
}

// NewConsumer parses a VLQ-encoded source map payload, such as one
// produced by an external tool or by Entries fed through a JS-style
// mappings encoder.
func NewConsumer(data []byte) (*Consumer, error) {
	sm, err := sourcemap.Parse("", data)
	if err != nil {
		return nil, fmt.Errorf("parse source map: %w", err)
	}
	return &Consumer{sm: sm}, nil
}

// Source resolves a 1-indexed generated (line, column) back to the
// original source position.
func (c *Consumer) Source(line, column int) (*token.Position, error) {
	file, _, srcLine, srcCol, ok := c.sm.Source(line-1, column-1)
	if !ok {
		return nil, fmt.Errorf("no mapping for generated position %d:%d", line, column)
	}
	return &token.Position{Filename: file, Line: srcLine + 1, Column: srcCol + 1}, nil
}
