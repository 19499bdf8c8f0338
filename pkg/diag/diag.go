// Package diag renders rustc-style diagnostics with source snippets for
// the CLI and LSP boundary. The core packages (resolve, lower) never
// import this package: it wraps their bare DepsError/ConversionError
// values only at the edge, where a human or an editor is the consumer.
package diag

import (
	"fmt"
	"go/token"
	"os"
	"strings"
	"sync"
	"unicode/utf8"
)

// Diagnostic is one rendered error: a message anchored at a position,
// with surrounding source context.
type Diagnostic struct {
	Message  string
	Filename string
	Line     int
	Column   int
	Length   int

	SourceLines   []string
	HighlightLine int

	Annotation string
}

var (
	sourceCacheMu sync.RWMutex
	sourceCache   = make(map[string][]string)
)

// New builds a Diagnostic for pos within fset, pulling source context
// from disk (cached across calls in the same process).
func New(fset *token.FileSet, pos token.Pos, message string) *Diagnostic {
	if !pos.IsValid() {
		return &Diagnostic{Message: message, Filename: "unknown", Length: 1}
	}
	position := fset.Position(pos)
	lines, highlight, err := sourceContext(position.Filename, position.Line, 2)
	d := &Diagnostic{
		Message:       message,
		Filename:      position.Filename,
		Line:          position.Line,
		Column:        position.Column,
		Length:        1,
		SourceLines:   lines,
		HighlightLine: highlight,
	}
	if err != nil {
		d.Annotation = fmt.Sprintf("(source unavailable: %v)", err)
	}
	return d
}

// WithAnnotation attaches trailing caret-line text, e.g. the offending
// identifier or the expected/actual counts of a WrongNumberOfArgs.
func (d *Diagnostic) WithAnnotation(annotation string) *Diagnostic {
	d.Annotation = annotation
	return d
}

// Format renders the diagnostic as multi-line text.
func (d *Diagnostic) Format() string {
	var buf strings.Builder
	if d.Line > 0 {
		fmt.Fprintf(&buf, "error: %s\n  --> %s:%d:%d\n\n", d.Message, d.Filename, d.Line, d.Column)
	} else {
		fmt.Fprintf(&buf, "error: %s\n\n", d.Message)
	}

	if len(d.SourceLines) > 0 {
		start := d.Line - d.HighlightLine
		for i, line := range d.SourceLines {
			lineNum := start + i
			fmt.Fprintf(&buf, "  %4d | %s\n", lineNum, line)
			if i == d.HighlightLine {
				indent := utf8.RuneCountInString(line[:min(d.Column-1, len(line))])
				fmt.Fprintf(&buf, "       | %s%s", strings.Repeat(" ", indent), strings.Repeat("^", max(d.Length, 1)))
				if d.Annotation != "" {
					fmt.Fprintf(&buf, " %s", d.Annotation)
				}
				buf.WriteString("\n")
			}
		}
	}
	return buf.String()
}

func (d *Diagnostic) Error() string { return d.Format() }

func sourceContext(filename string, targetLine, context int) ([]string, int, error) {
	sourceCacheMu.RLock()
	lines, cached := sourceCache[filename]
	sourceCacheMu.RUnlock()

	if !cached {
		content, err := os.ReadFile(filename)
		if err != nil {
			return nil, 0, fmt.Errorf("cannot read file: %w", err)
		}
		normalized := strings.ReplaceAll(string(content), "\r\n", "\n")
		lines = strings.Split(normalized, "\n")
		if len(lines) > 0 && lines[len(lines)-1] == "" {
			lines = lines[:len(lines)-1]
		}
		sourceCacheMu.Lock()
		sourceCache[filename] = lines
		sourceCacheMu.Unlock()
	}

	idx := targetLine - 1
	if idx < 0 || idx >= len(lines) {
		return nil, 0, fmt.Errorf("line %d out of range (1-%d)", targetLine, len(lines))
	}
	start := max(0, idx-context)
	end := min(len(lines), idx+context+1)
	return lines[start:end], idx - start, nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
