package diagnostics

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

const gutterFormat = "%*d | "

// Emitter renders diagnostics as text:
//
//	main.hlx:3:9: error[E0001]: unterminated string literal
//	  |
//	3 | let s = "abc
//	  |         ^~~~
//	  = help: add a closing quote (") to terminate the string
type Emitter struct {
	w       io.Writer
	sources map[string]registered
}

type registered struct {
	content  []byte
	firstRow int
}

// NewEmitter creates an emitter writing to w.
func NewEmitter(w io.Writer) *Emitter {
	return &Emitter{
		w:       w,
		sources: make(map[string]registered),
	}
}

// SetSource registers the content of path, whose first line is firstRow (the
// starting row the scanner was given). Diagnostics for paths without a
// registered source are rendered as the header line only.
func (e *Emitter) SetSource(path string, content []byte, firstRow int) {
	e.sources[path] = registered{content: content, firstRow: firstRow}
}

// Emit renders one diagnostic.
func (e *Emitter) Emit(d Diagnostic) {
	fmt.Fprintln(e.w, d.String())

	if line, ok := e.line(d.Path, d.Row); ok {
		width := len(fmt.Sprint(d.Row))
		gutter := strings.Repeat(" ", width) + " |"

		fmt.Fprintln(e.w, gutter)
		fmt.Fprintf(e.w, gutterFormat, width, d.Row)
		fmt.Fprintln(e.w, string(line))
		fmt.Fprintf(e.w, "%s %s%s\n", gutter, padding(line, d.Column), underline(cells(line, d.Column, d.Length)))
	}

	if d.Help != "" {
		fmt.Fprintf(e.w, "  = help: %s\n", d.Help)
	}
}

// EmitAll renders every diagnostic in the bag followed by a summary line.
func (e *Emitter) EmitAll(b *Bag) {
	for _, d := range b.Diagnostics() {
		e.Emit(d)
	}

	errs, warnings := b.ErrorCount(), b.WarningCount()
	switch {
	case errs > 0 && warnings > 0:
		fmt.Fprintf(e.w, "\nfound %d error(s) and %d warning(s)\n", errs, warnings)
	case errs > 0:
		fmt.Fprintf(e.w, "\nfound %d error(s)\n", errs)
	case warnings > 0:
		fmt.Fprintf(e.w, "\nfound %d warning(s)\n", warnings)
	}
}

// line returns row of the registered source without its line terminator.
func (e *Emitter) line(path string, row int) ([]byte, bool) {
	reg, ok := e.sources[path]
	if !ok || row < reg.firstRow {
		return nil, false
	}
	src := reg.content
	for r := reg.firstRow; r < row; r++ {
		i := bytes.IndexByte(src, '\n')
		if i < 0 {
			return nil, false
		}
		src = src[i+1:]
	}
	if i := bytes.IndexByte(src, '\n'); i >= 0 {
		src = src[:i]
	}
	return bytes.TrimSuffix(src, []byte("\r")), true
}

// padding reproduces the whitespace before column so tabs line up, and
// counts multi-byte characters as one cell.
func padding(line []byte, column int) string {
	if column > len(line) {
		column = len(line)
	}
	var sb strings.Builder
	for _, r := range string(line[:column]) {
		if r == '\t' {
			sb.WriteByte('\t')
		} else {
			sb.WriteByte(' ')
		}
	}
	return sb.String()
}

// cells converts a byte span of line to a character count.
func cells(line []byte, column, length int) int {
	start := min(column, len(line))
	end := min(column+length, len(line))
	return utf8.RuneCount(line[start:end])
}

// underline uses ^ for a single character, ^ followed by ~ for longer spans
func underline(length int) string {
	if length <= 1 {
		return "^"
	}
	return "^" + strings.Repeat("~", length-1)
}
