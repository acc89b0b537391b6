package diag

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/dpotapov/superhtml/span"
)

// Presenter renders Diagnostics as multi-line, caret-annotated snippets.
// Grounded on chtml/err.go's SourceCodeContext, generalized from a single
// ComponentError type to the closed Diagnostic taxonomy, and extended with
// optional ANSI coloring (github.com/fatih/color) the way a compiler-style
// CLI in the Go ecosystem renders errors (see cmd/superhtml).
type Presenter struct {
	// File is shown in the "file:row:col" prefix.
	File string
	// Src is the original source the diagnostics were produced against.
	Src []byte
	// Color enables ANSI highlighting of the severity word and caret range.
	Color bool

	li *span.LineIndex
}

// NewPresenter builds a Presenter for one file's source.
func NewPresenter(file string, src []byte, useColor bool) *Presenter {
	return &Presenter{File: file, Src: src, Color: useColor, li: span.NewLineIndex(src)}
}

// Format renders one diagnostic as a human-readable, multi-line report:
//
//	file.shtml:3:5: error: invalid_nesting: p cannot contain flow content div
//	    <p><div>x</div></p>
//	        ^~~
func (p *Presenter) Format(d Diagnostic) string {
	pos := p.li.Pos(d.Main.Start)

	sev := d.Severity().String()
	if p.Color {
		c := color.New(color.FgRed, color.Bold)
		if d.Severity() == SeverityWarning {
			c = color.New(color.FgYellow, color.Bold)
		}
		sev = c.Sprint(sev)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s:%d:%d: %s: %s\n", p.File, pos.Line, pos.Column, sev, d.Message())

	line := p.sourceLine(pos.Line)
	if line != "" {
		b.WriteString("    " + line + "\n")
		b.WriteString("    " + caret(pos.Column, caretLen(d.Main)) + "\n")
	}

	if d.Related != nil {
		rp := p.li.Pos(d.Related.Start)
		fmt.Fprintf(&b, "%s:%d:%d: note: first occurrence here\n", p.File, rp.Line, rp.Column)
	}

	return b.String()
}

// WriteAll writes every diagnostic's Format output to w, in order.
func (p *Presenter) WriteAll(w io.Writer, diags []Diagnostic) error {
	for _, d := range diags {
		if _, err := io.WriteString(w, p.Format(d)); err != nil {
			return err
		}
	}
	return nil
}

func (p *Presenter) sourceLine(line int) string {
	start := 0
	cur := 1
	for i, b := range p.Src {
		if cur == line {
			start = i
			break
		}
		if b == '\n' {
			cur++
		}
	}
	if cur != line {
		return ""
	}
	end := start
	for end < len(p.Src) && p.Src[end] != '\n' {
		end++
	}
	return string(p.Src[start:end])
}

func caretLen(s span.Span) int {
	n := int(s.Len())
	if n < 1 {
		n = 1
	}
	return n
}

func caret(column, length int) string {
	var b strings.Builder
	for i := 1; i < column; i++ {
		b.WriteByte(' ')
	}
	b.WriteByte('^')
	for i := 1; i < length; i++ {
		b.WriteByte('~')
	}
	return b.String()
}
