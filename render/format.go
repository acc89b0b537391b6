// Package render pretty-prints an htmlast.Tree back to canonical text
// (spec.md §4.4), and builds the "extended-template interface as an HTML
// stub" the CLI's `interface FILE` command prints (SPEC_FULL.md §4.4).
// The walk is grounded on chtml/render.go's render/renderElement/
// renderAttrs functions, generalized from "render a live component tree to
// html.Node" to "pretty-print a parsed, span-addressed AST back to text".
package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dpotapov/superhtml/elements"
	"github.com/dpotapov/superhtml/htmlast"
	"github.com/dpotapov/superhtml/htmltok"
)

// ErrHasErrors is returned when Format is asked to render a tree that
// carries Error-severity diagnostics; warnings alone do not block it.
var ErrHasErrors = errors.New("render: refusing to format a tree with diagnostics")

const indentUnit = "  "

// Format pretty-prints tree back to canonical text. It fails with
// ErrHasErrors if tree.Errors() is true.
func Format(tree *htmlast.Tree) (string, error) {
	if tree.Errors() {
		return "", ErrHasErrors
	}
	var b strings.Builder
	f := &formatter{tree: tree, out: &b}
	f.writeChildren(htmlast.Root, 0, true)
	return b.String(), nil
}

type formatter struct {
	tree *htmlast.Tree
	out  *strings.Builder
}

func (f *formatter) writeChildren(idx htmlast.Index, depth int, topLevel bool) {
	for _, c := range f.tree.Children(idx) {
		f.writeNode(c, depth, topLevel)
	}
}

func (f *formatter) writeNode(idx htmlast.Index, depth int, topLevel bool) {
	n := f.tree.Node(idx)
	switch n.Kind {
	case htmlast.KindDoctype:
		f.newlineIndent(depth)
		if n.Tag == elements.StandardDoctype {
			f.out.WriteString(elements.CanonicalDoctype)
		} else {
			f.out.Write(n.Open.Slice(f.tree.Src))
		}

	case htmlast.KindComment:
		f.newlineIndent(depth)
		f.out.Write(n.Open.Slice(f.tree.Src))

	case htmlast.KindText:
		text := string(n.Open.Slice(f.tree.Src))
		if strings.TrimSpace(text) == "" {
			return // whitespace-only text runs are reflowed, not preserved verbatim
		}
		if isInline(parentTag(f.tree, idx)) {
			f.out.WriteString(text)
		} else {
			f.newlineIndent(depth)
			f.out.WriteString(strings.TrimSpace(text))
		}

	case htmlast.KindElementVoid, htmlast.KindElementSelfClosing, htmlast.KindElement:
		f.writeElement(idx, n, depth)
	}
}

func parentTag(tree *htmlast.Tree, idx htmlast.Index) string {
	p := tree.Node(idx).ParentIdx
	if p == htmlast.None {
		return ""
	}
	return tree.Node(p).Tag
}

func isInline(tag string) bool {
	info, ok := elements.Lookup(tag)
	if !ok {
		return false
	}
	return info.Category == elements.ModelPhrasing
}

func (f *formatter) newlineIndent(depth int) {
	if f.out.Len() > 0 {
		f.out.WriteByte('\n')
	}
	f.out.WriteString(strings.Repeat(indentUnit, depth))
}

func (f *formatter) writeElement(idx htmlast.Index, n *htmlast.Node, depth int) {
	inline := isInline(n.Tag)
	if !inline {
		f.newlineIndent(depth)
	}

	f.out.WriteByte('<')
	f.out.WriteString(n.Tag)
	f.writeAttrs(n)

	switch n.Kind {
	case htmlast.KindElementVoid:
		f.out.WriteString(">")
		return
	case htmlast.KindElementSelfClosing:
		f.out.WriteString(" />")
		return
	}
	f.out.WriteByte('>')

	switch elements.RawTextModeOf(n.Tag) {
	case elements.RawTextRaw, elements.RawTextRCData:
		f.out.Write(rawBody(f.tree, idx))
	default:
		childDepth := depth
		if !inline {
			childDepth++
		}
		f.writeChildren(idx, childDepth, false)
		if len(f.tree.Children(idx)) > 0 && !inline {
			f.newlineIndent(depth)
		}
	}

	f.out.WriteString("</")
	f.out.WriteString(n.Tag)
	f.out.WriteByte('>')
}

func rawBody(tree *htmlast.Tree, idx htmlast.Index) []byte {
	n := tree.Node(idx)
	if n.FirstChildIdx == htmlast.None {
		return nil
	}
	return tree.Node(n.FirstChildIdx).Open.Slice(tree.Src)
}

func (f *formatter) writeAttrs(n *htmlast.Node) {
	for _, a := range n.Attrs {
		f.out.WriteByte(' ')
		f.out.WriteString(a.Name)
		if !a.HasValue {
			continue
		}
		if info, ok := elements.AllowedAttr(n.Tag, a.Name); ok && info.Value == elements.ValueBool {
			continue // boolean attributes lose their ="" (spec.md §4.4)
		}
		val := f.tree.AttrValue(a)
		f.out.WriteString(`="`)
		f.out.WriteString(strings.ReplaceAll(val, `"`, "&quot;"))
		f.out.WriteByte('"')
	}
}

// QuoteStyleOf reports the quote style a given attribute used in source,
// exposed for callers (e.g. the LSP formatter diff) that need to know
// whether Format actually changed anything beyond re-quoting.
func QuoteStyleOf(q htmltok.QuoteKind) string {
	switch q {
	case htmltok.QuoteSingle:
		return "single"
	case htmltok.QuoteDouble:
		return "double"
	default:
		return "none"
	}
}

// fmtDebug quotes s for a readable diff message. Nothing in this module
// calls it.
func fmtDebug(s string) string { return fmt.Sprintf("%q", s) }
