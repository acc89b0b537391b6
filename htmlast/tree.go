// Package htmlast builds the HTML AST spec.md §3/§4.2 describes: a flat
// array of nodes addressed by index (0 reserved as the null sentinel),
// children linked by first-child/next-sibling indices, decorated with a
// rich diagnostic vector. It is grounded on chtml/parse.go and chtml/node.go
// from the teacher repo, generalized from "build an etree-like mutable DOM
// the component renderer walks" to "build an immutable, span-addressed AST
// with HTML5-conformant nesting diagnostics" per spec.md.
package htmlast

import (
	"strings"

	"github.com/dpotapov/superhtml/diag"
	"github.com/dpotapov/superhtml/elements"
	"github.com/dpotapov/superhtml/htmltok"
	"github.com/dpotapov/superhtml/span"
)

// Index addresses a Node within a Tree. 0 is the null sentinel (I1).
type Index uint32

// None is the null index.
const None Index = 0

// Kind enumerates the node kinds spec.md §3 lists.
type Kind int

const (
	KindRoot Kind = iota
	KindDoctype
	KindComment
	KindText
	KindElement
	KindElementVoid
	KindElementSelfClosing
)

// Attribute is the token-level attribute, carried onto the AST node
// unchanged from htmltok.Attr (entity decoding happens lazily, on demand,
// in Tree.AttrValue).
type Attribute struct {
	NameSpan  span.Span
	Name      string
	HasValue  bool
	Quote     htmltok.QuoteKind
	ValueSpan span.Span
}

// Node is one flat-array entry. See package doc and spec.md §3 for the tree
// invariants I1-I5.
type Node struct {
	Kind Kind

	Open  span.Span // doctype/comment/text: whole token; element: open tag
	Close span.Span // empty (span.Zero) for void/self-closing/missing-close

	ParentIdx    Index
	FirstChildIdx Index
	NextIdx      Index

	// Element-specific.
	Tag           string // lowercase tag name
	OpenNameSpan  span.Span
	CloseNameSpan span.Span // zero if Close is zero
	RawText       elements.RawTextMode
	Attrs         []Attribute
}

// Tree is the immutable result of parsing one source buffer. HTML AST and
// Template AST are built once per source and are immutable thereafter; the
// interpreter only ever borrows them (§3 Lifecycles).
type Tree struct {
	Src         []byte
	Lang        htmltok.Language
	Nodes       []Node
	Diagnostics []diag.Diagnostic

	li *span.LineIndex
}

// Root is always index 1 (index 0 is the sentinel).
const Root Index = 1

// Node returns the node at idx. Callers must not pass None.
func (t *Tree) Node(idx Index) *Node { return &t.Nodes[idx] }

// Errors reports whether the tree has any Error-severity diagnostic
// (Renderer's "error-gated" contract checks this — §4.4).
func (t *Tree) Errors() bool {
	for _, d := range t.Diagnostics {
		if d.Severity() == diag.SeverityError {
			return true
		}
	}
	return false
}

// LineIndex lazily builds (and caches) a span.LineIndex over the tree's
// source, for row/column lookups on demand (the "derived on demand" design
// from spec.md §3).
func (t *Tree) LineIndex() *span.LineIndex {
	if t.li == nil {
		t.li = span.NewLineIndex(t.Src)
	}
	return t.li
}

// AttrValue returns the entity-decoded value of attr (decoding happens only
// when the value is actually consumed, per spec.md §4.1/§9: "Entity
// decoding: decode lazily").
func (t *Tree) AttrValue(a Attribute) string {
	if !a.HasValue {
		return ""
	}
	return DecodeEntities(string(a.ValueSpan.Slice(t.Src)))
}

// Children returns the indices of idx's children in source order.
func (t *Tree) Children(idx Index) []Index {
	var out []Index
	for c := t.Nodes[idx].FirstChildIdx; c != None; c = t.Nodes[c].NextIdx {
		out = append(out, c)
	}
	return out
}

// Attr looks up an attribute by case-insensitive name on an element node.
func (n *Node) Attr(name string) (Attribute, bool) {
	for _, a := range n.Attrs {
		if strings.EqualFold(a.Name, name) {
			return a, true
		}
	}
	return Attribute{}, false
}
