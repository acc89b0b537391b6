// Package tmplast overlays the Template AST on top of an htmlast.Tree
// (spec.md §4.5): discovery of extend/super/ctx/block and the special
// attributes `:if`/`:loop`/`:else`/`:text`/`:html`, plus validation of the
// template contract. It is grounded on chtml/parse.go's
// parseCElementAttrs/parseSpecialAttrs/finalizeCElement state machine (the
// teacher's `c:if`/`c:for`/`c:NAME` import model), generalized to
// SuperHTML's extend/super/ctx/block vocabulary.
package tmplast

import (
	"github.com/dpotapov/superhtml/diag"
	"github.com/dpotapov/superhtml/htmlast"
	"github.com/dpotapov/superhtml/span"
)

// Index addresses a Node within a Tree. 0 is the null sentinel, matching
// htmlast's convention.
type Index uint32

// None is the null index.
const None Index = 0

// Root is always index 1.
const Root Index = 1

// Kind enumerates the Template AST node kinds spec.md §3 lists.
type Kind int

const (
	KindRoot Kind = iota
	KindExtend
	KindSuper
	KindCtx
	KindBlock
	KindSuperBlock
	KindElement
)

// SpecialKind distinguishes which of `:if`/`:loop` an element carries (they
// are mutually exclusive, spec.md §4.5).
type SpecialKind int

const (
	SpecialNone SpecialKind = iota
	SpecialIf
	SpecialLoop
)

// TextHTMLKind distinguishes `:text` from `:html` (mutually exclusive).
type TextHTMLKind int

const (
	TextHTMLNone TextHTMLKind = iota
	TextHTMLText
	TextHTMLHTML
)

// ScriptedAttr is a plain (non-special) attribute whose value begins with
// `$`, recorded for the interpreter's attribute-output step.
type ScriptedAttr struct {
	Name      string
	Expr      string // source text after the leading '$'
	ExprSpan  span.Span
	NameSpan  span.Span
}

// CtxBinding is one `<ctx>` attribute: name -> scripted expression.
type CtxBinding struct {
	Name     string
	NameSpan span.Span
	Expr     string
	ExprSpan span.Span
}

// Node is one flat-array Template AST entry.
type Node struct {
	Kind  Kind
	Elem  htmlast.Index // index into the underlying HTML AST
	Depth int           // logical depth in the Template AST, not byte depth

	ParentIdx     Index
	FirstChildIdx Index
	NextIdx       Index

	// ID is the block/super_block id (KindBlock, KindSuperBlock), or the
	// `extend` element's `template` expression body (KindExtend, with
	// IDSpan pointing at the scripted value).
	ID     string
	IDSpan span.Span

	Special      SpecialKind
	SpecialExpr  string // source text after '$', valid when Special != SpecialNone
	SpecialSpan  span.Span
	Else         bool

	TextHTML     TextHTMLKind
	TextHTMLExpr string
	TextHTMLSpan span.Span

	Ctx   []CtxBinding   // KindCtx only
	Attrs []ScriptedAttr // KindElement/KindBlock/KindSuperBlock: scripted plain attrs
}

// Tree is the immutable result of overlaying the Template AST on one
// htmlast.Tree.
type Tree struct {
	HTML *htmlast.Tree
	Nodes []Node
	Diagnostics []diag.Diagnostic

	ExtendsIdx Index // index of the <extend> node, or None

	// Interface is the insertion-ordered id -> super_block node index
	// mapping, populated only when this template is extended by others.
	Interface    map[string]Index
	InterfaceOrd []string

	// Blocks is the id -> top-level block node index mapping, populated
	// only when this template itself extends another (ExtendsIdx != None).
	Blocks map[string]Index
}

// Node returns the node at idx. Callers must not pass None.
func (t *Tree) Node(idx Index) *Node { return &t.Nodes[idx] }

// Children returns idx's children in source order.
func (t *Tree) Children(idx Index) []Index {
	var out []Index
	for c := t.Nodes[idx].FirstChildIdx; c != None; c = t.Nodes[c].NextIdx {
		out = append(out, c)
	}
	return out
}

// Errors reports whether any Error-severity diagnostic was recorded.
func (t *Tree) Errors() bool {
	for _, d := range t.Diagnostics {
		if d.Severity() == diag.SeverityError {
			return true
		}
	}
	return false
}
