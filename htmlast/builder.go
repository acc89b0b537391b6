package htmlast

import (
	"fmt"
	"strings"

	"github.com/dpotapov/superhtml/diag"
	"github.com/dpotapov/superhtml/elements"
	"github.com/dpotapov/superhtml/htmltok"
	"github.com/dpotapov/superhtml/span"
)

// singletonTags may appear at most once among a given parent's children;
// a second occurrence is a duplicate_child diagnostic (spec.md §4.2).
var singletonTags = map[string]bool{"html": true, "head": true, "body": true}

// Mode configures element-name validation (spec.md §4.3).
type Mode = elements.ValidationMode

// Options configures the builder.
type Options struct {
	Mode elements.ValidationMode
}

// Build tokenizes src and constructs the HTML AST. It never aborts: every
// malformed construct becomes a diagnostic, and Build always returns a
// populated Tree (spec.md §7 propagation policy).
func Build(src []byte, lang htmltok.Language, opts Options) *Tree {
	b := &builder{
		tree: &Tree{Src: src, Lang: lang},
		opts: opts,
	}
	b.tree.Nodes = make([]Node, 1, 64) // index 0: sentinel
	b.push(Node{Kind: KindRoot})       // index 1: root
	b.stack = []Index{Root}

	tz := htmltok.New(src, lang)
	for {
		tok := tz.Next()
		if tok.Kind == htmltok.KindEOF {
			break
		}
		b.handle(tok)
	}
	b.closeRemaining()
	return b.tree
}

type builder struct {
	tree  *Tree
	opts  Options
	stack []Index // open-elements stack, root always at position 0
}

func (b *builder) push(n Node) Index {
	b.tree.Nodes = append(b.tree.Nodes, n)
	return Index(len(b.tree.Nodes) - 1)
}

func (b *builder) top() Index { return b.stack[len(b.stack)-1] }

func (b *builder) diag(d diag.Diagnostic) {
	b.tree.Diagnostics = append(b.tree.Diagnostics, d)
}

func (b *builder) appendChild(parent, child Index) {
	p := &b.tree.Nodes[parent]
	b.tree.Nodes[child].ParentIdx = parent
	if p.FirstChildIdx == None {
		p.FirstChildIdx = child
		return
	}
	last := p.FirstChildIdx
	for b.tree.Nodes[last].NextIdx != None {
		last = b.tree.Nodes[last].NextIdx
	}
	b.tree.Nodes[last].NextIdx = child
}

func (b *builder) handle(tok htmltok.Token) {
	switch tok.Kind {
	case htmltok.KindDoctype:
		b.handleDoctype(tok)
	case htmltok.KindComment:
		idx := b.push(Node{Kind: KindComment, Open: tok.Span})
		b.appendChild(b.top(), idx)
	case htmltok.KindText:
		idx := b.push(Node{Kind: KindText, Open: tok.Span})
		b.appendChild(b.top(), idx)
	case htmltok.KindStartTag, htmltok.KindSelfClosingTag:
		b.handleStartTag(tok)
	case htmltok.KindEndTag:
		b.handleEndTag(tok)
	case htmltok.KindParseError:
		b.diag(diag.New(diag.LayerToken, tok.ErrorTag, tok.Span))
	}
}

func (b *builder) handleDoctype(tok htmltok.Token) {
	raw := htmltok.RawDoctype(b.tree.Src, tok.Span)
	name, standard := elements.NormalizeDoctype(raw)
	if !standard {
		b.diag(diag.New(diag.LayerHTML, diag.TagUnsupportedDoctype, tok.Span))
	}
	idx := b.push(Node{Kind: KindDoctype, Open: tok.Span, Tag: name})
	b.appendChild(b.top(), idx)
}

func (b *builder) handleStartTag(tok htmltok.Token) {
	parent := b.top()
	parentNode := &b.tree.Nodes[parent]

	b.checkTagName(tok)
	attrs := b.convertAttrs(tok)
	b.checkNesting(tok, parentNode)

	void := elements.IsVoid(tok.Name)
	selfClosingXML := tok.SelfClosing && b.tree.Lang == htmltok.XML

	kind := KindElement
	closeSpan := span.Zero
	if void {
		kind = KindElementVoid
	} else if selfClosingXML {
		kind = KindElementSelfClosing
	}

	n := Node{
		Kind:         kind,
		Open:         tok.Span,
		Close:        closeSpan,
		Tag:          tok.Name,
		OpenNameSpan: tok.NameSpan,
		RawText:      elements.RawTextModeOf(tok.Name),
		Attrs:        attrs,
	}
	idx := b.push(n)
	b.appendChildChecked(parent, idx)

	if void || selfClosingXML {
		return
	}
	b.stack = append(b.stack, idx)
}

func (b *builder) appendChildChecked(parent, child Index) {
	tag := b.tree.Nodes[child].Tag
	if singletonTags[tag] {
		for c := b.tree.Nodes[parent].FirstChildIdx; c != None; c = b.tree.Nodes[c].NextIdx {
			if b.tree.Nodes[c].Tag == tag {
				b.diag(diag.New(diag.LayerHTML, diag.TagDuplicateChild, b.tree.Nodes[child].OpenNameSpan).
					WithRelated(b.tree.Nodes[c].OpenNameSpan))
				break
			}
		}
	}
	b.appendChild(parent, child)
}

func (b *builder) checkTagName(tok htmltok.Token) {
	if !elements.ValidTagName(tok.Name, b.opts.Mode) {
		b.diag(diag.New(diag.LayerHTML, diag.TagInvalidHTMLTagName, tok.NameSpan))
	}
}

func (b *builder) checkNesting(tok htmltok.Token, parent *Node) {
	if parent.Kind == KindRoot || parent.Tag == "" {
		return
	}
	parentInfo, ok := elements.Lookup(parent.Tag)
	if !ok {
		return // unknown parent: nothing to validate against
	}
	childInfo, ok := elements.Lookup(tok.Name)
	childCategory := elements.ModelFlow
	if ok {
		childCategory = childInfo.Category
	}
	if !elements.CanContain(parentInfo.PermitsModel, childCategory) {
		reason := fmt.Sprintf("%s cannot contain %s %s", parent.Tag, childCategory.String(), tok.Name)
		b.diag(diag.New(diag.LayerHTML, diag.TagInvalidNesting, tok.NameSpan).
			WithRelated(parent.OpenNameSpan).
			WithReason(reason))
	}
}

func (b *builder) convertAttrs(tok htmltok.Token) []Attribute {
	attrs := tok.Attrs()
	out := make([]Attribute, 0, len(attrs))
	seen := map[string]span.Span{}
	for _, a := range attrs {
		if first, dup := seen[a.Name]; dup {
			b.diag(diag.New(diag.LayerHTML, diag.TagDuplicateAttributeName, a.NameSpan).WithRelated(first))
		} else {
			seen[a.Name] = a.NameSpan
		}
		if a.Name == "class" && a.HasValue {
			b.checkDuplicateClass(a)
		}
		out = append(out, Attribute{
			NameSpan:  a.NameSpan,
			Name:      a.Name,
			HasValue:  a.HasValue,
			Quote:     a.Quote,
			ValueSpan: a.ValueSpan,
		})
	}
	return out
}

func (b *builder) checkDuplicateClass(a htmltok.Attr) {
	raw := string(a.ValueSpan.Slice(b.tree.Src))
	seen := map[string]uint32{} // token -> start offset (relative)
	pos := uint32(0)
	for _, tok := range strings.Fields(raw) {
		idx := strings.Index(raw[pos:], tok)
		start := a.ValueSpan.Start + pos + uint32(idx)
		if firstStart, dup := seen[tok]; dup {
			b.diag(diag.New(diag.LayerHTML, diag.TagDuplicateClass, span.New(start, start+uint32(len(tok)))).
				WithRelated(span.New(firstStart, firstStart+uint32(len(tok)))))
		} else {
			seen[tok] = start
		}
		pos = start - a.ValueSpan.Start + uint32(len(tok))
	}
}

func (b *builder) handleEndTag(tok htmltok.Token) {
	if len(tok.Attrs()) > 0 {
		b.diag(diag.New(diag.LayerToken, diag.TagEndTagWithAttributes, tok.Span))
	}

	matchDepth := -1
	for i := len(b.stack) - 1; i >= 1; i-- { // never match the root (position 0)
		if b.tree.Nodes[b.stack[i]].Tag == tok.Name {
			matchDepth = i
			break
		}
	}
	if matchDepth == -1 {
		b.diag(diag.New(diag.LayerHTML, diag.TagErroneousEndTag, tok.Span))
		return
	}

	// Pop everything above the match, each missing its own close tag.
	for i := len(b.stack) - 1; i > matchDepth; i-- {
		idx := b.stack[i]
		b.diag(diag.New(diag.LayerHTML, diag.TagMissingEndTag, b.tree.Nodes[idx].OpenNameSpan))
	}

	idx := b.stack[matchDepth]
	b.tree.Nodes[idx].Close = tok.Span
	b.tree.Nodes[idx].CloseNameSpan = tok.NameSpan
	b.stack = b.stack[:matchDepth]
}

func (b *builder) closeRemaining() {
	for i := len(b.stack) - 1; i >= 1; i-- {
		idx := b.stack[i]
		b.diag(diag.New(diag.LayerHTML, diag.TagMissingEndTag, b.tree.Nodes[idx].OpenNameSpan))
	}
	b.stack = b.stack[:1]
}
