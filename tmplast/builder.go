package tmplast

import (
	"strings"

	"github.com/dpotapov/superhtml/diag"
	"github.com/dpotapov/superhtml/htmlast"
	"github.com/dpotapov/superhtml/span"
)

const (
	attrExtend = "extend"
	attrCtx    = "ctx"
	attrSuper  = "super"
	attrIf     = ":if"
	attrLoop   = ":loop"
	attrElse   = ":else"
	attrText   = ":text"
	attrHTML   = ":html"
	attrID     = "id"
	attrTmpl   = "template"
)

// Build overlays a Template AST on tree. It never aborts: every violation
// becomes a diagnostic and Build always returns a populated Tree (spec.md
// §7 propagation policy, same as htmlast.Build).
func Build(tree *htmlast.Tree) *Tree {
	b := &builder{
		html: tree,
		tree: &Tree{HTML: tree, Interface: map[string]Index{}, Blocks: map[string]Index{}},
	}
	b.tree.Nodes = make([]Node, 1, 64)
	b.push(Node{Kind: KindRoot})

	rootHTML := htmlast.Root
	htmlNode := tree.Node(rootHTML)

	first := true
	for c := htmlNode.FirstChildIdx; c != htmlast.None; c = tree.Nodes[c].NextIdx {
		cn := tree.Node(c)
		if cn.Kind == htmlast.KindText || cn.Kind == htmlast.KindComment || cn.Kind == htmlast.KindDoctype {
			continue
		}
		isExtend := strings.EqualFold(cn.Tag, attrExtend)
		if isExtend {
			if !first {
				b.diag(diag.TagUnexpectedExtend, cn.OpenNameSpan)
			} else {
				b.handleExtend(c, cn)
			}
		} else if first && b.tree.ExtendsIdx != None {
			// unreachable: extend already consumed `first`
		}
		first = false
	}

	b.walkChildren(rootHTML, Root, 0, b.tree.ExtendsIdx != None)
	return b.tree
}

type builder struct {
	html *htmlast.Tree
	tree *Tree
}

func (b *builder) push(n Node) Index {
	b.tree.Nodes = append(b.tree.Nodes, n)
	return Index(len(b.tree.Nodes) - 1)
}

func (b *builder) diag(tag diag.Tag, main span.Span) {
	b.tree.Diagnostics = append(b.tree.Diagnostics, diag.New(diag.LayerTemplate, tag, main))
}

func (b *builder) diagRelated(tag diag.Tag, main, related span.Span) {
	b.tree.Diagnostics = append(b.tree.Diagnostics, diag.New(diag.LayerTemplate, tag, main).WithRelated(related))
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

func (b *builder) handleExtend(idx htmlast.Index, n *htmlast.Node) {
	node := Node{Kind: KindExtend, Elem: idx, Depth: 1}
	a, ok := n.Attr(attrTmpl)
	if !ok {
		b.diag(diag.TagExtendWithoutTemplateAttr, n.OpenNameSpan)
	} else if !a.HasValue {
		b.diag(diag.TagMissingTemplateValue, a.NameSpan)
	} else {
		raw := string(a.ValueSpan.Slice(b.html.Src))
		if !strings.HasPrefix(raw, "$") {
			node.ID = raw
			node.IDSpan = a.ValueSpan
		} else {
			node.ID = strings.TrimPrefix(raw, "$")
			node.IDSpan = a.ValueSpan
		}
	}
	ti := b.push(node)
	b.appendChild(Root, ti)
	b.tree.ExtendsIdx = ti
}

// walkChildren recursively discovers Template AST nodes among parentHTML's
// children, attaching included nodes to the nearest surviving Template AST
// ancestor (taParent) — plain pass-through elements are skipped without
// breaking the logical parent/child chain (spec.md §4.5's "handled as
// pass-through source during interpretation").
func (b *builder) walkChildren(parentHTML htmlast.Index, taParent Index, depth int, blockMode bool) {
	hp := b.html.Node(parentHTML)
	topLevel := parentHTML == htmlast.Root

	for c := hp.FirstChildIdx; c != htmlast.None; c = b.html.Nodes[c].NextIdx {
		cn := b.html.Node(c)
		if cn.Kind == htmlast.KindText || cn.Kind == htmlast.KindComment || cn.Kind == htmlast.KindDoctype {
			continue
		}
		if topLevel && strings.EqualFold(cn.Tag, attrExtend) {
			continue // already consumed by Build
		}
		if strings.EqualFold(cn.Tag, attrSuper) {
			b.handleSuper(c, cn, taParent)
			continue // <super> has no meaningful children of its own
		}
		b.walkElement(c, cn, taParent, depth, blockMode, topLevel)
	}
}

func (b *builder) walkElement(idx htmlast.Index, n *htmlast.Node, taParent Index, depth int, blockMode, topLevel bool) {
	hasSuperChild := false
	for c := n.FirstChildIdx; c != htmlast.None; c = b.html.Nodes[c].NextIdx {
		if strings.EqualFold(b.html.Nodes[c].Tag, attrSuper) {
			hasSuperChild = true
			break
		}
	}

	isCtx := strings.EqualFold(n.Tag, attrCtx)
	special, specialExpr, specialSpan := b.classifyBranch(n)
	elseAttr, elseOK := b.classifyElse(n)
	textHTML, thExpr, thSpan := b.classifyTextHTML(n)
	scripted := b.scriptedAttrs(n)

	kind := KindElement
	switch {
	case isCtx:
		kind = KindCtx
	case blockMode && topLevel:
		kind = KindBlock
	case hasSuperChild:
		kind = KindSuperBlock
	}

	included := kind != KindElement || special != SpecialNone || elseOK || textHTML != TextHTMLNone || len(scripted) > 0 || isCtx

	nextTAParent := taParent
	nextDepth := depth
	if included {
		node := Node{
			Kind: kind, Elem: idx, Depth: depth + 1,
			Special: special, SpecialExpr: specialExpr, SpecialSpan: specialSpan,
			Else: elseAttr, TextHTML: textHTML, TextHTMLExpr: thExpr, TextHTMLSpan: thSpan,
			Attrs: scripted,
		}
		if kind == KindCtx {
			node.Ctx = b.ctxBindings(n)
		}
		if kind == KindBlock || kind == KindSuperBlock {
			if a, ok := n.Attr(attrID); ok && a.HasValue {
				node.ID = string(a.ValueSpan.Slice(b.html.Src))
				node.IDSpan = a.ValueSpan
				if strings.HasPrefix(node.ID, "$") {
					b.diag(diag.TagBlockWithScriptedID, a.ValueSpan)
				}
			} else if kind == KindBlock {
				b.diag(diag.TagBlockMissingID, n.OpenNameSpan)
			} else {
				b.diag(diag.TagSuperParentElementMissingID, n.OpenNameSpan)
			}
		}
		b.checkBranchErrors(n, special, elseAttr)

		ti := b.push(node)
		b.appendChild(taParent, ti)

		if kind == KindBlock && node.ID != "" {
			if first, dup := b.tree.Blocks[node.ID]; dup {
				b.diagRelated(diag.TagDuplicateBlock, node.IDSpan, b.tree.Nodes[first].IDSpan)
			} else {
				b.tree.Blocks[node.ID] = ti
			}
		}
		if kind == KindSuperBlock && node.ID != "" {
			if first, dup := b.tree.Interface[node.ID]; dup {
				b.diagRelated(diag.TagTemplateInterfaceIDCollision, node.IDSpan, b.tree.Nodes[first].IDSpan)
			} else {
				b.tree.Interface[node.ID] = ti
				b.tree.InterfaceOrd = append(b.tree.InterfaceOrd, node.ID)
			}
		}
		if special == SpecialLoop {
			b.checkNoIDUnderLoop(n)
		}

		nextTAParent = ti
		nextDepth = depth + 1
	}

	// block mode only applies one level deep (top-level children of root);
	// descendants of a block are ordinary (possibly still-nested) elements.
	childBlockMode := blockMode && !topLevel
	b.walkChildren(idx, nextTAParent, nextDepth, childBlockMode)
}

// checkNoIDUnderLoop reports id on the looped element itself and on every
// element in its subtree: repeating id under :loop duplicates it once per
// iteration, at any depth.
func (b *builder) checkNoIDUnderLoop(n *htmlast.Node) {
	if a, ok := n.Attr(attrID); ok {
		b.diag(diag.TagIDUnderLoop, a.NameSpan)
	}
	for c := n.FirstChildIdx; c != htmlast.None; c = b.html.Nodes[c].NextIdx {
		b.checkNoIDUnderLoop(b.html.Node(c))
	}
}

func (b *builder) handleSuper(idx htmlast.Index, n *htmlast.Node, taParent Index) {
	if taParent == Root {
		b.diag(diag.TagTopLevelSuper, n.OpenNameSpan)
		return
	}
	if len(n.Attrs) > 0 {
		b.diag(diag.TagSuperWantsNoAttributes, n.OpenNameSpan)
	}

	parent := &b.tree.Nodes[taParent]
	if parent.Kind != KindSuperBlock {
		b.diag(diag.TagSuperParentElementMissingID, n.OpenNameSpan)
	}

	for anc := parent.ParentIdx; anc != None; anc = b.tree.Nodes[anc].ParentIdx {
		if b.tree.Nodes[anc].Special != SpecialNone {
			b.diag(diag.TagSuperUnderBranching, n.OpenNameSpan)
			break
		}
	}

	node := Node{Kind: KindSuper, Elem: idx, Depth: parent.Depth + 1}
	ti := b.push(node)
	b.appendChild(taParent, ti)

	seenSuper := false
	for c := parent.FirstChildIdx; c != None; c = b.tree.Nodes[c].NextIdx {
		if c == ti {
			continue
		}
		if b.tree.Nodes[c].Kind == KindSuper {
			seenSuper = true
		}
	}
	if seenSuper {
		b.diag(diag.TagTwoSupersOneID, n.OpenNameSpan)
	}
}

// classifyBranch finds `:if`/`:loop`, returning which (if either) is
// present and its scripted body.
func (b *builder) classifyBranch(n *htmlast.Node) (SpecialKind, string, span.Span) {
	ifA, hasIf := n.Attr(attrIf)
	loopA, hasLoop := n.Attr(attrLoop)
	if hasIf {
		return SpecialIf, b.exprBody(n, ifA)
	}
	if hasLoop {
		return SpecialLoop, b.exprBody(n, loopA)
	}
	return SpecialNone, "", span.Zero
}

func (b *builder) exprBody(n *htmlast.Node, a htmlast.Attribute) (string, span.Span) {
	if !a.HasValue {
		b.diag(diag.TagMissingAttributeValueTmpl, a.NameSpan)
		return "", span.Zero
	}
	raw := string(a.ValueSpan.Slice(b.html.Src))
	if !strings.HasPrefix(raw, "$") {
		b.diag(diag.TagUnscriptedAttr, a.ValueSpan)
		return raw, a.ValueSpan
	}
	return strings.TrimPrefix(raw, "$"), a.ValueSpan
}

func (b *builder) classifyElse(n *htmlast.Node) (bool, bool) {
	a, ok := n.Attr(attrElse)
	if !ok {
		return false, false
	}
	if len(n.Attrs) > 0 && n.Attrs[0].Name != attrElse {
		b.diag(diag.TagElseMustBeFirstAttr, a.NameSpan)
	}
	if a.HasValue {
		b.diag(diag.TagElseWithValue, a.ValueSpan)
	}
	return true, true
}

func (b *builder) classifyTextHTML(n *htmlast.Node) (TextHTMLKind, string, span.Span) {
	textA, hasText := n.Attr(attrText)
	htmlA, hasHTML := n.Attr(attrHTML)
	if hasText && hasHTML {
		b.diag(diag.TagTextAndHTMLMutuallyExclusive, textA.NameSpan)
	}
	if (hasText || hasHTML) && n.FirstChildIdx != htmlast.None {
		sp := textA.NameSpan
		if hasHTML {
			sp = htmlA.NameSpan
		}
		b.diag(diag.TagTextAndHTMLRequireEmptyElement, sp)
	}
	if hasText {
		body, sp := b.exprBody(n, textA)
		return TextHTMLText, body, sp
	}
	if hasHTML {
		body, sp := b.exprBody(n, htmlA)
		return TextHTMLHTML, body, sp
	}
	return TextHTMLNone, "", span.Zero
}

func (b *builder) checkBranchErrors(n *htmlast.Node, special SpecialKind, elseAttr bool) {
	_, hasIf := n.Attr(attrIf)
	_, hasLoop := n.Attr(attrLoop)
	if hasIf && hasLoop {
		b.diag(diag.TagOneBranchingAttributePerElement, n.OpenNameSpan)
	}
	_ = special
	_ = elseAttr
}

// scriptedAttrs collects the attributes other than special attributes and
// `id` whose value begins with `$`. On a <ctx> element this includes its
// bindings.
func (b *builder) scriptedAttrs(n *htmlast.Node) []ScriptedAttr {
	var out []ScriptedAttr
	for _, a := range n.Attrs {
		if isSpecialAttrName(a.Name) || a.Name == attrID {
			continue
		}
		if !a.HasValue {
			continue
		}
		raw := string(a.ValueSpan.Slice(b.html.Src))
		if !strings.HasPrefix(raw, "$") {
			continue
		}
		out = append(out, ScriptedAttr{
			Name: a.Name, NameSpan: a.NameSpan,
			Expr: strings.TrimPrefix(raw, "$"), ExprSpan: a.ValueSpan,
		})
	}
	return out
}

func (b *builder) ctxBindings(n *htmlast.Node) []CtxBinding {
	var out []CtxBinding
	for _, a := range n.Attrs {
		if isSpecialAttrName(a.Name) {
			continue
		}
		raw := ""
		if a.HasValue {
			raw = string(a.ValueSpan.Slice(b.html.Src))
		}
		if !strings.HasPrefix(raw, "$") {
			b.diag(diag.TagCtxAttrsMustBeScripted, a.NameSpan)
			continue
		}
		out = append(out, CtxBinding{
			// preserve original case: <ctx> binding names are an identifier
			// namespace, not an HTML attribute-value namespace, so the raw
			// source slice is used rather than the tokenizer's lowercased
			// Attribute.Name.
			Name: string(a.NameSpan.Slice(b.html.Src)), NameSpan: a.NameSpan,
			Expr: strings.TrimPrefix(raw, "$"), ExprSpan: a.ValueSpan,
		})
	}
	return out
}

func isSpecialAttrName(name string) bool {
	switch name {
	case attrIf, attrLoop, attrElse, attrText, attrHTML:
		return true
	default:
		return false
	}
}
