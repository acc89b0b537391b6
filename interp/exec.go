package interp

import (
	"strings"

	"github.com/dpotapov/superhtml/diag"
	"github.com/dpotapov/superhtml/htmlast"
	"github.com/dpotapov/superhtml/htmltok"
	"github.com/dpotapov/superhtml/span"
	"github.com/dpotapov/superhtml/tmplast"
	"github.com/dpotapov/superhtml/value"
)

// walkSiblings flushes and renders every Template AST child of parentIdx, in
// source order, under ctx. This is the "forward cursor over the Template
// AST" spec.md §4.6 describes: pass-through bytes between (and around) the
// sparse set of Template AST children are emitted automatically because
// flushTo always advances monotonically to each child's own starting
// offset before that child renders itself.
//
// A :else sibling pairs with the :if result of the immediately preceding
// sibling (spec.md §4.5's pairing rule): prevIf carries that result forward
// one step and is cleared after every non-:if sibling, so a :else following
// anything else is reported as TagElseNotAdjacent.
func (ip *Interpreter) walkSiblings(level int, parentIdx tmplast.Index, ctx value.Context) error {
	t := ip.levels[level].src.Template
	var prevIf *bool
	for _, c := range t.Children(parentIdx) {
		n := t.Node(c)
		if n.Else {
			if prevIf == nil {
				hn := ip.levels[level].src.HTML.Node(n.Elem)
				return &Error{Tag: diag.TagElseNotAdjacent, Msg: ":else must immediately follow a :if sibling", Loc: hn.OpenNameSpan, Trace: ip.trace()}
			}
			ifWasTrue := *prevIf
			prevIf = nil
			if err := ip.renderElse(level, c, ctx, ifWasTrue); err != nil {
				return err
			}
			continue
		}
		ifResult, err := ip.renderNode(level, c, ctx)
		if err != nil {
			return err
		}
		prevIf = ifResult
	}
	return nil
}

// renderNode dispatches on Kind and reports whether c was a :if element and,
// if so, what it evaluated to — so walkSiblings can pair it with a following
// :else sibling.
func (ip *Interpreter) renderNode(level int, idx tmplast.Index, ctx value.Context) (*bool, error) {
	t := ip.levels[level].src.Template
	n := t.Node(idx)
	switch n.Kind {
	case tmplast.KindExtend:
		return nil, nil // unreachable in the executable prefix (discovery already consumed it)
	case tmplast.KindSuper:
		return nil, ip.renderSuper(level, idx, ctx)
	case tmplast.KindCtx:
		return nil, ip.renderCtx(level, idx, ctx)
	default: // KindBlock, KindSuperBlock, KindElement
		return ip.renderElementLike(level, idx, ctx)
	}
}

// renderCtx evaluates <ctx>'s bindings into a new scoped map and renders its
// children under it. The <ctx> container tag itself is never emitted
// (spec.md §4.6's "skip container tags themselves").
func (ip *Interpreter) renderCtx(level int, idx tmplast.Index, ctx value.Context) error {
	lv := ip.levels[level]
	t := lv.src.Template
	n := t.Node(idx)
	hn := lv.src.HTML.Node(n.Elem)

	if err := ip.tick(); err != nil {
		return err
	}

	scoped := make(map[string]value.Value, len(ctx.CtxMap)+len(n.Ctx))
	for k, v := range ctx.CtxMap {
		scoped[k] = v
	}
	for _, b := range n.Ctx {
		res, err := ip.eval(level, b.Expr, b.ExprSpan, ctx)
		if err != nil {
			return err
		}
		scoped[b.Name] = res
	}
	childCtx := value.Context{Loop: ctx.Loop, If: ctx.If, CtxMap: scoped}

	// flush up to (and skip over) the opening <ctx ...> tag itself.
	ip.flushTo(level, hn.Open.Start)
	lv.cursor = hn.Open.End

	if err := ip.walkSiblings(level, idx, childCtx); err != nil {
		return err
	}

	if hn.Close != span.Zero {
		ip.flushTo(level, hn.Close.Start)
		lv.cursor = hn.Close.End
	}
	return nil
}

// renderSuper performs the template switch spec.md §4.6 describes:
// activate the matching block one level down the chain, render it in
// place of the <super> element, then resume level's own walk.
func (ip *Interpreter) renderSuper(level int, idx tmplast.Index, ctx value.Context) error {
	lv := ip.levels[level]
	t := lv.src.Template
	n := t.Node(idx)
	hn := lv.src.HTML.Node(n.Elem)

	superBlock := t.Node(n.ParentIdx)

	ip.flushTo(level, hn.Open.Start)
	if hn.Close != span.Zero {
		lv.cursor = hn.Close.End
	} else {
		lv.cursor = hn.Open.End
	}

	if level == 0 {
		// No template extends this one further down the chain; the block
		// interface is already validated to exist, so this should not
		// happen — render nothing defensively.
		return nil
	}
	below := ip.levels[level-1]
	blockIdx, ok := below.src.Template.Blocks[superBlock.ID]
	if !ok {
		return nil // already reported during interface validation
	}
	return ip.renderBlock(level-1, blockIdx, value.Context{})
}

// renderBlock renders a block's children only (its own open/close tags come
// from the super_block side, never re-emitted), per spec.md §4.6's
// "block/enter: emit up to the open span, continue into children;
// block/exit: emit up to the close span's start".
func (ip *Interpreter) renderBlock(level int, idx tmplast.Index, ctx value.Context) error {
	lv := ip.levels[level]
	t := lv.src.Template
	n := t.Node(idx)
	hn := lv.src.HTML.Node(n.Elem)

	if err := ip.tick(); err != nil {
		return err
	}

	// Silently advance past everything up to and including the block's own
	// open tag: neither the block template's surrounding pass-through source
	// (the extend directive, whitespace between top-level blocks) nor the
	// block's own open tag are ever part of the output — only the
	// super_block side that activated this block contributes those bytes
	// (renderSuper already flushed them). A plain cursor assignment is used
	// instead of flushTo, which would wrongly write the skipped span.
	if hn.Open.Start > lv.cursor {
		lv.cursor = hn.Open.Start
	}
	lv.cursor = hn.Open.End

	if err := ip.walkSiblings(level, idx, ctx); err != nil {
		return err
	}

	if hn.Close != span.Zero {
		ip.flushTo(level, hn.Close.Start)
		lv.cursor = hn.Close.End
	}
	return nil
}

// renderElementLike handles KindElement, KindBlock (when reached directly
// via the root walk rather than renderBlock — which spec.md notes should
// not occur, but is handled the same way defensively) and KindSuperBlock. It
// returns a non-nil bool (the evaluated condition) only when n carries :if,
// so its caller can pair the result with a following :else sibling.
func (ip *Interpreter) renderElementLike(level int, idx tmplast.Index, ctx value.Context) (*bool, error) {
	lv := ip.levels[level]
	t := lv.src.Template
	n := t.Node(idx)
	hn := lv.src.HTML.Node(n.Elem)

	if err := ip.tick(); err != nil {
		return nil, err
	}

	switch n.Special {
	case tmplast.SpecialIf:
		res, err := ip.eval(level, n.SpecialExpr, n.SpecialSpan, ctx)
		if err != nil {
			return nil, err
		}
		if res.Kind != value.KindBool && res.Kind != value.KindOptional {
			return nil, &Error{Tag: diag.TagScriptTypeMismatch, Msg: ":if expression must be bool or optional", Loc: n.SpecialSpan, Trace: ip.trace()}
		}
		truthy := res.IsTruthy()
		if !truthy {
			ip.skipElement(level, hn)
			return &truthy, nil
		}
		bodyCtx := ctx
		if res.Kind == value.KindOptional && res.Opt != nil {
			bodyCtx.If = res.Opt
		}
		if err := ip.renderOneElement(level, idx, n, hn, bodyCtx); err != nil {
			return nil, err
		}
		return &truthy, nil

	case tmplast.SpecialLoop:
		res, err := ip.eval(level, n.SpecialExpr, n.SpecialSpan, ctx)
		if err != nil {
			return nil, err
		}
		it, ok := toIterator(res)
		if !ok {
			return nil, &Error{Tag: diag.TagScriptTypeMismatch, Msg: ":loop expression did not produce an iterator or array", Loc: n.SpecialSpan, Trace: ip.trace()}
		}
		first, hasAny := it.Next()
		if !hasAny {
			ip.skipElement(level, hn)
			return nil, nil
		}
		return nil, ip.renderLoopElement(level, idx, n, hn, ctx, it, first)

	default:
		return nil, ip.renderOneElement(level, idx, n, hn, ctx)
	}
}

// renderElse renders (or skips) a :else element against the result of the
// :if sibling it was paired with in walkSiblings: skipped when that :if was
// truthy (the :if branch already rendered), rendered like a plain element
// otherwise.
func (ip *Interpreter) renderElse(level int, idx tmplast.Index, ctx value.Context, ifWasTrue bool) error {
	lv := ip.levels[level]
	t := lv.src.Template
	n := t.Node(idx)
	hn := lv.src.HTML.Node(n.Elem)

	if err := ip.tick(); err != nil {
		return err
	}

	if ifWasTrue {
		ip.skipElement(level, hn)
		return nil
	}
	return ip.renderOneElement(level, idx, n, hn, ctx)
}

// skipElement advances the cursor silently past the whole element (open
// tag, body and close tag alike), emitting nothing — the interpretation of
// `:if false` / `:loop` over an empty sequence chosen for this engine
// (see DESIGN.md's "conditional element" decision).
func (ip *Interpreter) skipElement(level int, hn *htmlast.Node) {
	lv := ip.levels[level]
	ip.flushTo(level, hn.Open.Start)
	if hn.Close != span.Zero {
		lv.cursor = hn.Close.End
	} else {
		lv.cursor = hn.Open.End
	}
}

// renderOneElement renders a (non-looping, already-truthy-or-unconditional)
// element once: open tag with attribute substitution, body, close tag.
func (ip *Interpreter) renderOneElement(level int, idx tmplast.Index, n *tmplast.Node, hn *htmlast.Node, ctx value.Context) error {
	if err := ip.writeOpenTag(level, n, hn, ctx); err != nil {
		return err
	}
	if err := ip.renderBody(level, idx, n, hn, ctx); err != nil {
		return err
	}
	ip.closeTag(level, hn)
	return nil
}

// renderLoopElement implements the loop semantics of spec.md §4.6's scenario
// 5: the whole element — open tag (with its own per-iteration attribute
// substitution), body, close tag — repeats once per iteration, rewinding
// the cursor back to the open span's start before each repeat after the
// first.
func (ip *Interpreter) renderLoopElement(level int, idx tmplast.Index, n *tmplast.Node, hn *htmlast.Node, outer value.Context, it value.Iterator, first value.Value) error {
	elemStart := hn.Open.Start

	item := first
	for {
		if err := ip.tick(); err != nil {
			return err
		}
		loopCtx := outer
		loopCtx.Loop = &value.LoopContext{It: value.ValueOrNil{Value: item, Valid: true}, Up: outer.Loop}

		if err := ip.renderOneElement(level, idx, n, hn, loopCtx); err != nil {
			return err
		}

		next, ok := it.Next()
		if !ok {
			break
		}
		item = next
		ip.levels[level].cursor = elemStart // rewind: re-emit the element's own source bytes per item
	}

	return nil
}

// renderBody emits the element's content: a `:text`/`:html` override, or
// (absent either) the element's Template AST children under the HTML AST's
// pass-through source.
func (ip *Interpreter) renderBody(level int, idx tmplast.Index, n *tmplast.Node, hn *htmlast.Node, ctx value.Context) error {
	switch n.TextHTML {
	case tmplast.TextHTMLText:
		res, err := ip.eval(level, n.TextHTMLExpr, n.TextHTMLSpan, ctx)
		if err != nil {
			return err
		}
		text, ok := res.AsText()
		if !ok {
			return &Error{Tag: diag.TagScriptTypeMismatch, Msg: ":text expression must be string or int", Loc: n.TextHTMLSpan, Trace: ip.trace()}
		}
		ip.jumpPast(level, hn)
		ip.emit(escapeHTML(text))
		return nil

	case tmplast.TextHTMLHTML:
		res, err := ip.eval(level, n.TextHTMLExpr, n.TextHTMLSpan, ctx)
		if err != nil {
			return err
		}
		text, ok := res.AsText()
		if !ok {
			return &Error{Tag: diag.TagScriptTypeMismatch, Msg: ":html expression must be string or int", Loc: n.TextHTMLSpan, Trace: ip.trace()}
		}
		ip.jumpPast(level, hn)
		ip.emit(text)
		return nil

	default:
		return ip.walkSiblings(level, idx, ctx)
	}
}

// jumpPast positions the level's cursor at the start of hn's close tag (or,
// for an element without one, right past its open tag), skipping hn's
// source children without emitting them, since :text/:html replace whatever
// source sat there.
func (ip *Interpreter) jumpPast(level int, hn *htmlast.Node) {
	lv := ip.levels[level]
	ip.flushTo(level, hn.Open.End)
	if hn.Close != span.Zero {
		lv.cursor = hn.Close.Start
	}
}

func (ip *Interpreter) closeTag(level int, hn *htmlast.Node) {
	if hn.Close != span.Zero {
		ip.flushTo(level, hn.Close.End)
	}
}

// writeOpenTag emits hn's open tag, replaying unscripted attributes
// verbatim from source and substituting scripted (`$…`) ones with their
// evaluated, HTML-escaped string value (spec.md §4.6's "Attribute output").
// Special attributes (`:if`/`:loop`/`:else`/`:text`/`:html`) are dropped
// from the emitted tag entirely — they are template directives, not DOM
// attributes.
func (ip *Interpreter) writeOpenTag(level int, n *tmplast.Node, hn *htmlast.Node, ctx value.Context) error {
	lv := ip.levels[level]
	ip.flushTo(level, hn.OpenNameSpan.End)

	for _, a := range hn.Attrs {
		attrEnd := a.NameSpan.End
		if a.HasValue {
			attrEnd = a.ValueSpan.End
			if a.Quote != htmltok.QuoteNone && attrEnd < hn.Open.End {
				attrEnd++ // the closing quote
			}
		}

		if isSpecialAttr(a.Name) {
			// Drop the directive together with the whitespace before it.
			start := a.NameSpan.Start
			for start > lv.cursor && strings.IndexByte(" \t\n\r\f", lv.src.Src[start-1]) != -1 {
				start--
			}
			ip.flushTo(level, start)
			lv.cursor = attrEnd
			continue
		}

		scripted, ok := lookupScripted(n.Attrs, a.Name)
		if !ok {
			ip.flushTo(level, attrEnd)
			continue
		}

		ip.flushTo(level, a.NameSpan.End)
		lv.cursor = attrEnd

		res, err := ip.eval(level, scripted.Expr, scripted.ExprSpan, ctx)
		if err != nil {
			return err
		}
		str, ok := res.AsText()
		if !ok {
			return &Error{Tag: diag.TagScriptTypeMismatch, Msg: "attribute \"" + a.Name + "\" expression must be string or int", Loc: scripted.ExprSpan, Trace: ip.trace()}
		}
		ip.emit(`="` + escapeHTML(str) + `"`)
	}

	ip.flushTo(level, hn.Open.End)
	return nil
}

func lookupScripted(attrs []tmplast.ScriptedAttr, name string) (tmplast.ScriptedAttr, bool) {
	for _, a := range attrs {
		if strings.EqualFold(a.Name, name) {
			return a, true
		}
	}
	return tmplast.ScriptedAttr{}, false
}

func isSpecialAttr(name string) bool {
	switch name {
	case ":if", ":loop", ":else", ":text", ":html":
		return true
	default:
		return false
	}
}

func toIterator(v value.Value) (value.Iterator, bool) {
	if v.Kind == value.KindIterator {
		return v.Iter, true
	}
	return nil, false
}

// eval runs one `$…`-body expression through the configured ExprVM, mapping
// an ExprVM failure to a fatal interpreter Error.
func (ip *Interpreter) eval(level int, code string, loc span.Span, ctx value.Context) (value.Value, error) {
	res, err := ip.vm.Run(ctx, code, loc)
	if err != nil {
		return value.Value{}, &Error{Tag: diag.TagScriptTypeMismatch, Msg: err.Error(), Loc: loc, Trace: ip.trace()}
	}
	return res.Value, nil
}
