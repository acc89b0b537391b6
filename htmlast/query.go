package htmlast

import (
	"sort"

	"github.com/dpotapov/superhtml/elements"
	"github.com/dpotapov/superhtml/span"
)

// FindNodeContaining returns the innermost node whose span contains offset,
// walking down from root. Root itself is returned if offset falls outside
// every other node (e.g. leading/trailing whitespace at document scope).
func (t *Tree) FindNodeContaining(offset uint32) Index {
	best := Root
	var walk func(idx Index)
	walk = func(idx Index) {
		n := &t.Nodes[idx]
		full := n.Open
		if !n.Close.IsEmpty() {
			full = span.Join(n.Open, n.Close)
		}
		if idx != Root && !full.Contains(offset) {
			return
		}
		if idx != Root {
			best = idx
		}
		for c := n.FirstChildIdx; c != None; c = t.Nodes[c].NextIdx {
			walk(c)
		}
	}
	walk(Root)
	return best
}

// CompletionKind distinguishes what a Completion entry proposes inserting.
type CompletionKind int

const (
	CompletionTagName CompletionKind = iota
	CompletionAttrName
	CompletionAttrValue
)

// Completion is one candidate suggestion at a given offset.
type Completion struct {
	Kind        CompletionKind
	Label       string
	Description string
}

// Completions proposes candidates for the cursor position at offset, based
// on which node (and which part of it — tag name, attribute name, attribute
// value) contains the offset.
func (t *Tree) Completions(offset uint32, mode elements.ValidationMode) []Completion {
	idx := t.FindNodeContaining(offset)
	n := &t.Nodes[idx]

	if n.OpenNameSpan.Contains(offset) || n.OpenNameSpan.End == offset {
		return tagNameCompletions(mode)
	}

	for _, a := range n.Attrs {
		if a.NameSpan.Contains(offset) || a.NameSpan.End == offset {
			return attrNameCompletions(n.Tag)
		}
		if a.HasValue && (a.ValueSpan.Contains(offset) || a.ValueSpan.End == offset) {
			return attrValueCompletions(n.Tag, a.Name)
		}
	}

	return nil
}

func tagNameCompletions(mode elements.ValidationMode) []Completion {
	var out []Completion
	for name, info := range elements.Table {
		_ = mode
		out = append(out, Completion{Kind: CompletionTagName, Label: name, Description: info.Description})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

func attrNameCompletions(tag string) []Completion {
	var out []Completion
	info, _ := elements.Lookup(tag)
	if info != nil {
		for name, a := range info.Attrs {
			out = append(out, Completion{Kind: CompletionAttrName, Label: name, Description: a.Description})
		}
	}
	for _, a := range elements.GlobalAttrNames() {
		out = append(out, Completion{Kind: CompletionAttrName, Label: a.Name, Description: a.Description})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

func attrValueCompletions(tag, attr string) []Completion {
	info, ok := elements.AllowedAttr(tag, attr)
	if !ok || info.Value != elements.ValueEnum {
		return nil
	}
	out := make([]Completion, 0, len(info.Enum))
	for _, v := range info.Enum {
		out = append(out, Completion{Kind: CompletionAttrValue, Label: v})
	}
	return out
}

// Description returns the hover text for the node at offset: the element's
// content-model description, or its attribute's, depending on what part of
// the node the offset lands in.
func (t *Tree) Description(offset uint32) (string, bool) {
	idx := t.FindNodeContaining(offset)
	n := &t.Nodes[idx]
	if n.Kind != KindElement && n.Kind != KindElementVoid && n.Kind != KindElementSelfClosing {
		return "", false
	}

	for _, a := range n.Attrs {
		if a.NameSpan.Contains(offset) {
			if info, ok := elements.AllowedAttr(n.Tag, a.Name); ok {
				return info.Description, true
			}
			return "", false
		}
	}

	if info, ok := elements.Lookup(n.Tag); ok {
		return info.Description, true
	}
	return "", false
}

// TagNameSpans returns the open (and, when present, close) tag-name spans
// of the element node at offset, for rename/highlight/linked-edit requests
// (spec.md §6): "return the open-tag-name span and (when applicable) the
// close-tag-name span of the element under the cursor".
func (t *Tree) TagNameSpans(offset uint32) (open span.Span, close *span.Span, ok bool) {
	idx := t.FindNodeContaining(offset)
	n := &t.Nodes[idx]
	if n.Kind != KindElement && n.Kind != KindElementVoid && n.Kind != KindElementSelfClosing {
		return span.Zero, nil, false
	}
	if !n.OpenNameSpan.Contains(offset) && n.CloseNameSpan.IsEmpty() {
		return span.Zero, nil, false
	}
	if n.CloseNameSpan.IsEmpty() {
		return n.OpenNameSpan, nil, true
	}
	c := n.CloseNameSpan
	return n.OpenNameSpan, &c, true
}

// ClassReferences scans every `class` attribute value in the tree,
// tokenizes it by ASCII space, and returns the spans of every token
// matching the one at offset — the "References on a class token" search
// spec.md §4.7 describes.
func (t *Tree) ClassReferences(offset uint32) []span.Span {
	target, ok := t.classTokenAt(offset)
	if !ok {
		return nil
	}
	var out []span.Span
	for idx := range t.Nodes {
		if Index(idx) == None {
			continue
		}
		n := &t.Nodes[idx]
		for _, a := range n.Attrs {
			if a.Name != "class" || !a.HasValue {
				continue
			}
			out = append(out, classTokenSpans(a.ValueSpan, t.Src, target)...)
		}
	}
	return out
}

func (t *Tree) classTokenAt(offset uint32) (string, bool) {
	idx := t.FindNodeContaining(offset)
	n := &t.Nodes[idx]
	for _, a := range n.Attrs {
		if a.Name != "class" || !a.HasValue || !a.ValueSpan.Contains(offset) {
			continue
		}
		for _, s := range classTokenSpans(a.ValueSpan, t.Src, "") {
			if s.Contains(offset) {
				return string(s.Slice(t.Src)), true
			}
		}
	}
	return "", false
}

// classTokenSpans splits a class attribute's value span on ASCII spaces,
// returning the span of every token (or, when match != "", only tokens
// whose text equals match).
func classTokenSpans(value span.Span, src []byte, match string) []span.Span {
	var out []span.Span
	start := value.Start
	for i := value.Start; i <= value.End; i++ {
		if i == value.End || src[i] == ' ' {
			if i > start {
				s := span.Span{Start: start, End: i}
				if match == "" || string(s.Slice(src)) == match {
					out = append(out, s)
				}
			}
			start = i + 1
		}
	}
	return out
}

// FindNodeTagsAt returns the tag names of the node at offset and every one
// of its ancestors, innermost first. (Rename and highlight in the lsp
// package use TagNameSpans, not this function.)
func (t *Tree) FindNodeTagsAt(offset uint32) []string {
	idx := t.FindNodeContaining(offset)
	var out []string
	for idx != None && idx != Root {
		n := &t.Nodes[idx]
		if n.Tag != "" {
			out = append(out, n.Tag)
		}
		idx = n.ParentIdx
	}
	return out
}
