package diag

import "github.com/dpotapov/superhtml/span"

// TextEdit is a single replacement of a span's bytes with new text, the unit
// the LSP's textDocument/codeAction and textDocument/rename responses are
// built from.
type TextEdit struct {
	Span    span.Span
	NewText string
}

// CodeAction bundles a human-readable title with the edits that apply it.
type CodeAction struct {
	Title string
	Edits []TextEdit
}

// ReplaceTagName builds the "Replace with 'div'" code action for an
// invalid_html_tag_name diagnostic (spec.md §4.7): it edits the open tag's
// name span, and — when the element is not void and has a proper close tag
// — the close tag's name span too.
func ReplaceTagName(openNameSpan span.Span, closeNameSpan *span.Span, newName string) CodeAction {
	edits := []TextEdit{{Span: openNameSpan, NewText: newName}}
	if closeNameSpan != nil {
		edits = append(edits, TextEdit{Span: *closeNameSpan, NewText: newName})
	}
	return CodeAction{
		Title: "Replace with '" + newName + "'",
		Edits: edits,
	}
}
