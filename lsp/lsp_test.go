package lsp_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpotapov/superhtml/elements"
	"github.com/dpotapov/superhtml/lsp"
)

func newServer() *lsp.Server {
	return lsp.NewServer(elements.ModeStandard, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestDidOpenPublishesNoDiagnosticsForCleanDoc(t *testing.T) {
	s := newServer()
	diags, err := s.DidOpen("file:///a.html", "html", []byte(`<p>hi</p>`))
	require.NoError(t, err)
	assert.Empty(t, diags)
}

func TestDidOpenUnknownLanguageErrors(t *testing.T) {
	s := newServer()
	_, err := s.DidOpen("file:///a.weird", "weird", []byte(`<p></p>`))
	require.Error(t, err)
}

func TestDidOpenReportsMismatchedTagDiagnostic(t *testing.T) {
	s := newServer()
	diags, err := s.DidOpen("file:///a.html", "html", []byte(`<div><span></div>`))
	require.NoError(t, err)
	require.NotEmpty(t, diags)
}

func TestDidChangeReparsesDocument(t *testing.T) {
	s := newServer()
	_, err := s.DidOpen("file:///a.html", "html", []byte(`<p>v1</p>`))
	require.NoError(t, err)

	diags, err := s.DidChange("file:///a.html", []byte(`<div><span></div>`))
	require.NoError(t, err)
	require.NotEmpty(t, diags)
}

func TestDidChangeOnUnopenedDocumentErrors(t *testing.T) {
	s := newServer()
	_, err := s.DidChange("file:///never-opened.html", []byte(`<p></p>`))
	require.Error(t, err)
}

func TestDidCloseRemovesDocument(t *testing.T) {
	s := newServer()
	_, err := s.DidOpen("file:///a.html", "html", []byte(`<p>hi</p>`))
	require.NoError(t, err)
	s.DidClose("file:///a.html")

	_, err = s.Formatting("file:///a.html")
	require.Error(t, err)
}

func TestFormattingReturnsText(t *testing.T) {
	s := newServer()
	src := []byte(`<p>hi</p>`)
	_, err := s.DidOpen("file:///a.html", "html", src)
	require.NoError(t, err)

	out, err := s.Formatting("file:///a.html")
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestCompletionAtTagName(t *testing.T) {
	s := newServer()
	src := []byte(`<di>hi</di>`)
	_, err := s.DidOpen("file:///a.html", "html", src)
	require.NoError(t, err)

	items, err := s.Completion("file:///a.html", 2)
	require.NoError(t, err)
	assert.NotEmpty(t, items)
}

func TestHoverOnKnownElement(t *testing.T) {
	s := newServer()
	src := []byte(`<p>hi</p>`)
	_, err := s.DidOpen("file:///a.html", "html", src)
	require.NoError(t, err)

	_, ok, err := s.Hover("file:///a.html", 1)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCodeActionOffersReplaceTagName(t *testing.T) {
	s := newServer()
	src := []byte(`<bogus>hi</bogus>`)
	_, err := s.DidOpen("file:///a.html", "html", src)
	require.NoError(t, err)

	actions, err := s.CodeAction("file:///a.html", 2)
	require.NoError(t, err)
	if assert.NotEmpty(t, actions) {
		assert.NotEmpty(t, actions[0].Edits)
		assert.Equal(t, "div", actions[0].Edits[0].NewText)
	}
}

func TestRenameEditsBothTagNameSpans(t *testing.T) {
	s := newServer()
	src := []byte(`<p>hi</p>`)
	_, err := s.DidOpen("file:///a.html", "html", src)
	require.NoError(t, err)

	_, ok, err := s.PrepareRename("file:///a.html", 1)
	require.NoError(t, err)
	require.True(t, ok)

	edits, err := s.Rename("file:///a.html", 1, "div")
	require.NoError(t, err)
	require.Len(t, edits, 2)
	assert.Equal(t, "div", edits[0].NewText)
	assert.Equal(t, "div", edits[1].NewText)
}

func TestDocumentHighlightMatchesRenameSpans(t *testing.T) {
	s := newServer()
	src := []byte(`<p>hi</p>`)
	_, err := s.DidOpen("file:///a.html", "html", src)
	require.NoError(t, err)

	spans, err := s.DocumentHighlight("file:///a.html", 1)
	require.NoError(t, err)
	assert.Len(t, spans, 2)
}

func TestLinkedEditingRangeMatchesDocumentHighlight(t *testing.T) {
	s := newServer()
	src := []byte(`<p>hi</p>`)
	_, err := s.DidOpen("file:///a.html", "html", src)
	require.NoError(t, err)

	want, err := s.DocumentHighlight("file:///a.html", 1)
	require.NoError(t, err)
	got, err := s.LinkedEditingRange("file:///a.html", 1)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestReferencesFindsMatchingClassTokens(t *testing.T) {
	s := newServer()
	src := []byte(`<p class="a b"></p><span class="b c"></span>`)
	_, err := s.DidOpen("file:///a.html", "html", src)
	require.NoError(t, err)

	offset := uint32(12) // the "b" token in the first element's class attribute
	refs, err := s.References("file:///a.html", offset)
	require.NoError(t, err)
	assert.Len(t, refs, 2)
}

func TestSuperHTMLDocumentBuildsTemplateAST(t *testing.T) {
	s := newServer()
	diags, err := s.DidOpen("file:///a.html", "superhtml", []byte(`<span :if="$true">hi</span>`))
	require.NoError(t, err)
	assert.Empty(t, diags)
}
