// Package lsp implements the document store and capability handlers spec.md
// §6 describes for the LSP surface: "only capabilities that consume the
// core directly". JSON-RPC framing and the stdio transport are out of
// scope for the core — represented here only by the narrow Transport
// interface a real JSON-RPC library would implement — so every method on
// Server is a plain Go call a transport adapter dispatches into, grounded
// on the teacher's constructor-injected, logger-carrying server style
// (chtml's Importer/Parser types take their dependencies as constructor
// arguments rather than reaching for globals).
package lsp

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/dpotapov/superhtml/diag"
	"github.com/dpotapov/superhtml/elements"
	"github.com/dpotapov/superhtml/htmlast"
	"github.com/dpotapov/superhtml/htmltok"
	"github.com/dpotapov/superhtml/render"
	"github.com/dpotapov/superhtml/span"
	"github.com/dpotapov/superhtml/tmplast"
)

// Transport is the narrow collaborator a real JSON-RPC stdio loop would
// implement; Server never constructs or dials one itself (spec.md §6's
// "lsp — start LSP on stdio" is a cmd/superhtml concern, not a core one).
type Transport interface {
	ReadMessage() ([]byte, error)
	WriteMessage([]byte) error
}

// Document is one open file's parsed state (spec.md §6's "uri -> document"
// map). Template is nil for plain HTML/XML documents.
type Document struct {
	URI      string
	Language htmltok.Language
	Src      []byte
	HTML     *htmlast.Tree
	Template *tmplast.Tree
}

// Diagnostic is the wire-shape publishDiagnostics sends: byte spans already
// resolved to line/column ranges, ready for JSON encoding by the transport
// adapter.
type Diagnostic struct {
	Range    Range
	Severity diag.Severity
	Message  string
	Related  []RelatedInfo
}

// Range is an LSP-style start/end position pair.
type Range struct {
	Start, End span.Pos
}

// RelatedInfo is one related_information entry (spec.md §6).
type RelatedInfo struct {
	URI     string
	Range   Range
	Message string
}

// Server holds the open-document map and configuration every capability
// method consults. It is safe for concurrent use by multiple goroutines
// (one per incoming request), matching how a real language server fans
// requests in.
type Server struct {
	mu     sync.RWMutex
	docs   map[string]*Document
	mode   elements.ValidationMode
	logger *slog.Logger
}

// NewServer creates a Server validating documents under mode.
func NewServer(mode elements.ValidationMode, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{docs: map[string]*Document{}, mode: mode, logger: logger}
}

// languageFromID maps the LSP languageId string to htmltok.Language,
// per spec.md §6's "Languages advertised to the client: html, superhtml,
// xml. Unknown language id ⇒ window/showMessage error and terminate the
// session."
func languageFromID(id string) (htmltok.Language, error) {
	switch id {
	case "html":
		return htmltok.HTML, nil
	case "superhtml":
		return htmltok.SuperHTML, nil
	case "xml":
		return htmltok.XML, nil
	default:
		return 0, fmt.Errorf("lsp: unknown language id %q", id)
	}
}

func (s *Server) parse(uri, languageID string, src []byte) (*Document, error) {
	lang, err := languageFromID(languageID)
	if err != nil {
		return nil, err
	}
	h := htmlast.Build(src, lang, htmlast.Options{Mode: s.mode})
	doc := &Document{URI: uri, Language: lang, Src: src, HTML: h}
	if lang == htmltok.SuperHTML {
		doc.Template = tmplast.Build(h)
	}
	return doc, nil
}

// DidOpen parses and stores a newly opened document.
func (s *Server) DidOpen(uri, languageID string, text []byte) ([]Diagnostic, error) {
	doc, err := s.parse(uri, languageID, text)
	if err != nil {
		s.logger.Error("didOpen: unsupported language", "uri", uri, "error", err)
		return nil, err
	}
	s.mu.Lock()
	s.docs[uri] = doc
	s.mu.Unlock()
	s.logger.Debug("didOpen", "uri", uri, "bytes", len(text))
	return s.PublishDiagnostics(uri), nil
}

// DidChange fully re-parses the document (spec.md §6: "incremental sync is
// out of scope for the core").
func (s *Server) DidChange(uri string, text []byte) ([]Diagnostic, error) {
	s.mu.RLock()
	existing, ok := s.docs[uri]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("lsp: didChange on unopened document %q", uri)
	}
	doc, err := s.parse(uri, languageIDOf(existing.Language), text)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.docs[uri] = doc
	s.mu.Unlock()
	return s.PublishDiagnostics(uri), nil
}

// DidClose removes the document from the store.
func (s *Server) DidClose(uri string) {
	s.mu.Lock()
	delete(s.docs, uri)
	s.mu.Unlock()
}

func languageIDOf(l htmltok.Language) string {
	switch l {
	case htmltok.SuperHTML:
		return "superhtml"
	case htmltok.XML:
		return "xml"
	default:
		return "html"
	}
}

func (s *Server) get(uri string) (*Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[uri]
	return doc, ok
}

// PublishDiagnostics converts a document's recorded diagnostics to the wire
// shape, per spec.md §6: Warning for unsupported_doctype/duplicate_class,
// Error otherwise; a related_information entry when the diagnostic carries
// one.
func (s *Server) PublishDiagnostics(uri string) []Diagnostic {
	doc, ok := s.get(uri)
	if !ok {
		return nil
	}
	li := doc.HTML.LineIndex()
	all := doc.HTML.Diagnostics
	if doc.Template != nil {
		all = append(append([]diag.Diagnostic{}, all...), doc.Template.Diagnostics...)
	}

	out := make([]Diagnostic, 0, len(all))
	for _, d := range all {
		wd := Diagnostic{
			Range:    Range{Start: li.Pos(d.Main.Start), End: li.Pos(d.Main.End)},
			Severity: d.Severity(),
			Message:  d.Message(),
		}
		if d.Related != nil {
			wd.Related = []RelatedInfo{{
				URI:     uri,
				Range:   Range{Start: li.Pos(d.Related.Start), End: li.Pos(d.Related.End)},
				Message: "first occurrence here",
			}}
		}
		out = append(out, wd)
	}
	return out
}

// Formatting invokes the renderer if the document has no syntax errors,
// returning the whole-document replacement text (spec.md §6).
func (s *Server) Formatting(uri string) (string, error) {
	doc, ok := s.get(uri)
	if !ok {
		return "", fmt.Errorf("lsp: formatting on unopened document %q", uri)
	}
	return render.Format(doc.HTML)
}

// Completion delegates to the HTML AST's completions(offset).
func (s *Server) Completion(uri string, offset uint32) ([]htmlast.Completion, error) {
	doc, ok := s.get(uri)
	if !ok {
		return nil, fmt.Errorf("lsp: completion on unopened document %q", uri)
	}
	return doc.HTML.Completions(offset, s.mode), nil
}

// Hover delegates to the HTML AST's description(offset).
func (s *Server) Hover(uri string, offset uint32) (string, bool, error) {
	doc, ok := s.get(uri)
	if !ok {
		return "", false, fmt.Errorf("lsp: hover on unopened document %q", uri)
	}
	text, ok := doc.HTML.Description(offset)
	return text, ok, nil
}

// CodeAction returns the invalid_html_tag_name fix (spec.md §4.7) for
// whichever recorded diagnostic, if any, matches tag at offset.
func (s *Server) CodeAction(uri string, offset uint32) ([]diag.CodeAction, error) {
	doc, ok := s.get(uri)
	if !ok {
		return nil, fmt.Errorf("lsp: codeAction on unopened document %q", uri)
	}
	var out []diag.CodeAction
	for _, d := range doc.HTML.Diagnostics {
		if d.Tag != diag.TagInvalidHTMLTagName || !d.Main.Contains(offset) {
			continue
		}
		open, close, ok := doc.HTML.TagNameSpans(offset)
		if !ok {
			continue
		}
		out = append(out, diag.ReplaceTagName(open, close, "div"))
	}
	return out, nil
}

// PrepareRename, Rename, DocumentHighlight and LinkedEditingRange all
// resolve to the same pair of spans — the open and (when present)
// close tag-name spans of the element under the cursor (spec.md §6).
func (s *Server) PrepareRename(uri string, offset uint32) (span.Span, bool, error) {
	doc, ok := s.get(uri)
	if !ok {
		return span.Zero, false, fmt.Errorf("lsp: prepareRename on unopened document %q", uri)
	}
	open, _, ok := doc.HTML.TagNameSpans(offset)
	return open, ok, nil
}

// Rename returns the edits renaming every tag-name span paired with the
// element under the cursor to newName.
func (s *Server) Rename(uri string, offset uint32, newName string) ([]diag.TextEdit, error) {
	doc, ok := s.get(uri)
	if !ok {
		return nil, fmt.Errorf("lsp: rename on unopened document %q", uri)
	}
	open, close, ok := doc.HTML.TagNameSpans(offset)
	if !ok {
		return nil, nil
	}
	edits := []diag.TextEdit{{Span: open, NewText: newName}}
	if close != nil {
		edits = append(edits, diag.TextEdit{Span: *close, NewText: newName})
	}
	return edits, nil
}

// DocumentHighlight returns the same open/close tag-name span pair, as
// highlight ranges rather than edits.
func (s *Server) DocumentHighlight(uri string, offset uint32) ([]span.Span, error) {
	doc, ok := s.get(uri)
	if !ok {
		return nil, fmt.Errorf("lsp: documentHighlight on unopened document %q", uri)
	}
	open, close, ok := doc.HTML.TagNameSpans(offset)
	if !ok {
		return nil, nil
	}
	out := []span.Span{open}
	if close != nil {
		out = append(out, *close)
	}
	return out, nil
}

// LinkedEditingRange is the same pair again, under the LSP capability that
// keeps them in sync as the user types.
func (s *Server) LinkedEditingRange(uri string, offset uint32) ([]span.Span, error) {
	return s.DocumentHighlight(uri, offset)
}

// References implements the class-token reference search (spec.md §4.7).
func (s *Server) References(uri string, offset uint32) ([]span.Span, error) {
	doc, ok := s.get(uri)
	if !ok {
		return nil, fmt.Errorf("lsp: references on unopened document %q", uri)
	}
	return doc.HTML.ClassReferences(offset), nil
}
