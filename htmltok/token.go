// Package htmltok is the byte stream -> token layer (spec.md §4.1). It
// drives golang.org/x/net/html.Tokenizer — the same tokenizer the teacher
// repo (chtml/parse.go) drives — and layers source-preserving Span tracking,
// a lazy attribute cursor, and a classified parse-error taxonomy on top,
// rather than reimplementing the HTML5 tokenization state table from
// scratch. The tokenizer is synchronous and restartable from any byte
// offset (a fresh htmltok.Tokenizer over src[offset:] with the base offset
// supplied continues from there).
package htmltok

import (
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/dpotapov/superhtml/diag"
	"github.com/dpotapov/superhtml/span"
)

// Language selects tokenizer edge cases per spec.md §3.
type Language int

const (
	HTML Language = iota
	SuperHTML
	XML
)

// ExtLanguage maps a file extension (with leading dot) to a Language.
func ExtLanguage(ext string) (Language, bool) {
	switch strings.ToLower(ext) {
	case ".html", ".htm":
		return HTML, true
	case ".shtml":
		return SuperHTML, true
	default:
		return HTML, false
	}
}

// Kind enumerates token kinds.
type Kind int

const (
	KindDoctype Kind = iota
	KindStartTag
	KindEndTag
	KindSelfClosingTag
	KindComment
	KindText
	KindParseError
	KindEOF
)

// Token is one source-preserving tokenizer output: spans into the original
// bytes, including quotes and whitespace positions.
type Token struct {
	Kind Kind
	Span span.Span // whole token, '<' through '>' inclusive (or text run)

	// NameSpan is the tag/doctype name span (zero for Comment/Text/ParseError).
	NameSpan span.Span
	Name     string // lowercased tag name, or doctype name

	SelfClosing bool // self-closing tag per /> in the source

	// ErrorTag is set when Kind == KindParseError.
	ErrorTag diag.Tag

	attrs []Attr // only for StartTag/SelfClosingTag
}

// QuoteKind is the quoting style of an attribute value.
type QuoteKind int

const (
	QuoteNone QuoteKind = iota
	QuoteSingle
	QuoteDouble
)

// Attr is one token-level attribute: name span plus an optional value.
type Attr struct {
	NameSpan  span.Span
	Name      string // lowercased
	HasValue  bool
	Quote     QuoteKind
	ValueSpan span.Span // excludes quotes
}

// Attrs returns the attribute iterator's full slice in source order. It is
// a slice rather than a generator for simplicity; the "iterator" in spec.md
// is this slice's range, which is lazy relative to entity decoding (Attr
// never decodes entities — that happens in htmlast on demand).
func (t Token) Attrs() []Attr { return t.attrs }

// Tokenizer wraps html.Tokenizer with span tracking. It is allocation-free
// beyond its own Token/Attr slices and safe to restart via NewAt.
type Tokenizer struct {
	z      *html.Tokenizer
	src    []byte
	offset uint32 // byte offset of the next unread byte in src
	lang   Language
}

// New creates a Tokenizer over the full source buffer.
func New(src []byte, lang Language) *Tokenizer {
	return NewAt(src, 0, lang)
}

// NewAt creates a Tokenizer that resumes at byte offset `at` in src. This is
// the "restartable from any byte offset" requirement from spec.md §4.1.
func NewAt(src []byte, at uint32, lang Language) *Tokenizer {
	t := &Tokenizer{
		z:      html.NewTokenizer(stringsReaderAt(src, at)),
		src:    src,
		offset: at,
		lang:   lang,
	}
	if lang == XML {
		t.z.AllowCDATA(true)
	}
	return t
}

func stringsReaderAt(src []byte, at uint32) io.Reader {
	return &byteReader{src: src, pos: int(at)}
}

type byteReader struct {
	src []byte
	pos int
}

func (r *byteReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.src) {
		return 0, io.EOF
	}
	n := copy(p, r.src[r.pos:])
	r.pos += n
	return n, nil
}

// Next advances the tokenizer and returns the next Token. At end of input it
// returns a KindEOF token. Next never returns an error; malformed input
// produces KindParseError tokens instead (never fatal, per spec.md §7).
func (t *Tokenizer) Next() Token {
	typ := t.z.Next()
	raw := t.z.Raw()
	start := t.offset
	end := t.offset + uint32(len(raw))
	t.offset = end
	whole := span.New(start, end)

	switch typ {
	case html.ErrorToken:
		err := t.z.Err()
		if err == io.EOF {
			return Token{Kind: KindEOF, Span: whole}
		}
		return Token{Kind: KindParseError, Span: whole, ErrorTag: classifyError(raw, err)}

	case html.DoctypeToken:
		name, nameSpan := firstWord(raw, start)
		return Token{Kind: KindDoctype, Span: whole, Name: strings.ToLower(name), NameSpan: nameSpan}

	case html.CommentToken:
		return Token{Kind: KindComment, Span: whole}

	case html.TextToken:
		return Token{Kind: KindText, Span: whole}

	case html.StartTagToken, html.SelfClosingTagToken:
		tok := t.z.Token()
		kind := KindStartTag
		if typ == html.SelfClosingTagToken {
			kind = KindSelfClosingTag
		}
		nameSpan, attrs := scanStartTag(raw, start, tok.Attr)
		return Token{
			Kind:        kind,
			Span:        whole,
			Name:        strings.ToLower(tok.Data),
			NameSpan:    nameSpan,
			SelfClosing: typ == html.SelfClosingTagToken,
			attrs:       attrs,
		}

	case html.EndTagToken:
		tok := t.z.Token()
		nameSpan, attrs := scanStartTag(raw, start, tok.Attr)
		if len(attrs) > 0 {
			// end_tag_with_attributes is reported by the caller (htmlast), which
			// has access to the open-elements stack for a better diagnostic;
			// htmltok still surfaces the attrs so the caller doesn't need to
			// rescan.
		}
		return Token{Kind: KindEndTag, Span: whole, Name: strings.ToLower(tok.Data), NameSpan: nameSpan, attrs: attrs}
	}

	return Token{Kind: KindEOF, Span: whole}
}

// RawDoctype returns the full doctype token's source text, including the
// name and any PUBLIC/SYSTEM identifiers, for callers (htmlast.Builder) that
// need to parse beyond the bare name. tokenSpan must be the Span of a
// KindDoctype token produced by this Tokenizer's source.
func RawDoctype(src []byte, tokenSpan span.Span) string {
	raw := string(tokenSpan.Slice(src))
	raw = strings.TrimPrefix(raw, "<!")
	raw = strings.TrimSuffix(raw, ">")
	raw = strings.TrimSpace(raw)
	if len(raw) >= len("doctype") && strings.EqualFold(raw[:len("doctype")], "doctype") {
		raw = raw[len("doctype"):]
	}
	return strings.TrimSpace(raw)
}
