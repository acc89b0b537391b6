package htmltok

import (
	"bytes"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/dpotapov/superhtml/diag"
	"github.com/dpotapov/superhtml/span"
)

// scanStartTag re-walks the raw bytes of a start/end tag token to recover
// the name span and, for each attribute the stdlib tokenizer already parsed
// into tok.Attr (name/value strings, no positions), its source spans. This
// is the same technique as chtml/attr_scanner.go's scanAttributeSpans,
// generalized to also report quote style and value-less attributes instead
// of only value spans.
func scanStartTag(raw []byte, base uint32, attrs []html.Attribute) (nameSpan span.Span, out []Attr) {
	pos := 0
	if pos < len(raw) && raw[pos] == '<' {
		pos++
	}
	if pos < len(raw) && raw[pos] == '/' {
		pos++
	}
	nameStart := pos
	for pos < len(raw) && !isSpace(raw[pos]) && raw[pos] != '>' && raw[pos] != '/' {
		pos++
	}
	nameSpan = span.New(base+uint32(nameStart), base+uint32(pos))

	attrIdx := 0
	for pos < len(raw) && attrIdx < len(attrs) {
		for pos < len(raw) && isSpace(raw[pos]) {
			pos++
		}
		if pos >= len(raw) || raw[pos] == '>' || raw[pos] == '/' {
			break
		}

		attrNameStart := pos
		for pos < len(raw) && raw[pos] != '=' && !isSpace(raw[pos]) && raw[pos] != '>' && raw[pos] != '/' {
			pos++
		}
		attrNameEnd := pos
		a := Attr{
			NameSpan: span.New(base+uint32(attrNameStart), base+uint32(attrNameEnd)),
			Name:     strings.ToLower(string(raw[attrNameStart:attrNameEnd])),
		}

		for pos < len(raw) && isSpace(raw[pos]) {
			pos++
		}

		if pos >= len(raw) || raw[pos] != '=' {
			out = append(out, a)
			attrIdx++
			continue
		}
		pos++ // skip '='
		for pos < len(raw) && isSpace(raw[pos]) {
			pos++
		}
		if pos >= len(raw) {
			a.HasValue = true
			out = append(out, a)
			attrIdx++
			break
		}

		a.HasValue = true
		if raw[pos] == '"' || raw[pos] == '\'' {
			quote := raw[pos]
			if quote == '"' {
				a.Quote = QuoteDouble
			} else {
				a.Quote = QuoteSingle
			}
			pos++
			valStart := pos
			for pos < len(raw) && raw[pos] != quote {
				pos++
			}
			valEnd := pos
			if pos < len(raw) {
				pos++ // skip closing quote
			}
			a.ValueSpan = span.New(base+uint32(valStart), base+uint32(valEnd))
		} else {
			a.Quote = QuoteNone
			valStart := pos
			for pos < len(raw) && !isSpace(raw[pos]) && raw[pos] != '>' {
				pos++
			}
			a.ValueSpan = span.New(base+uint32(valStart), base+uint32(pos))
		}
		out = append(out, a)
		attrIdx++
	}

	return nameSpan, out
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f'
}

// firstWord returns the whitespace-delimited word that follows "doctype" in
// raw (the doctype name) and its span.
func firstWord(raw []byte, base uint32) (string, span.Span) {
	lower := strings.ToLower(string(raw))
	idx := strings.Index(lower, "doctype")
	if idx == -1 {
		return "", span.Span{}
	}
	start := idx + len("doctype")
	for start < len(raw) && isSpace(raw[start]) {
		start++
	}
	end := start
	for end < len(raw) && !isSpace(raw[end]) && raw[end] != '>' {
		end++
	}
	if start >= end {
		return "", span.Span{}
	}
	return string(raw[start:end]), span.New(base+uint32(start), base+uint32(end))
}

// classifyError maps the stdlib tokenizer's coarse error into the closed
// diag.Tag taxonomy. golang.org/x/net/html's Tokenizer does not expose the
// full ~40-tag HTML5 parse-error granularity spec.md describes (it is not a
// conformance-checking tokenizer); this recovers the common, testable
// subset by inspecting the malformed raw bytes directly and otherwise
// reports a generic but still-tagged diagnostic rather than losing the
// error.
func classifyError(raw []byte, err error) diag.Tag {
	if bytes.IndexByte(raw, 0x00) != -1 {
		return diag.TagUnexpectedNull
	}
	if err == io.ErrUnexpectedEOF {
		return diag.TagEOFInTag
	}
	s := strings.ToLower(err.Error())
	switch {
	case strings.Contains(s, "comment"):
		return diag.TagEOFInComment
	case strings.Contains(s, "doctype"):
		return diag.TagEOFInDoctype
	case strings.Contains(s, "tag name"):
		return diag.TagInvalidFirstCharacterOfTagName
	default:
		return diag.TagEOFInTag
	}
}
