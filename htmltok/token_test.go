package htmltok_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpotapov/superhtml/htmltok"
)

func collect(src []byte) []htmltok.Token {
	tz := htmltok.New(src, htmltok.HTML)
	var toks []htmltok.Token
	for {
		tok := tz.Next()
		if tok.Kind == htmltok.KindEOF {
			break
		}
		toks = append(toks, tok)
	}
	return toks
}

func TestSpansReconstructInput(t *testing.T) {
	src := []byte(`<!DOCTYPE html><html><body>hi <b>there</b></body></html>`)
	toks := collect(src)
	require.NotEmpty(t, toks)

	// T1: concatenating token spans in order reconstructs the input.
	var buf []byte
	for _, tok := range toks {
		buf = append(buf, tok.Span.Slice(src)...)
	}
	assert.Equal(t, string(src), string(buf))
}

func TestStartTagAttributes(t *testing.T) {
	src := []byte(`<img src="a.png" alt='x' disabled data-foo=bar>`)
	toks := collect(src)
	require.Len(t, toks, 1)
	tok := toks[0]
	require.Equal(t, htmltok.KindStartTag, tok.Kind)
	assert.Equal(t, "img", tok.Name)

	attrs := tok.Attrs()
	require.Len(t, attrs, 4)
	assert.Equal(t, "src", attrs[0].Name)
	assert.True(t, attrs[0].HasValue)
	assert.Equal(t, htmltok.QuoteDouble, attrs[0].Quote)
	assert.Equal(t, "a.png", string(attrs[0].ValueSpan.Slice(src)))

	assert.Equal(t, "alt", attrs[1].Name)
	assert.Equal(t, htmltok.QuoteSingle, attrs[1].Quote)
	assert.Equal(t, "x", string(attrs[1].ValueSpan.Slice(src)))

	assert.Equal(t, "disabled", attrs[2].Name)
	assert.False(t, attrs[2].HasValue)

	assert.Equal(t, "data-foo", attrs[3].Name)
	assert.Equal(t, htmltok.QuoteNone, attrs[3].Quote)
	assert.Equal(t, "bar", string(attrs[3].ValueSpan.Slice(src)))
}

func TestSelfClosingTag(t *testing.T) {
	src := []byte(`<br/>`)
	toks := collect(src)
	require.Len(t, toks, 1)
	assert.Equal(t, htmltok.KindSelfClosingTag, toks[0].Kind)
	assert.True(t, toks[0].SelfClosing)
}

func TestRawTextScript(t *testing.T) {
	src := []byte(`<script>if (1 < 2) { x(); }</script>`)
	toks := collect(src)
	// start tag, text (raw), end tag
	var kinds []htmltok.Kind
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	assert.Equal(t, []htmltok.Kind{htmltok.KindStartTag, htmltok.KindText, htmltok.KindEndTag}, kinds)
	assert.Contains(t, string(toks[1].Span.Slice(src)), "x();")
}

func TestDoctypeName(t *testing.T) {
	src := []byte(`<!DOCTYPE html>`)
	toks := collect(src)
	require.Len(t, toks, 1)
	assert.Equal(t, htmltok.KindDoctype, toks[0].Kind)
	assert.Equal(t, "html", toks[0].Name)
}

func TestRestartFromOffset(t *testing.T) {
	src := []byte(`<p>one</p><p>two</p>`)
	tz := htmltok.NewAt(src, 10, htmltok.HTML)
	tok := tz.Next()
	assert.Equal(t, htmltok.KindStartTag, tok.Kind)
	assert.Equal(t, "p", tok.Name)
	assert.Equal(t, "<p>", string(tok.Span.Slice(src)))
}

func TestExtLanguage(t *testing.T) {
	lang, ok := htmltok.ExtLanguage(".shtml")
	assert.True(t, ok)
	assert.Equal(t, htmltok.SuperHTML, lang)

	_, ok = htmltok.ExtLanguage(".txt")
	assert.False(t, ok)
}
