package render_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpotapov/superhtml/elements"
	"github.com/dpotapov/superhtml/htmlast"
	"github.com/dpotapov/superhtml/htmltok"
	"github.com/dpotapov/superhtml/render"
	"github.com/dpotapov/superhtml/tmplast"
)

func parse(t *testing.T, src string) *htmlast.Tree {
	t.Helper()
	return htmlast.Build([]byte(src), htmltok.HTML, htmlast.Options{Mode: elements.ModeStandard})
}

func TestFormatRefusesOnErrors(t *testing.T) {
	tree := parse(t, `<div><p>unclosed`)
	_, err := render.Format(tree)
	assert.ErrorIs(t, err, render.ErrHasErrors)
}

func TestFormatCanonicalDoctype(t *testing.T) {
	tree := parse(t, `<!DOCTYPE HTML><html><body></body></html>`)
	out, err := render.Format(tree)
	require.NoError(t, err)
	assert.Contains(t, out, "<!DOCTYPE html>")
}

func TestFormatIdempotent(t *testing.T) {
	tree := parse(t, `<!DOCTYPE html><html><body><p>hi</p></body></html>`)
	out1, err := render.Format(tree)
	require.NoError(t, err)

	tree2 := parse(t, out1)
	require.False(t, tree2.Errors())
	out2, err := render.Format(tree2)
	require.NoError(t, err)

	assert.Equal(t, out1, out2)
}

func TestFormatNormalizesQuotes(t *testing.T) {
	tree := parse(t, `<div class='a'></div>`)
	out, err := render.Format(tree)
	require.NoError(t, err)
	assert.Contains(t, out, `class="a"`)
}

func TestFormatDropsBooleanAttributeValue(t *testing.T) {
	tree := parse(t, `<input disabled="">`)
	out, err := render.Format(tree)
	require.NoError(t, err)
	assert.Contains(t, out, `<input disabled>`)
	assert.NotContains(t, out, `disabled=""`)
}

func TestInterfaceStub(t *testing.T) {
	h := htmlast.Build([]byte(`<body><main id="content"><super></super></main></body>`), htmltok.SuperHTML, htmlast.Options{Mode: elements.ModeStandard})
	tr := tmplast.Build(h)
	require.False(t, tr.Errors())

	out := render.Interface(tr)
	assert.Equal(t, `<main id="content"><super></super></main>`, out)
}
