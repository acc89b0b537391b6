package tmplast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpotapov/superhtml/diag"
	"github.com/dpotapov/superhtml/elements"
	"github.com/dpotapov/superhtml/htmlast"
	"github.com/dpotapov/superhtml/htmltok"
	"github.com/dpotapov/superhtml/tmplast"
)

func build(t *testing.T, src string) *tmplast.Tree {
	t.Helper()
	h := htmlast.Build([]byte(src), htmltok.SuperHTML, htmlast.Options{Mode: elements.ModeStandard})
	return tmplast.Build(h)
}

func TestIfElse(t *testing.T) {
	tr := build(t, `<span :if="$foo">A</span><span :else>B</span>`)
	require.False(t, tr.Errors())

	root := tr.Node(tmplast.Root)
	first := tr.Node(root.FirstChildIdx)
	assert.Equal(t, tmplast.SpecialIf, first.Special)
	assert.Equal(t, "foo", first.SpecialExpr)

	second := tr.Node(first.NextIdx)
	assert.True(t, second.Else)
}

func TestLoopWithTextBody(t *testing.T) {
	tr := build(t, `<ul><li :loop="$items"><span :text="$loop.it"></span></li></ul>`)
	require.False(t, tr.Errors())

	li := tr.Node(tr.Node(tmplast.Root).FirstChildIdx)
	assert.Equal(t, tmplast.SpecialLoop, li.Special)
	assert.Equal(t, "items", li.SpecialExpr)

	span := tr.Node(li.FirstChildIdx)
	assert.Equal(t, tmplast.TextHTMLText, span.TextHTML)
	assert.Equal(t, "loop.it", span.TextHTMLExpr)
}

func TestExtendBlockMode(t *testing.T) {
	tr := build(t, `<extend template="layout"><main id="content">Hello</main>`)
	require.False(t, tr.Errors())
	require.NotEqual(t, tmplast.None, tr.ExtendsIdx)
	assert.Equal(t, "layout", tr.Node(tr.ExtendsIdx).ID)

	blockIdx, ok := tr.Blocks["content"]
	require.True(t, ok)
	assert.Equal(t, tmplast.KindBlock, tr.Node(blockIdx).Kind)
}

func TestSuperBlockInterface(t *testing.T) {
	tr := build(t, `<body><main id="content"><super></super></main></body>`)
	require.False(t, tr.Errors())

	idx, ok := tr.Interface["content"]
	require.True(t, ok)
	assert.Equal(t, tmplast.KindSuperBlock, tr.Node(idx).Kind)
}

func TestUnexpectedExtendNotFirst(t *testing.T) {
	tr := build(t, `<div></div><extend template="layout"></extend>`)
	var found bool
	for _, d := range tr.Diagnostics {
		if d.Tag == diag.TagUnexpectedExtend {
			found = true
		}
	}
	assert.True(t, found)
}

func TestTextAndHTMLMutuallyExclusive(t *testing.T) {
	tr := build(t, `<span :text="$a" :html="$b"></span>`)
	var found bool
	for _, d := range tr.Diagnostics {
		if d.Tag == diag.TagTextAndHTMLMutuallyExclusive {
			found = true
		}
	}
	assert.True(t, found)
}

func TestCtxRequiresScriptedAttrs(t *testing.T) {
	tr := build(t, `<ctx name="plain"></ctx>`)
	var found bool
	for _, d := range tr.Diagnostics {
		if d.Tag == diag.TagCtxAttrsMustBeScripted {
			found = true
		}
	}
	assert.True(t, found)
}

func TestIDUnderLoopFlagsLoopedElementItself(t *testing.T) {
	tr := build(t, `<li :loop="$items" id="row"></li>`)
	var found bool
	for _, d := range tr.Diagnostics {
		if d.Tag == diag.TagIDUnderLoop {
			found = true
		}
	}
	assert.True(t, found)
}

func TestIDUnderLoopFlagsNestedDescendant(t *testing.T) {
	tr := build(t, `<div :loop="$items"><section><span id="x"></span></section></div>`)
	var count int
	for _, d := range tr.Diagnostics {
		if d.Tag == diag.TagIDUnderLoop {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestScriptedPlainAttr(t *testing.T) {
	tr := build(t, `<a href="$url">x</a>`)
	a := tr.Node(tr.Node(tmplast.Root).FirstChildIdx)
	require.Len(t, a.Attrs, 1)
	assert.Equal(t, "href", a.Attrs[0].Name)
	assert.Equal(t, "url", a.Attrs[0].Expr)
}
