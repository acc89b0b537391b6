package interp_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dpotapov/superhtml/elements"
	"github.com/dpotapov/superhtml/exprvm"
	"github.com/dpotapov/superhtml/htmlast"
	"github.com/dpotapov/superhtml/htmltok"
	"github.com/dpotapov/superhtml/interp"
	"github.com/dpotapov/superhtml/tmplast"
)

func source(t *testing.T, path, src string) *interp.TemplateSource {
	t.Helper()
	h := htmlast.Build([]byte(src), htmltok.SuperHTML, htmlast.Options{Mode: elements.ModeStandard})
	require.False(t, h.Errors(), "html errors in %s", path)
	ta := tmplast.Build(h)
	require.False(t, ta.Errors(), "template errors in %s", path)
	return &interp.TemplateSource{Path: path, Src: []byte(src), HTML: h, Template: ta}
}

// render runs a single-template (no extend) program to completion and
// returns the rendered output.
func render(t *testing.T, src string) string {
	t.Helper()
	var out, errw strings.Builder
	ip := interp.New(exprvm.New(), &out, &errw)
	ip.Start(source(t, "content.html", src))
	require.NoError(t, ip.Advance())
	require.Equal(t, interp.StatusDone, ip.Status())
	return out.String()
}

func TestPassThroughOnly(t *testing.T) {
	got := render(t, `<p>hello <b>world</b></p>`)
	require.Equal(t, `<p>hello <b>world</b></p>`, got)
}

func TestIfTrueKeepsElement(t *testing.T) {
	got := render(t, `<span :if="$true">yes</span>`)
	require.Equal(t, `<span>yes</span>`, got)
}

func TestIfFalseSkipsWholeElement(t *testing.T) {
	got := render(t, `before<span :if="$false">yes</span>after`)
	require.Equal(t, `beforeafter`, got)
}

func TestLoopRendersBodyPerItem(t *testing.T) {
	got := render(t, `<ul><li :loop="$[1,2,3]"><b :text="$loop.it"></b></li></ul>`)
	require.Equal(t, `<ul><li><b>1</b></li><li><b>2</b></li><li><b>3</b></li></ul>`, got)
}

func TestElseRendersWhenIfFalse(t *testing.T) {
	got := render(t, `<span :if="$false">A</span><span :else>B</span>`)
	require.Equal(t, `<span>B</span>`, got)
}

func TestElseSkippedWhenIfTrue(t *testing.T) {
	got := render(t, `<span :if="$true">A</span><span :else>B</span>`)
	require.Equal(t, `<span>A</span>`, got)
}

func TestElseNotAdjacentIsFatal(t *testing.T) {
	var out, errw strings.Builder
	ip := interp.New(exprvm.New(), &out, &errw)
	ip.Start(source(t, "content.html", `<span>A</span><span :else>B</span>`))
	err := ip.Advance()
	require.Error(t, err)
	require.Equal(t, interp.StatusFatal, ip.Status())
}

func TestLoopOverEmptyArraySkipsWholeElement(t *testing.T) {
	got := render(t, `<ul><li :loop="$[]">x</li></ul>`)
	require.Equal(t, `<ul></ul>`, got)
}

func TestTextEscapesOutput(t *testing.T) {
	got := render(t, `<span :text="$'<b>&'"></span>`)
	require.Equal(t, `<span>&lt;b&gt;&amp;</span>`, got)
}

func TestHTMLDoesNotEscapeOutput(t *testing.T) {
	got := render(t, `<div :html="$'<b>hi</b>'"></div>`)
	require.Equal(t, `<div><b>hi</b></div>`, got)
}

func TestScriptedAttributeSubstitution(t *testing.T) {
	got := render(t, `<a href='$"/x"' class="static">link</a>`)
	require.Equal(t, `<a href="/x" class="static">link</a>`, got)
}

func TestCtxBindingScopesExpression(t *testing.T) {
	got := render(t, `<ctx name="$'Ada'"><span :text="$name"></span></ctx>`)
	require.Equal(t, `<span>Ada</span>`, got)
}

func TestExtendSuperRendersBlockContent(t *testing.T) {
	layout := source(t, "layout.html", `<body><main id="content"><super></super></main></body>`)
	content := source(t, "content.html", `<extend template="layout"><main id="content">hello</main>`)

	var out, errw strings.Builder
	ip := interp.New(exprvm.New(), &out, &errw)
	ip.Start(content)
	require.NoError(t, ip.Advance())
	require.Equal(t, interp.StatusWantTemplate, ip.Status())

	name, _ := ip.WantTemplate()
	require.Equal(t, "layout", name)
	ip.InsertTemplate(layout)

	require.NoError(t, ip.Advance())
	require.Equal(t, interp.StatusDone, ip.Status())
	require.Equal(t, `<body><main id="content">hello</main></body>`, out.String())
}

func TestExtensionLoopIsFatal(t *testing.T) {
	a := source(t, "a", `<extend template="b"><main id="x">a</main>`)
	b := source(t, "b", `<extend template="a"><main id="x">b</main>`)

	var out, errw strings.Builder
	ip := interp.New(exprvm.New(), &out, &errw)
	ip.Start(a)
	require.NoError(t, ip.Advance())
	require.Equal(t, interp.StatusWantTemplate, ip.Status())
	ip.InsertTemplate(b)

	err := ip.Advance()
	require.Error(t, err)
	require.Equal(t, interp.StatusFatal, ip.Status())
}

func TestLoopQuotaExhaustionIsFatal(t *testing.T) {
	big := make([]string, 0, 200)
	for i := 0; i < 200; i++ {
		big = append(big, "1")
	}
	src := `<ul><li :loop="$[` + strings.Join(big, ",") + `]"><b :text="$loop.it"></b></li></ul>`

	var out, errw strings.Builder
	ip := interp.New(exprvm.New(), &out, &errw, interp.WithQuota(10))
	ip.Start(source(t, "content.html", src))
	err := ip.Advance()
	require.Error(t, err)
	require.Equal(t, interp.StatusFatal, ip.Status())
}
