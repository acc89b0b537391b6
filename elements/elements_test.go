package elements_test

import (
	"testing"

	"github.com/dpotapov/superhtml/elements"
	"github.com/stretchr/testify/assert"
)

func TestLookupKnownElement(t *testing.T) {
	e, ok := elements.Lookup("DIV")
	assert.True(t, ok)
	assert.Equal(t, "div", e.Name)
	assert.False(t, e.Void)
}

func TestVoidElements(t *testing.T) {
	assert.True(t, elements.IsVoid("img"))
	assert.True(t, elements.IsVoid("BR"))
	assert.False(t, elements.IsVoid("span"))
}

func TestRawTextMode(t *testing.T) {
	assert.Equal(t, elements.RawTextRaw, elements.RawTextModeOf("script"))
	assert.Equal(t, elements.RawTextRCData, elements.RawTextModeOf("textarea"))
	assert.Equal(t, elements.RawTextNone, elements.RawTextModeOf("div"))
}

func TestAllowedAttrGlobalAndSpecific(t *testing.T) {
	_, ok := elements.AllowedAttr("div", "class")
	assert.True(t, ok)
	_, ok = elements.AllowedAttr("img", "src")
	assert.True(t, ok)
	_, ok = elements.AllowedAttr("div", "data-foo")
	assert.True(t, ok)
	_, ok = elements.AllowedAttr("div", "src") // not global, not div-specific
	assert.False(t, ok)
}

func TestValidTagName(t *testing.T) {
	assert.True(t, elements.ValidTagName("anything", elements.ModeOff))
	assert.True(t, elements.ValidTagName("div", elements.ModeStandard))
	assert.False(t, elements.ValidTagName("my-widget", elements.ModeStandard))
	assert.True(t, elements.ValidTagName("my-widget", elements.ModeWebComponents))
	assert.False(t, elements.ValidTagName("bogus", elements.ModeWebComponents))
}

func TestCanContain(t *testing.T) {
	assert.True(t, elements.CanContain(elements.ModelTransparent, elements.ModelFlow))
	assert.False(t, elements.CanContain(elements.ModelNone, elements.ModelFlow))
	assert.False(t, elements.CanContain(elements.ModelPhrasing, elements.ModelFlow))
	assert.True(t, elements.CanContain(elements.ModelPhrasing, elements.ModelPhrasing))
}

func TestNormalizeDoctype(t *testing.T) {
	name, ok := elements.NormalizeDoctype("html")
	assert.True(t, ok)
	assert.Equal(t, "html", name)

	_, ok = elements.NormalizeDoctype("HTML PUBLIC \"-//W3C//DTD XHTML 1.0//EN\"")
	assert.False(t, ok)

	_, ok = elements.NormalizeDoctype("mathml")
	assert.False(t, ok)
}
