// Package elements holds the compile-time element and attribute tables
// spec.md §4.3 describes: content-model categories, void/raw-text flags,
// per-element attribute lists, and the global attribute list. The table is
// a map keyed by lowercase tag name; each entry also records the tag's
// golang.org/x/net/html/atom.Atom where one exists.
package elements

import (
	"strings"

	"golang.org/x/net/html/atom"
)

// ContentModel is the content-model category used by nesting validation.
type ContentModel int

const (
	ModelFlow ContentModel = iota
	ModelPhrasing
	ModelMetadata
	ModelTransparent
	ModelColgroup
	ModelAudioVideo
	ModelNone // raw-text/void elements with no meaningful child category
)

func (m ContentModel) String() string {
	switch m {
	case ModelFlow:
		return "flow content"
	case ModelPhrasing:
		return "phrasing content"
	case ModelMetadata:
		return "metadata content"
	case ModelTransparent:
		return "transparent content"
	case ModelColgroup:
		return "column group content"
	case ModelAudioVideo:
		return "audio/video content"
	default:
		return "no content"
	}
}

// RawTextMode controls how the tokenizer treats an element's body.
type RawTextMode int

const (
	RawTextNone RawTextMode = iota
	RawTextRCData
	RawTextRaw
)

// ValueModel describes the shape an attribute's value must conform to.
type ValueModel int

const (
	ValueAny ValueModel = iota
	ValueBool
	ValueEnum
	ValueURL
	ValueInteger
	ValueList
)

// AttrInfo is one entry of the attribute table.
type AttrInfo struct {
	Name        string
	Value       ValueModel
	Enum        []string // valid values when Value == ValueEnum
	Description string
}

// ElemInfo is one entry of the element table.
type ElemInfo struct {
	Tag          atom.Atom
	Name         string
	Category     ContentModel
	PermitsModel ContentModel // content model permitted as children
	Void         bool
	RawText      RawTextMode
	Attrs        map[string]AttrInfo
	Description  string
}

// ValidationMode controls how unknown tag names are treated (spec.md §4.3).
type ValidationMode int

const (
	ModeOff ValidationMode = iota
	ModeStandard
	ModeWebComponents
)

// globalAttrs is the set of attributes permitted on every element.
var globalAttrs = map[string]AttrInfo{
	"id":    {Name: "id", Value: ValueAny, Description: "Unique identifier"},
	"class": {Name: "class", Value: ValueList, Description: "Space-separated list of classes"},
	"lang":  {Name: "lang", Value: ValueAny, Description: "Language tag"},
	"title": {Name: "title", Value: ValueAny, Description: "Advisory title"},
	"style": {Name: "style", Value: ValueAny, Description: "Inline CSS (token stub only)"},
	"dir":   {Name: "dir", Value: ValueEnum, Enum: []string{"ltr", "rtl", "auto"}, Description: "Text direction"},
	"hidden":        {Name: "hidden", Value: ValueBool, Description: "Hide the element"},
	"tabindex":      {Name: "tabindex", Value: ValueInteger, Description: "Tab order"},
	"accesskey":     {Name: "accesskey", Value: ValueAny, Description: "Keyboard shortcut"},
	"contenteditable": {Name: "contenteditable", Value: ValueEnum, Enum: []string{"true", "false", ""}, Description: "Editable in place"},
	"draggable":     {Name: "draggable", Value: ValueEnum, Enum: []string{"true", "false"}, Description: "Drag support"},
	"spellcheck":    {Name: "spellcheck", Value: ValueEnum, Enum: []string{"true", "false"}, Description: "Spellcheck hint"},
	"onclick":       {Name: "onclick", Value: ValueAny, Description: "Click event handler"},
	"onchange":      {Name: "onchange", Value: ValueAny, Description: "Change event handler"},
	"onsubmit":      {Name: "onsubmit", Value: ValueAny, Description: "Submit event handler"},
	"data-*":        {Name: "data-*", Value: ValueAny, Description: "Custom data attribute prefix"},
}

func attrList(infos ...AttrInfo) map[string]AttrInfo {
	m := make(map[string]AttrInfo, len(infos))
	for _, a := range infos {
		m[a.Name] = a
	}
	return m
}

// Table is the closed set of recognized HTML elements, keyed by tag name
// (lowercase). It covers the elements needed for nesting validation and
// formatting per spec.md's Non-goals (not a full HTML5 conformance suite).
var Table = buildTable()

func buildTable() map[string]*ElemInfo {
	t := map[string]*ElemInfo{}
	add := func(e ElemInfo) {
		t[e.Name] = &e
	}

	// Document metadata
	add(ElemInfo{Tag: atom.Html, Name: "html", Category: ModelFlow, PermitsModel: ModelFlow})
	add(ElemInfo{Tag: atom.Head, Name: "head", Category: ModelMetadata, PermitsModel: ModelMetadata})
	add(ElemInfo{Tag: atom.Title, Name: "title", Category: ModelMetadata, PermitsModel: ModelNone, RawText: RawTextRCData})
	add(ElemInfo{Tag: atom.Base, Name: "base", Category: ModelMetadata, Void: true, Attrs: attrList(
		AttrInfo{Name: "href", Value: ValueURL}, AttrInfo{Name: "target", Value: ValueAny})})
	add(ElemInfo{Tag: atom.Link, Name: "link", Category: ModelMetadata, Void: true, Attrs: attrList(
		AttrInfo{Name: "rel", Value: ValueAny}, AttrInfo{Name: "href", Value: ValueURL}, AttrInfo{Name: "type", Value: ValueAny})})
	add(ElemInfo{Tag: atom.Meta, Name: "meta", Category: ModelMetadata, Void: true, Attrs: attrList(
		AttrInfo{Name: "name", Value: ValueAny}, AttrInfo{Name: "content", Value: ValueAny}, AttrInfo{Name: "charset", Value: ValueAny})})
	add(ElemInfo{Tag: atom.Style, Name: "style", Category: ModelMetadata, PermitsModel: ModelNone, RawText: RawTextRaw})
	add(ElemInfo{Tag: atom.Script, Name: "script", Category: ModelMetadata, PermitsModel: ModelNone, RawText: RawTextRaw, Attrs: attrList(
		AttrInfo{Name: "src", Value: ValueURL}, AttrInfo{Name: "type", Value: ValueAny}, AttrInfo{Name: "async", Value: ValueBool}, AttrInfo{Name: "defer", Value: ValueBool})})

	// Sections
	add(ElemInfo{Tag: atom.Body, Name: "body", Category: ModelFlow, PermitsModel: ModelFlow})
	for _, name := range []string{"article", "aside", "nav", "section", "header", "footer", "main", "address"} {
		add(ElemInfo{Name: name, Category: ModelFlow, PermitsModel: ModelFlow})
	}
	for i := 1; i <= 6; i++ {
		add(ElemInfo{Name: "h" + itoa(i), Category: ModelFlow, PermitsModel: ModelPhrasing})
	}
	add(ElemInfo{Tag: atom.Hgroup, Name: "hgroup", Category: ModelFlow, PermitsModel: ModelFlow})

	// Grouping content
	for _, name := range []string{"div", "blockquote", "figure", "figcaption", "details", "dialog", "fieldset"} {
		add(ElemInfo{Name: name, Category: ModelFlow, PermitsModel: ModelFlow})
	}
	add(ElemInfo{Tag: atom.P, Name: "p", Category: ModelFlow, PermitsModel: ModelPhrasing})
	add(ElemInfo{Tag: atom.Hr, Name: "hr", Category: ModelFlow, Void: true})
	add(ElemInfo{Tag: atom.Pre, Name: "pre", Category: ModelFlow, PermitsModel: ModelPhrasing})
	add(ElemInfo{Tag: atom.Ol, Name: "ol", Category: ModelFlow, PermitsModel: ModelNone, Attrs: attrList(
		AttrInfo{Name: "start", Value: ValueInteger}, AttrInfo{Name: "reversed", Value: ValueBool})})
	add(ElemInfo{Tag: atom.Ul, Name: "ul", Category: ModelFlow, PermitsModel: ModelNone})
	add(ElemInfo{Tag: atom.Li, Name: "li", Category: ModelFlow, PermitsModel: ModelFlow, Attrs: attrList(AttrInfo{Name: "value", Value: ValueInteger})})
	add(ElemInfo{Tag: atom.Dl, Name: "dl", Category: ModelFlow, PermitsModel: ModelNone})
	add(ElemInfo{Tag: atom.Dt, Name: "dt", Category: ModelFlow, PermitsModel: ModelFlow})
	add(ElemInfo{Tag: atom.Dd, Name: "dd", Category: ModelFlow, PermitsModel: ModelFlow})

	// Text-level semantics (phrasing)
	for _, name := range []string{"a", "em", "strong", "small", "s", "cite", "q", "dfn", "abbr",
		"ruby", "rt", "rp", "data", "time", "code", "var", "samp", "kbd", "sub", "sup", "i", "b",
		"u", "mark", "bdi", "bdo", "span"} {
		add(ElemInfo{Name: name, Category: ModelPhrasing, PermitsModel: ModelPhrasing})
	}
	add(ElemInfo{Tag: atom.Br, Name: "br", Category: ModelPhrasing, Void: true})
	add(ElemInfo{Tag: atom.Wbr, Name: "wbr", Category: ModelPhrasing, Void: true})

	// Edits
	add(ElemInfo{Tag: atom.Ins, Name: "ins", Category: ModelFlow, PermitsModel: ModelTransparent})
	add(ElemInfo{Tag: atom.Del, Name: "del", Category: ModelFlow, PermitsModel: ModelTransparent})

	// Embedded content
	add(ElemInfo{Tag: atom.Img, Name: "img", Category: ModelPhrasing, Void: true, Attrs: attrList(
		AttrInfo{Name: "src", Value: ValueURL}, AttrInfo{Name: "alt", Value: ValueAny},
		AttrInfo{Name: "width", Value: ValueInteger}, AttrInfo{Name: "height", Value: ValueInteger},
		AttrInfo{Name: "loading", Value: ValueEnum, Enum: []string{"eager", "lazy"}})})
	add(ElemInfo{Tag: atom.Iframe, Name: "iframe", Category: ModelPhrasing, PermitsModel: ModelNone, Attrs: attrList(AttrInfo{Name: "src", Value: ValueURL})})
	add(ElemInfo{Tag: atom.Embed, Name: "embed", Category: ModelPhrasing, Void: true})
	add(ElemInfo{Tag: atom.Object, Name: "object", Category: ModelPhrasing, PermitsModel: ModelTransparent})
	add(ElemInfo{Tag: atom.Param, Name: "param", Category: ModelNone, Void: true})
	add(ElemInfo{Tag: atom.Video, Name: "video", Category: ModelAudioVideo, PermitsModel: ModelTransparent, Attrs: attrList(
		AttrInfo{Name: "src", Value: ValueURL}, AttrInfo{Name: "controls", Value: ValueBool}, AttrInfo{Name: "autoplay", Value: ValueBool})})
	add(ElemInfo{Tag: atom.Audio, Name: "audio", Category: ModelAudioVideo, PermitsModel: ModelTransparent, Attrs: attrList(
		AttrInfo{Name: "src", Value: ValueURL}, AttrInfo{Name: "controls", Value: ValueBool})})
	add(ElemInfo{Tag: atom.Source, Name: "source", Category: ModelNone, Void: true, Attrs: attrList(
		AttrInfo{Name: "src", Value: ValueURL}, AttrInfo{Name: "type", Value: ValueAny})})
	add(ElemInfo{Tag: atom.Track, Name: "track", Category: ModelNone, Void: true})
	add(ElemInfo{Tag: atom.Canvas, Name: "canvas", Category: ModelPhrasing, PermitsModel: ModelTransparent})

	// Table content
	add(ElemInfo{Tag: atom.Table, Name: "table", Category: ModelFlow, PermitsModel: ModelNone})
	add(ElemInfo{Tag: atom.Caption, Name: "caption", Category: ModelNone, PermitsModel: ModelFlow})
	add(ElemInfo{Tag: atom.Colgroup, Name: "colgroup", Category: ModelNone, PermitsModel: ModelColgroup})
	add(ElemInfo{Tag: atom.Col, Name: "col", Category: ModelColgroup, Void: true, Attrs: attrList(AttrInfo{Name: "span", Value: ValueInteger})})
	add(ElemInfo{Tag: atom.Tbody, Name: "tbody", Category: ModelNone, PermitsModel: ModelNone})
	add(ElemInfo{Tag: atom.Thead, Name: "thead", Category: ModelNone, PermitsModel: ModelNone})
	add(ElemInfo{Tag: atom.Tfoot, Name: "tfoot", Category: ModelNone, PermitsModel: ModelNone})
	add(ElemInfo{Tag: atom.Tr, Name: "tr", Category: ModelNone, PermitsModel: ModelNone})
	add(ElemInfo{Tag: atom.Td, Name: "td", Category: ModelNone, PermitsModel: ModelFlow, Attrs: attrList(
		AttrInfo{Name: "colspan", Value: ValueInteger}, AttrInfo{Name: "rowspan", Value: ValueInteger})})
	add(ElemInfo{Tag: atom.Th, Name: "th", Category: ModelNone, PermitsModel: ModelFlow, Attrs: attrList(
		AttrInfo{Name: "colspan", Value: ValueInteger}, AttrInfo{Name: "rowspan", Value: ValueInteger}, AttrInfo{Name: "scope", Value: ValueEnum, Enum: []string{"row", "col", "rowgroup", "colgroup"}})})

	// Forms
	add(ElemInfo{Tag: atom.Form, Name: "form", Category: ModelFlow, PermitsModel: ModelFlow, Attrs: attrList(
		AttrInfo{Name: "action", Value: ValueURL}, AttrInfo{Name: "method", Value: ValueEnum, Enum: []string{"get", "post", "dialog"}})})
	add(ElemInfo{Tag: atom.Label, Name: "label", Category: ModelPhrasing, PermitsModel: ModelPhrasing, Attrs: attrList(AttrInfo{Name: "for", Value: ValueAny})})
	add(ElemInfo{Tag: atom.Input, Name: "input", Category: ModelPhrasing, Void: true, Attrs: attrList(
		AttrInfo{Name: "type", Value: ValueEnum, Enum: []string{"text", "password", "email", "number", "checkbox", "radio", "submit", "hidden", "file", "date", "search", "tel", "url", "range", "color"}},
		AttrInfo{Name: "name", Value: ValueAny}, AttrInfo{Name: "value", Value: ValueAny},
		AttrInfo{Name: "placeholder", Value: ValueAny}, AttrInfo{Name: "required", Value: ValueBool},
		AttrInfo{Name: "disabled", Value: ValueBool}, AttrInfo{Name: "checked", Value: ValueBool})})
	add(ElemInfo{Tag: atom.Button, Name: "button", Category: ModelPhrasing, PermitsModel: ModelPhrasing, Attrs: attrList(
		AttrInfo{Name: "type", Value: ValueEnum, Enum: []string{"submit", "reset", "button"}}, AttrInfo{Name: "disabled", Value: ValueBool})})
	add(ElemInfo{Tag: atom.Select, Name: "select", Category: ModelPhrasing, PermitsModel: ModelNone, Attrs: attrList(AttrInfo{Name: "multiple", Value: ValueBool})})
	add(ElemInfo{Tag: atom.Option, Name: "option", Category: ModelNone, PermitsModel: ModelNone, RawText: RawTextNone, Attrs: attrList(
		AttrInfo{Name: "value", Value: ValueAny}, AttrInfo{Name: "selected", Value: ValueBool}, AttrInfo{Name: "disabled", Value: ValueBool})})
	add(ElemInfo{Tag: atom.Optgroup, Name: "optgroup", Category: ModelNone, PermitsModel: ModelNone})
	add(ElemInfo{Tag: atom.Textarea, Name: "textarea", Category: ModelPhrasing, PermitsModel: ModelNone, RawText: RawTextRCData})
	add(ElemInfo{Tag: atom.Output, Name: "output", Category: ModelPhrasing, PermitsModel: ModelPhrasing, Attrs: attrList(AttrInfo{Name: "for", Value: ValueAny})})
	add(ElemInfo{Tag: atom.Progress, Name: "progress", Category: ModelPhrasing, PermitsModel: ModelPhrasing, Attrs: attrList(
		AttrInfo{Name: "value", Value: ValueAny}, AttrInfo{Name: "max", Value: ValueAny})})
	add(ElemInfo{Tag: atom.Meter, Name: "meter", Category: ModelPhrasing, PermitsModel: ModelPhrasing})
	add(ElemInfo{Tag: atom.Fieldset, Name: "fieldset", Category: ModelFlow, PermitsModel: ModelFlow})
	add(ElemInfo{Tag: atom.Legend, Name: "legend", Category: ModelNone, PermitsModel: ModelPhrasing})
	add(ElemInfo{Tag: atom.Datalist, Name: "datalist", Category: ModelPhrasing, PermitsModel: ModelNone})

	// Interactive
	add(ElemInfo{Tag: atom.Details, Name: "details", Category: ModelFlow, PermitsModel: ModelFlow, Attrs: attrList(AttrInfo{Name: "open", Value: ValueBool})})
	add(ElemInfo{Tag: atom.Summary, Name: "summary", Category: ModelNone, PermitsModel: ModelPhrasing})
	add(ElemInfo{Tag: atom.Dialog, Name: "dialog", Category: ModelFlow, PermitsModel: ModelFlow, Attrs: attrList(AttrInfo{Name: "open", Value: ValueBool})})

	// Misc void
	add(ElemInfo{Name: "area", Category: ModelPhrasing, Void: true})
	add(ElemInfo{Name: "command", Category: ModelPhrasing, Void: true})
	add(ElemInfo{Name: "keygen", Category: ModelPhrasing, Void: true})

	// Template-language vocabulary (tmplast). These are not real HTML
	// elements, but they live in the same document and must not trip
	// invalid_html_tag_name under ModeStandard.
	// extend is void: its block children are its top-level *siblings*, not
	// its HTML children (tmplast's block-mode walk operates on the
	// document root's children, following <extend>, not on <extend>'s own
	// subtree) — so `<extend template="layout">` never needs a close tag.
	add(ElemInfo{Name: "extend", Category: ModelNone, Void: true, Attrs: attrList(AttrInfo{Name: "template", Value: ValueAny})})
	add(ElemInfo{Name: "super", Category: ModelNone, PermitsModel: ModelNone})
	add(ElemInfo{Name: "ctx", Category: ModelTransparent, PermitsModel: ModelFlow})

	return t
}

func itoa(i int) string {
	return string(rune('0' + i))
}

// Lookup returns the element table entry for a lowercase tag name, and
// whether it was found.
func Lookup(name string) (*ElemInfo, bool) {
	e, ok := Table[strings.ToLower(name)]
	return e, ok
}

// IsVoid reports whether name is a known void element.
func IsVoid(name string) bool {
	e, ok := Lookup(name)
	return ok && e.Void
}

// RawTextModeOf returns the raw-text mode for name (RawTextNone if unknown).
func RawTextModeOf(name string) RawTextMode {
	if e, ok := Lookup(name); ok {
		return e.RawText
	}
	return RawTextNone
}

// IsHyphenated reports whether name contains a hyphen, the web-components
// exemption test for ValidationMode.
func IsHyphenated(name string) bool {
	return strings.Contains(name, "-")
}

// AllowedAttr looks up an attribute (element-specific first, then global).
func AllowedAttr(elemName, attrName string) (AttrInfo, bool) {
	attrName = strings.ToLower(attrName)
	if e, ok := Lookup(elemName); ok && e.Attrs != nil {
		if info, ok := e.Attrs[attrName]; ok {
			return info, true
		}
	}
	if info, ok := globalAttrs[attrName]; ok {
		return info, true
	}
	if strings.HasPrefix(attrName, "data-") {
		return globalAttrs["data-*"], true
	}
	return AttrInfo{}, false
}

// GlobalAttrNames returns the global attribute entries, used by
// completions. The order is map iteration order, not sorted.
func GlobalAttrNames() []AttrInfo {
	out := make([]AttrInfo, 0, len(globalAttrs))
	for _, a := range globalAttrs {
		out = append(out, a)
	}
	return out
}

// ValidTagName reports whether name is accepted under mode.
func ValidTagName(name string, mode ValidationMode) bool {
	switch mode {
	case ModeOff:
		return true
	case ModeWebComponents:
		if IsHyphenated(name) {
			return true
		}
		_, ok := Lookup(name)
		return ok
	default: // ModeStandard
		_, ok := Lookup(name)
		return ok
	}
}

// CanContain reports whether a parent with content model `parent` may
// directly contain a child whose category is `child`. ModelTransparent
// parents permit anything; ModelNone parents permit nothing.
func CanContain(parent ContentModel, child ContentModel) bool {
	switch parent {
	case ModelTransparent:
		return true
	case ModelNone:
		return false
	case ModelFlow:
		return true // flow content accepts phrasing and flow children
	case ModelPhrasing:
		return child == ModelPhrasing
	case ModelColgroup:
		return child == ModelColgroup
	case ModelMetadata:
		return child == ModelMetadata
	case ModelAudioVideo:
		return true
	default:
		return false
	}
}
