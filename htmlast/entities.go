package htmlast

import "golang.org/x/net/html"

// DecodeEntities unescapes HTML character references. Called lazily, only
// when an attribute value or text run is actually consumed by the
// interpreter or by completion (spec.md §4.1, §9).
func DecodeEntities(raw string) string {
	return html.UnescapeString(raw)
}
