// Grounded on chtml/doctype.go's parseDoctype, generalized from "etree
// document building" to the spec's "unsupported_doctype diagnostic +
// canonical re-emission" requirement (spec.md §4.2, §4.4 addition in
// SPEC_FULL.md §4.3).
package elements

import "strings"

// StandardDoctype is the only doctype spec.md does not flag as
// unsupported_doctype (case-insensitive compare).
const StandardDoctype = "html"

// NormalizeDoctype reports whether the raw doctype token data (without the
// leading "<!DOCTYPE" / trailing ">") is the standard HTML5 doctype: the
// bare name "html" with no public or system identifier after it.
func NormalizeDoctype(raw string) (name string, standard bool) {
	trimmed := strings.TrimSpace(raw)
	space := strings.IndexAny(trimmed, " \t\n\r\f")
	if space != -1 {
		trimmed = trimmed[:space]
	}
	name = strings.ToLower(trimmed)
	return name, name == StandardDoctype && space == -1
}

// CanonicalDoctype is the formatter's canonical re-emission of a doctype
// that passed NormalizeDoctype.
const CanonicalDoctype = "<!DOCTYPE html>"
