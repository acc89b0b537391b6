// Package diag implements the SuperHTML diagnostic taxonomy: tagged,
// closed-sum-type errors carrying spans, a presenter that turns them into
// file:row:col snippets (grounded on chtml/err.go's ComponentError and
// SourceCodeContext), and the code actions the LSP surface exposes.
package diag

import (
	"fmt"

	"github.com/dpotapov/superhtml/span"
)

// Severity is the level a diagnostic is reported at.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Layer distinguishes which part of the pipeline raised a diagnostic.
type Layer int

const (
	LayerToken Layer = iota
	LayerHTML
	LayerTemplate
	LayerInterp
	LayerExpr
)

// Tag is a closed enumeration of diagnostic kinds, matching spec.md
// §4.2/§4.5/§7's taxonomy listing. Each Tag has a fixed Severity, set in
// severityByTag below; the Layer is carried by each Diagnostic.
type Tag string

// Token-level tags (§4.1) — not exhaustive (spec.md allows ~40; the common
// and testable subset is implemented).
const (
	TagUnexpectedNull                           Tag = "unexpected_null"
	TagMissingSemicolonAfterCharacterReference   Tag = "missing_semicolon_after_character_reference"
	TagEndTagWithAttributes                      Tag = "end_tag_with_attributes"
	TagEndTagWithTrailingSolidus                 Tag = "end_tag_with_trailing_solidus"
	TagUnexpectedEqualsSignBeforeAttributeName   Tag = "unexpected_equals_sign_before_attribute_name"
	TagUnexpectedCharacterInAttributeName        Tag = "unexpected_character_in_attribute_name"
	TagMissingAttributeValue                     Tag = "missing_attribute_value"
	TagUnexpectedCharacterInUnquotedAttributeValue Tag = "unexpected_character_in_unquoted_attribute_value"
	TagAbruptClosingOfEmptyComment               Tag = "abrupt_closing_of_empty_comment"
	TagIncorrectlyOpenedComment                  Tag = "incorrectly_opened_comment"
	TagEOFInTag                                  Tag = "eof_in_tag"
	TagEOFInComment                              Tag = "eof_in_comment"
	TagEOFInDoctype                              Tag = "eof_in_doctype"
	TagEOFBeforeTagName                          Tag = "eof_before_tag_name"
	TagInvalidFirstCharacterOfTagName            Tag = "invalid_first_character_of_tag_name"
)

// HTML-AST-level tags (§4.2).
const (
	TagMissingEndTag          Tag = "missing_end_tag"
	TagErroneousEndTag        Tag = "erroneous_end_tag"
	TagInvalidNesting         Tag = "invalid_nesting"
	TagDuplicateAttributeName Tag = "duplicate_attribute_name"
	TagDuplicateClass         Tag = "duplicate_class"
	TagDuplicateChild         Tag = "duplicate_child"
	TagInvalidHTMLTagName     Tag = "invalid_html_tag_name"
	TagUnsupportedDoctype     Tag = "unsupported_doctype"
)

// Template-AST-level tags (§4.5).
const (
	TagExtendWithoutTemplateAttr  Tag = "extend_without_template_attr"
	TagMissingTemplateValue       Tag = "missing_template_value"
	TagUnexpectedExtend           Tag = "unexpected_extend"
	TagTopLevelSuper              Tag = "top_level_super"
	TagSuperWantsNoAttributes     Tag = "super_wants_no_attributes"
	TagSuperParentElementMissingID Tag = "super_parent_element_missing_id"
	TagTwoSupersOneID             Tag = "two_supers_one_id"
	TagSuperUnderBranching        Tag = "super_under_branching"
	TagBlockMissingID             Tag = "block_missing_id"
	TagBlockWithScriptedID        Tag = "block_with_scripted_id"
	TagTemplateInterfaceIDCollision Tag = "template_interface_id_collision"
	TagDuplicateBlock             Tag = "duplicate_block"
	TagElseMustBeFirstAttr        Tag = "else_must_be_first_attr"
	TagElseWithValue              Tag = "else_with_value"
	TagElseNotAdjacent            Tag = "else_not_adjacent"
	TagOneBranchingAttributePerElement Tag = "one_branching_attribute_per_element"
	TagTextAndHTMLMutuallyExclusive Tag = "text_and_html_are_mutually_exclusive"
	TagTextAndHTMLRequireEmptyElement Tag = "text_and_html_require_an_empty_element"
	TagMissingAttributeValueTmpl  Tag = "missing_attribute_value"
	TagUnscriptedAttr             Tag = "unscripted_attr"
	TagIDUnderLoop                Tag = "id_under_loop"
	TagCtxAttrsMustBeScripted     Tag = "ctx_attrs_must_be_scripted"
	TagMissingTopLevelBlock       Tag = "missing_top_level_block"
	TagMismatchedBlockTag         Tag = "mismatched_block_tag"
	TagUnboundTopLevelBlock       Tag = "unbound_top_level_block"
)

// Interpreter-level tags (§4.6, §7).
const (
	TagUnresolvedTemplate  Tag = "unresolved_template"
	TagExtensionLoop       Tag = "extension_loop_detected"
	TagInfiniteLoop        Tag = "infinite_loop"
	TagScriptTypeMismatch  Tag = "script_type_mismatch"
	TagOutIO               Tag = "out_io"
	TagErrIO               Tag = "err_io"
)

var severityByTag = map[Tag]Severity{
	TagDuplicateClass:     SeverityWarning,
	TagUnsupportedDoctype: SeverityWarning,
}

// SeverityOf returns the severity a tag is reported at. Per SPEC_FULL.md §9
// decision 3, duplicate_class and unsupported_doctype are warnings
// everywhere (both LSP and CLI); everything else is an error.
func SeverityOf(t Tag) Severity {
	if s, ok := severityByTag[t]; ok {
		return s
	}
	return SeverityError
}

// Diagnostic is the common shape every error in the pipeline reduces to:
// a tag, a primary span, and an optional related span or reason string.
type Diagnostic struct {
	Layer   Layer
	Tag     Tag
	Main    span.Span
	Related *span.Span // optional related location (e.g. first occurrence)
	Reason  string      // optional structured reason (e.g. invalid_nesting message)
}

func (d Diagnostic) Severity() Severity { return SeverityOf(d.Tag) }

// Message renders the human-readable form of the diagnostic used by both
// the CLI presenter and the LSP's publishDiagnostics message field.
func (d Diagnostic) Message() string {
	if d.Reason != "" {
		return fmt.Sprintf("%s: %s", d.Tag, d.Reason)
	}
	return string(d.Tag)
}

// New builds a diagnostic with no related span or reason.
func New(layer Layer, tag Tag, main span.Span) Diagnostic {
	return Diagnostic{Layer: layer, Tag: tag, Main: main}
}

// WithRelated attaches a related span (e.g. the first occurrence for a
// duplicate_attribute_name diagnostic).
func (d Diagnostic) WithRelated(s span.Span) Diagnostic {
	d.Related = &s
	return d
}

// WithReason attaches a structured reason string (e.g. invalid_nesting's
// "p cannot contain flow content div").
func (d Diagnostic) WithReason(reason string) Diagnostic {
	d.Reason = reason
	return d
}
