package tmplast

import (
	"strings"

	"github.com/dpotapov/superhtml/diag"
	"github.com/dpotapov/superhtml/span"
)

// InterfaceDiag is a pre-diagnostic produced by ValidateAdjacent. Interface
// validation spans two distinct Trees (the extending and extended
// templates), so it can't reduce straight to a diag.Diagnostic without the
// caller telling it which of the two source files each span belongs to;
// the interpreter (which holds both) does that conversion.
type InterfaceDiag struct {
	Tag          diag.Tag
	Main         span.Span
	MainInExtend bool // true: Main is a span in e's source; false: in x's
	Related      *span.Span
}

// ValidateAdjacent checks the contract between one adjacent pair in an
// extend chain: e (the extending/child template) and x (the extended
// template), per spec.md §4.5's "Interface validation". Called by the
// interpreter once the whole chain has been discovered.
func ValidateAdjacent(e, x *Tree) []InterfaceDiag {
	var out []InterfaceDiag

	for _, id := range x.InterfaceOrd {
		superIdx := x.Interface[id]
		superBlock := x.Node(superIdx)

		blockIdx, ok := e.Blocks[id]
		if !ok {
			out = append(out, InterfaceDiag{Tag: diag.TagMissingTopLevelBlock, Main: superBlock.IDSpan})
			continue
		}
		block := e.Node(blockIdx)
		if !strings.EqualFold(e.HTML.Node(block.Elem).Tag, x.HTML.Node(superBlock.Elem).Tag) {
			related := superBlock.IDSpan
			out = append(out, InterfaceDiag{Tag: diag.TagMismatchedBlockTag, Main: block.IDSpan, MainInExtend: true, Related: &related})
		}
	}

	for id, blockIdx := range e.Blocks {
		if _, ok := x.Interface[id]; !ok {
			out = append(out, InterfaceDiag{Tag: diag.TagUnboundTopLevelBlock, Main: e.Node(blockIdx).IDSpan, MainInExtend: true})
		}
	}

	return out
}
