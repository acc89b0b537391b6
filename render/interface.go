package render

import (
	"strings"

	"github.com/dpotapov/superhtml/tmplast"
)

// Interface renders tree's extended-template interface as an HTML stub:
// one `<TAG id="...">` per entry in tree.Interface, each wrapping a single
// `<super></super>` placeholder, in interface declaration order
// (SPEC_FULL.md §4.4 — the `interface FILE` CLI command's output).
func Interface(tree *tmplast.Tree) string {
	var b strings.Builder
	for i, id := range tree.InterfaceOrd {
		idx := tree.Interface[id]
		node := tree.Node(idx)
		tag := tree.HTML.Node(node.Elem).Tag
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("<")
		b.WriteString(tag)
		b.WriteString(` id="`)
		b.WriteString(id)
		b.WriteString(`">`)
		b.WriteString("<super></super></")
		b.WriteString(tag)
		b.WriteString(">")
	}
	return b.String()
}
