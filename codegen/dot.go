package codegen

import (
	"fmt"
	"strings"

	"github.com/Sushisource/fsmgen/machine"
)

// GenerateDOT renders the transition table as a Graphviz digraph, one node
// per state and one labeled edge per transition. Output is deterministic:
// nodes in sorted order, edges in declaration order.
func GenerateDOT(def *machine.Definition) string {
	var b strings.Builder
	fmt.Fprintf(&b, "digraph %s {\n", def.Name)
	b.WriteString("\trankdir=LR;\n")
	b.WriteString("\tnode [shape=box, style=rounded];\n")
	for _, s := range def.StateNames() {
		fmt.Fprintf(&b, "\t%q;\n", s)
	}
	for _, t := range def.Transitions {
		label := t.Event.String()
		if t.Handler != "" {
			label += " / " + t.Handler
		}
		fmt.Fprintf(&b, "\t%q -> %q [label=%q];\n", t.From, t.To, label)
	}
	b.WriteString("}\n")
	return b.String()
}
