package parser

import (
	"fmt"
	"strings"

	"hrm/replay-go/pkg/machine"
)

// Format renders a program back to canonical save-file text. The result
// parses to an executionally-equivalent program: same instructions, same
// resolved jump targets.
func Format(p *machine.Program) string {
	byIndex := make(map[int][]string, len(p.Labels))
	for _, l := range p.Labels {
		byIndex[l.Index] = append(byIndex[l.Index], l.Name)
	}

	var b strings.Builder
	b.WriteString(Header)
	b.WriteString("\n\n")
	for i, in := range p.Instructions {
		for _, name := range byIndex[i] {
			fmt.Fprintf(&b, "%s:\n", name)
		}
		fmt.Fprintf(&b, "    %s\n", in)
	}
	for _, name := range byIndex[len(p.Instructions)] {
		fmt.Fprintf(&b, "%s:\n", name)
	}
	return b.String()
}
