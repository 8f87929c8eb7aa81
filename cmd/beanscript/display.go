package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/aledsdavies/beanscript/internal/compile"
	"github.com/aledsdavies/beanscript/internal/instruction"
)

var (
	idStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4"))
	kindStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

// DisplayPlan renders a compiled Program's execution list as a tree: each
// top-level transaction, with its sub-instructions indented beneath it
// (a start/stop node is printed without its target's subtree). Used by
// --dry-run, which compiles the script but never touches the driver sink.
func DisplayPlan(w io.Writer, p *compile.Program, useColor bool) {
	if len(p.ExecutionList) == 0 {
		fmt.Fprintln(w, style(hintStyle, "(empty execution list)", useColor))
		return
	}
	for i, id := range p.ExecutionList {
		isLast := i == len(p.ExecutionList)-1
		renderNode(w, p, id, 0, isLast, useColor)
	}
}

func renderNode(w io.Writer, p *compile.Program, id string, depth int, isLast, useColor bool) {
	inst, err := p.Table.Get(id)
	if err != nil {
		fmt.Fprintf(w, "%s%s (unresolved)\n", indent(depth), id)
		return
	}

	prefix := "├─ "
	if isLast {
		prefix = "└─ "
	}
	fmt.Fprintf(w, "%s%s%s %s\n",
		indent(depth), prefix,
		style(kindStyle, string(inst.Kind), useColor),
		style(idStyle, inst.ID, useColor))

	if inst.Kind == instruction.Start || inst.Kind == instruction.Stop {
		return
	}
	for i, child := range inst.Children {
		renderNode(w, p, child, depth+1, i == len(inst.Children)-1, useColor)
	}
}

func indent(depth int) string {
	out := ""
	for i := 0; i < depth; i++ {
		out += "   "
	}
	return out
}
