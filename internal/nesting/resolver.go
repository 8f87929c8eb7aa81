// Package nesting implements the nesting resolver (component F): it
// converts indentation into parent-child edges over the instruction
// table, and collects every top-level transaction into the execution
// list, per spec.md §4.F.
package nesting

import (
	"fmt"

	"github.com/aledsdavies/beanscript/internal/beanerr"
	"github.com/aledsdavies/beanscript/internal/instruction"
	"github.com/aledsdavies/beanscript/internal/table"
)

type node struct {
	id     string
	indent int
}

// Resolver wires parse-tree builder output into the instruction graph,
// running in the same pass as parsing over a running list L of
// already-parsed instruction ids in source order (spec.md §4.F).
type Resolver struct {
	tbl     *table.Table
	l       []node
	execIDs []string
}

// New creates a Resolver over tbl.
func New(tbl *table.Table) *Resolver {
	return &Resolver{tbl: tbl}
}

// Attach wires the instruction just registered under id (at the given
// indent, originating from lineNo) into the graph. At indent 0, a
// transactional instruction is appended to the execution list;
// non-transactional indent-0 definitions are stored but not executed
// directly. At indent > 0, the nearest strictly-shallower preceding line
// becomes the logical parent, and id is appended to that parent's
// Children — it is not placed in the execution list. The parent must be a
// group or scheduler, and the child any kind except script/window.
func (r *Resolver) Attach(id string, lineNo int) error {
	inst, err := r.tbl.Get(id)
	if err != nil {
		return beanerr.Wrap(beanerr.Semantic, lineNo, "internal", err)
	}

	if inst.Indent == 0 {
		r.l = append(r.l, node{id: id, indent: 0})
		if inst.Kind.IsTransaction() {
			r.execIDs = append(r.execIDs, id)
		}
		return nil
	}

	parent, ok := r.findParent(inst.Indent)
	if !ok {
		return beanerr.New(beanerr.Semantic, lineNo, "orphan-indent",
			fmt.Sprintf("line %d is indented but has no enclosing instruction", lineNo))
	}

	parentInst, err := r.tbl.Get(parent.id)
	if err != nil {
		return beanerr.Wrap(beanerr.Semantic, lineNo, "internal", err)
	}
	parentTakesChildren := parentInst.Kind == instruction.Group || parentInst.Kind.IsScheduler()
	if !parentTakesChildren || !instruction.CanBeChildOf(inst.Kind) {
		return beanerr.New(beanerr.Semantic, lineNo, "kind-misuse",
			fmt.Sprintf("%s cannot be nested under %s (%s)", inst.Kind, parentInst.Kind, parent.id))
	}

	parentInst.AppendChild(id)
	r.l = append(r.l, node{id: id, indent: inst.Indent})
	return nil
}

// findParent scans L from most recent to oldest for the first instruction
// whose indent is strictly less than d.
func (r *Resolver) findParent(d int) (node, bool) {
	for i := len(r.l) - 1; i >= 0; i-- {
		if r.l[i].indent < d {
			return r.l[i], true
		}
	}
	return node{}, false
}

// ExecutionList returns the ordered sequence of instruction ids collected
// from every transactional instruction found at indent 0, in source
// order.
func (r *Resolver) ExecutionList() []string {
	out := make([]string, len(r.execIDs))
	copy(out, r.execIDs)
	return out
}
