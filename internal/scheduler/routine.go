package scheduler

import (
	"fmt"

	"github.com/aledsdavies/beanscript/internal/table"
)

// Routine is the round-robin scheduler (component H): it cycles through
// its defining instruction's children in insertion order, advancing only
// when the current child executes successfully.
type Routine struct {
	id        string
	tbl       *table.Table
	cursor    int
	frozenEnd int // -1 means unfrozen
}

// NewRoutine creates a Routine over the instruction registered under id.
func NewRoutine(id string, tbl *table.Table) *Routine {
	return &Routine{id: id, tbl: tbl, frozenEnd: -1}
}

// Tick resolves the child at cursor and attempts to execute it. A
// not-ready result blocks the routine on that child until a later tick;
// on success the cursor advances and wraps per spec.md §4.H step 4.
func (r *Routine) Tick(exec Executor) error {
	inst, err := r.tbl.Get(r.id)
	if err != nil {
		return err
	}
	if len(inst.Children) == 0 {
		return nil
	}
	if r.cursor >= len(inst.Children) {
		r.cursor = 0
	}

	current := inst.Children[r.cursor]
	ready, err := exec.Execute(current)
	if err != nil {
		return fmt.Errorf("scheduler: routine %q: executing %q: %w", r.id, current, err)
	}
	if !ready {
		return nil
	}

	r.cursor++
	if r.frozenEnd >= 0 && r.cursor >= r.frozenEnd {
		r.cursor = 0
		r.frozenEnd = -1
	} else if r.cursor >= len(inst.Children) {
		r.cursor = 0
	}
	return nil
}

// Insert appends a new child id to the routine's defining instruction.
// The first insertion since the last wrap freezes the current cycle's end
// at the post-insert length, so the cycle in progress completes across the
// original members plus every already-accepted append exactly once before
// the expanded list participates in subsequent cycles (spec.md §4.H
// "Append-while-running semantics").
func (r *Routine) Insert(childID string) error {
	inst, err := r.tbl.Get(r.id)
	if err != nil {
		return err
	}
	inst.AppendChild(childID)
	if r.frozenEnd < 0 {
		r.frozenEnd = len(inst.Children)
	}
	return nil
}
