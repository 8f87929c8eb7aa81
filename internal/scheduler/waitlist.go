package scheduler

import (
	"fmt"

	"github.com/aledsdavies/beanscript/internal/pqueue"
	"github.com/aledsdavies/beanscript/internal/table"
)

// Waitlist is the cooldown-driven dispatch scheduler (component I): every
// tick it fires every child whose cooldown has elapsed, earliest-eligible
// first.
type Waitlist struct {
	id  string
	tbl *table.Table
	now pqueue.NowFunc
	h   *pqueue.Heap
}

// NewWaitlist builds a Waitlist over the instruction registered under id,
// seeding the heap with every child at ts=0 (immediately eligible), per
// spec.md §4.I.
func NewWaitlist(id string, tbl *table.Table, now pqueue.NowFunc) (*Waitlist, error) {
	inst, err := tbl.Get(id)
	if err != nil {
		return nil, err
	}
	h := pqueue.New(len(inst.Children), now)
	for _, child := range inst.Children {
		if err := h.Push(0, child); err != nil {
			return nil, fmt.Errorf("scheduler: waitlist %q: %w", id, err)
		}
	}
	return &Waitlist{id: id, tbl: tbl, now: now, h: h}, nil
}

// Tick fires every currently-eligible child, re-keying each to its next
// eligible epoch as it fires, per spec.md §4.I.
func (w *Waitlist) Tick(exec Executor) error {
	for w.h.CanPop() {
		v := w.h.PeekValue()
		inst, err := w.tbl.Get(v)
		if err != nil {
			return err
		}
		next := w.now() + int64(inst.Parameters.Cooldown.Sample())
		w.h.Pop(next)
		if _, err := exec.Execute(v); err != nil {
			return fmt.Errorf("scheduler: waitlist %q: executing %q: %w", w.id, v, err)
		}
	}
	return nil
}
