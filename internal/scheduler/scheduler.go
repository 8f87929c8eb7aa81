// Package scheduler implements the three dispatch disciplines (components
// H, I, J): routine round-robin, waitlist cooldown dispatch, and random
// uniform pick. Grounded on newbpydev-bubblyui/pkg/core's update-queue and
// scheduling primitives, adapted from UI frame scheduling to instruction
// dispatch.
package scheduler

// Executor performs one execution attempt of the instruction named id and
// reports whether it completed (true) or is blocked/not-ready (false),
// mirroring spec.md §4.H step 2's execute contract. Implemented by the
// runtime loop.
type Executor interface {
	Execute(id string) (ready bool, err error)
}

// Ticker advances one scheduler (or degenerate scheduler, e.g. a group) by
// exactly one tick, per spec.md §4.K's "iterate active schedulers... and
// call their tick function."
type Ticker interface {
	Tick(exec Executor) error
}
