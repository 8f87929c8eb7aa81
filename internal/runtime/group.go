package runtime

import (
	"time"

	"github.com/aledsdavies/beanscript/internal/scheduler"
)

// groupTicker treats a group instruction as a degenerate scheduler
// (spec.md §4.K): each tick runs one pass over its children sequentially
// (respecting their own before/duration/after/repeat timing), bracketed
// by the group's own before/after sleep. repeat 0 (the default) fires
// once, same as a leaf's "0 means once" rule (testable property #12);
// repeat N fires N passes total; repeat -1 fires forever. The pass count
// is drawn once at activation and consumed one pass per tick, so that a
// `stop` between ticks (per scenario S6) can interrupt it — running the
// whole pass count inside a single Tick call would otherwise block every
// other active scheduler for the group's entire lifetime when repeat is
// -1 (unbounded). See DESIGN.md for this resolution.
type groupTicker struct {
	id         string
	rt         *Runtime
	passesLeft int // -1 = unbounded; otherwise passes still owed, >= 1 until the last
}

func newGroupTicker(rt *Runtime, id string) (*groupTicker, error) {
	inst, err := rt.tbl.Get(id)
	if err != nil {
		return nil, err
	}
	sampled := inst.Parameters.Repeat.Sample()
	passesLeft := sampled
	if sampled == 0 {
		passesLeft = 1
	}
	return &groupTicker{id: id, rt: rt, passesLeft: passesLeft}, nil
}

func (g *groupTicker) Tick(exec scheduler.Executor) error {
	if g.passesLeft == 0 {
		g.rt.deactivate(g.id)
		return nil
	}

	inst, err := g.rt.tbl.Get(g.id)
	if err != nil {
		return err
	}

	g.rt.sleep(time.Duration(inst.Parameters.Before.Sample()) * time.Millisecond)
	for _, childID := range inst.Children {
		if _, err := exec.Execute(childID); err != nil {
			return err
		}
	}
	g.rt.sleep(time.Duration(inst.Parameters.After.Sample()) * time.Millisecond)

	if g.passesLeft > 0 {
		g.passesLeft--
		if g.passesLeft == 0 {
			g.rt.deactivate(g.id)
		}
	}
	return nil
}
