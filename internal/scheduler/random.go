package scheduler

import (
	"fmt"
	"math/rand"

	"github.com/aledsdavies/beanscript/internal/pqueue"
	"github.com/aledsdavies/beanscript/internal/table"
)

// Random is the uniform-pick scheduler (component J): each tick it
// selects one member uniformly at random from the currently-eligible
// (cooldown-expired) children, or no-ops if none are eligible. Tracked via
// a per-child next-eligible epoch map rather than a heap, per spec.md
// §4.J's explicit "per-child next_eligible epoch" alternative — a heap
// only exposes its root, but Random needs the whole eligible subset at
// once to pick uniformly among it.
type Random struct {
	id           string
	tbl          *table.Table
	now          pqueue.NowFunc
	nextEligible map[string]int64
}

// NewRandom builds a Random over the instruction registered under id,
// seeding every child as immediately eligible.
func NewRandom(id string, tbl *table.Table, now pqueue.NowFunc) (*Random, error) {
	inst, err := tbl.Get(id)
	if err != nil {
		return nil, err
	}
	ne := make(map[string]int64, len(inst.Children))
	for _, child := range inst.Children {
		ne[child] = 0
	}
	return &Random{id: id, tbl: tbl, now: now, nextEligible: ne}, nil
}

// Tick collects the eligible subset and, if non-empty, fires one member
// chosen uniformly at random, per spec.md §4.J.
func (r *Random) Tick(exec Executor) error {
	inst, err := r.tbl.Get(r.id)
	if err != nil {
		return err
	}
	now := r.now()

	var eligible []string
	for _, child := range inst.Children {
		if _, ok := r.nextEligible[child]; !ok {
			r.nextEligible[child] = 0
		}
		if now >= r.nextEligible[child] {
			eligible = append(eligible, child)
		}
	}
	if len(eligible) == 0 {
		return nil
	}

	pick := eligible[rand.Intn(len(eligible))]
	if _, err := exec.Execute(pick); err != nil {
		return fmt.Errorf("scheduler: random %q: executing %q: %w", r.id, pick, err)
	}
	childInst, err := r.tbl.Get(pick)
	if err != nil {
		return err
	}
	r.nextEligible[pick] = now + int64(childInst.Parameters.Cooldown.Sample())
	return nil
}
