package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/beanscript/internal/instruction"
	"github.com/aledsdavies/beanscript/internal/params"
	"github.com/aledsdavies/beanscript/internal/table"
)

// TestRandomBlocksUntilCooldownElapses mirrors scenario S4: a single
// eligible child x with cooldown 1000 fires once, then the scheduler
// no-ops until t>=1000.
func TestRandomBlocksUntilCooldownElapses(t *testing.T) {
	tbl := table.New()
	x := instruction.New("x", instruction.Key, 1, 0)
	x.Parameters.Cooldown = params.Single(1000)
	require.NoError(t, tbl.Insert(x))

	r := instruction.New("r", instruction.Random, 2, 0)
	r.AppendChild("x")
	require.NoError(t, tbl.Insert(r))

	now := int64(0)
	rnd, err := NewRandom("r", tbl, func() int64 { return now })
	require.NoError(t, err)

	exec := &fakeExecutor{}
	require.NoError(t, rnd.Tick(exec))
	assert.Equal(t, []string{"x"}, exec.fired)

	exec.fired = nil
	now = 999
	require.NoError(t, rnd.Tick(exec))
	assert.Empty(t, exec.fired, "still within cooldown")

	now = 1000
	require.NoError(t, rnd.Tick(exec))
	assert.Equal(t, []string{"x"}, exec.fired)
}

func TestRandomPicksOnlyFromEligibleSet(t *testing.T) {
	tbl := table.New()
	for _, id := range []string{"a", "b"} {
		inst := instruction.New(id, instruction.Key, 1, 0)
		require.NoError(t, tbl.Insert(inst))
	}
	r := instruction.New("r", instruction.Random, 2, 0)
	r.AppendChild("a")
	r.AppendChild("b")
	require.NoError(t, tbl.Insert(r))

	rnd, err := NewRandom("r", tbl, func() int64 { return 0 })
	require.NoError(t, err)
	rnd.nextEligible["a"] = 1_000_000 // ineligible

	exec := &fakeExecutor{}
	for i := 0; i < 20; i++ {
		require.NoError(t, rnd.Tick(exec))
	}
	for _, id := range exec.fired {
		assert.Equal(t, "b", id)
	}
}
