package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/beanscript/internal/instruction"
	"github.com/aledsdavies/beanscript/internal/params"
	"github.com/aledsdavies/beanscript/internal/table"
)

// TestWaitlistCooldownDispatch mirrors scenario S3: x has cooldown 100, y
// has cooldown 50; both fire at t=0, only y at t=50, both again at t=100.
func TestWaitlistCooldownDispatch(t *testing.T) {
	tbl := table.New()

	x := instruction.New("x", instruction.Key, 1, 0)
	x.Parameters.Cooldown = params.Single(100)
	require.NoError(t, tbl.Insert(x))

	y := instruction.New("y", instruction.Key, 2, 0)
	y.Parameters.Cooldown = params.Single(50)
	require.NoError(t, tbl.Insert(y))

	w := instruction.New("w", instruction.Waitlist, 3, 0)
	w.AppendChild("x")
	w.AppendChild("y")
	require.NoError(t, tbl.Insert(w))

	now := int64(0)
	clock := func() int64 { return now }

	wl, err := NewWaitlist("w", tbl, clock)
	require.NoError(t, err)

	exec := &fakeExecutor{}
	require.NoError(t, wl.Tick(exec))
	assert.ElementsMatch(t, []string{"x", "y"}, exec.fired)

	now = 50
	exec.fired = nil
	require.NoError(t, wl.Tick(exec))
	assert.Equal(t, []string{"y"}, exec.fired)

	now = 100
	exec.fired = nil
	require.NoError(t, wl.Tick(exec))
	assert.ElementsMatch(t, []string{"x", "y"}, exec.fired)
}

func TestWaitlistNoOpWhenNoneEligible(t *testing.T) {
	tbl := table.New()
	x := instruction.New("x", instruction.Key, 1, 0)
	x.Parameters.Cooldown = params.Single(1000)
	require.NoError(t, tbl.Insert(x))

	w := instruction.New("w", instruction.Waitlist, 2, 0)
	w.AppendChild("x")
	require.NoError(t, tbl.Insert(w))

	now := int64(0)
	wl, err := NewWaitlist("w", tbl, func() int64 { return now })
	require.NoError(t, err)

	exec := &fakeExecutor{}
	require.NoError(t, wl.Tick(exec)) // fires once, re-keyed to t=1000
	require.Len(t, exec.fired, 1)

	exec.fired = nil
	now = 500
	require.NoError(t, wl.Tick(exec))
	assert.Empty(t, exec.fired)
}
