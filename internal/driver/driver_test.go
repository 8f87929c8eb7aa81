package driver

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordingCapturesCallsInOrder(t *testing.T) {
	r := &Recording{}
	require.NoError(t, r.Down(0x1E))
	require.NoError(t, r.Up(0x1E))
	require.NoError(t, r.Focus("my-window"))

	calls := r.Calls()
	require.Len(t, calls, 3)
	assert.Equal(t, "down", calls[0].Op)
	assert.Equal(t, "up", calls[1].Op)
	assert.Equal(t, "focus", calls[2].Op)
	assert.Equal(t, "my-window", calls[2].WindowTitle)
}

func TestRecordingSurfacesInjectedFailures(t *testing.T) {
	boom := errors.New("boom")
	r := &Recording{FailDown: boom}

	err := r.Down(0x1E)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	var derr *Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "down", derr.Op)
}

func TestNoopNeverFails(t *testing.T) {
	var n Noop
	assert.NoError(t, n.Down(0))
	assert.NoError(t, n.Up(0))
	assert.NoError(t, n.Focus("x"))
}
