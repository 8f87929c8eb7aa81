package instruction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassificationPredicates(t *testing.T) {
	assert.True(t, Key.IsDefinition())
	assert.True(t, Group.IsDefinition())
	assert.False(t, Press.IsDefinition())

	assert.True(t, Press.IsInPlaceDefinable())
	assert.True(t, Hold.IsInPlaceDefinable())
	assert.True(t, Release.IsInPlaceDefinable())
	assert.False(t, Key.IsInPlaceDefinable())

	assert.True(t, Start.IsTransaction())
	assert.True(t, Stop.IsTransaction())
	assert.True(t, Press.IsTransaction())
	assert.False(t, Key.IsTransaction())
	assert.False(t, Group.IsTransaction())

	assert.True(t, Routine.IsScheduler())
	assert.True(t, Waitlist.IsScheduler())
	assert.True(t, Random.IsScheduler())
	assert.False(t, Group.IsScheduler())

	assert.True(t, Press.IsLeaf())
	assert.False(t, Group.IsLeaf())
}

func TestCanBeChildOfExcludesOnlyScriptAndWindow(t *testing.T) {
	assert.False(t, CanBeChildOf(Script))
	assert.False(t, CanBeChildOf(Window))
	for _, k := range ValidKinds {
		if k == Script || k == Window {
			continue
		}
		assert.True(t, CanBeChildOf(k), string(k))
	}
}

func TestNewAppliesParameterDefaults(t *testing.T) {
	i := New("k", Key, 1, 0)
	assert.Equal(t, 50, i.Parameters.Duration.Lo)
	assert.Equal(t, 70, i.Parameters.Duration.Hi)
	assert.Empty(t, i.Children)
}

func TestAppendChildAccumulates(t *testing.T) {
	i := New("g", Group, 1, 0)
	i.AppendChild("a")
	i.AppendChild("b")
	assert.Equal(t, []string{"a", "b"}, i.Children)
}
