package table

import (
	"regexp"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/beanscript/internal/instruction"
)

func TestInsertRejectsDuplicateID(t *testing.T) {
	tbl := New()
	require.NoError(t, tbl.Insert(instruction.New("a", instruction.Key, 1, 0)))
	err := tbl.Insert(instruction.New("a", instruction.Key, 2, 0))
	assert.Error(t, err)
}

func TestGetUnknownIDSuggestsSimilarNames(t *testing.T) {
	tbl := New()
	require.NoError(t, tbl.Insert(instruction.New("routine-main", instruction.Routine, 1, 0)))

	_, err := tbl.Get("routine-mian")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "routine-main")
}

func TestHasReportsPresence(t *testing.T) {
	tbl := New()
	assert.False(t, tbl.Has("x"))
	require.NoError(t, tbl.Insert(instruction.New("x", instruction.Key, 1, 0)))
	assert.True(t, tbl.Has("x"))
}

var aliasPattern = regexp.MustCompile(`^Alias_[0-9]{2,}\(.+\)$`)

func TestGenerateAliasMatchesSpecRegexAndNeverCollides(t *testing.T) {
	tbl := New()
	seen := map[string]bool{}
	for i := 0; i < 150; i++ {
		id := tbl.GenerateAlias("base")
		assert.True(t, aliasPattern.MatchString(id), id)
		assert.False(t, seen[id], "duplicate alias id %s", id)
		seen[id] = true
	}
}

func TestGenerateIDSharesCounterAcrossPrefixes(t *testing.T) {
	tbl := New()
	a := tbl.GenerateAlias("x")
	s := tbl.GenerateID("Start", "r")
	assert.NotEqual(t, a, s)
}

func TestSnapshotRoundTripIsIdentical(t *testing.T) {
	tbl := New()
	k := instruction.New("k", instruction.Key, 1, 0)
	require.NoError(t, tbl.Insert(k))
	require.NoError(t, tbl.Insert(instruction.New("p", instruction.Press, 2, 0)))

	data, err := tbl.Snapshot()
	require.NoError(t, err)

	restored, err := RestoreSnapshot(data)
	require.NoError(t, err)

	assert.ElementsMatch(t, tbl.IDs(), restored.IDs())
	for _, id := range tbl.IDs() {
		want, err := tbl.Get(id)
		require.NoError(t, err)
		got, err := restored.Get(id)
		require.NoError(t, err)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("restored instruction %q mismatches original (-want +got):\n%s", id, diff)
		}
	}
}
