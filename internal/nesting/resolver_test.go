package nesting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/beanscript/internal/instruction"
	"github.com/aledsdavies/beanscript/internal/table"
)

func insertAt(t *testing.T, tbl *table.Table, id string, kind instruction.Kind, indent int) {
	t.Helper()
	require.NoError(t, tbl.Insert(instruction.New(id, kind, 1, indent)))
}

func TestIndentedChildAttachesToNearestShallowerParent(t *testing.T) {
	tbl := table.New()
	insertAt(t, tbl, "g", instruction.Group, 0)
	insertAt(t, tbl, "p", instruction.Press, 1)

	r := New(tbl)
	require.NoError(t, r.Attach("g", 1))
	require.NoError(t, r.Attach("p", 2))

	g, err := tbl.Get("g")
	require.NoError(t, err)
	assert.Equal(t, []string{"p"}, g.Children)
	assert.Empty(t, r.ExecutionList(), "nested instructions never join the execution list")
}

func TestOrphanIndentIsFatal(t *testing.T) {
	tbl := table.New()
	insertAt(t, tbl, "p", instruction.Press, 1)

	r := New(tbl)
	err := r.Attach("p", 1)
	assert.Error(t, err)
}

func TestKindMisuseUnderScriptOrWindowIsFatal(t *testing.T) {
	tbl := table.New()
	insertAt(t, tbl, "s", instruction.Script, 0)
	insertAt(t, tbl, "p", instruction.Press, 1)

	r := New(tbl)
	require.NoError(t, r.Attach("s", 1))
	err := r.Attach("p", 2)
	assert.Error(t, err)
}

func TestExecutionListCollectsOnlyTopLevelTransactionsInSourceOrder(t *testing.T) {
	tbl := table.New()
	insertAt(t, tbl, "k", instruction.Key, 0)
	insertAt(t, tbl, "p1", instruction.Press, 0)
	insertAt(t, tbl, "r", instruction.Routine, 0)
	insertAt(t, tbl, "start_r", instruction.Start, 0)

	r := New(tbl)
	require.NoError(t, r.Attach("k", 1))
	require.NoError(t, r.Attach("p1", 2))
	require.NoError(t, r.Attach("r", 3))
	require.NoError(t, r.Attach("start_r", 4))

	assert.Equal(t, []string{"p1", "start_r"}, r.ExecutionList())
}

func TestDeeperParentScanSkipsSiblingsAtEqualOrGreaterIndent(t *testing.T) {
	tbl := table.New()
	insertAt(t, tbl, "outer", instruction.Group, 0)
	insertAt(t, tbl, "inner", instruction.Group, 1)
	insertAt(t, tbl, "leaf", instruction.Press, 2)
	insertAt(t, tbl, "sibling", instruction.Press, 1)

	r := New(tbl)
	require.NoError(t, r.Attach("outer", 1))
	require.NoError(t, r.Attach("inner", 2))
	require.NoError(t, r.Attach("leaf", 3))
	require.NoError(t, r.Attach("sibling", 4))

	outer, err := tbl.Get("outer")
	require.NoError(t, err)
	inner, err := tbl.Get("inner")
	require.NoError(t, err)

	assert.Equal(t, []string{"inner", "sibling"}, outer.Children)
	assert.Equal(t, []string{"leaf"}, inner.Children)
}
