package parsetree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/beanscript/internal/instruction"
	"github.com/aledsdavies/beanscript/internal/lexline"
	"github.com/aledsdavies/beanscript/internal/table"
)

func build(t *testing.T, b *Builder, raw string, lineNo int) (string, bool) {
	t.Helper()
	id, ok, err := b.Build(lexline.Tokenize(raw, lineNo))
	require.NoError(t, err)
	return id, ok
}

func TestKeyDefinitionRegistersWithBoundButton(t *testing.T) {
	tbl := table.New()
	b := New(tbl)

	id, ok := build(t, b, "key k with button a", 1)
	require.True(t, ok)
	assert.Equal(t, "k", id)

	inst, err := tbl.Get("k")
	require.NoError(t, err)
	require.NotNil(t, inst.Button)
}

func TestBlankLineIsIgnored(t *testing.T) {
	tbl := table.New()
	b := New(tbl)
	id, ok, err := b.Build(lexline.Tokenize("   ", 1))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, id)
}

func TestUnknownKindIsFatalWithSuggestion(t *testing.T) {
	tbl := table.New()
	b := New(tbl)
	_, _, err := b.Build(lexline.Tokenize("rutine r with a", 1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "routine")
}

// TestInPlaceAliasOfExistingKeyInheritsButton mirrors scenario S5: "press
// base with repeat 2" aliases an existing key definition, inheriting its
// button while the explicit repeat 2 is not overridden.
func TestInPlaceAliasOfExistingKeyInheritsButton(t *testing.T) {
	tbl := table.New()
	b := New(tbl)

	_, ok := build(t, b, "key base with button q", 1)
	require.True(t, ok)

	aliasID, ok := build(t, b, "press base with repeat 2", 2)
	require.True(t, ok)
	assert.Regexp(t, `^Alias_[0-9]{2,}\(base\)$`, aliasID)

	alias, err := tbl.Get(aliasID)
	require.NoError(t, err)
	require.NotNil(t, alias.Button)
	assert.Equal(t, 2, alias.Parameters.Repeat.Lo)
	assert.Equal(t, []string{"base"}, alias.Children)
}

func TestInPlaceDefinitionOnRawKeyNameBindsButtonDirectly(t *testing.T) {
	tbl := table.New()
	b := New(tbl)

	aliasID, ok := build(t, b, "press a with duration 10", 1)
	require.True(t, ok)

	alias, err := tbl.Get(aliasID)
	require.NoError(t, err)
	require.NotNil(t, alias.Button)
	assert.Empty(t, alias.Children)
}

func TestWithClauseReferenceToExistingInstructionAppendsChild(t *testing.T) {
	tbl := table.New()
	b := New(tbl)

	build(t, b, "key a with button a", 1)
	build(t, b, "key b with button b", 2)

	id, ok := build(t, b, "routine r with a, b", 3)
	require.True(t, ok)

	inst, err := tbl.Get(id)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, inst.Children)
}

func TestUnresolvedReferenceIsFatal(t *testing.T) {
	tbl := table.New()
	b := New(tbl)
	_, _, err := b.Build(lexline.Tokenize("routine r with nope", 1))
	assert.Error(t, err)
}

func TestStartAndStopSynthesizeDistinctIDs(t *testing.T) {
	tbl := table.New()
	b := New(tbl)

	build(t, b, "key a with button a", 1)
	build(t, b, "routine r with a", 2)

	startID, ok := build(t, b, "start r", 3)
	require.True(t, ok)
	assert.NotEqual(t, "r", startID)

	start, err := tbl.Get(startID)
	require.NoError(t, err)
	assert.Equal(t, instruction.Start, start.Kind)
	assert.Equal(t, []string{"r"}, start.Children)

	stopID, ok := build(t, b, "stop r", 4)
	require.True(t, ok)
	assert.NotEqual(t, startID, stopID)
}

func TestDuplicateIDIsFatal(t *testing.T) {
	tbl := table.New()
	b := New(tbl)
	build(t, b, "key a with button a", 1)
	_, _, err := b.Build(lexline.Tokenize("key a with button b", 2))
	assert.Error(t, err)
}

func TestDurationSingleValueMatchesTwoValueForm(t *testing.T) {
	tbl := table.New()
	b := New(tbl)

	id1, _ := build(t, b, "press x with duration 5", 1)
	id2, _ := build(t, b, "press x with duration 5 5", 2)

	i1, err := tbl.Get(id1)
	require.NoError(t, err)
	i2, err := tbl.Get(id2)
	require.NoError(t, err)
	assert.Equal(t, i1.Parameters.Duration, i2.Parameters.Duration)
}
