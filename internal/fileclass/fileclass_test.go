package fileclass

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rbh-policy/policyd/internal/attrmask"
	"github.com/rbh-policy/policyd/internal/boolexpr"
	"github.com/rbh-policy/policyd/internal/triplet"
)

func sampleCondition(crit, value string) *boolexpr.Node {
	return boolexpr.Condition(&triplet.Triplet{
		Criterion: crit,
		Op:        triplet.CompEq,
		Value:     triplet.Value{Kind: triplet.ValueKindString, Str: value},
	})
}

func TestDefineAndLookupIsCaseInsensitive(t *testing.T) {
	table := NewTable()
	cond := sampleCondition("type", "file")
	table.Define("Hot", cond, attrmask.Mask(1))

	class, ok := table.Lookup("hot")
	require.True(t, ok)
	assert.Equal(t, "Hot", class.ID)
	assert.Same(t, cond, class.Definition)
}

func TestLookupMissingReturnsFalse(t *testing.T) {
	table := NewTable()
	_, ok := table.Lookup("missing")
	assert.False(t, ok)
}

func TestRedefineReplacesClass(t *testing.T) {
	table := NewTable()
	table.Define("hot", sampleCondition("type", "file"), attrmask.Mask(1))
	second := sampleCondition("type", "dir")
	table.Define("hot", second, attrmask.Mask(2))

	class, ok := table.Lookup("hot")
	require.True(t, ok)
	assert.Same(t, second, class.Definition)
	assert.Equal(t, attrmask.Mask(2), class.AttrMask)
}

func TestNamesListsEveryDefinedClass(t *testing.T) {
	table := NewTable()
	table.Define("hot", sampleCondition("type", "file"), attrmask.Mask(0))
	table.Define("cold", sampleCondition("type", "dir"), attrmask.Mask(0))

	assert.ElementsMatch(t, []string{"hot", "cold"}, table.Names())
}

func TestStringRendersSortedDeterministicOutput(t *testing.T) {
	table := NewTable()
	table.Define("zeta", sampleCondition("type", "file"), attrmask.Mask(0))
	table.Define("alpha", sampleCondition("type", "dir"), attrmask.Mask(0))

	out := table.String()
	assert.Less(t, indexOf(out, "alpha"), indexOf(out, "zeta"))
}

func indexOf(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}
