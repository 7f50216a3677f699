package setexpr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rbh-policy/policyd/internal/attrmask"
	"github.com/rbh-policy/policyd/internal/boolexpr"
	"github.com/rbh-policy/policyd/internal/criteria"
	"github.com/rbh-policy/policyd/internal/fileclass"
	"github.com/rbh-policy/policyd/internal/syntaxtree"
)

func buildClass(t *testing.T, reg *criteria.Registry, critName, value string) (*boolexpr.Node, attrmask.Mask) {
	t.Helper()
	var mask attrmask.Mask
	in := syntaxtree.Condition(syntaxtree.NewItem(critName, value, 1).WithOp(syntaxtree.OpEq), 1)
	node, err := boolexpr.Build(in, reg, nil, &mask, nil)
	require.NoError(t, err)
	return node, mask
}

func TestSetExprUnionAndNot(t *testing.T) {
	reg := criteria.NewRegistry()
	table := fileclass.NewTable()

	hotNode, hotMask := buildClass(t, reg, "owner", "hot-owner")
	coldNode, coldMask := buildClass(t, reg, "owner", "cold-owner")
	table.Define("hot", hotNode, hotMask)
	table.Define("cold", coldNode, coldMask)

	// (hot union cold) and not cold
	expr := syntaxtree.SetBinary(syntaxtree.SetInter,
		syntaxtree.SetBinary(syntaxtree.SetUnion, syntaxtree.Singleton("hot", 1), syntaxtree.Singleton("cold", 1), 1),
		syntaxtree.SetUnary(syntaxtree.SetNot, syntaxtree.Singleton("cold", 1), 1),
		1,
	)

	var mask attrmask.Mask
	node, err := Build(expr, table, &mask)
	require.NoError(t, err)

	require.Equal(t, boolexpr.KindBinary, node.Kind)
	assert.Equal(t, boolexpr.OpAnd, node.Op)
	assert.True(t, node.Owner)
	assert.Equal(t, hotMask|coldMask, mask)

	union := node.Left
	require.Equal(t, boolexpr.KindBinary, union.Kind)
	assert.Equal(t, boolexpr.OpOr, union.Op)
	// Views into the class table are non-owning.
	assert.False(t, union.Left.Owner == true && union.Left.Kind == boolexpr.KindBinary)
}

func TestSetExprUndefinedClass(t *testing.T) {
	table := fileclass.NewTable()
	var mask attrmask.Mask
	_, err := Build(syntaxtree.Singleton("ghost", 3), table, &mask)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "undefined file class")
}

func TestSetExprSingletonIsNonOwningView(t *testing.T) {
	reg := criteria.NewRegistry()
	table := fileclass.NewTable()
	node, mask := buildClass(t, reg, "owner", "alice")
	table.Define("hot", node, mask)

	var m attrmask.Mask
	view, err := Build(syntaxtree.Singleton("hot", 1), table, &m)
	require.NoError(t, err)
	assert.False(t, view.Owner)
	assert.Equal(t, mask, m)
}
