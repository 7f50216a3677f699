package boolexpr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rbh-policy/policyd/internal/attrmask"
	"github.com/rbh-policy/policyd/internal/criteria"
	"github.com/rbh-policy/policyd/internal/syntaxtree"
)

func TestBuildConditionAccumulatesMask(t *testing.T) {
	reg := criteria.NewRegistry()
	in := syntaxtree.Condition(syntaxtree.NewItem("size", "10M", 1).WithOp(syntaxtree.OpGt), 1)

	var mask attrmask.Mask
	node, err := Build(in, reg, nil, &mask, nil)
	require.NoError(t, err)
	assert.Equal(t, KindCondition, node.Kind)
	assert.NotZero(t, mask)
}

func TestBuildIdentityFlattensWrapper(t *testing.T) {
	reg := criteria.NewRegistry()
	leaf := syntaxtree.Condition(syntaxtree.NewItem("owner", "alice", 1).WithOp(syntaxtree.OpEq), 1)
	wrapped := syntaxtree.Unary(syntaxtree.BoolIdentity, leaf, 1)

	var mask attrmask.Mask
	node, err := Build(wrapped, reg, nil, &mask, nil)
	require.NoError(t, err)
	assert.Equal(t, KindCondition, node.Kind)
}

func TestBuildNotAndAnd(t *testing.T) {
	reg := criteria.NewRegistry()
	a := syntaxtree.Condition(syntaxtree.NewItem("owner", "alice", 1).WithOp(syntaxtree.OpEq), 1)
	b := syntaxtree.Condition(syntaxtree.NewItem("group", "eng", 1).WithOp(syntaxtree.OpEq), 1)
	notB := syntaxtree.Unary(syntaxtree.BoolNot, b, 1)
	and := syntaxtree.Binary(syntaxtree.BoolAnd, a, notB, 1)

	var mask attrmask.Mask
	node, err := Build(and, reg, nil, &mask, nil)
	require.NoError(t, err)
	require.Equal(t, KindBinary, node.Kind)
	assert.Equal(t, OpAnd, node.Op)
	assert.True(t, node.Owner)
	assert.Equal(t, KindUnary, node.Right.Kind)
	assert.True(t, node.Right.Owner)
}

func TestGetBoolExprRequiresExactlyOne(t *testing.T) {
	reg := criteria.NewRegistry()
	block := syntaxtree.NewBlock("policy", 5)

	_, _, err := GetBoolExpr(block, nil, reg, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 5")
}

func TestAppendBoolCondBuildsConjunction(t *testing.T) {
	reg := criteria.NewRegistry()
	var mask attrmask.Mask
	a, err := Build(syntaxtree.Condition(syntaxtree.NewItem("owner", "alice", 1).WithOp(syntaxtree.OpEq), 1), reg, nil, &mask, nil)
	require.NoError(t, err)
	b, err := Build(syntaxtree.Condition(syntaxtree.NewItem("group", "eng", 1).WithOp(syntaxtree.OpEq), 1), reg, nil, &mask, nil)
	require.NoError(t, err)

	AppendBoolCond(&a, *b.Triplet)
	require.Equal(t, KindBinary, a.Kind)
	assert.Equal(t, OpAnd, a.Op)
}

func TestFreeBoolExprDoesNotTouchNonOwnedChildren(t *testing.T) {
	reg := criteria.NewRegistry()
	var mask attrmask.Mask
	shared, err := Build(syntaxtree.Condition(syntaxtree.NewItem("owner", "alice", 1).WithOp(syntaxtree.OpEq), 1), reg, nil, &mask, nil)
	require.NoError(t, err)

	view := &Node{Kind: KindUnary, Op: OpNot, Child: shared, Owner: false}
	FreeBoolExpr(view, true)

	// shared must remain intact: view.Owner == false means FreeBoolExpr
	// must not recurse into it.
	assert.NotNil(t, shared.Triplet)
}

func TestPrintCanonicalForm(t *testing.T) {
	reg := criteria.NewRegistry()
	a := syntaxtree.Condition(syntaxtree.NewItem("owner", "alice", 1).WithOp(syntaxtree.OpEq), 1)
	b := syntaxtree.Condition(syntaxtree.NewItem("group", "eng", 1).WithOp(syntaxtree.OpEq), 1)
	and := syntaxtree.Binary(syntaxtree.BoolAnd, a, b, 1)

	var mask attrmask.Mask
	node, err := Build(and, reg, nil, &mask, nil)
	require.NoError(t, err)

	out := Print(node)
	assert.Contains(t, out, "AND")
	assert.Contains(t, out, `owner=="alice"`)
}
