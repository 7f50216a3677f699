package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rbh-policy/policyd/internal/criteria"
	"github.com/rbh-policy/policyd/internal/modules/fileclasses"
	"github.com/rbh-policy/policyd/internal/statusmgr"
	"github.com/rbh-policy/policyd/internal/syntaxtree"
)

func setUpFileClasses(t *testing.T, registry *criteria.Registry) *fileclasses.Module {
	t.Helper()
	fc := fileclasses.New(registry, nil)
	root := syntaxtree.NewBlock("root", 0)

	hot := syntaxtree.NewBlock("FileClass", 1)
	hot.ID = "hot"
	def := syntaxtree.NewBlock("definition", 2)
	def.AddItem(syntaxtree.NewItem("last_access", "1h", 3).WithOp(syntaxtree.OpLt))
	hot.AddChild(def)
	root.AddChild(hot)

	require.NoError(t, fc.Descriptor().Read(root, false))
	return fc
}

func TestReadCompilesRuleWithTargetClassAndCondition(t *testing.T) {
	registry := criteria.NewRegistry()
	sm := statusmgr.NewInMemory("migration", 0, []string{"new", "archived"})
	fc := setUpFileClasses(t, registry)
	m := New(registry, sm, fc)

	root := syntaxtree.NewBlock("root", 0)
	rule := syntaxtree.NewBlock(ruleBlockName, 10)
	rule.ID = "archive_hot"
	target := syntaxtree.NewBlock(targetClassChild, 11)
	target.AddChild(func() *syntaxtree.Block { b := syntaxtree.NewBlock("hot", 12); return b }())
	cond := syntaxtree.NewBlock(conditionChild, 13)
	cond.AddItem(syntaxtree.NewItem("status", "new", 14).WithOp(syntaxtree.OpEq))
	rule.AddChild(target)
	rule.AddChild(cond)
	root.AddChild(rule)

	require.NoError(t, m.read(root, false))
	require.Len(t, m.Rules, 1)
	assert.Equal(t, "archive_hot", m.Rules[0].Name)
	assert.NotNil(t, m.Rules[0].Predicate)
}

func TestReadRejectsRuleWithNeitherClassNorCondition(t *testing.T) {
	registry := criteria.NewRegistry()
	fc := setUpFileClasses(t, registry)
	m := New(registry, nil, fc)

	root := syntaxtree.NewBlock("root", 0)
	rule := syntaxtree.NewBlock(ruleBlockName, 10)
	rule.ID = "empty_rule"
	root.AddChild(rule)

	err := m.read(root, false)
	require.Error(t, err)
}

func TestReadRejectsRuleWithoutName(t *testing.T) {
	registry := criteria.NewRegistry()
	fc := setUpFileClasses(t, registry)
	m := New(registry, nil, fc)

	root := syntaxtree.NewBlock("root", 0)
	rule := syntaxtree.NewBlock(ruleBlockName, 10)
	cond := syntaxtree.NewBlock(conditionChild, 13)
	cond.AddItem(syntaxtree.NewItem("size", "10M", 14).WithOp(syntaxtree.OpGt))
	rule.AddChild(cond)
	root.AddChild(rule)

	err := m.read(root, false)
	require.Error(t, err)
}
