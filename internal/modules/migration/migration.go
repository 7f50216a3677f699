// Package migration is a concrete ModuleDescriptor exercising the full
// pipeline end-to-end: policy rules whose match condition combines a
// file-class set expression (component E, via internal/modules/fileclasses)
// with a scalar condition that may use the "status" criterion against a
// statusmgr.StatusManager, mirroring a migration/purge policy module.
package migration

import (
	"fmt"

	"github.com/rbh-policy/policyd/internal/attrmask"
	"github.com/rbh-policy/policyd/internal/boolexpr"
	"github.com/rbh-policy/policyd/internal/criteria"
	"github.com/rbh-policy/policyd/internal/modules/fileclasses"
	"github.com/rbh-policy/policyd/internal/moduleconfig"
	"github.com/rbh-policy/policyd/internal/policyerrors"
	"github.com/rbh-policy/policyd/internal/setexpr"
	"github.com/rbh-policy/policyd/internal/statusmgr"
	"github.com/rbh-policy/policyd/internal/syntaxtree"
	"github.com/rbh-policy/policyd/internal/unknownitem"
)

const (
	ruleBlockName    = "Migration_Policy"
	targetClassChild = "target_fileclass"
	conditionChild   = "condition"

	// MaskMigration is the bit a caller passes as module_mask to enable
	// this module, matching the original per-module gating (spec.md's
	// supplemented "per-module flags gating" feature).
	MaskMigration moduleconfig.ModuleFlag = 1 << 0
)

// Rule is one compiled migration rule: a name plus the combined
// predicate (target file classes AND its own scalar condition) and the
// attribute mask needed to evaluate it.
type Rule struct {
	Name      string
	Predicate *boolexpr.Node
	Mask      attrmask.Mask
}

// Module owns the compiled rule set, rebuilt on every Read/Reload, plus
// any non-fatal compile warnings collected along the way.
type Module struct {
	Registry    *criteria.Registry
	Statuses    statusmgr.StatusManager
	FileClasses *fileclasses.Module

	Rules    []Rule
	Warnings []unknownitem.Warning
}

// New returns a Module compiling rules against registry and sm, whose
// target_fileclass set expressions resolve against fc's table.
func New(registry *criteria.Registry, sm statusmgr.StatusManager, fc *fileclasses.Module) *Module {
	return &Module{Registry: registry, Statuses: sm, FileClasses: fc}
}

// Descriptor wires this module's lifecycle into a moduleconfig table,
// gated on MaskMigration so a deployment that doesn't run migration
// doesn't pay for compiling it.
func (m *Module) Descriptor() moduleconfig.Descriptor {
	return moduleconfig.Descriptor{
		Name:       "Migration",
		Flags:      MaskMigration,
		SetDefault: m.setDefault,
		Read:       m.read,
		Reload:     m.reload,
	}
}

func (m *Module) setDefault() error {
	m.Rules = nil
	return nil
}

func (m *Module) read(root *syntaxtree.Block, forReload bool) error {
	var rules []Rule
	var warnings []unknownitem.Warning

	for _, child := range root.Children {
		if child.Name != ruleBlockName {
			continue
		}

		id := child.ID
		if id == "" {
			return policyerrors.New(policyerrors.KindMalformedExpr, ruleBlockName, "",
				"migration rule is missing its name").WithLine(child.Line)
		}

		var predicate *boolexpr.Node
		var mask attrmask.Mask

		if fcBlock := child.FindChild(targetClassChild); fcBlock != nil {
			setNode, err := syntaxtree.SetExprFromBlock(fcBlock)
			if err != nil {
				return policyerrors.Wrap(policyerrors.KindMalformedExpr, ruleBlockName, id, err).WithLine(fcBlock.Line)
			}
			node, setMask, err := setexpr.GetSetExpr(fcBlock, []*syntaxtree.SetExprNode{setNode}, m.FileClasses.Table)
			if err != nil {
				return err
			}
			predicate = node
			mask = mask.Add(setMask)
		}

		if condBlock := child.FindChild(conditionChild); condBlock != nil {
			boolNode, err := syntaxtree.BoolExprFromBlock(condBlock)
			if err != nil {
				return policyerrors.Wrap(policyerrors.KindMalformedExpr, ruleBlockName, id, err).WithLine(condBlock.Line)
			}
			node, condMask, err := boolexpr.GetBoolExpr(condBlock, []*syntaxtree.BoolExprNode{boolNode}, m.Registry, m.Statuses, &warnings)
			if err != nil {
				return err
			}
			mask = mask.Add(condMask)
			if predicate == nil {
				predicate = node
			} else {
				predicate = &boolexpr.Node{Kind: boolexpr.KindBinary, Op: boolexpr.OpAnd, Left: predicate, Right: node, Owner: true}
			}
		}

		if predicate == nil {
			return policyerrors.New(policyerrors.KindMalformedExpr, ruleBlockName, id,
				fmt.Sprintf("migration rule %q has neither a target file class nor a condition", id)).WithLine(child.Line)
		}

		rules = append(rules, Rule{Name: id, Predicate: predicate, Mask: mask})
	}

	m.Rules = rules
	m.Warnings = warnings
	_ = forReload // migration rules may be redefined freely on reload
	return nil
}

func (m *Module) reload(root *syntaxtree.Block) error {
	return m.read(root, true)
}
