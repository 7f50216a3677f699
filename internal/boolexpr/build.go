package boolexpr

import (
	"github.com/rbh-policy/policyd/internal/attrmask"
	"github.com/rbh-policy/policyd/internal/criteria"
	"github.com/rbh-policy/policyd/internal/policyerrors"
	"github.com/rbh-policy/policyd/internal/statusmgr"
	"github.com/rbh-policy/policyd/internal/syntaxtree"
	"github.com/rbh-policy/policyd/internal/triplet"
	"github.com/rbh-policy/policyd/internal/unknownitem"
)

// Build walks a parsed boolean-expression node and produces a compiled
// bool tree, folding each leaf's attribute-mask contribution into mask.
//
//   - CONDITION input -> a CONDITION node via the criteria compiler.
//   - UNARY IDENTITY (a flattened parenthesized group) -> recurse on the
//     single child and return its result directly (no wrapper node is
//     allocated).
//   - UNARY NOT -> an owner=true UNARY node around the recursively built
//     child.
//   - BINARY (AND/OR) -> an owner=true BINARY node around both
//     recursively built children.
//
// Any other operator is InvalidOperator ("unexpected boolean operator").
//
// diags, if non-nil, accumulates any non-fatal compile warnings (see
// triplet.Compile) collected from every CONDITION leaf; callers that
// don't need them can pass nil.
func Build(in *syntaxtree.BoolExprNode, registry *criteria.Registry, sm statusmgr.StatusManager, mask *attrmask.Mask, diags *[]unknownitem.Warning) (*Node, error) {
	switch in.Kind {
	case syntaxtree.BoolKindCondition:
		t, m, err := triplet.Compile(in.Condition, registry, sm, diags)
		if err != nil {
			return nil, err
		}
		*mask = mask.Add(m)
		return Condition(&t), nil

	case syntaxtree.BoolKindUnary:
		switch in.Op {
		case syntaxtree.BoolIdentity:
			return Build(in.Child, registry, sm, mask, diags)
		case syntaxtree.BoolNot:
			child, err := Build(in.Child, registry, sm, mask, diags)
			if err != nil {
				return nil, err
			}
			return &Node{Kind: KindUnary, Op: OpNot, Child: child, Owner: true}, nil
		default:
			return nil, policyerrors.New(policyerrors.KindUnknownOperator, "", "",
				"unexpected boolean operator").WithLine(in.Line)
		}

	case syntaxtree.BoolKindBinary:
		var op Op
		switch in.Op {
		case syntaxtree.BoolAnd:
			op = OpAnd
		case syntaxtree.BoolOr:
			op = OpOr
		default:
			return nil, policyerrors.New(policyerrors.KindUnknownOperator, "", "",
				"unexpected boolean operator").WithLine(in.Line)
		}
		left, err := Build(in.Left, registry, sm, mask, diags)
		if err != nil {
			return nil, err
		}
		right, err := Build(in.Right, registry, sm, mask, diags)
		if err != nil {
			// left was already built on this frame; nothing further to
			// free here since Go's GC reclaims it once unreferenced —
			// the owner flag exists for the printer/FreeBoolExpr
			// contract, not manual memory management.
			return nil, err
		}
		return &Node{Kind: KindBinary, Op: op, Left: left, Right: right, Owner: true}, nil

	default:
		return nil, policyerrors.New(policyerrors.KindMalformedExpr, "", "",
			"unexpected boolean expression node kind").WithLine(in.Line)
	}
}

// GetBoolExpr is the top-level entry point: validates that block is
// non-empty and contains exactly one BOOL_EXPR child, then invokes
// Build. On failure, an error that does not carry a line yet is given
// block's line; an error that already has one keeps it. diags behaves
// as documented on Build.
func GetBoolExpr(block *syntaxtree.Block, exprs []*syntaxtree.BoolExprNode, registry *criteria.Registry, sm statusmgr.StatusManager, diags *[]unknownitem.Warning) (*Node, attrmask.Mask, error) {
	if len(exprs) == 0 {
		return nil, 0, policyerrors.New(policyerrors.KindMalformedExpr, block.Name, "",
			"expected a boolean expression, block is empty").WithLine(block.Line)
	}
	if len(exprs) != 1 {
		return nil, 0, policyerrors.New(policyerrors.KindMalformedExpr, block.Name, "",
			"expected exactly one boolean expression").WithLine(block.Line)
	}

	var mask attrmask.Mask
	node, err := Build(exprs[0], registry, sm, &mask, diags)
	if err != nil {
		if ce, ok := err.(*policyerrors.CompileError); ok && ce.Line == 0 {
			err = ce.WithLine(block.Line)
		}
		return nil, 0, err
	}
	return node, mask, nil
}
