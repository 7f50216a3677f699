// Package setexpr implements the set-expression builder (component E):
// union/intersection/negation over named file classes, substituting each
// referenced class by its previously compiled bool tree as a
// non-owning view.
package setexpr

import (
	"fmt"

	"github.com/rbh-policy/policyd/internal/attrmask"
	"github.com/rbh-policy/policyd/internal/boolexpr"
	"github.com/rbh-policy/policyd/internal/fileclass"
	"github.com/rbh-policy/policyd/internal/policyerrors"
	"github.com/rbh-policy/policyd/internal/syntaxtree"
)

// Build walks a parsed set-expression node and produces a compiled bool
// tree, folding each referenced class's attribute mask into mask.
//
//   - Singleton(name) -> case-insensitive lookup in table. On hit,
//     shallow-copies the class's root node with owner=false and ORs in
//     its mask. On miss, UndefinedClass.
//   - Unary NOT(s) -> UNARY(NOT, build(s)), owner=true.
//   - Binary UNION(s1, s2) -> BINARY(OR, ...); INTER -> BINARY(AND, ...),
//     owner=true on the new interior node regardless of what its
//     children point to.
func Build(in *syntaxtree.SetExprNode, table *fileclass.Table, mask *attrmask.Mask) (*boolexpr.Node, error) {
	switch in.Kind {
	case syntaxtree.SetKindSingleton:
		class, ok := table.Lookup(in.ClassName)
		if !ok {
			return nil, policyerrors.New(policyerrors.KindUnknownFileClass, "", in.ClassName,
				fmt.Sprintf("undefined file class %q", in.ClassName)).WithLine(in.Line)
		}
		*mask = mask.Add(class.AttrMask)
		view := *class.Definition // shallow copy
		view.Owner = false
		return &view, nil

	case syntaxtree.SetKindUnary:
		if in.Op != syntaxtree.SetNot {
			return nil, policyerrors.New(policyerrors.KindUnknownOperator, "", "",
				"unexpected set operator").WithLine(in.Line)
		}
		child, err := Build(in.Child, table, mask)
		if err != nil {
			return nil, err
		}
		return &boolexpr.Node{Kind: boolexpr.KindUnary, Op: boolexpr.OpNot, Child: child, Owner: true}, nil

	case syntaxtree.SetKindBinary:
		var op boolexpr.Op
		switch in.Op {
		case syntaxtree.SetUnion:
			op = boolexpr.OpOr
		case syntaxtree.SetInter:
			op = boolexpr.OpAnd
		default:
			return nil, policyerrors.New(policyerrors.KindUnknownOperator, "", "",
				"unexpected set operator").WithLine(in.Line)
		}
		left, err := Build(in.Left, table, mask)
		if err != nil {
			return nil, err
		}
		right, err := Build(in.Right, table, mask)
		if err != nil {
			return nil, err
		}
		return &boolexpr.Node{Kind: boolexpr.KindBinary, Op: op, Left: left, Right: right, Owner: true}, nil

	default:
		return nil, policyerrors.New(policyerrors.KindMalformedExpr, "", "",
			"unexpected set expression node kind").WithLine(in.Line)
	}
}

// GetSetExpr is the top-level entry point: validates that block is
// non-empty and contains exactly one SET_EXPR child, then invokes Build.
func GetSetExpr(block *syntaxtree.Block, exprs []*syntaxtree.SetExprNode, table *fileclass.Table) (*boolexpr.Node, attrmask.Mask, error) {
	if len(exprs) == 0 {
		return nil, 0, policyerrors.New(policyerrors.KindMalformedExpr, block.Name, "",
			"expected a set expression, block is empty").WithLine(block.Line)
	}
	if len(exprs) != 1 {
		return nil, 0, policyerrors.New(policyerrors.KindMalformedExpr, block.Name, "",
			"expected exactly one set expression").WithLine(block.Line)
	}

	var mask attrmask.Mask
	node, err := Build(exprs[0], table, &mask)
	if err != nil {
		if ce, ok := err.(*policyerrors.CompileError); ok && ce.Line == 0 {
			err = ce.WithLine(block.Line)
		}
		return nil, 0, err
	}
	return node, mask, nil
}
