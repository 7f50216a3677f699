package syntaxtree

import (
	"fmt"
	"strings"
)

// BoolExprFromBlock is the Block-level counterpart to BoolExprFromNode:
// module callbacks receive an already-adapted *Block tree (not a raw
// KDL node), so a "match" block's body is reinterpreted here the same
// way BoolExprFromNode reinterprets a KDL node — "and"/"or" names are
// binary, "not" is unary, anything else wraps a single operand (a
// condition item, or one nested and/or/not block).
//
// A block's Items and Children are two separate ordered slices, so the
// combined operand order (needed for "and"/"or"'s two operands) is
// approximated as "all items, then all children" — a known
// simplification of this stand-in adapter, matching nodeLine's default
// to 0 in kdladapter.go.
func BoolExprFromBlock(b *Block) (*BoolExprNode, error) {
	ops := combinedOperands(b)

	switch strings.ToLower(b.Name) {
	case "and", "or":
		if len(ops) != 2 {
			return nil, fmt.Errorf("syntaxtree: %q requires exactly two operands, got %d", b.Name, len(ops))
		}
		left, err := operandToBoolExpr(ops[0])
		if err != nil {
			return nil, err
		}
		right, err := operandToBoolExpr(ops[1])
		if err != nil {
			return nil, err
		}
		op := BoolAnd
		if strings.EqualFold(b.Name, "or") {
			op = BoolOr
		}
		return Binary(op, left, right, b.Line), nil
	case "not":
		if len(ops) != 1 {
			return nil, fmt.Errorf("syntaxtree: \"not\" requires exactly one operand, got %d", len(ops))
		}
		child, err := operandToBoolExpr(ops[0])
		if err != nil {
			return nil, err
		}
		return Unary(BoolNot, child, b.Line), nil
	default:
		if len(ops) != 1 {
			return nil, fmt.Errorf("syntaxtree: block %q must contain exactly one condition or expression, got %d", b.Name, len(ops))
		}
		return operandToBoolExpr(ops[0])
	}
}

func combinedOperands(b *Block) []interface{} {
	ops := make([]interface{}, 0, len(b.Items)+len(b.Children))
	for _, it := range b.Items {
		ops = append(ops, it)
	}
	for _, c := range b.Children {
		ops = append(ops, c)
	}
	return ops
}

func operandToBoolExpr(op interface{}) (*BoolExprNode, error) {
	switch v := op.(type) {
	case *Item:
		return Condition(v, v.Line), nil
	case *Block:
		return BoolExprFromBlock(v)
	default:
		return nil, fmt.Errorf("syntaxtree: unrecognized operand type %T", op)
	}
}

// SetExprFromBlock is the Block-level counterpart to SetExprFromNode:
// "union"/"inter" are binary over two child blocks, "not" is unary over
// one, and a childless block is a singleton class-name reference (its
// own Name). A block with exactly one child and no recognized operator
// name is a transparent wrapper around a nested expression.
func SetExprFromBlock(b *Block) (*SetExprNode, error) {
	switch strings.ToLower(b.Name) {
	case "union", "inter":
		if len(b.Children) != 2 {
			return nil, fmt.Errorf("syntaxtree: %q requires exactly two operands, got %d", b.Name, len(b.Children))
		}
		left, err := SetExprFromBlock(b.Children[0])
		if err != nil {
			return nil, err
		}
		right, err := SetExprFromBlock(b.Children[1])
		if err != nil {
			return nil, err
		}
		op := SetUnion
		if strings.EqualFold(b.Name, "inter") {
			op = SetInter
		}
		return SetBinary(op, left, right, b.Line), nil
	case "not":
		if len(b.Children) != 1 {
			return nil, fmt.Errorf("syntaxtree: \"not\" requires exactly one operand, got %d", len(b.Children))
		}
		child, err := SetExprFromBlock(b.Children[0])
		if err != nil {
			return nil, err
		}
		return SetUnary(SetNot, child, b.Line), nil
	default:
		if len(b.Children) == 0 {
			return Singleton(b.Name, b.Line), nil
		}
		if len(b.Children) == 1 {
			return SetExprFromBlock(b.Children[0])
		}
		return nil, fmt.Errorf("syntaxtree: block %q must contain exactly one set expression, got %d children", b.Name, len(b.Children))
	}
}
