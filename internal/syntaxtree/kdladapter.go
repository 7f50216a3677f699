package syntaxtree

import (
	"fmt"
	"io"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"
)

// ParseKDL parses a KDL document into the syntax tree shapes this module
// compiles. This is the one concrete front-end standing in for the
// original line-oriented grammar: a KDL node with children is a BLOCK and
// a child node with arguments and no children is a VAR item. ParseKDL
// builds no BOOL_EXPR/SET_EXPR trees itself; expression-shaped blocks
// are converted later by BoolExprFromBlock/SetExprFromBlock.
func ParseKDL(r io.Reader) (*Block, error) {
	doc, err := kdl.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("kdl: %w", err)
	}
	root := NewBlock("root", 0)
	for _, n := range doc.Nodes {
		root.AddChild(nodeToBlock(n))
	}
	return root, nil
}

func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}

func nodeLine(n *document.Node) int {
	// kdl-go does not expose source positions on document.Node in the
	// version this adapter targets, so every Block and Item built from a
	// KDL document carries line 0.
	return 0
}

func firstArgString(n *document.Node) (string, bool) {
	if n == nil || len(n.Arguments) == 0 {
		return "", false
	}
	switch v := n.Arguments[0].Value.(type) {
	case string:
		return v, true
	case int64:
		return fmt.Sprintf("%d", v), true
	case float64:
		return fmt.Sprintf("%g", v), true
	case bool:
		return fmt.Sprintf("%t", v), true
	default:
		return "", false
	}
}

func propString(n *document.Node, key string) (string, bool) {
	if n == nil || n.Properties == nil {
		return "", false
	}
	v, ok := n.Properties[key]
	if !ok || v == nil {
		return "", false
	}
	if s, ok := v.Value.(string); ok {
		return s, true
	}
	return "", false
}

// nodeToBlock converts a KDL node (and its subtree) into a Block. Nodes
// named "and", "or", "not", "condition", "union", "inter", "singleton"
// are left as ordinary child blocks here — the expression-specific
// conversion happens in BoolExprFromBlock/SetExprFromBlock, which a
// caller invokes once it knows a given block is a match/classdef body.
func nodeToBlock(n *document.Node) *Block {
	name := nodeName(n)
	line := nodeLine(n)
	b := NewBlock(name, line)
	if id, ok := propString(n, "id"); ok {
		b.ID = id
	}

	if len(n.Children) == 0 {
		// Node without children: an empty named block, its arguments
		// dropped. A childless block is how a bare class name inside a
		// set expression reaches SetExprFromBlock.
		return b
	}

	for _, c := range n.Children {
		if len(c.Arguments) > 0 && len(c.Children) == 0 {
			b.AddItem(ItemFromNode(c))
			continue
		}
		b.AddChild(nodeToBlock(c))
	}
	return b
}

// ItemFromNode converts a leaf KDL node into a VAR Item. The operator is
// taken from the node's "op" property (default "="), matching the
// adapter's documented mapping.
func ItemFromNode(n *document.Node) *Item {
	op := OpAssign
	if opStr, ok := propString(n, "op"); ok {
		op = Op(opStr)
	}
	value, _ := firstArgString(n)
	it := NewItem(nodeName(n), value, nodeLine(n))
	it.Op = op
	for _, a := range n.Arguments[1:] {
		if s, ok := a.Value.(string); ok {
			it.ExtraArgs = append(it.ExtraArgs, s)
		}
	}
	return it
}

// BoolExprFromNode converts a KDL node inside a "match" block into a
// BoolExprNode, recognizing "and"/"or" (binary, children are the two
// operands), "not" (unary, one child), and any other leaf node as a
// CONDITION whose Item is built via ItemFromNode.
func BoolExprFromNode(n *document.Node) (*BoolExprNode, error) {
	name := nodeName(n)
	line := nodeLine(n)
	switch name {
	case "and", "or":
		if len(n.Children) != 2 {
			return nil, fmt.Errorf("kdl: %q requires exactly two children, got %d", name, len(n.Children))
		}
		left, err := BoolExprFromNode(n.Children[0])
		if err != nil {
			return nil, err
		}
		right, err := BoolExprFromNode(n.Children[1])
		if err != nil {
			return nil, err
		}
		op := BoolAnd
		if name == "or" {
			op = BoolOr
		}
		return Binary(op, left, right, line), nil
	case "not":
		if len(n.Children) != 1 {
			return nil, fmt.Errorf("kdl: \"not\" requires exactly one child, got %d", len(n.Children))
		}
		child, err := BoolExprFromNode(n.Children[0])
		if err != nil {
			return nil, err
		}
		return Unary(BoolNot, child, line), nil
	default:
		return Condition(ItemFromNode(n), line), nil
	}
}

// SetExprFromNode converts a KDL node inside a "classdef" expression
// into a SetExprNode: "union"/"inter" (binary), "not" (unary), anything
// else is a singleton class-name reference (the node name itself).
func SetExprFromNode(n *document.Node) (*SetExprNode, error) {
	name := nodeName(n)
	line := nodeLine(n)
	switch name {
	case "union", "inter":
		if len(n.Children) != 2 {
			return nil, fmt.Errorf("kdl: %q requires exactly two children, got %d", name, len(n.Children))
		}
		left, err := SetExprFromNode(n.Children[0])
		if err != nil {
			return nil, err
		}
		right, err := SetExprFromNode(n.Children[1])
		if err != nil {
			return nil, err
		}
		op := SetUnion
		if name == "inter" {
			op = SetInter
		}
		return SetBinary(op, left, right, line), nil
	case "not":
		if len(n.Children) != 1 {
			return nil, fmt.Errorf("kdl: \"not\" requires exactly one child, got %d", len(n.Children))
		}
		child, err := SetExprFromNode(n.Children[0])
		if err != nil {
			return nil, err
		}
		return SetUnary(SetNot, child, line), nil
	case "singleton":
		if s, ok := firstArgString(n); ok {
			return Singleton(s, line), nil
		}
		return nil, fmt.Errorf("kdl: \"singleton\" requires a string argument")
	default:
		// A bare node name with no recognized operator is itself the
		// class reference, e.g. "hot" under a union.
		return Singleton(name, line), nil
	}
}
