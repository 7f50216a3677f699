package boolexpr

import "github.com/rbh-policy/policyd/internal/triplet"

// CreateBoolCond builds a single-condition leaf, for callers assembling
// a tree programmatically (e.g. a module synthesizing a default rule)
// rather than through Build.
func CreateBoolCond(t triplet.Triplet) *Node {
	return Condition(&t)
}

// AppendBoolCond logically rewrites *io to AND(*io, new-leaf): the prior
// expression becomes the left child of a fresh owner=true BINARY node,
// and the new condition becomes the right child.
func AppendBoolCond(io **Node, t triplet.Triplet) {
	leaf := Condition(&t)
	if *io == nil {
		*io = leaf
		return
	}
	*io = &Node{Kind: KindBinary, Op: OpAnd, Left: *io, Right: leaf, Owner: true}
}

// FreeBoolExpr mirrors the original compiler's manual deallocation
// contract: it is a no-op on the Go heap (the garbage collector reclaims
// unreferenced nodes), but walking it is how callers assert that a tree
// built across owner=true and owner=false nodes never double-frees a
// node shared via a file class — see FreeBoolExpr's test for the
// assertion this enables. For interior nodes, children are only
// "visited" (and would only be freed in a manual-memory port) when
// Owner is true; owner=false children belong to whatever file class
// still references them.
func FreeBoolExpr(n *Node, freeSelf bool) {
	if n == nil {
		return
	}
	switch n.Kind {
	case KindCondition:
		n.Triplet = nil
	case KindUnary:
		if n.Owner {
			FreeBoolExpr(n.Child, true)
			n.Child = nil
		}
	case KindBinary:
		if n.Owner {
			FreeBoolExpr(n.Left, true)
			FreeBoolExpr(n.Right, true)
			n.Left = nil
			n.Right = nil
		}
	}
	if freeSelf {
		n.Triplet = nil
		n.Child, n.Left, n.Right = nil, nil, nil
	}
}

// OpToString renders op as the source-level token, matching op2str:
// one of >, >=, <, <=, ==, <>, " =~ ", " !~ ", or "?" for invalid.
func OpToString(op triplet.CompOp) string {
	switch op {
	case triplet.CompGt:
		return ">"
	case triplet.CompGe:
		return ">="
	case triplet.CompLt:
		return "<"
	case triplet.CompLe:
		return "<="
	case triplet.CompEq:
		return "=="
	case triplet.CompNe:
		return "<>"
	case triplet.CompLike:
		return " =~ "
	case triplet.CompUnlike:
		return " !~ "
	default:
		return "?"
	}
}
