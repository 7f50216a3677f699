// Package boolexpr implements the boolean-expression builder (component
// D) and its printer/structural helpers (component F): CONDITION/UNARY/
// BINARY tree nodes with explicit ownership, CreateBoolCond/
// AppendBoolCond/FreeBoolExpr, and the canonical BoolExpr2str printer.
package boolexpr

import "github.com/rbh-policy/policyd/internal/triplet"

// Kind discriminates a Node's shape.
type Kind int

const (
	KindCondition Kind = iota
	KindUnary
	KindBinary
)

// Op is a compiled boolean operator.
type Op string

const (
	OpNot Op = "NOT"
	OpAnd Op = "AND"
	OpOr  Op = "OR"
)

// Node is a compiled boolean-expression tree node.
//
// Owner determines whether destruction cascades to Left/Right/Child:
// if true, the node owns its children and FreeBoolExpr recurses into
// them; if false, the children are a view into a file-class definition
// stored elsewhere and must not be freed through this node. A node that
// is itself referenced (owner=false at some other root) must likewise
// never be freed twice — see internal/setexpr, which produces owner=false
// views into the definitions held by internal/fileclass.
type Node struct {
	Kind      Kind
	Triplet   *triplet.Triplet // valid iff Kind == KindCondition
	Op        Op               // valid iff Kind != KindCondition
	Child     *Node            // valid iff Kind == KindUnary
	Left      *Node            // valid iff Kind == KindBinary
	Right     *Node            // valid iff Kind == KindBinary
	Owner     bool
}

// Condition builds a CONDITION leaf around an already-compiled triplet.
func Condition(t *triplet.Triplet) *Node {
	return &Node{Kind: KindCondition, Triplet: t}
}
