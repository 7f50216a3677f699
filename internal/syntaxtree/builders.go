package syntaxtree

// NewBlock constructs a Block with the given name, ready to accept
// items/children. Tests and the KDL adapter both use this instead of
// building Block literals directly, keeping zero-value fields consistent.
func NewBlock(name string, line int) *Block {
	return &Block{Name: name, Line: line}
}

// AddItem appends an item to b and returns it for chaining.
func (b *Block) AddItem(it *Item) *Block {
	b.Items = append(b.Items, it)
	return b
}

// AddChild appends a child block to b and returns it for chaining.
func (b *Block) AddChild(c *Block) *Block {
	b.Children = append(b.Children, c)
	return b
}

// NewItem builds a key/value Item with the default "=" operator.
func NewItem(name, value string, line int) *Item {
	return &Item{Name: name, Value: value, Op: OpAssign, Line: line}
}

// WithOp sets it.Op in place and returns it, for chaining at construction
// sites (the KDL adapter and tests build items inline).
func (it *Item) WithOp(op Op) *Item {
	it.Op = op
	return it
}

// Condition builds a CONDITION boolean-expression leaf around an item.
func Condition(item *Item, line int) *BoolExprNode {
	return &BoolExprNode{Kind: BoolKindCondition, Condition: item, Line: line}
}

// Unary builds a UNARY boolean-expression node.
func Unary(op BoolOp, child *BoolExprNode, line int) *BoolExprNode {
	return &BoolExprNode{Kind: BoolKindUnary, Op: op, Child: child, Line: line}
}

// Binary builds a BINARY boolean-expression node.
func Binary(op BoolOp, left, right *BoolExprNode, line int) *BoolExprNode {
	return &BoolExprNode{Kind: BoolKindBinary, Op: op, Left: left, Right: right, Line: line}
}

// Singleton builds a singleton set-expression node referencing a named
// file class.
func Singleton(className string, line int) *SetExprNode {
	return &SetExprNode{Kind: SetKindSingleton, ClassName: className, Line: line}
}

// SetUnary builds a unary (NOT) set-expression node.
func SetUnary(op SetOp, child *SetExprNode, line int) *SetExprNode {
	return &SetExprNode{Kind: SetKindUnary, Op: op, Child: child, Line: line}
}

// SetBinary builds a binary (UNION/INTER) set-expression node.
func SetBinary(op SetOp, left, right *SetExprNode, line int) *SetExprNode {
	return &SetExprNode{Kind: SetKindBinary, Op: op, Left: left, Right: right, Line: line}
}
