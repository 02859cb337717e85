package exprlang

// Node is any parsed expression tree node.
type Node interface{ node() }

// LiteralNode holds a string, number, bool, or nil constant.
type LiteralNode struct{ Value any }

// IdentifierNode names a bound value, handle alias, or import.
type IdentifierNode struct{ Name string }

// MemberNode is `Target.Name` — property/field access.
type MemberNode struct {
	Target Node
	Name   string
}

// IndexNode is `Target[Key]` — subscript access.
type IndexNode struct {
	Target Node
	Key    Node
}

// UnaryNode is a prefix operator applied to Operand.
type UnaryNode struct {
	Op      TokenType
	Operand Node
}

// BinaryNode is an infix operator applied to Left and Right.
type BinaryNode struct {
	Op    TokenType
	Left  Node
	Right Node
}

// TernaryNode is `Cond ? Then : Else`.
type TernaryNode struct {
	Cond Node
	Then Node
	Else Node
}

// CallNode is `Callee(Args...)`.
type CallNode struct {
	Callee Node
	Args   []Node
}

// ObjectNode is an object literal `{ key: value, ... }`.
type ObjectNode struct {
	Keys   []string
	Values []Node
}

// ArrayNode is an array literal `[a, b, c]`.
type ArrayNode struct {
	Elements []Node
}

// AssignNode is `Target = Value`; Target must be an IdentifierNode,
// MemberNode, or IndexNode. The parser accepts it in any expression;
// whether the write is permitted is decided by the target at evaluation
// time (a Pure-mode handle.View rejects it, spec §4.1's Pure/Effect split).
type AssignNode struct {
	Target Node
	Value  Node
}

func (LiteralNode) node()    {}
func (IdentifierNode) node() {}
func (MemberNode) node()     {}
func (IndexNode) node()      {}
func (UnaryNode) node()      {}
func (BinaryNode) node()     {}
func (TernaryNode) node()    {}
func (CallNode) node()       {}
func (ObjectNode) node()     {}
func (ArrayNode) node()      {}
func (AssignNode) node()     {}
