package query

// Node is a node of the syntax tree. The set of node types is closed: every
// traversal implements Visitor and is dispatched by Accept.
type Node interface {
	node()
}

// BinaryExpr represents a binary expression (arithmetic, comparison, and/or)
type BinaryExpr struct {
	Left  Node
	Op    Token
	Right Node
}

// GroupingExpr represents a parenthesized expression
type GroupingExpr struct {
	Inner Node
}

// UnaryExpr represents a prefix operator applied to an operand
type UnaryExpr struct {
	Op    Token
	Right Node
}

// AtomExpr represents a literal, a variable reference or a bare identifier
type AtomExpr struct {
	Token Token
}

// ListExpr represents a list literal
type ListExpr struct {
	Items []Node
}

// RecordExpr represents a record literal. Names and Values are parallel.
type RecordExpr struct {
	Names  []Token
	Values []Node
}

// Arg is a named argument of an operator call
type Arg struct {
	Name  Token
	Value Node
}

// OpCall is a single operator invocation in a pipeline, e.g. std.filter(where=@ > 2)
type OpCall struct {
	Path []Token // dotted namespace and name
	Args []Arg
}

// OpExpr represents a root expression piped through zero or more operator calls
type OpExpr struct {
	Root  Node
	Calls []OpCall
}

// Statement is an op-expression with an optional binding name
type Statement struct {
	Name *Token
	Body Node
}

// Query is the root of a parsed program
type Query struct {
	Statements []Node
}

func (*BinaryExpr) node()   {}
func (*GroupingExpr) node() {}
func (*UnaryExpr) node()    {}
func (*AtomExpr) node()     {}
func (*ListExpr) node()     {}
func (*RecordExpr) node()   {}
func (*OpExpr) node()       {}
func (*Statement) node()    {}
func (*Query) node()        {}

// Visitor is a traversal over the syntax tree producing a T per node
type Visitor[T any] interface {
	VisitBinary(n *BinaryExpr) T
	VisitGrouping(n *GroupingExpr) T
	VisitUnary(n *UnaryExpr) T
	VisitAtom(n *AtomExpr) T
	VisitList(n *ListExpr) T
	VisitRecord(n *RecordExpr) T
	VisitOpExpr(n *OpExpr) T
	VisitStatement(n *Statement) T
	VisitQuery(n *Query) T
}

// Accept dispatches n to the matching method of v
func Accept[T any](n Node, v Visitor[T]) T {
	switch n := n.(type) {
	case *BinaryExpr:
		return v.VisitBinary(n)
	case *GroupingExpr:
		return v.VisitGrouping(n)
	case *UnaryExpr:
		return v.VisitUnary(n)
	case *AtomExpr:
		return v.VisitAtom(n)
	case *ListExpr:
		return v.VisitList(n)
	case *RecordExpr:
		return v.VisitRecord(n)
	case *OpExpr:
		return v.VisitOpExpr(n)
	case *Statement:
		return v.VisitStatement(n)
	case *Query:
		return v.VisitQuery(n)
	}
	panic("query: unknown node type")
}
