package query

// LocalFinder reports whether an expression refers to the current element @.
// For a nested pipeline it looks into the root and into every call argument.
type LocalFinder struct{}

// ReferencesLocal reports whether n refers to @ anywhere
func ReferencesLocal(n Node) bool {
	return Accept[bool](n, LocalFinder{})
}

func (f LocalFinder) VisitBinary(n *BinaryExpr) bool {
	return Accept[bool](n.Left, f) || Accept[bool](n.Right, f)
}

func (f LocalFinder) VisitGrouping(n *GroupingExpr) bool {
	return Accept[bool](n.Inner, f)
}

func (f LocalFinder) VisitUnary(n *UnaryExpr) bool {
	return Accept[bool](n.Right, f)
}

func (f LocalFinder) VisitAtom(n *AtomExpr) bool {
	return n.Token.Type == TokenVariable && n.Token.Literal() == LocalVariable
}

func (f LocalFinder) VisitList(n *ListExpr) bool {
	for _, item := range n.Items {
		if Accept[bool](item, f) {
			return true
		}
	}
	return false
}

func (f LocalFinder) VisitRecord(n *RecordExpr) bool {
	for _, v := range n.Values {
		if Accept[bool](v, f) {
			return true
		}
	}
	return false
}

func (f LocalFinder) VisitOpExpr(n *OpExpr) bool {
	if Accept[bool](n.Root, f) {
		return true
	}
	for _, call := range n.Calls {
		for _, arg := range call.Args {
			if Accept[bool](arg.Value, f) {
				return true
			}
		}
	}
	return false
}

func (f LocalFinder) VisitStatement(n *Statement) bool {
	return Accept[bool](n.Body, f)
}

func (f LocalFinder) VisitQuery(n *Query) bool {
	for _, stmt := range n.Statements {
		if Accept[bool](stmt, f) {
			return true
		}
	}
	return false
}
