package query

import (
	"sort"
	"strings"
)

// Printer renders a syntax tree back to query text. The output parses to an
// equivalent tree, and printing that tree again yields the same text:
// record fields and operator arguments are sorted by name.
type Printer struct{}

// Print renders n as query text
func Print(n Node) string {
	return Accept[string](n, Printer{})
}

func (p Printer) VisitBinary(n *BinaryExpr) string {
	return Accept[string](n.Left, p) + " " + n.Op.Lexeme + " " + Accept[string](n.Right, p)
}

func (p Printer) VisitGrouping(n *GroupingExpr) string {
	return "(" + Accept[string](n.Inner, p) + ")"
}

func (p Printer) VisitUnary(n *UnaryExpr) string {
	return n.Op.Lexeme + Accept[string](n.Right, p)
}

func (p Printer) VisitAtom(n *AtomExpr) string {
	return n.Token.Lexeme
}

func (p Printer) VisitList(n *ListExpr) string {
	items := make([]string, len(n.Items))
	for i, item := range n.Items {
		items[i] = Accept[string](item, p)
	}
	return "[" + strings.Join(items, ", ") + "]"
}

func (p Printer) VisitRecord(n *RecordExpr) string {
	return "{" + p.namedValues(n.Names, n.Values) + "}"
}

func (p Printer) VisitOpExpr(n *OpExpr) string {
	var sb strings.Builder
	sb.WriteString(Accept[string](n.Root, p))
	for _, call := range n.Calls {
		path := make([]string, len(call.Path))
		for i, tok := range call.Path {
			path[i] = tok.Lexeme
		}

		names := make([]Token, len(call.Args))
		values := make([]Node, len(call.Args))
		for i, arg := range call.Args {
			names[i] = arg.Name
			values[i] = arg.Value
		}

		sb.WriteString(" | ")
		sb.WriteString(strings.Join(path, "."))
		sb.WriteString("(")
		sb.WriteString(p.namedValues(names, values))
		sb.WriteString(")")
	}
	return sb.String()
}

func (p Printer) VisitStatement(n *Statement) string {
	body := Accept[string](n.Body, p)
	if n.Name == nil {
		return body
	}
	return n.Name.Lexeme + " = " + body
}

func (p Printer) VisitQuery(n *Query) string {
	stmts := make([]string, len(n.Statements))
	for i, stmt := range n.Statements {
		stmts[i] = Accept[string](stmt, p)
	}
	return strings.Join(stmts, ";\n")
}

// namedValues renders name=value pairs sorted by name
func (p Printer) namedValues(names []Token, values []Node) string {
	order := make([]int, len(names))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return names[order[a]].Lexeme < names[order[b]].Lexeme
	})

	pairs := make([]string, len(order))
	for i, idx := range order {
		pairs[i] = names[idx].Lexeme + "=" + Accept[string](values[idx], p)
	}
	return strings.Join(pairs, ", ")
}
