package query

// BinaryOp applies a binary operator to two evaluated operands
func BinaryOp(op TokenType, left, right Value) (Value, error) {
	switch op {
	case TokenPlus, TokenMinus, TokenStar, TokenSlash:
		return arithmetic(op, left, right)
	case TokenGreater, TokenGreaterEqual, TokenLess, TokenLessEqual:
		return relational(op, left, right)
	case TokenEqual:
		return Bool(Equal(left, right)), nil
	case TokenNotEqual:
		return Bool(!Equal(left, right)), nil
	case TokenAnd, TokenOr:
		return logical(op, left, right)
	}
	return nil, newError(InternalError, 0, "unsupported binary operator %s", op)
}

// UnaryOp applies a prefix operator to an evaluated operand
func UnaryOp(op TokenType, operand Value) (Value, error) {
	if op != TokenMinus {
		return nil, newError(InternalError, 0, "unsupported unary operator %s", op)
	}
	n, ok := operand.(Number)
	if !ok {
		return nil, typeErrorf("cannot negate %s", TypeOf(operand))
	}
	return -n, nil
}

func arithmetic(op TokenType, left, right Value) (Value, error) {
	if op == TokenPlus {
		if l, ok := left.(String); ok {
			if r, ok := right.(String); ok {
				return l + r, nil
			}
		}
	}

	l, lok := left.(Number)
	r, rok := right.(Number)
	if !lok || !rok {
		return nil, typeErrorf("cannot apply %s to %s and %s", op, TypeOf(left), TypeOf(right))
	}

	switch op {
	case TokenPlus:
		return l + r, nil
	case TokenMinus:
		return l - r, nil
	case TokenStar:
		return l * r, nil
	default:
		// x/0 yields ±Inf or NaN
		return l / r, nil
	}
}

func relational(op TokenType, left, right Value) (Value, error) {
	l, lok := left.(Number)
	r, rok := right.(Number)
	if !lok || !rok {
		return nil, typeErrorf("cannot compare %s and %s with %s", TypeOf(left), TypeOf(right), op)
	}

	switch op {
	case TokenLess:
		return Bool(l < r), nil
	case TokenGreater:
		return Bool(l > r), nil
	case TokenLessEqual:
		return Bool(l <= r), nil
	default:
		return Bool(l >= r), nil
	}
}

// logical evaluates and/or. Both operands are already evaluated.
func logical(op TokenType, left, right Value) (Value, error) {
	l, lok := left.(Bool)
	r, rok := right.(Bool)
	if !lok || !rok {
		return nil, typeErrorf("cannot apply %s to %s and %s", op, TypeOf(left), TypeOf(right))
	}
	if op == TokenAnd {
		return l && r, nil
	}
	return l || r, nil
}

// Equal reports structural equality. Values of different kinds are never
// equal; it is not an error to compare them.
func Equal(left, right Value) bool {
	switch l := left.(type) {
	case Number:
		r, ok := right.(Number)
		return ok && l == r
	case String:
		r, ok := right.(String)
		return ok && l == r
	case Bool:
		r, ok := right.(Bool)
		return ok && l == r
	case *List:
		r, ok := right.(*List)
		if !ok || l.Len() != r.Len() {
			return false
		}
		for i := range l.items {
			if !Equal(l.items[i], r.items[i]) {
				return false
			}
		}
		return true
	case *Record:
		r, ok := right.(*Record)
		if !ok || len(l.fields) != len(r.fields) {
			return false
		}
		for name, lv := range l.fields {
			rv, ok := r.fields[name]
			if !ok || !Equal(lv, rv) {
				return false
			}
		}
		return true
	}
	return false
}
