package query

// parseExpression parses an expression; every nested expression passes
// through here, so this is where nesting depth is bounded.
func (p *Parser) parseExpression() (Node, error) {
	if err := p.depth.enter(p.current().Line); err != nil {
		return nil, err
	}
	defer p.depth.exit()

	return p.parseOr()
}

// parseBinary parses one left-associative precedence level
func (p *Parser) parseBinary(next func() (Node, error), ops ...TokenType) (Node, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}

	for p.check(ops...) {
		op := p.advance()
		right, err := next()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{
			Left:  left,
			Op:    op,
			Right: right,
		}
	}

	return left, nil
}

// parseOr parses OR expressions (lowest precedence)
func (p *Parser) parseOr() (Node, error) {
	return p.parseBinary(p.parseAnd, TokenOr)
}

// parseAnd parses AND expressions (higher precedence than OR)
func (p *Parser) parseAnd() (Node, error) {
	return p.parseBinary(p.parseEquality, TokenAnd)
}

// parseEquality parses == and !=
func (p *Parser) parseEquality() (Node, error) {
	return p.parseBinary(p.parseComparison, TokenEqual, TokenNotEqual)
}

// parseComparison parses > >= < <=
func (p *Parser) parseComparison() (Node, error) {
	return p.parseBinary(p.parseTerm, TokenGreater, TokenGreaterEqual, TokenLess, TokenLessEqual)
}

// parseTerm parses + and -
func (p *Parser) parseTerm() (Node, error) {
	return p.parseBinary(p.parseFactor, TokenPlus, TokenMinus)
}

// parseFactor parses * and /
func (p *Parser) parseFactor() (Node, error) {
	return p.parseBinary(p.parseUnary, TokenStar, TokenSlash)
}

// parseUnary parses: "-" unary | primary
func (p *Parser) parseUnary() (Node, error) {
	if !p.check(TokenMinus) {
		return p.parsePrimary()
	}

	if err := p.depth.enter(p.current().Line); err != nil {
		return nil, err
	}
	defer p.depth.exit()

	op := p.advance()
	right, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &UnaryExpr{Op: op, Right: right}, nil
}

// parsePrimary parses literals, variables, identifiers, groupings, lists and records
func (p *Parser) parsePrimary() (Node, error) {
	switch p.current().Type {
	case TokenNumber, TokenString, TokenBool, TokenVariable, TokenIdent:
		return &AtomExpr{Token: p.advance()}, nil
	case TokenLeftParen:
		p.advance()
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenRightParen); err != nil {
			return nil, err
		}
		return &GroupingExpr{Inner: inner}, nil
	case TokenLeftBracket:
		return p.parseList()
	case TokenLeftBrace:
		return p.parseRecord()
	}
	return nil, p.unexpected("expression")
}

// parseList parses: "[" (expression ",")* expression? "]"
func (p *Parser) parseList() (Node, error) {
	p.advance() // '['
	list := &ListExpr{}
	for !p.check(TokenRightBracket) {
		item, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		list.Items = append(list.Items, item)

		if !p.check(TokenComma) {
			break
		}
		p.advance()
	}
	if _, err := p.expect(TokenRightBracket); err != nil {
		return nil, err
	}
	return list, nil
}

// parseRecord parses: "{" (identifier "=" expression ",")* (identifier "=" expression)? "}"
func (p *Parser) parseRecord() (Node, error) {
	p.advance() // '{'
	names, values, err := p.parseNamedExpressions(TokenRightBrace, "record field")
	if err != nil {
		return nil, err
	}
	return &RecordExpr{Names: names, Values: values}, nil
}

// parseNamedExpressions parses a comma separated list of name=expression
// pairs up to and including the closing token. Names must be unique.
func (p *Parser) parseNamedExpressions(closing TokenType, what string) ([]Token, []Node, error) {
	var names []Token
	var values []Node
	seen := make(map[string]bool)

	for !p.check(closing) {
		name, err := p.expect(TokenIdent)
		if err != nil {
			return nil, nil, err
		}
		if seen[name.Lexeme] {
			return nil, nil, newError(ParseError, name.Line, "duplicate %s %q", what, name.Lexeme)
		}
		seen[name.Lexeme] = true

		if _, err := p.expect(TokenAssign); err != nil {
			return nil, nil, err
		}
		value, err := p.parseExpression()
		if err != nil {
			return nil, nil, err
		}
		names = append(names, name)
		values = append(values, value)

		if !p.check(TokenComma) {
			break
		}
		p.advance()
	}
	if _, err := p.expect(closing); err != nil {
		return nil, nil, err
	}
	return names, values, nil
}
