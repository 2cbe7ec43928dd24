package query

// Parser parses StarQL token streams into a syntax tree
type Parser struct {
	tokens []Token
	pos    int
	depth  *depthGuard
}

// NewParser creates a new parser. tokens must end with an EOF token.
func NewParser(tokens []Token) *Parser {
	return &Parser{
		tokens: tokens,
		pos:    0,
		depth:  newDepthGuard(),
	}
}

// current returns the current token
func (p *Parser) current() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: TokenEOF}
	}
	return p.tokens[p.pos]
}

// peek returns the next token without advancing
func (p *Parser) peek() Token {
	if p.pos+1 >= len(p.tokens) {
		return Token{Type: TokenEOF}
	}
	return p.tokens[p.pos+1]
}

// advance moves to the next token and returns the one it moved past
func (p *Parser) advance() Token {
	tok := p.current()
	if tok.Type != TokenEOF {
		p.pos++
	}
	return tok
}

func (p *Parser) check(types ...TokenType) bool {
	cur := p.current().Type
	for _, t := range types {
		if cur == t {
			return true
		}
	}
	return false
}

// expect checks if current token matches expected type and advances
func (p *Parser) expect(tokType TokenType) (Token, error) {
	if p.current().Type != tokType {
		return Token{}, p.unexpected(tokType.String())
	}
	return p.advance(), nil
}

func (p *Parser) unexpected(expected string) error {
	cur := p.current()
	return newError(ParseError, cur.Line, "expected %s, got %s", expected, cur)
}

// Parse lexes and parses a complete query
func Parse(query string) (*Query, error) {
	if err := checkLength(query); err != nil {
		return nil, err
	}

	tokens, err := Tokenize(query)
	if err != nil {
		return nil, err
	}

	if err := checkTokens(tokens); err != nil {
		return nil, err
	}

	return NewParser(tokens).ParseQuery()
}

// ParseQuery parses: statement (";" statement)* ";"?
func (p *Parser) ParseQuery() (*Query, error) {
	q := &Query{}
	for {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		q.Statements = append(q.Statements, stmt)

		if p.check(TokenEOF) {
			return q, nil
		}
		if _, err := p.expect(TokenSemicolon); err != nil {
			return nil, err
		}
		if p.check(TokenEOF) {
			return q, nil
		}
	}
}

// parseStatement parses: (identifier "=")? op_expression
func (p *Parser) parseStatement() (Node, error) {
	stmt := &Statement{}
	if p.check(TokenIdent) && p.peek().Type == TokenAssign {
		name := p.advance()
		p.advance() // '='
		stmt.Name = &name
	}

	body, err := p.parseOpExpression()
	if err != nil {
		return nil, err
	}
	stmt.Body = body
	return stmt, nil
}

// parseOpExpression parses: expression ("|" opcall)*
func (p *Parser) parseOpExpression() (Node, error) {
	root, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	op := &OpExpr{Root: root}
	for p.check(TokenPipe) {
		p.advance()
		call, err := p.parseOpCall()
		if err != nil {
			return nil, err
		}
		op.Calls = append(op.Calls, call)
	}
	return op, nil
}
