package query

import "unicode/utf8"

// Lexer tokenizes StarQL query strings
type Lexer struct {
	input   string
	start   int
	current int
	line    int
}

// NewLexer creates a new lexer
func NewLexer(input string) *Lexer {
	return &Lexer{input: input, line: 1}
}

func (l *Lexer) done() bool {
	return l.current >= len(l.input)
}

// peek looks at the current character without advancing
func (l *Lexer) peek() byte {
	if l.done() {
		return 0
	}
	return l.input[l.current]
}

// peekNext looks one character past the current one
func (l *Lexer) peekNext() byte {
	if l.current+1 >= len(l.input) {
		return 0
	}
	return l.input[l.current+1]
}

func (l *Lexer) advance() byte {
	c := l.input[l.current]
	l.current++
	return c
}

// match consumes the current character if it equals want
func (l *Lexer) match(want byte) bool {
	if l.done() || l.input[l.current] != want {
		return false
	}
	l.current++
	return true
}

func (l *Lexer) token(t TokenType) Token {
	return Token{Type: t, Lexeme: l.input[l.start:l.current], Line: l.line}
}

func (l *Lexer) errorf(format string, args ...interface{}) error {
	return newError(LexError, l.line, format, args...)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isAlpha(c byte) bool {
	return isLetter(c) || c == '_'
}

// skipIgnored skips whitespace and line comments
func (l *Lexer) skipIgnored() {
	for !l.done() {
		switch l.peek() {
		case ' ', '\t', '\r':
			l.current++
		case '\n':
			l.line++
			l.current++
		case '/':
			if l.peekNext() != '/' {
				return
			}
			for !l.done() && l.peek() != '\n' {
				l.current++
			}
		default:
			return
		}
	}
}

// readString reads a double-quoted string; there are no escape sequences
func (l *Lexer) readString() (Token, error) {
	line := l.line
	for !l.done() && l.peek() != '"' {
		if l.peek() == '\n' {
			l.line++
		}
		l.current++
	}
	if l.done() {
		return Token{}, newError(LexError, line, "unterminated string")
	}
	l.current++ // closing quote
	return Token{Type: TokenString, Lexeme: l.input[l.start:l.current], Line: line}, nil
}

// readNumber reads digits with an optional fractional part
func (l *Lexer) readNumber() (Token, error) {
	for isDigit(l.peek()) {
		l.current++
	}
	if l.peek() == '.' {
		l.current++
		if !isDigit(l.peek()) {
			return Token{}, l.errorf("expected digit after '.' in number %q", l.input[l.start:l.current])
		}
		for isDigit(l.peek()) {
			l.current++
		}
	}
	return l.token(TokenNumber), nil
}

func (l *Lexer) readIdentifier() {
	for isAlpha(l.peek()) || isDigit(l.peek()) {
		l.current++
	}
}

// NextToken returns the next token
func (l *Lexer) NextToken() (Token, error) {
	l.skipIgnored()
	l.start = l.current
	if l.done() {
		return l.token(TokenEOF), nil
	}

	c := l.advance()
	switch c {
	case '(':
		return l.token(TokenLeftParen), nil
	case ')':
		return l.token(TokenRightParen), nil
	case '[':
		return l.token(TokenLeftBracket), nil
	case ']':
		return l.token(TokenRightBracket), nil
	case '{':
		return l.token(TokenLeftBrace), nil
	case '}':
		return l.token(TokenRightBrace), nil
	case ',':
		return l.token(TokenComma), nil
	case '.':
		return l.token(TokenDot), nil
	case '|':
		return l.token(TokenPipe), nil
	case ';':
		return l.token(TokenSemicolon), nil
	case '+':
		return l.token(TokenPlus), nil
	case '-':
		return l.token(TokenMinus), nil
	case '*':
		return l.token(TokenStar), nil
	case '/':
		return l.token(TokenSlash), nil
	case '=':
		if l.match('=') {
			return l.token(TokenEqual), nil
		}
		return l.token(TokenAssign), nil
	case '!':
		if l.match('=') {
			return l.token(TokenNotEqual), nil
		}
		return l.token(TokenBang), nil
	case '>':
		if l.match('=') {
			return l.token(TokenGreaterEqual), nil
		}
		return l.token(TokenGreater), nil
	case '<':
		if l.match('=') {
			return l.token(TokenLessEqual), nil
		}
		return l.token(TokenLess), nil
	case '"':
		return l.readString()
	case '@':
		return l.token(TokenVariable), nil
	case '$':
		// a variable name starts with a letter even though identifiers may
		// start with '_'
		if !isLetter(l.peek()) {
			return Token{}, l.errorf("expected variable name after '$'")
		}
		l.readIdentifier()
		return l.token(TokenVariable), nil
	}

	if isDigit(c) {
		return l.readNumber()
	}
	if isAlpha(c) {
		l.readIdentifier()
		return l.token(identifierType(l.input[l.start:l.current])), nil
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.start:])
	return Token{}, l.errorf("unexpected character %q", r)
}

// identifierType determines if an identifier is a keyword
func identifierType(ident string) TokenType {
	switch ident {
	case "true", "false":
		return TokenBool
	case "and":
		return TokenAnd
	case "or":
		return TokenOr
	}
	return TokenIdent
}

// Tokenize returns all tokens from the input, terminated by an EOF token
func Tokenize(input string) ([]Token, error) {
	lexer := NewLexer(input)
	var tokens []Token

	for {
		tok, err := lexer.NextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			return tokens, nil
		}
	}
}
