package query

import "fmt"

// TokenType represents the type of a token
type TokenType int

const (
	// Delimiters
	TokenLeftParen TokenType = iota // (
	TokenRightParen                 // )
	TokenLeftBracket                // [
	TokenRightBracket               // ]
	TokenLeftBrace                  // {
	TokenRightBrace                 // }
	TokenComma                      // ,
	TokenDot                        // .
	TokenPipe                       // |
	TokenSemicolon                  // ;
	TokenAssign                     // =

	// Arithmetic operators
	TokenPlus  // +
	TokenMinus // -
	TokenStar  // *
	TokenSlash // /

	// Relational operators
	TokenGreater      // >
	TokenGreaterEqual // >=
	TokenLess         // <
	TokenLessEqual    // <=
	TokenEqual        // ==
	TokenNotEqual     // !=
	TokenBang         // !

	// Keywords
	TokenAnd
	TokenOr

	// Literals
	TokenIdent
	TokenVariable
	TokenString
	TokenNumber
	TokenBool

	// Special
	TokenEOF
)

var tokenNames = map[TokenType]string{
	TokenLeftParen:    "'('",
	TokenRightParen:   "')'",
	TokenLeftBracket:  "'['",
	TokenRightBracket: "']'",
	TokenLeftBrace:    "'{'",
	TokenRightBrace:   "'}'",
	TokenComma:        "','",
	TokenDot:          "'.'",
	TokenPipe:         "'|'",
	TokenSemicolon:    "';'",
	TokenAssign:       "'='",
	TokenPlus:         "'+'",
	TokenMinus:        "'-'",
	TokenStar:         "'*'",
	TokenSlash:        "'/'",
	TokenGreater:      "'>'",
	TokenGreaterEqual: "'>='",
	TokenLess:         "'<'",
	TokenLessEqual:    "'<='",
	TokenEqual:        "'=='",
	TokenNotEqual:     "'!='",
	TokenBang:         "'!'",
	TokenAnd:          "'and'",
	TokenOr:           "'or'",
	TokenIdent:        "identifier",
	TokenVariable:     "variable",
	TokenString:       "string",
	TokenNumber:       "number",
	TokenBool:         "bool",
	TokenEOF:          "end of input",
}

// String returns a human readable name for the token type
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// Token represents a lexical token. Lexeme is the exact source text the
// token was read from.
type Token struct {
	Type   TokenType
	Lexeme string
	Line   int
}

// Literal returns the token text without its surrounding syntax: quotes for
// strings and the leading '$' for variables.
func (t Token) Literal() string {
	switch t.Type {
	case TokenString:
		if len(t.Lexeme) >= 2 {
			return t.Lexeme[1 : len(t.Lexeme)-1]
		}
	case TokenVariable:
		if len(t.Lexeme) > 0 && t.Lexeme[0] == '$' {
			return t.Lexeme[1:]
		}
	}
	return t.Lexeme
}

// String describes the token for error messages
func (t Token) String() string {
	if t.Type == TokenEOF {
		return t.Type.String()
	}
	return fmt.Sprintf("%s %q", t.Type, t.Lexeme)
}

// LocalVariable is the name bound to the current element inside operator
// arguments.
const LocalVariable = "@"
