package query

import (
	"errors"
	"fmt"
)

// Limits on query size, checked before and during parsing
const (
	// MaxQueryLength is the longest accepted query text in bytes (1MB)
	MaxQueryLength = 1024 * 1024

	// MaxTokens is the most tokens a query may lex to
	MaxTokens = 1 << 20

	// MaxExpressionDepth bounds expression nesting
	MaxExpressionDepth = 100
)

var (
	ErrQueryTooLong      = errors.New("query too long")
	ErrTooManyTokens     = errors.New("too many tokens in query")
	ErrExpressionTooDeep = errors.New("expression nesting too deep")
)

// checkLength rejects oversized query text before it is lexed
func checkLength(query string) error {
	if len(query) > MaxQueryLength {
		return &Error{Kind: ParseError, Msg: "query rejected", Err: fmt.Errorf("%w: %d bytes (max %d)", ErrQueryTooLong, len(query), MaxQueryLength)}
	}
	return nil
}

// checkTokens rejects token streams that are too long to parse
func checkTokens(tokens []Token) error {
	if len(tokens) > MaxTokens {
		return &Error{Kind: ParseError, Msg: "query rejected", Err: fmt.Errorf("%w: %d tokens (max %d)", ErrTooManyTokens, len(tokens), MaxTokens)}
	}
	return nil
}

// depthGuard counts how deeply the parser has recursed into expressions
type depthGuard struct {
	depth int
	limit int
}

func newDepthGuard() *depthGuard {
	return &depthGuard{limit: MaxExpressionDepth}
}

// enter fails once nesting passes the limit; line locates the error
func (g *depthGuard) enter(line int) error {
	g.depth++
	if g.depth > g.limit {
		return &Error{Kind: ParseError, Line: line, Msg: "invalid expression", Err: fmt.Errorf("%w: %d (max %d)", ErrExpressionTooDeep, g.depth, g.limit)}
	}
	return nil
}

func (g *depthGuard) exit() {
	g.depth--
}
