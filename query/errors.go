package query

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failure raised while lexing, parsing or evaluating
// a query.
type ErrorKind int

const (
	LexError ErrorKind = iota
	ParseError
	UndefinedVariableError
	RedefinitionError
	TypeError
	OperatorError
	InternalError
)

func (k ErrorKind) String() string {
	switch k {
	case LexError:
		return "lex error"
	case ParseError:
		return "parse error"
	case UndefinedVariableError:
		return "undefined variable"
	case RedefinitionError:
		return "redefinition error"
	case TypeError:
		return "type error"
	case OperatorError:
		return "operator error"
	default:
		return "internal error"
	}
}

// Error is the error type returned by every stage of the language. Line is
// zero when the failure is not tied to a source position.
type Error struct {
	Kind ErrorKind
	Msg  string
	Line int
	Err  error
}

func (e *Error) Error() string {
	msg := e.Msg
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Line > 0 {
		return fmt.Sprintf("%s at line %d: %s", e.Kind, e.Line, msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind ErrorKind, line int, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Line: line, Msg: fmt.Sprintf(format, args...)}
}

func typeErrorf(format string, args ...interface{}) error {
	return newError(TypeError, 0, format, args...)
}

func operatorErrorf(format string, args ...interface{}) error {
	return newError(OperatorError, 0, format, args...)
}

// KindOf reports the kind of a language error anywhere in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var qe *Error
	if errors.As(err, &qe) {
		return qe.Kind, true
	}
	return 0, false
}

// IsKind reports whether err carries a language error of the given kind
func IsKind(err error, kind ErrorKind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
