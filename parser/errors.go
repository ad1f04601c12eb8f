package parser

import (
	"errors"
	"fmt"
)

// ErrParse is returned when a query string violates RFC 9535's grammar:
// a missing closing bracket, an out-of-place token, an unknown function
// name, or similar.
var ErrParse = errors.New("jsonpath: parse error")

// ErrLex is returned when a query string contains a token the lexer
// itself cannot make sense of: an unterminated string literal, a bad
// \u escape, or a malformed number.
var ErrLex = errors.New("jsonpath: lex error")

// SyntaxError is returned by [Parse] on failure. It wraps [ErrParse],
// [ErrLex], or [github.com/theory/jsonpath/spec.ErrInvalid], and carries
// the byte span of the token that triggered it. When it arises from a
// registry-level failure (an unregistered function, or one called with
// arguments that don't type-check), it also wraps that underlying error,
// so a caller can match on the more specific sentinel as well as the
// general one.
type SyntaxError struct {
	sentinel   error
	cause      error
	msg        string
	start, end int
}

// Error returns the message, the offending token's 1-based starting
// position, and the sentinel this error wraps.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%v: %v at position %v", e.sentinel, e.msg, e.start+1)
}

// Unwrap returns the sentinel this error wraps ([ErrParse], [ErrLex], or
// [github.com/theory/jsonpath/spec.ErrInvalid]), plus its underlying
// cause, if any.
func (e *SyntaxError) Unwrap() []error {
	if e.cause != nil {
		return []error{e.sentinel, e.cause}
	}
	return []error{e.sentinel}
}

// Span returns the [start, end) byte offsets of the token that
// triggered e within the parsed query string.
func (e *SyntaxError) Span() (start, end int) { return e.start, e.end }
