package syntax

import "fmt"

// ErrorCode describes why a pattern failed to parse.
type ErrorCode string

// Parse error codes.
const (
	ErrMissingParen      ErrorCode = "missing closing )"
	ErrMissingBracket    ErrorCode = "missing closing ]"
	ErrEmptyAlternation  ErrorCode = "empty alternation"
	ErrInvalidEscape     ErrorCode = "invalid escape sequence"
	ErrTrailingBackslash ErrorCode = "trailing backslash at end of expression"
	ErrUnexpectedInput   ErrorCode = "unexpected input"
	ErrMissingExpression ErrorCode = "missing expression"
	ErrInvalidUTF8       ErrorCode = "invalid UTF-8"
	ErrNestingDepth      ErrorCode = "expression nests too deeply"
)

func (e ErrorCode) String() string {
	return string(e)
}

// Error is a pattern syntax error.
type Error struct {
	Code    ErrorCode
	Pattern string
	// Offset is the byte offset into Pattern where the problem was detected.
	Offset int
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("syntax error: %s at offset %d in %q", e.Code, e.Offset, e.Pattern)
}
