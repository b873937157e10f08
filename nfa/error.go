// Package nfa compiles pattern ASTs into flat bytecode programs and executes
// them with a Pike VM.
//
// A Program is an immutable array of instructions. The PikeVM simulates all
// NFA threads in lockstep, one input code point per step, so matching runs
// in O(len(program) * len(input)) time regardless of the pattern.
// All mutable execution state lives in PikeVMState, which makes a single
// Program safe to share between goroutines.
package nfa

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrTooComplex indicates the compiled program would exceed the configured size limit
	ErrTooComplex = errors.New("pattern too complex")

	// ErrInvalidProgram indicates an encoded program is malformed
	ErrInvalidProgram = errors.New("invalid program")
)

// CompileError wraps compilation errors with the offending pattern
type CompileError struct {
	Pattern string
	Err     error
}

// Error implements the error interface
func (e *CompileError) Error() string {
	if e.Pattern != "" {
		return fmt.Sprintf("compilation failed for pattern %q: %v", e.Pattern, e.Err)
	}
	return fmt.Sprintf("compilation failed: %v", e.Err)
}

// Unwrap returns the underlying error
func (e *CompileError) Unwrap() error {
	return e.Err
}

// BuildError represents a misuse of the Builder API
type BuildError struct {
	Message string
	PC      int
}

// Error implements the error interface
func (e *BuildError) Error() string {
	if e.PC >= 0 {
		return fmt.Sprintf("program build error at pc %d: %s", e.PC, e.Message)
	}
	return fmt.Sprintf("program build error: %s", e.Message)
}
