package nfa

import (
	"unicode/utf16"
	"unicode/utf8"
)

// Input is a sequence of code points addressed by unit offsets. Offsets are
// byte offsets for UTF-8, 16-bit unit offsets for UTF-16 and element
// indexes for rune slices; matches report positions in the same units.
type Input interface {
	// Len returns the input length in units.
	Len() int

	// Decode returns the code point starting at pos and its width in units.
	// At pos == Len() it returns width 0. Invalid encodings decode to
	// utf8.RuneError with a width of 1 so the VM always makes progress.
	Decode(pos int) (r rune, width int)
}

// BytesInput is UTF-8 encoded input
type BytesInput []byte

// Len implements Input
func (b BytesInput) Len() int { return len(b) }

// Decode implements Input
func (b BytesInput) Decode(pos int) (rune, int) {
	if pos >= len(b) {
		return utf8.RuneError, 0
	}
	if c := b[pos]; c < utf8.RuneSelf {
		return rune(c), 1
	}
	return utf8.DecodeRune(b[pos:])
}

// StringInput is UTF-8 encoded input held in a string
type StringInput string

// Len implements Input
func (s StringInput) Len() int { return len(s) }

// Decode implements Input
func (s StringInput) Decode(pos int) (rune, int) {
	if pos >= len(s) {
		return utf8.RuneError, 0
	}
	if c := s[pos]; c < utf8.RuneSelf {
		return rune(c), 1
	}
	return utf8.DecodeRuneInString(string(s[pos:]))
}

// UTF16Input is UTF-16 encoded input. A surrogate pair is one code point of
// width 2; a lone surrogate decodes to utf8.RuneError with width 1.
type UTF16Input []uint16

// Len implements Input
func (u UTF16Input) Len() int { return len(u) }

// Decode implements Input
func (u UTF16Input) Decode(pos int) (rune, int) {
	if pos >= len(u) {
		return utf8.RuneError, 0
	}
	c := rune(u[pos])
	if !utf16.IsSurrogate(c) {
		return c, 1
	}
	if pos+1 < len(u) {
		if r := utf16.DecodeRune(c, rune(u[pos+1])); r != utf8.RuneError {
			return r, 2
		}
	}
	return utf8.RuneError, 1
}

// RuneInput is input already decoded to code points (UTF-32)
type RuneInput []rune

// Len implements Input
func (r RuneInput) Len() int { return len(r) }

// Decode implements Input
func (r RuneInput) Decode(pos int) (rune, int) {
	if pos >= len(r) {
		return utf8.RuneError, 0
	}
	return r[pos], 1
}
