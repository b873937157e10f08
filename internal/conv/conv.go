// Package conv provides checked integer conversions for the engine.
//
// The panicking helpers are for values the engine computes itself (program
// sizes, instruction indexes), where overflow is a programming error. The
// two-result helpers are for values read from untrusted encodings.
package conv

import "math"

// IntToUint32 converts an int to uint32.
// Panics if n < 0 or n > math.MaxUint32.
//
//go:inline
func IntToUint32(n int) uint32 {
	// Compare as uint so 32-bit platforms do not overflow the constant.
	if n < 0 || uint(n) > math.MaxUint32 {
		panic("integer overflow: int value out of uint32 range")
	}
	return uint32(n)
}

// Uint64ToInt converts a decoded uint64 to a non-negative int.
// ok is false when v does not fit.
func Uint64ToInt(v uint64) (n int, ok bool) {
	if v > math.MaxInt32 {
		return 0, false
	}
	return int(v), true
}

// Uint64ToRune converts a decoded uint64 to a rune in [0, MaxRune].
func Uint64ToRune(v uint64) (r rune, ok bool) {
	if v > 0x10FFFF {
		return 0, false
	}
	return rune(v), true
}
