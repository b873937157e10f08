// Package simd provides byte and substring search primitives for the
// prefilters.
//
// The searches process eight bytes per iteration with SWAR (SIMD Within A
// Register) arithmetic on uint64 words, so they run at the same speed on
// every platform without assembly.
package simd

import (
	"encoding/binary"
	"math/bits"
)

const (
	lo8 = 0x0101010101010101
	hi8 = 0x8080808080808080
)

// Memchr returns the index of the first instance of needle in haystack,
// or -1 if needle is not present.
//
// Algorithm:
//  1. Broadcast needle into every byte of a uint64 mask
//  2. XOR eight haystack bytes with the mask (matching bytes become 0x00)
//  3. Detect zero bytes with (v - 0x01..01) & ^v & 0x80..80
//  4. The trailing zero count of the result locates the first match
func Memchr(haystack []byte, needle byte) int {
	n := len(haystack)
	if n < 8 {
		for i := 0; i < n; i++ {
			if haystack[i] == needle {
				return i
			}
		}
		return -1
	}

	mask := uint64(needle) * lo8
	i := 0
	for ; i+8 <= n; i += 8 {
		v := binary.LittleEndian.Uint64(haystack[i:]) ^ mask
		// Borrows only propagate upward, so the lowest flagged byte is exact.
		if zero := (v - lo8) & ^v & hi8; zero != 0 {
			return i + bits.TrailingZeros64(zero)/8
		}
	}
	for ; i < n; i++ {
		if haystack[i] == needle {
			return i
		}
	}
	return -1
}

// Memchr2 returns the index of the first instance of needle1 or needle2 in
// haystack, or -1 if neither is present.
func Memchr2(haystack []byte, needle1, needle2 byte) int {
	n := len(haystack)
	if n < 8 {
		for i := 0; i < n; i++ {
			if b := haystack[i]; b == needle1 || b == needle2 {
				return i
			}
		}
		return -1
	}

	mask1 := uint64(needle1) * lo8
	mask2 := uint64(needle2) * lo8
	i := 0
	for ; i+8 <= n; i += 8 {
		chunk := binary.LittleEndian.Uint64(haystack[i:])
		v1 := chunk ^ mask1
		v2 := chunk ^ mask2
		zero := ((v1 - lo8) & ^v1 & hi8) | ((v2 - lo8) & ^v2 & hi8)
		if zero != 0 {
			return i + bits.TrailingZeros64(zero)/8
		}
	}
	for ; i < n; i++ {
		if b := haystack[i]; b == needle1 || b == needle2 {
			return i
		}
	}
	return -1
}
