package simd

import "bytes"

// Memmem returns the index of the first instance of needle in haystack,
// or -1 if needle is not present. It agrees with bytes.Index.
//
// Candidates are found by scanning for the rarest byte of the needle (see
// RarestByte) with Memchr and are then verified in full.
//
// Example:
//
//	pos := simd.Memmem([]byte("hello world"), []byte("world"))
//	// pos == 6
func Memmem(haystack, needle []byte) int {
	needleLen := len(needle)
	haystackLen := len(haystack)

	if needleLen == 0 {
		return 0
	}
	if needleLen > haystackLen {
		return -1
	}
	if needleLen == 1 {
		return Memchr(haystack, needle[0])
	}

	rare, rareIdx := RarestByte(needle)
	// The rare byte of a match lies in [rareIdx, haystackLen-needleLen+rareIdx].
	pos := rareIdx
	last := haystackLen - needleLen + rareIdx
	for pos <= last {
		idx := Memchr(haystack[pos:last+1], rare)
		if idx < 0 {
			return -1
		}
		pos += idx
		start := pos - rareIdx
		if bytes.Equal(haystack[start:start+needleLen], needle) {
			return start
		}
		pos++
	}
	return -1
}
