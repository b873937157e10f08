package simd

import (
	"bytes"
	"fmt"
	"testing"
)

// TestMemchrBasic tests basic functionality and edge cases
func TestMemchrBasic(t *testing.T) {
	tests := []struct {
		name     string
		haystack []byte
		needle   byte
		want     int
	}{
		{"empty_haystack", []byte{}, 'a', -1},
		{"single_match", []byte{'a'}, 'a', 0},
		{"single_no_match", []byte{'a'}, 'b', -1},
		{"first_position", []byte("hello"), 'h', 0},
		{"last_position", []byte("hello"), 'o', 4},
		{"multiple_returns_first", []byte("hello world"), 'o', 4},
		{"null_byte_present", []byte{0, 1, 2, 3}, 0, 0},
		{"high_byte_0xff", []byte{1, 2, 255, 4}, 255, 2},
		{"longer_found", []byte("the quick brown fox jumps over the lazy dog"), 'q', 4},
		{"longer_last_char", []byte("the quick brown fox jumps over the lazy dog"), 'g', 42},
		{"longer_not_found", []byte("the quick brown fox jumps over the lazy dog"), '!', -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Memchr(tt.haystack, tt.needle)
			if got != tt.want {
				t.Errorf("Memchr(%q, %q) = %d, want %d", tt.haystack, tt.needle, got, tt.want)
			}
		})
	}
}

// TestMemchrAllPositions checks every position and length around the word size against stdlib
func TestMemchrAllPositions(t *testing.T) {
	for size := 0; size <= 40; size++ {
		for pos := -1; pos < size; pos++ {
			haystack := bytes.Repeat([]byte{'.'}, size)
			if pos >= 0 {
				haystack[pos] = 'x'
				if pos+3 < size {
					haystack[pos+3] = 'x'
				}
			}
			t.Run(fmt.Sprintf("size=%d/pos=%d", size, pos), func(t *testing.T) {
				if got, want := Memchr(haystack, 'x'), bytes.IndexByte(haystack, 'x'); got != want {
					t.Errorf("Memchr = %d, stdlib = %d", got, want)
				}
			})
		}
	}
}

func TestMemchr2(t *testing.T) {
	tests := []struct {
		haystack string
		n1, n2   byte
		want     int
	}{
		{"", 'a', 'b', -1},
		{"xyzb", 'a', 'b', 3},
		{"xaxb", 'b', 'a', 1},
		{"0123456789abcdef", 'f', 'e', 14},
		{"0123456789abcdef", 'x', 'y', -1},
		{"0123456789abcdefb", 'x', 'b', 11},
	}

	for _, tt := range tests {
		if got := Memchr2([]byte(tt.haystack), tt.n1, tt.n2); got != tt.want {
			t.Errorf("Memchr2(%q, %q, %q) = %d, want %d", tt.haystack, tt.n1, tt.n2, got, tt.want)
		}
	}
}

func BenchmarkMemchr(b *testing.B) {
	haystack := append(bytes.Repeat([]byte("abcdefgh"), 8192), 'z')
	b.SetBytes(int64(len(haystack)))
	for i := 0; i < b.N; i++ {
		Memchr(haystack, 'z')
	}
}
