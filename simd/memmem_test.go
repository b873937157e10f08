package simd

import (
	"bytes"
	"strings"
	"testing"
)

func TestMemmem(t *testing.T) {
	tests := []struct {
		name     string
		haystack string
		needle   string
	}{
		{"empty needle", "abc", ""},
		{"empty haystack", "", "a"},
		{"needle longer", "ab", "abc"},
		{"single byte", "hello", "l"},
		{"at start", "hello world", "hello"},
		{"at end", "hello world", "world"},
		{"repeated prefix", "aaaaaabaaaa", "aab"},
		{"overlapping", "abababac", "ababac"},
		{"not found", "hello world", "xyz"},
		{"rare byte in middle", "the quick brown fox", "quick"},
		{"utf8", "naïve café", "café"},
		{"whole haystack", "needle", "needle"},
		{"long needle", strings.Repeat("ab", 40) + "Q" + strings.Repeat("ab", 40), strings.Repeat("ab", 20) + "Q"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Memmem([]byte(tt.haystack), []byte(tt.needle))
			want := bytes.Index([]byte(tt.haystack), []byte(tt.needle))
			if got != want {
				t.Errorf("Memmem(%q, %q) = %d, want %d", tt.haystack, tt.needle, got, want)
			}
		})
	}
}

func TestRarestByte(t *testing.T) {
	tests := []struct {
		needle string
		want   byte
		index  int
	}{
		{"a", 'a', 0},
		{"eeZee", 'Z', 2},
		{"ab", 'b', 1},
		{"qq", 'q', 1},
	}

	for _, tt := range tests {
		b, idx := RarestByte([]byte(tt.needle))
		if b != tt.want || idx != tt.index {
			t.Errorf("RarestByte(%q) = (%q, %d), want (%q, %d)", tt.needle, b, idx, tt.want, tt.index)
		}
	}
}
