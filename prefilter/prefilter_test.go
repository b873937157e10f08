package prefilter

import (
	"strings"
	"testing"

	"github.com/coregx/pikere/literal"
	"github.com/coregx/pikere/syntax"
)

func seqOf(complete bool, lits ...string) *literal.Seq {
	out := make([]literal.Literal, len(lits))
	for i, s := range lits {
		out[i] = literal.NewLiteral([]byte(s), complete)
	}
	return literal.NewSeq(out...)
}

func TestNew_Selection(t *testing.T) {
	tests := []struct {
		name     string
		prefixes *literal.Seq
		want     string
		complete bool
	}{
		{"single byte", seqOf(true, "a"), "memchr", true},
		{"single substring", seqOf(true, "hello"), "memmem", true},
		{"incomplete substring", seqOf(false, "hello"), "memmem", false},
		{"two bytes", seqOf(true, "a", "b"), "memchr2", false},
		{"shared prefix", seqOf(true, "help", "hello"), "memmem", false},
		{"shared first byte", seqOf(true, "ab", "ac"), "memchr", false},
		{"disjoint", seqOf(true, "foo", "bar", "baz"), "aho-corasick", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pf := New(tt.prefixes)
			if pf == nil {
				t.Fatal("New() returned nil")
			}
			if pf.String() != tt.want {
				t.Errorf("strategy = %s, want %s", pf, tt.want)
			}
			if pf.IsComplete() != tt.complete {
				t.Errorf("IsComplete() = %v, want %v", pf.IsComplete(), tt.complete)
			}
		})
	}
}

func TestNew_Unusable(t *testing.T) {
	if pf := New(nil); pf != nil {
		t.Errorf("New(nil) = %s, want nil", pf)
	}
	if pf := New(literal.NewSeq()); pf != nil {
		t.Errorf("New(empty) = %s, want nil", pf)
	}
	if pf := New(seqOf(true, "a", "")); pf != nil {
		t.Errorf("New with empty literal = %s, want nil", pf)
	}
}

func TestPrefilter_Find(t *testing.T) {
	tests := []struct {
		name     string
		prefixes *literal.Seq
		haystack string
		start    int
		want     int
	}{
		{"memchr", seqOf(true, "x"), "abcxdx", 0, 3},
		{"memchr from start", seqOf(true, "x"), "abcxdx", 4, 5},
		{"memchr none", seqOf(true, "x"), "abc", 0, -1},
		{"memchr2", seqOf(false, "x", "y"), "abyx", 0, 2},
		{"memmem", seqOf(true, "world"), "hello world", 0, 6},
		{"memmem past", seqOf(true, "world"), "hello world", 7, -1},
		{"start at end", seqOf(true, "a"), "a", 1, -1},
		{"negative start", seqOf(true, "a"), "a", -1, -1},
		{"aho-corasick", seqOf(false, "foo", "bar", "qux"), "xx bar foo", 0, 3},
		{"aho-corasick clamps to start", seqOf(false, "abcd", "bc", "xyz"), "abcd", 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pf := New(tt.prefixes)
			if got := pf.Find([]byte(tt.haystack), tt.start); got != tt.want {
				t.Errorf("Find(%q, %d) = %d, want %d", tt.haystack, tt.start, got, tt.want)
			}
		})
	}
}

// A candidate is never past the first position where a literal occurs
func TestPrefilter_NeverSkipsOccurrence(t *testing.T) {
	patterns := []string{"[(abcd)(bc)(cx)]", "[(hello)(help)]", "[(foo)(oof)(of)]", "[xyz]", "needle"}
	haystack := strings.Repeat("zz abcd helo help of oof xyz needl needle ", 3)

	for _, pattern := range patterns {
		root, err := syntax.Parse(pattern)
		if err != nil {
			t.Fatal(err)
		}
		prefixes := literal.New(literal.DefaultConfig()).ExtractPrefixes(root)
		pf := New(prefixes)
		if pf == nil {
			t.Fatalf("%s: no prefilter", pattern)
		}

		for start := 0; start < len(haystack); start++ {
			first := -1
			for i := start; i < len(haystack) && first < 0; i++ {
				for j := 0; j < prefixes.Len(); j++ {
					if strings.HasPrefix(haystack[i:], string(prefixes.Get(j).Bytes)) {
						first = i
						break
					}
				}
			}
			got := pf.Find([]byte(haystack), start)
			if first < 0 {
				if got >= 0 && got < start {
					t.Errorf("%s: Find(%d) = %d before start", pattern, start, got)
				}
				continue
			}
			if got < start || got > first {
				t.Errorf("%s: Find(%d) = %d, first occurrence at %d", pattern, start, got, first)
			}
		}
	}
}

func TestPrefilter_LiteralLen(t *testing.T) {
	if got := New(seqOf(true, "abc")).LiteralLen(); got != 3 {
		t.Errorf("LiteralLen() = %d, want 3", got)
	}
	if got := New(seqOf(false, "abc")).LiteralLen(); got != 0 {
		t.Errorf("LiteralLen() = %d, want 0 for incomplete", got)
	}
	if got := New(seqOf(true, "abc")).HeapBytes(); got != 3 {
		t.Errorf("HeapBytes() = %d, want 3", got)
	}
}
