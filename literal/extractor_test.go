package literal

import (
	"testing"

	"github.com/coregx/pikere/syntax"
)

type want struct {
	lit      string
	complete bool
}

func extract(t *testing.T, config ExtractorConfig, pattern string) *Seq {
	t.Helper()
	root, err := syntax.Parse(pattern)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", pattern, err)
	}
	return New(config).ExtractPrefixes(root)
}

func TestExtractPrefixes(t *testing.T) {
	tests := []struct {
		pattern string
		want    []want // nil: no prefix set
	}{
		{"hello", []want{{"hello", true}}},
		{"é😀", []want{{"é😀", true}}},
		{"[(foo)(bar)]", []want{{"foo", true}, {"bar", true}}},
		{"ab*c", []want{{"ac", true}, {"ab", false}}},
		{"ab?c", []want{{"ac", true}, {"abc", true}}},
		{"a+b", []want{{"a", false}}},
		{"hello.*", []want{{"hello", false}}},
		{"abc$", []want{{"abc", false}}},
		{"&abc&", []want{{"abc", true}}},
		{"x[ab]y", []want{{"xay", true}, {"xby", true}}},
		{"[(foo)(foobar)]", []want{{"foo", false}}},
		{"(ab)+", []want{{"ab", false}}},

		{".*foo", nil},
		{"a*", nil},
		{"a?b?", nil},
		{"[a.]", nil},
		{"$a", nil},
		{".", nil},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			seq := extract(t, DefaultConfig(), tt.pattern)
			if tt.want == nil {
				if seq != nil {
					t.Fatalf("ExtractPrefixes() = %d literals, want nil", seq.Len())
				}
				return
			}
			if seq.Len() != len(tt.want) {
				t.Fatalf("ExtractPrefixes() has %d literals, want %d", seq.Len(), len(tt.want))
			}
			for i, w := range tt.want {
				got := seq.Get(i)
				if string(got.Bytes) != w.lit || got.Complete != w.complete {
					t.Errorf("literal %d = %v, want %q complete=%v", i, got, w.lit, w.complete)
				}
			}
		})
	}
}

func TestExtractPrefixes_Limits(t *testing.T) {
	t.Run("alternation over MaxLiterals", func(t *testing.T) {
		seq := extract(t, ExtractorConfig{MaxLiterals: 2}, "[abc]")
		if seq != nil {
			t.Errorf("got %d literals, want nil", seq.Len())
		}
	})

	t.Run("product over MaxLiterals keeps left side", func(t *testing.T) {
		seq := extract(t, ExtractorConfig{MaxLiterals: 3}, "[ab][cd]")
		if seq.Len() != 2 {
			t.Fatalf("got %d literals, want 2", seq.Len())
		}
		for i := 0; i < seq.Len(); i++ {
			if seq.Get(i).Complete {
				t.Errorf("literal %v should be incomplete", seq.Get(i))
			}
		}
	})

	t.Run("MaxLiteralLen truncates", func(t *testing.T) {
		seq := extract(t, ExtractorConfig{MaxLiteralLen: 4}, "abcdefgh")
		if seq.Len() != 1 {
			t.Fatalf("got %d literals, want 1", seq.Len())
		}
		if got := seq.Get(0); string(got.Bytes) != "abcd" || got.Complete {
			t.Errorf("got %v, want incomplete abcd", got)
		}
	})

	t.Run("truncation keeps code points whole", func(t *testing.T) {
		seq := extract(t, ExtractorConfig{MaxLiteralLen: 4}, "aaéé")
		if got := string(seq.Get(0).Bytes); got != "aaé" {
			t.Errorf("got %q, want %q", got, "aaé")
		}
	})
}
