package literal

import (
	"unicode/utf8"

	"github.com/coregx/pikere/syntax"
)

// ExtractorConfig configures literal extraction limits.
//
// Example:
//
//	config := literal.ExtractorConfig{
//	    MaxLiterals:   64,
//	    MaxLiteralLen: 32,
//	}
//	extractor := literal.New(config)
type ExtractorConfig struct {
	// MaxLiterals limits the number of alternative literals. Alternations
	// that would exceed it yield no prefix set at all, and concatenations
	// stop extending their prefixes. Default: 64.
	MaxLiterals int

	// MaxLiteralLen limits the length of each literal in bytes. Longer
	// prefixes are truncated and become incomplete. Default: 32.
	MaxLiteralLen int
}

// DefaultConfig returns the default extractor configuration.
func DefaultConfig() ExtractorConfig {
	return ExtractorConfig{
		MaxLiterals:   64,
		MaxLiteralLen: 32,
	}
}

// Extractor computes prefix literal sets from pattern ASTs.
//
// Example:
//
//	root, _ := syntax.Parse("[(hello)(world)]")
//	prefixes := literal.New(literal.DefaultConfig()).ExtractPrefixes(root)
//	// prefixes = ["hello", "world"], both complete
type Extractor struct {
	config ExtractorConfig
}

// New creates an Extractor. Non-positive limits take their defaults.
func New(config ExtractorConfig) *Extractor {
	def := DefaultConfig()
	if config.MaxLiterals <= 0 {
		config.MaxLiterals = def.MaxLiterals
	}
	if config.MaxLiteralLen <= 0 {
		config.MaxLiteralLen = def.MaxLiteralLen
	}
	return &Extractor{config: config}
}

// ExtractPrefixes returns a set of literals such that every match of the
// pattern starts with at least one of them, or nil when no useful set
// exists (the pattern can start with any code point, can match the empty
// string, or would need too many literals).
//
// Examples:
//
//	"hello"          → ["hello"] (complete)
//	"[(foo)(bar)]"   → ["foo", "bar"] (complete)
//	"ab*c"           → ["ac" (complete), "ab"]
//	"hello.*"        → ["hello"]
//	".*foo"          → nil
func (e *Extractor) ExtractPrefixes(root *syntax.Node) *Seq {
	seq := e.prefixes(root)
	if seq.IsEmpty() || seq.HasEmpty() {
		return nil
	}
	seq.Minimize()
	return seq
}

// prefixes returns the prefix set of n, nil meaning unbounded.
//
// The empty complete literal stands for "n may match nothing here", which
// lets a concatenation see through marks and optional parts.
func (e *Extractor) prefixes(n *syntax.Node) *Seq {
	switch n.Op {
	case syntax.OpLiteral:
		return NewSeq(NewLiteral(utf8.AppendRune(nil, n.Rune), true))

	case syntax.OpCaptureMark:
		return NewSeq(NewLiteral(nil, true))

	case syntax.OpBeginAnchor, syntax.OpEndAnchor:
		// Zero-width, but a literal behind an anchor is not a whole match.
		return NewSeq(NewLiteral(nil, false))

	case syntax.OpAnyChar:
		return nil

	case syntax.OpConcat:
		left := e.prefixes(n.Sub[0])
		if left == nil {
			return nil
		}
		return e.cross(left, e.prefixes(n.Sub[1]))

	case syntax.OpAlternation:
		var all []Literal
		for _, sub := range n.Sub {
			seq := e.prefixes(sub)
			if seq == nil || len(all)+seq.Len() > e.config.MaxLiterals {
				return nil
			}
			all = append(all, seq.literals...)
		}
		return NewSeq(all...)

	case syntax.OpStar:
		body := e.prefixes(n.Sub[0])
		if body == nil {
			return nil
		}
		return NewSeq(append([]Literal{NewLiteral(nil, true)}, incomplete(body.literals)...)...)

	case syntax.OpOptional:
		body := e.prefixes(n.Sub[0])
		if body == nil {
			return nil
		}
		return NewSeq(append([]Literal{NewLiteral(nil, true)}, body.literals...)...)

	case syntax.OpPlus:
		body := e.prefixes(n.Sub[0])
		if body == nil {
			return nil
		}
		return NewSeq(incomplete(body.literals)...)
	}
	return nil
}

// cross extends every complete literal of left with every literal of
// right. Incomplete literals of left stay as they are. When right is
// unbounded or the product would exceed the limits, left's literals are
// kept as incomplete prefixes instead.
func (e *Extractor) cross(left, right *Seq) *Seq {
	if right == nil || e.productSize(left, right) > e.config.MaxLiterals {
		return NewSeq(incomplete(left.literals)...)
	}

	out := make([]Literal, 0, e.productSize(left, right))
	for _, l := range left.literals {
		if !l.Complete {
			out = append(out, l)
			continue
		}
		for _, r := range right.literals {
			b := make([]byte, 0, len(l.Bytes)+len(r.Bytes))
			b = append(append(b, l.Bytes...), r.Bytes...)
			complete := r.Complete
			if len(b) > e.config.MaxLiteralLen {
				b = truncate(b, e.config.MaxLiteralLen)
				complete = false
			}
			out = append(out, NewLiteral(b, complete))
		}
	}
	return NewSeq(out...)
}

func (e *Extractor) productSize(left, right *Seq) int {
	size := 0
	for _, l := range left.literals {
		if l.Complete {
			size += right.Len()
		} else {
			size++
		}
	}
	return size
}

// truncate cuts b to at most n bytes without splitting a UTF-8 sequence.
func truncate(b []byte, n int) []byte {
	for n > 0 && n < len(b) && !utf8.RuneStart(b[n]) {
		n--
	}
	return b[:n]
}

func incomplete(lits []Literal) []Literal {
	out := make([]Literal, len(lits))
	for i, lit := range lits {
		out[i] = NewLiteral(lit.Bytes, false)
	}
	return out
}
