// Package literal extracts literal prefixes from parsed patterns.
//
// The primary use case is prefiltering: if every match of a pattern must
// begin with one of a small set of byte strings, a search can skip straight
// to the next occurrence of one of them before starting the VM.
//
// Key concepts:
//   - A Literal is a concrete UTF-8 byte sequence
//   - A Seq is a set of alternative literals, in pattern priority order
//   - Complete literals are whole matches, not just prefixes of one
package literal

import (
	"bytes"
	"sort"
)

// Literal is a byte sequence extracted from a pattern.
//
// Example:
//   - Pattern "hello" → Literal{[]byte("hello"), true}
//   - Pattern "hello.*" → Literal{[]byte("hello"), false} (prefix only)
type Literal struct {
	// Bytes is the UTF-8 encoding of the literal.
	Bytes []byte

	// Complete reports that Bytes is itself a full match of the pattern,
	// not merely a prefix every match starts with.
	Complete bool
}

// NewLiteral creates a Literal from b and the completeness flag.
func NewLiteral(b []byte, complete bool) Literal {
	return Literal{
		Bytes:    b,
		Complete: complete,
	}
}

// Len returns the length of the literal in bytes.
func (l Literal) Len() int {
	return len(l.Bytes)
}

// String returns a debugging representation: "literal{bytes, complete=bool}"
func (l Literal) String() string {
	complete := "false"
	if l.Complete {
		complete = "true"
	}
	return "literal{" + string(l.Bytes) + ", complete=" + complete + "}"
}

// Seq is a set of alternative literals.
//
// Example:
//
//	seq := literal.NewSeq(
//	    literal.NewLiteral([]byte("foo"), true),
//	    literal.NewLiteral([]byte("bar"), true),
//	)
//	fmt.Println(seq.Len()) // Output: 2
type Seq struct {
	literals []Literal
}

// NewSeq creates a sequence from the given literals.
func NewSeq(lits ...Literal) *Seq {
	return &Seq{
		literals: lits,
	}
}

// Len returns the number of literals in the sequence.
func (s *Seq) Len() int {
	if s == nil {
		return 0
	}
	return len(s.literals)
}

// Get returns the literal at index i.
// Panics if i is out of bounds.
func (s *Seq) Get(i int) Literal {
	return s.literals[i]
}

// IsEmpty returns true if the sequence has no literals.
func (s *Seq) IsEmpty() bool {
	return s == nil || len(s.literals) == 0
}

// HasEmpty reports whether the sequence contains the empty literal, which
// matches at every position and makes the sequence useless as a filter.
func (s *Seq) HasEmpty() bool {
	if s == nil {
		return false
	}
	for _, lit := range s.literals {
		if len(lit.Bytes) == 0 {
			return true
		}
	}
	return false
}

// Minimize removes literals made redundant by a shorter one.
//
// For prefix filtering, "foobar" is redundant next to "foo": any position
// where "foobar" starts also starts "foo". A literal that absorbed a longer
// one is no longer complete, since finding it no longer identifies the whole
// match.
//
// Example:
//
//	seq := literal.NewSeq(
//	    literal.NewLiteral([]byte("foo"), true),
//	    literal.NewLiteral([]byte("foobar"), true),
//	)
//	seq.Minimize()
//	fmt.Println(seq.Len()) // Output: 1 (only "foo" remains, incomplete)
func (s *Seq) Minimize() {
	if s.IsEmpty() {
		return
	}

	sort.SliceStable(s.literals, func(i, j int) bool {
		return len(s.literals[i].Bytes) < len(s.literals[j].Bytes)
	})

	kept := make([]Literal, 0, len(s.literals))
	for _, current := range s.literals {
		redundant := false
		for j := range kept {
			if !bytes.HasPrefix(current.Bytes, kept[j].Bytes) {
				continue
			}
			redundant = true
			if len(current.Bytes) != len(kept[j].Bytes) || !current.Complete {
				kept[j].Complete = false
			}
			break
		}
		if !redundant {
			kept = append(kept, current)
		}
	}

	s.literals = kept
}

// LongestCommonPrefix returns the longest common prefix of all literals.
// If the sequence is empty or has no common prefix, returns an empty slice.
//
// Example:
//
//	seq := literal.NewSeq(
//	    literal.NewLiteral([]byte("hello"), true),
//	    literal.NewLiteral([]byte("help"), true),
//	)
//	fmt.Println(string(seq.LongestCommonPrefix())) // Output: hel
func (s *Seq) LongestCommonPrefix() []byte {
	if s.IsEmpty() {
		return []byte{}
	}

	prefix := s.literals[0].Bytes
	for i := 1; i < len(s.literals); i++ {
		prefix = commonPrefix(prefix, s.literals[i].Bytes)
		if len(prefix) == 0 {
			return []byte{}
		}
	}

	return append([]byte(nil), prefix...)
}

// MaxLen returns the length of the longest literal, 0 for an empty sequence.
func (s *Seq) MaxLen() int {
	longest := 0
	for i := 0; i < s.Len(); i++ {
		if n := len(s.literals[i].Bytes); n > longest {
			longest = n
		}
	}
	return longest
}

// commonPrefix returns the longest common prefix of a and b.
func commonPrefix(a, b []byte) []byte {
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}

	for i := 0; i < minLen; i++ {
		if a[i] != b[i] {
			return a[:i]
		}
	}

	return a[:minLen]
}
