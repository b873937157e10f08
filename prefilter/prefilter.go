// Package prefilter finds candidate match positions before the VM runs.
//
// A prefilter scans the haystack for the prefix literals extracted from a
// pattern. Every match starts at or after the first candidate, so a search
// can begin there instead of at the start of the input.
//
// The strategy is picked from the literal set:
//   - Single byte → memchr
//   - Two single bytes → memchr2
//   - Single substring → memmem
//   - Shared prefix → memmem on the common prefix
//   - Anything else → Aho-Corasick automaton
//
// Example usage:
//
//	root, _ := syntax.Parse("[(hello)(world)]")
//	prefixes := literal.New(literal.DefaultConfig()).ExtractPrefixes(root)
//	pf := prefilter.New(prefixes)
//	pos := pf.Find([]byte("foo hello bar world"), 0)
//	// pos == 4
package prefilter

import (
	"github.com/coregx/ahocorasick"

	"github.com/coregx/pikere/literal"
	"github.com/coregx/pikere/simd"
)

// Prefilter finds candidate match positions.
type Prefilter interface {
	// Find returns a position at or after start such that no match of the
	// pattern starts in [start, position), or -1 if no match can start at
	// or after start.
	Find(haystack []byte, start int) int

	// IsComplete reports that a candidate is itself a whole match of length
	// LiteralLen, so no verification is needed.
	IsComplete() bool

	// LiteralLen returns the length of a complete match, 0 if incomplete.
	LiteralLen() int

	// HeapBytes returns the memory held by the prefilter.
	HeapBytes() int

	// String names the strategy, for diagnostics.
	String() string
}

// New selects a prefilter for prefixes. It returns nil when the set is
// empty or contains the empty literal.
func New(prefixes *literal.Seq) Prefilter {
	if prefixes.IsEmpty() || prefixes.HasEmpty() {
		return nil
	}

	if prefixes.Len() == 1 {
		lit := prefixes.Get(0)
		if lit.Len() == 1 {
			return newMemchrPrefilter(lit.Bytes[0], lit.Complete)
		}
		return newMemmemPrefilter(lit.Bytes, lit.Complete)
	}

	if prefixes.Len() == 2 && prefixes.Get(0).Len() == 1 && prefixes.Get(1).Len() == 1 {
		return newMemchr2Prefilter(prefixes.Get(0).Bytes[0], prefixes.Get(1).Bytes[0])
	}

	if lcp := prefixes.LongestCommonPrefix(); len(lcp) > 0 {
		if len(lcp) == 1 {
			return newMemchrPrefilter(lcp[0], false)
		}
		return newMemmemPrefilter(lcp, false)
	}

	return newAhoCorasickPrefilter(prefixes)
}

// memchrPrefilter scans for a single byte with simd.Memchr.
type memchrPrefilter struct {
	needle   byte
	complete bool
}

func newMemchrPrefilter(needle byte, complete bool) Prefilter {
	return &memchrPrefilter{
		needle:   needle,
		complete: complete,
	}
}

// Find implements Prefilter.Find.
func (p *memchrPrefilter) Find(haystack []byte, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	idx := simd.Memchr(haystack[start:], p.needle)
	if idx == -1 {
		return -1
	}
	return start + idx
}

// IsComplete implements Prefilter.IsComplete.
func (p *memchrPrefilter) IsComplete() bool {
	return p.complete
}

// LiteralLen implements Prefilter.LiteralLen.
func (p *memchrPrefilter) LiteralLen() int {
	if p.complete {
		return 1
	}
	return 0
}

// HeapBytes implements Prefilter.HeapBytes.
func (p *memchrPrefilter) HeapBytes() int {
	return 0
}

func (p *memchrPrefilter) String() string {
	return "memchr"
}

// memchr2Prefilter scans for either of two bytes with simd.Memchr2.
type memchr2Prefilter struct {
	b1, b2 byte
}

func newMemchr2Prefilter(b1, b2 byte) Prefilter {
	return &memchr2Prefilter{b1: b1, b2: b2}
}

// Find implements Prefilter.Find.
func (p *memchr2Prefilter) Find(haystack []byte, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	idx := simd.Memchr2(haystack[start:], p.b1, p.b2)
	if idx == -1 {
		return -1
	}
	return start + idx
}

// IsComplete implements Prefilter.IsComplete.
func (p *memchr2Prefilter) IsComplete() bool {
	return false
}

// LiteralLen implements Prefilter.LiteralLen.
func (p *memchr2Prefilter) LiteralLen() int {
	return 0
}

// HeapBytes implements Prefilter.HeapBytes.
func (p *memchr2Prefilter) HeapBytes() int {
	return 0
}

func (p *memchr2Prefilter) String() string {
	return "memchr2"
}

// memmemPrefilter scans for a substring with simd.Memmem.
type memmemPrefilter struct {
	needle   []byte
	complete bool
}

// newMemmemPrefilter copies needle.
func newMemmemPrefilter(needle []byte, complete bool) Prefilter {
	return &memmemPrefilter{
		needle:   append([]byte(nil), needle...),
		complete: complete,
	}
}

// Find implements Prefilter.Find.
func (p *memmemPrefilter) Find(haystack []byte, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	idx := simd.Memmem(haystack[start:], p.needle)
	if idx == -1 {
		return -1
	}
	return start + idx
}

// IsComplete implements Prefilter.IsComplete.
func (p *memmemPrefilter) IsComplete() bool {
	return p.complete
}

// LiteralLen implements Prefilter.LiteralLen.
func (p *memmemPrefilter) LiteralLen() int {
	if p.complete {
		return len(p.needle)
	}
	return 0
}

// HeapBytes implements Prefilter.HeapBytes.
func (p *memmemPrefilter) HeapBytes() int {
	return len(p.needle)
}

func (p *memmemPrefilter) String() string {
	return "memmem"
}

// ahoCorasickPrefilter scans for many literals at once.
type ahoCorasickPrefilter struct {
	auto      *ahocorasick.Automaton
	maxLen    int
	heapBytes int
}

func newAhoCorasickPrefilter(prefixes *literal.Seq) Prefilter {
	builder := ahocorasick.NewBuilder()
	heap := 0
	for i := 0; i < prefixes.Len(); i++ {
		lit := prefixes.Get(i)
		builder.AddPattern(lit.Bytes)
		heap += lit.Len()
	}
	auto, err := builder.Build()
	if err != nil {
		return nil
	}
	return &ahoCorasickPrefilter{
		auto:      auto,
		maxLen:    prefixes.MaxLen(),
		heapBytes: heap,
	}
}

// Find implements Prefilter.Find.
//
// The candidate is moved back to End - maxLen, so it is never past the
// start of an overlapping literal that ends later, whatever match order the
// automaton reports.
func (p *ahoCorasickPrefilter) Find(haystack []byte, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	m := p.auto.Find(haystack, start)
	if m == nil {
		return -1
	}
	pos := m.End - p.maxLen
	if pos < start {
		pos = start
	}
	return pos
}

// IsComplete implements Prefilter.IsComplete.
func (p *ahoCorasickPrefilter) IsComplete() bool {
	return false
}

// LiteralLen implements Prefilter.LiteralLen.
func (p *ahoCorasickPrefilter) LiteralLen() int {
	return 0
}

// HeapBytes implements Prefilter.HeapBytes.
func (p *ahoCorasickPrefilter) HeapBytes() int {
	return p.heapBytes
}

func (p *ahoCorasickPrefilter) String() string {
	return "aho-corasick"
}
