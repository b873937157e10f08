// Package pikere is an embedded regular-expression engine with guaranteed
// linear-time matching.
//
// Patterns are parsed into an AST, compiled into a flat bytecode program
// and executed by a Pike VM, which advances every NFA thread in lockstep
// over the input, so no pattern can make a search take more than
// O(len(program) * len(input)) steps. Config.EnableBacktracker adds a
// bounded backtracker for short inputs, which keeps the same bound by never
// exploring an (instruction, offset) pair twice.
//
// Pattern syntax:
//
//	x y       concatenation
//	[x y z]   ordered alternation of the factors x, y, z
//	(x)       grouping
//	x* x+ x?  greedy repetition
//	.         any code point
//	^ $       start and end of the input
//	&         capture mark: records the current offset into the next slot
//	\b \n \t \r               backspace, newline, tab, carriage return
//	\[ \] \( \) \+ \* \? \^ \$ \& \\   the literal character
//
// Basic usage:
//
//	re, err := pikere.Compile("&[(ab)c]+&")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if m := re.SearchString("xxababcx"); m != nil {
//	    fmt.Println(m.Start(), m.End())   // 2 7
//	    fmt.Println(m.Slot(0), m.Slot(1)) // 2 7
//	}
//
// Matching is leftmost-first: of all matches starting at the leftmost
// possible offset, the one preferred by the pattern wins. Alternatives are
// preferred in order and quantifiers are greedy.
//
// Input can be UTF-8 ([]byte, string), UTF-16 or already decoded runes; see
// Exec. Offsets are reported in the code units of the input.
package pikere

import (
	"bytes"
	"unicode/utf8"

	"github.com/coregx/pikere/literal"
	"github.com/coregx/pikere/nfa"
	"github.com/coregx/pikere/prefilter"
	"github.com/coregx/pikere/syntax"
)

// Mode selects how a match must be anchored
type Mode = nfa.Mode

// Search modes, re-exported from nfa
const (
	ModeSearch = nfa.ModeSearch
	ModePrefix = nfa.ModePrefix
	ModeFull   = nfa.ModeFull
)

// Regex is a compiled pattern.
//
// A Regex is safe to use concurrently from multiple goroutines.
//
// Example:
//
//	re := pikere.MustCompile("hello")
//	if re.IsMatch([]byte("hello world")) {
//	    println("matched!")
//	}
type Regex struct {
	pattern string
	config  Config
	prog    *nfa.Program
	vm      *nfa.PikeVM
	states  *searchStatePool

	// bt is nil unless Config.EnableBacktracker is set.
	bt *nfa.BoundedBacktracker

	// pf is nil when no prefilter applies.
	pf prefilter.Prefilter
	// literalOnly is set when a prefilter hit is the whole match.
	literalOnly bool
}

// Compile parses a pattern and compiles it with DefaultConfig.
//
// Example:
//
//	re, err := pikere.Compile("^&.*&$")
//	if err != nil {
//	    log.Fatal(err)
//	}
func Compile(pattern string) (*Regex, error) {
	return CompileWithConfig(pattern, DefaultConfig())
}

// MustCompile is like Compile but panics if the pattern is invalid.
//
// Example:
//
//	var keyValue = pikere.MustCompile("&[abc]+&=&.*&")
func MustCompile(pattern string) *Regex {
	re, err := Compile(pattern)
	if err != nil {
		panic("pikere: Compile(`" + pattern + "`): " + err.Error())
	}
	return re
}

// CompileRunes compiles a pattern given as code points.
func CompileRunes(pattern []rune) (*Regex, error) {
	return Compile(string(pattern))
}

// CompileWithConfig compiles a pattern with a custom configuration.
//
// Errors are *ConfigError for an invalid config and *nfa.CompileError
// otherwise; a *syntax.Error can be extracted with errors.As.
//
// Example:
//
//	config := pikere.DefaultConfig()
//	config.MaxProgramSize = 4096
//	re, err := pikere.CompileWithConfig(userPattern, config)
func CompileWithConfig(pattern string, config Config) (*Regex, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	root, err := syntax.ParseWithLimit(pattern, config.MaxNestingDepth)
	if err != nil {
		return nil, &nfa.CompileError{Pattern: pattern, Err: err}
	}
	compiler := nfa.NewCompiler(nfa.CompilerConfig{
		MaxNestingDepth: config.MaxNestingDepth,
		MaxProgramSize:  config.MaxProgramSize,
	})
	prog, err := compiler.CompileNode(root)
	if err != nil {
		return nil, &nfa.CompileError{Pattern: pattern, Err: err}
	}
	return newRegex(pattern, root, prog, config), nil
}

func newRegex(pattern string, root *syntax.Node, prog *nfa.Program, config Config) *Regex {
	vm := nfa.NewPikeVMWithConfig(prog, nfa.PikeVMConfig{
		SlotBlocksPerChunk: config.SlotBlocksPerChunk,
	})
	var bt *nfa.BoundedBacktracker
	if config.EnableBacktracker {
		bt = nfa.NewBoundedBacktrackerWithBudget(prog, config.BacktrackBudget)
	}
	re := &Regex{
		pattern: pattern,
		config:  config,
		prog:    prog,
		vm:      vm,
		states:  newSearchStatePool(vm, bt),
		bt:      bt,
	}
	if config.EnablePrefilter && !prog.IsAnchoredStart() {
		re.buildPrefilter(root)
	}
	return re
}

// buildPrefilter selects a prefilter from the pattern's prefix literals.
func (r *Regex) buildPrefilter(root *syntax.Node) {
	extractor := literal.New(literal.ExtractorConfig{
		MaxLiterals:   r.config.MaxLiterals,
		MaxLiteralLen: r.config.MaxLiteralLen,
	})
	prefixes := extractor.ExtractPrefixes(root)
	if prefixes.IsEmpty() {
		return
	}
	// Candidates may land inside a multi-byte sequence, which decodes as
	// U+FFFD there; a literal starting with U+FFFD could match such a spot.
	replacement := utf8.AppendRune(nil, utf8.RuneError)
	for i := 0; i < prefixes.Len(); i++ {
		if bytes.HasPrefix(prefixes.Get(i).Bytes, replacement) {
			return
		}
	}

	r.pf = prefilter.New(prefixes)
	r.literalOnly = r.pf != nil && r.pf.IsComplete() && r.prog.SlotCount() == 0
}

// String returns the source pattern.
func (r *Regex) String() string {
	return r.pattern
}

// NumSlots returns the number of capture slots, one per '&' in the pattern.
func (r *Regex) NumSlots() int {
	return r.prog.SlotCount()
}

// Program returns the compiled program.
func (r *Regex) Program() *nfa.Program {
	return r.prog
}

// Prefilter returns the strategy used to skip ahead in unanchored searches,
// or "" when searches always start the VM at the search offset.
func (r *Regex) Prefilter() string {
	if r.pf == nil {
		return ""
	}
	return r.pf.String()
}

// Search returns the leftmost match in b, or nil.
func (r *Regex) Search(b []byte) *Match {
	return r.exec(nfa.BytesInput(b), b, 0, ModeSearch)
}

// SearchString returns the leftmost match in s, or nil.
func (r *Regex) SearchString(s string) *Match {
	return r.Exec(nfa.StringInput(s), ModeSearch)
}

// SearchAt returns the leftmost match in b starting at or after offset at.
// '^' still only matches at offset 0 of b.
func (r *Regex) SearchAt(b []byte, at int) *Match {
	return r.exec(nfa.BytesInput(b), b, at, ModeSearch)
}

// MatchPrefix returns the match that starts at offset 0 of b, or nil.
func (r *Regex) MatchPrefix(b []byte) *Match {
	return r.exec(nfa.BytesInput(b), b, 0, ModePrefix)
}

// MatchPrefixString returns the match that starts at offset 0 of s, or nil.
func (r *Regex) MatchPrefixString(s string) *Match {
	return r.Exec(nfa.StringInput(s), ModePrefix)
}

// MatchAll returns the match spanning all of b, or nil.
func (r *Regex) MatchAll(b []byte) *Match {
	return r.exec(nfa.BytesInput(b), b, 0, ModeFull)
}

// MatchAllString returns the match spanning all of s, or nil.
func (r *Regex) MatchAllString(s string) *Match {
	return r.Exec(nfa.StringInput(s), ModeFull)
}

// IsMatch reports whether b contains a match.
func (r *Regex) IsMatch(b []byte) bool {
	return r.Search(b) != nil
}

// IsMatchString reports whether s contains a match.
func (r *Regex) IsMatchString(s string) bool {
	return r.SearchString(s) != nil
}

// Exec runs the pattern over any code-point input.
//
// Example:
//
//	re := pikere.MustCompile(".b")
//	m := re.Exec(nfa.UTF16Input(utf16.Encode([]rune("😀b"))), pikere.ModeSearch)
//	// m.Start() == 0, m.End() == 3: the emoji is two UTF-16 units
func (r *Regex) Exec(in nfa.Input, mode Mode) *Match {
	var haystack []byte
	if r.pf != nil && mode == ModeSearch {
		switch v := in.(type) {
		case nfa.BytesInput:
			haystack = v
		case nfa.StringInput:
			haystack = []byte(v)
		}
	}
	return r.exec(in, haystack, 0, mode)
}

// exec runs a search from offset at. haystack is the UTF-8 encoding of in,
// or nil when in is not UTF-8.
func (r *Regex) exec(in nfa.Input, haystack []byte, at int, mode Mode) *Match {
	if r.pf != nil && haystack != nil && mode == ModeSearch {
		pos := r.pf.Find(haystack, at)
		if pos < 0 {
			return nil
		}
		if r.literalOnly {
			return &Match{start: pos, end: pos + r.pf.LiteralLen()}
		}
		at = pos
	}

	state := r.states.get()
	defer r.states.put(state)

	var m *nfa.Match
	if r.bt != nil && r.bt.CanHandle(in.Len()) {
		m = r.bt.SearchWithState(state.bt, in, at, mode)
	} else {
		m = r.vm.SearchWithState(state.pike, in, at, mode)
	}
	if m == nil {
		return nil
	}
	return &Match{start: m.Start, end: m.End, slots: m.Slots}
}

// FindAll returns successive non-overlapping matches in b, at most n of
// them when n >= 0. An empty match directly after the previous match is
// skipped.
//
// Example:
//
//	re := pikere.MustCompile("a*")
//	for _, m := range re.FindAll([]byte("baaab"), -1) {
//	    fmt.Print(m, " ") // [0, 0) [1, 4) [5, 5)
//	}
func (r *Regex) FindAll(b []byte, n int) []*Match {
	var matches []*Match
	prevEnd := -1
	for pos := 0; pos <= len(b) && (n < 0 || len(matches) < n); {
		m := r.SearchAt(b, pos)
		if m == nil {
			break
		}
		if m.Len() == 0 {
			if m.start == prevEnd {
				pos = m.start + runeWidth(b, m.start)
				continue
			}
			pos = m.end + runeWidth(b, m.end)
		} else {
			pos = m.end
		}
		matches = append(matches, m)
		prevEnd = m.end
	}
	return matches
}

// runeWidth returns the width of the code point at b[pos:], 1 at the end
// so that iteration terminates.
func runeWidth(b []byte, pos int) int {
	if pos >= len(b) {
		return 1
	}
	_, w := utf8.DecodeRune(b[pos:])
	return w
}
