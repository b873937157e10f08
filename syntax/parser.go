// Package syntax parses patterns of the engine's dialect into an AST.
//
// The dialect is deliberately small:
//
//	regex  := factor+
//	factor := core ('*' | '+' | '?')*
//	core   := '(' regex ')' | '[' factor+ ']' | atom
//	atom   := '^' | '$' | '&' | '.' | escape | any other code point
//
// Brackets denote an ordered alternation of factors, not a character class:
// [ab(cd)] tries a, then b, then cd. Each & is a capture mark that records
// the current offset into the next numbered slot.
package syntax

import (
	"unicode/utf8"
)

// DefaultMaxDepth is the nesting limit used by Parse.
const DefaultMaxDepth = 1000

// Parse parses pattern into an AST.
func Parse(pattern string) (*Node, error) {
	return ParseWithLimit(pattern, DefaultMaxDepth)
}

// ParseWithLimit parses pattern, rejecting groups, alternations and postfix
// operators nested deeper than maxDepth. A maxDepth <= 0 means DefaultMaxDepth.
func ParseWithLimit(pattern string, maxDepth int) (*Node, error) {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	p := &parser{pattern: pattern, maxDepth: maxDepth}

	n, err := p.parseRegex()
	if err != nil {
		return nil, err
	}
	if n == nil {
		if p.pos == len(pattern) {
			return nil, p.errorAt(ErrMissingExpression, p.pos)
		}
		return nil, p.errorAt(ErrUnexpectedInput, p.pos)
	}
	if p.pos != len(pattern) {
		return nil, p.errorAt(ErrUnexpectedInput, p.pos)
	}
	return n, nil
}

// CountMarks returns the number of capture marks in n, which is also the
// number of slots a program compiled from n declares.
func CountMarks(n *Node) int {
	count := 0
	n.Walk(func(sub *Node) {
		if sub.Op == OpCaptureMark {
			count++
		}
	})
	return count
}

type parser struct {
	pattern  string
	pos      int
	depth    int
	maxDepth int
	slots    int
}

// peek returns the code point at the cursor; width is 0 at end of input.
func (p *parser) peek() (r rune, width int) {
	if p.pos >= len(p.pattern) {
		return 0, 0
	}
	return utf8.DecodeRuneInString(p.pattern[p.pos:])
}

func (p *parser) errorAt(code ErrorCode, offset int) error {
	return &Error{Code: code, Pattern: p.pattern, Offset: offset}
}

func (p *parser) enter(offset int) error {
	p.depth++
	if p.depth > p.maxDepth {
		return p.errorAt(ErrNestingDepth, offset)
	}
	return nil
}

func (p *parser) leave() {
	p.depth--
}

// parseRegex parses factor+ as a left-leaning chain of Concat nodes.
// It returns (nil, nil) when no factor starts at the cursor.
func (p *parser) parseRegex() (*Node, error) {
	left, err := p.parseFactor()
	if left == nil || err != nil {
		return nil, err
	}
	for {
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		if right == nil {
			return left, nil
		}
		left = &Node{Op: OpConcat, Sub: []*Node{left, right}}
	}
}

func (p *parser) parseFactor() (*Node, error) {
	n, err := p.parseCore()
	if n == nil || err != nil {
		return nil, err
	}
	wraps := 0
	for {
		r, w := p.peek()
		var op Op
		switch {
		case w == 0:
			return n, nil
		case r == '*':
			op = OpStar
		case r == '+':
			op = OpPlus
		case r == '?':
			op = OpOptional
		default:
			return n, nil
		}
		wraps++
		if p.depth+wraps > p.maxDepth {
			return nil, p.errorAt(ErrNestingDepth, p.pos)
		}
		p.pos += w
		n = &Node{Op: op, Sub: []*Node{n}}
	}
}

func (p *parser) parseCore() (*Node, error) {
	r, w := p.peek()
	if w == 0 {
		return nil, nil
	}
	switch r {
	case '(':
		return p.parseGroup(w)
	case '[':
		return p.parseAlternation(w)
	}
	return p.parseAtom()
}

func (p *parser) parseGroup(w int) (*Node, error) {
	open := p.pos
	if err := p.enter(open); err != nil {
		return nil, err
	}
	defer p.leave()
	p.pos += w

	n, err := p.parseRegex()
	if err != nil {
		return nil, err
	}
	r, w := p.peek()
	if n == nil && w != 0 {
		return nil, p.errorAt(ErrMissingExpression, p.pos)
	}
	if w == 0 || r != ')' {
		return nil, p.errorAt(ErrMissingParen, open)
	}
	p.pos += w
	return n, nil
}

func (p *parser) parseAlternation(w int) (*Node, error) {
	open := p.pos
	if err := p.enter(open); err != nil {
		return nil, err
	}
	defer p.leave()
	p.pos += w

	alt := &Node{Op: OpAlternation}
	for {
		sub, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		if sub == nil {
			break
		}
		alt.Sub = append(alt.Sub, sub)
	}

	r, w := p.peek()
	if len(alt.Sub) == 0 {
		switch {
		case w == 0:
			return nil, p.errorAt(ErrMissingBracket, open)
		case r == ']':
			return nil, p.errorAt(ErrEmptyAlternation, open)
		default:
			return nil, p.errorAt(ErrMissingExpression, p.pos)
		}
	}
	if w == 0 || r != ']' {
		return nil, p.errorAt(ErrMissingBracket, open)
	}
	p.pos += w
	return alt, nil
}

func (p *parser) parseAtom() (*Node, error) {
	start := p.pos
	r, w := p.peek()
	switch r {
	case '[', ']', '(', ')', '+', '*', '?':
		return nil, nil
	}
	if r == utf8.RuneError && w == 1 {
		return nil, p.errorAt(ErrInvalidUTF8, start)
	}
	p.pos += w

	switch r {
	case '^':
		return &Node{Op: OpBeginAnchor}, nil
	case '$':
		return &Node{Op: OpEndAnchor}, nil
	case '&':
		n := &Node{Op: OpCaptureMark, Slot: p.slots}
		p.slots++
		return n, nil
	case '.':
		return &Node{Op: OpAnyChar}, nil
	case '\\':
		lit, err := p.parseEscape(start)
		if err != nil {
			return nil, err
		}
		return &Node{Op: OpLiteral, Rune: lit}, nil
	}
	return &Node{Op: OpLiteral, Rune: r}, nil
}

// parseEscape parses the code point after a backslash at offset start.
func (p *parser) parseEscape(start int) (rune, error) {
	r, w := p.peek()
	if w == 0 {
		return 0, p.errorAt(ErrTrailingBackslash, start)
	}
	p.pos += w
	switch r {
	case 'b':
		return '\b', nil
	case 'n':
		return '\n', nil
	case 't':
		return '\t', nil
	case 'r':
		return '\r', nil
	case '[', ']', '(', ')', '+', '*', '?', '^', '$', '&', '\\':
		return r, nil
	}
	return 0, p.errorAt(ErrInvalidEscape, start)
}
