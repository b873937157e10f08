package syntax

import (
	"strconv"
	"strings"
)

// Op identifies the kind of an AST node.
type Op uint8

const (
	// OpBeginAnchor matches the empty string at the start of input (^).
	OpBeginAnchor Op = iota + 1
	// OpEndAnchor matches the empty string at the end of input ($).
	OpEndAnchor
	// OpAnyChar matches any single code point (.).
	OpAnyChar
	// OpLiteral matches the code point in Node.Rune.
	OpLiteral
	// OpCaptureMark records the current offset into slot Node.Slot (&).
	OpCaptureMark
	// OpConcat matches Sub[0] followed by Sub[1].
	OpConcat
	// OpAlternation matches the first viable alternative of Sub, in order.
	OpAlternation
	// OpStar matches Sub[0] zero or more times, greedily.
	OpStar
	// OpPlus matches Sub[0] one or more times, greedily.
	OpPlus
	// OpOptional matches Sub[0] zero or one time, preferring one.
	OpOptional
)

var opNames = [...]string{
	OpBeginAnchor: "begin",
	OpEndAnchor:   "end",
	OpAnyChar:     "any",
	OpLiteral:     "lit",
	OpCaptureMark: "mark",
	OpConcat:      "cat",
	OpAlternation: "alt",
	OpStar:        "star",
	OpPlus:        "plus",
	OpOptional:    "opt",
}

// String returns the short name used in AST dumps.
func (op Op) String() string {
	if int(op) < len(opNames) && opNames[op] != "" {
		return opNames[op]
	}
	return "op" + strconv.Itoa(int(op))
}

// Node is a node of the pattern AST.
//
// Leaf nodes use Rune (OpLiteral) or Slot (OpCaptureMark). OpConcat has
// exactly two children, the repetition operators exactly one, and
// OpAlternation one or more in priority order.
type Node struct {
	Op   Op
	Rune rune
	Slot int
	Sub  []*Node
}

// String renders the node as an S-expression, e.g. (cat (lit 'a') (star any)).
func (n *Node) String() string {
	var b strings.Builder
	n.write(&b)
	return b.String()
}

func (n *Node) write(b *strings.Builder) {
	switch n.Op {
	case OpBeginAnchor, OpEndAnchor, OpAnyChar:
		b.WriteString(n.Op.String())
		return
	case OpLiteral:
		b.WriteString("(lit ")
		b.WriteString(strconv.QuoteRune(n.Rune))
		b.WriteByte(')')
		return
	case OpCaptureMark:
		b.WriteString("(mark ")
		b.WriteString(strconv.Itoa(n.Slot))
		b.WriteByte(')')
		return
	}
	b.WriteByte('(')
	b.WriteString(n.Op.String())
	for _, sub := range n.Sub {
		b.WriteByte(' ')
		sub.write(b)
	}
	b.WriteByte(')')
}

// Walk calls fn for n and every descendant in pre-order (left to right).
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, sub := range n.Sub {
		sub.Walk(fn)
	}
}
