package nfa

import (
	"github.com/coregx/pikere/syntax"
)

// CompilerConfig configures compilation
type CompilerConfig struct {
	// MaxNestingDepth limits group, alternation and postfix nesting in the parser.
	// Default: syntax.DefaultMaxDepth
	MaxNestingDepth int

	// MaxProgramSize limits the number of instructions of a compiled program.
	// Default: 1 << 20
	MaxProgramSize int
}

// DefaultCompilerConfig returns a compiler configuration with sensible defaults
func DefaultCompilerConfig() CompilerConfig {
	return CompilerConfig{
		MaxNestingDepth: syntax.DefaultMaxDepth,
		MaxProgramSize:  1 << 20,
	}
}

// Compiler lowers pattern ASTs into programs
type Compiler struct {
	config  CompilerConfig
	builder *Builder
}

// NewCompiler creates a compiler with the given configuration.
// Zero fields take their defaults.
func NewCompiler(config CompilerConfig) *Compiler {
	def := DefaultCompilerConfig()
	if config.MaxNestingDepth <= 0 {
		config.MaxNestingDepth = def.MaxNestingDepth
	}
	if config.MaxProgramSize <= 0 {
		config.MaxProgramSize = def.MaxProgramSize
	}
	return &Compiler{config: config}
}

// Compile parses and compiles pattern with the default configuration
func Compile(pattern string) (*Program, error) {
	return NewCompiler(DefaultCompilerConfig()).Compile(pattern)
}

// Compile parses pattern and compiles it into a program.
// Syntax errors are returned wrapped in a *CompileError; use errors.As to
// reach the *syntax.Error.
func (c *Compiler) Compile(pattern string) (*Program, error) {
	root, err := syntax.ParseWithLimit(pattern, c.config.MaxNestingDepth)
	if err != nil {
		return nil, &CompileError{Pattern: pattern, Err: err}
	}
	prog, err := c.CompileNode(root)
	if err != nil {
		return nil, &CompileError{Pattern: pattern, Err: err}
	}
	return prog, nil
}

// CompileNode compiles a parsed AST. Slot indexes are taken from the
// capture marks as numbered by the parser.
func (c *Compiler) CompileNode(root *syntax.Node) (*Program, error) {
	size := ProgramSize(root)
	if size > c.config.MaxProgramSize {
		return nil, ErrTooComplex
	}

	c.builder = NewBuilder(size)
	pending, err := c.generate(root)
	if err != nil {
		return nil, err
	}
	match := c.builder.Emit(Inst{Op: InstMatch})
	if err := c.builder.Patch(pending, match); err != nil {
		return nil, err
	}
	return c.builder.Build(syntax.CountMarks(root))
}

// Size returns the number of instructions n lowers to.
//
//	leaf            1
//	concat(l, r)    size(l) + size(r)
//	alt(x1..xk)     1 + sum(size(xi)) + (k - 1)
//	star(x)         2 + size(x)
//	plus(x), opt(x) 1 + size(x)
func Size(n *syntax.Node) int {
	switch n.Op {
	case syntax.OpConcat:
		return Size(n.Sub[0]) + Size(n.Sub[1])
	case syntax.OpAlternation:
		total := 1 + len(n.Sub) - 1
		for _, sub := range n.Sub {
			total += Size(sub)
		}
		return total
	case syntax.OpStar:
		return 2 + Size(n.Sub[0])
	case syntax.OpPlus, syntax.OpOptional:
		return 1 + Size(n.Sub[0])
	default:
		return 1
	}
}

// ProgramSize returns the size of the whole program compiled from root,
// including the trailing Match instruction.
func ProgramSize(root *syntax.Node) int {
	return Size(root) + 1
}

// generate emits n and returns its pending exits. Control that falls off
// the last emitted instruction also continues at the next index, so callers
// patch the returned list to wherever that next index leads.
func (c *Compiler) generate(n *syntax.Node) (patchList, error) {
	b := c.builder
	switch n.Op {
	case syntax.OpBeginAnchor:
		b.Emit(Inst{Op: InstBeginAnchor})
		return nil, nil
	case syntax.OpEndAnchor:
		b.Emit(Inst{Op: InstEndAnchor})
		return nil, nil
	case syntax.OpAnyChar:
		b.Emit(Inst{Op: InstAnyChar})
		return nil, nil
	case syntax.OpLiteral:
		b.Emit(Inst{Op: InstLiteral, Rune: n.Rune})
		return nil, nil
	case syntax.OpCaptureMark:
		b.Emit(Inst{Op: InstCapture, Slot: n.Slot})
		return nil, nil
	case syntax.OpConcat:
		return c.generateConcat(n)
	case syntax.OpAlternation:
		return c.generateAlternation(n)
	case syntax.OpStar:
		return c.generateStar(n)
	case syntax.OpPlus:
		return c.generatePlus(n)
	case syntax.OpOptional:
		return c.generateOptional(n)
	}
	return nil, &BuildError{Message: "unknown AST node " + n.Op.String(), PC: c.builder.Next()}
}

func (c *Compiler) generateConcat(n *syntax.Node) (patchList, error) {
	left, err := c.generate(n.Sub[0])
	if err != nil {
		return nil, err
	}
	if err := c.builder.Patch(left, c.builder.Next()); err != nil {
		return nil, err
	}
	return c.generate(n.Sub[1])
}

// generateAlternation lays out
//
//	dispatch L1, L2, ..., Lk
//	L1: alt1
//	    jmp <exit>
//	L2: alt2
//	    ...
//	Lk: altk
//
// The last alternative falls through to the continuation.
func (c *Compiler) generateAlternation(n *syntax.Node) (patchList, error) {
	b := c.builder
	targets := make([]int, len(n.Sub))
	b.Emit(Inst{Op: InstDispatch, Targets: targets})

	var exits patchList
	for i, sub := range n.Sub {
		if i > 0 {
			jmp := b.Emit(Inst{Op: InstJump, Out: noTarget})
			exits = append(exits, patchRef{pc: jmp})
		}
		targets[i] = b.Next()
		pending, err := c.generate(sub)
		if err != nil {
			return nil, err
		}
		exits = append(exits, pending...)
	}
	return exits, nil
}

// generateStar lays out
//
//	L: branch L+1, <exit>
//	   x
//	   jmp L
func (c *Compiler) generateStar(n *syntax.Node) (patchList, error) {
	b := c.builder
	branch := b.Emit(Inst{Op: InstBranch, Out: noTarget, Out1: noTarget})
	b.Inst(branch).Out = b.Next()

	body, err := c.generate(n.Sub[0])
	if err != nil {
		return nil, err
	}
	if err := b.Patch(body, branch); err != nil {
		return nil, err
	}
	b.Emit(Inst{Op: InstJump, Out: branch})
	return patchList{{pc: branch, edge: 1}}, nil
}

// generatePlus lays out
//
//	L: x
//	   branch L, <exit>
func (c *Compiler) generatePlus(n *syntax.Node) (patchList, error) {
	b := c.builder
	start := b.Next()
	body, err := c.generate(n.Sub[0])
	if err != nil {
		return nil, err
	}
	branch := b.Emit(Inst{Op: InstBranch, Out: start, Out1: noTarget})
	if err := b.Patch(body, branch); err != nil {
		return nil, err
	}
	return patchList{{pc: branch, edge: 1}}, nil
}

// generateOptional lays out
//
//	branch L+1, <exit>
//	x
func (c *Compiler) generateOptional(n *syntax.Node) (patchList, error) {
	b := c.builder
	branch := b.Emit(Inst{Op: InstBranch, Out: noTarget, Out1: noTarget})
	b.Inst(branch).Out = b.Next()

	body, err := c.generate(n.Sub[0])
	if err != nil {
		return nil, err
	}
	return append(body, patchRef{pc: branch, edge: 1}), nil
}
