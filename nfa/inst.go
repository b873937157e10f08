package nfa

import (
	"fmt"
	"strings"
)

// InstOp identifies the kind of a program instruction.
type InstOp uint8

const (
	// InstMatch reports a successful match
	InstMatch InstOp = iota

	// InstBeginAnchor continues only at offset 0 of the input
	InstBeginAnchor

	// InstEndAnchor continues only at the end of the input
	InstEndAnchor

	// InstAnyChar consumes any one code point
	InstAnyChar

	// InstLiteral consumes the code point Inst.Rune
	InstLiteral

	// InstCapture writes the current offset into slot Inst.Slot
	InstCapture

	// InstJump continues at Inst.Out
	InstJump

	// InstBranch forks to Inst.Out (preferred: repeat/continue) and Inst.Out1 (exit)
	InstBranch

	// InstDispatch forks to every entry of Inst.Targets, in priority order
	InstDispatch

	instOpCount
)

// String returns the mnemonic used in disassembly
func (op InstOp) String() string {
	switch op {
	case InstMatch:
		return "match"
	case InstBeginAnchor:
		return "begin"
	case InstEndAnchor:
		return "end"
	case InstAnyChar:
		return "any"
	case InstLiteral:
		return "lit"
	case InstCapture:
		return "save"
	case InstJump:
		return "jmp"
	case InstBranch:
		return "branch"
	case InstDispatch:
		return "dispatch"
	default:
		return fmt.Sprintf("Unknown(%d)", op)
	}
}

// consumes reports whether the instruction reads one code point.
func (op InstOp) consumes() bool {
	return op == InstAnyChar || op == InstLiteral
}

// Inst is a single program instruction. Only the fields relevant to Op are
// meaningful.
type Inst struct {
	Op InstOp

	// For Literal: the code point to match
	Rune rune

	// For Capture: the slot index to write
	Slot int

	// For Jump: the target. For Branch: destination 0 (repeat/continue).
	Out int

	// For Branch: destination 1 (exit)
	Out1 int

	// For Dispatch: alternative entry points, highest priority first
	Targets []int
}

// String returns a human-readable representation of the instruction
func (i *Inst) String() string {
	switch i.Op {
	case InstLiteral:
		return fmt.Sprintf("lit %q", i.Rune)
	case InstCapture:
		return fmt.Sprintf("save %d", i.Slot)
	case InstJump:
		return fmt.Sprintf("jmp %d", i.Out)
	case InstBranch:
		return fmt.Sprintf("branch %d, %d", i.Out, i.Out1)
	case InstDispatch:
		parts := make([]string, len(i.Targets))
		for k, t := range i.Targets {
			parts[k] = fmt.Sprint(t)
		}
		return "dispatch " + strings.Join(parts, ", ")
	default:
		return i.Op.String()
	}
}

// Program is a compiled pattern: a flat instruction array plus the number of
// capture slots its Capture instructions write. Execution starts at pc 0.
//
// A Program is never modified after construction and may be shared freely.
type Program struct {
	insts       []Inst
	slotCount   int
	anchorStart bool
}

// Len returns the number of instructions
func (p *Program) Len() int {
	return len(p.insts)
}

// Inst returns the instruction at pc. The result must not be modified.
func (p *Program) Inst(pc int) *Inst {
	return &p.insts[pc]
}

// SlotCount returns the number of capture slots the program declares
func (p *Program) SlotCount() int {
	return p.slotCount
}

// IsAnchoredStart reports whether every path from pc 0 passes a BeginAnchor
// before consuming input, so a match can only start at offset 0.
func (p *Program) IsAnchoredStart() bool {
	return p.anchorStart
}

// String disassembles the program, one instruction per line
func (p *Program) String() string {
	var b strings.Builder
	for pc := range p.insts {
		fmt.Fprintf(&b, "%04d %s\n", pc, p.insts[pc].String())
	}
	return b.String()
}

// validate checks that every control transfer stays inside the program and
// every slot index is declared.
func (p *Program) validate() error {
	n := len(p.insts)
	if n == 0 {
		return &BuildError{Message: "empty program", PC: -1}
	}
	inBounds := func(t int) bool { return t >= 0 && t < n }

	for pc := range p.insts {
		inst := &p.insts[pc]
		switch inst.Op {
		case InstMatch:
		case InstBeginAnchor, InstEndAnchor, InstAnyChar, InstLiteral, InstCapture:
			if pc+1 >= n {
				return &BuildError{Message: "falls off the end of the program", PC: pc}
			}
			if inst.Op == InstCapture && (inst.Slot < 0 || inst.Slot >= p.slotCount) {
				return &BuildError{Message: fmt.Sprintf("slot %d not declared", inst.Slot), PC: pc}
			}
		case InstJump:
			if !inBounds(inst.Out) {
				return &BuildError{Message: fmt.Sprintf("jump target %d out of bounds", inst.Out), PC: pc}
			}
		case InstBranch:
			if !inBounds(inst.Out) || !inBounds(inst.Out1) {
				return &BuildError{Message: fmt.Sprintf("branch targets %d, %d out of bounds", inst.Out, inst.Out1), PC: pc}
			}
		case InstDispatch:
			if len(inst.Targets) == 0 {
				return &BuildError{Message: "dispatch without targets", PC: pc}
			}
			for _, t := range inst.Targets {
				if !inBounds(t) {
					return &BuildError{Message: fmt.Sprintf("dispatch target %d out of bounds", t), PC: pc}
				}
			}
		default:
			return &BuildError{Message: fmt.Sprintf("unknown opcode %d", inst.Op), PC: pc}
		}
	}
	return nil
}

// startsWithBeginAnchor walks the epsilon paths from pc 0 and reports whether
// every one of them reaches a BeginAnchor before anything else that could
// succeed away from offset 0.
func (p *Program) startsWithBeginAnchor() bool {
	seen := make([]bool, len(p.insts))
	stack := []int{0}
	for len(stack) > 0 {
		pc := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[pc] {
			continue
		}
		seen[pc] = true

		inst := &p.insts[pc]
		switch inst.Op {
		case InstBeginAnchor:
		case InstCapture:
			stack = append(stack, pc+1)
		case InstJump:
			stack = append(stack, inst.Out)
		case InstDispatch:
			stack = append(stack, inst.Targets...)
		default:
			return false
		}
	}
	return true
}
