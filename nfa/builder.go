package nfa

import (
	"fmt"
)

// noTarget marks a control edge that has not been backpatched yet.
const noTarget = -1

// patchRef names one pending control edge: edge 0 is Inst.Out, edge 1 is Inst.Out1.
type patchRef struct {
	pc   int
	edge uint8
}

// patchList is a backpatch list: control edges whose destination is not
// known yet. The compiler resolves a list once the enclosing construct knows
// its continuation point.
type patchList []patchRef

// Builder emits instructions into storage allocated once with the exact
// size computed by Size. It never grows: running out of capacity means the
// sizer and the emitter disagree, which is a bug.
type Builder struct {
	insts []Inst
}

// NewBuilder creates a builder for a program of exactly size instructions
func NewBuilder(size int) *Builder {
	return &Builder{
		insts: make([]Inst, 0, size),
	}
}

// Next returns the index the next emitted instruction will get
func (b *Builder) Next() int {
	return len(b.insts)
}

// Emit appends inst and returns its index.
// Panics if the builder is full.
func (b *Builder) Emit(inst Inst) int {
	if len(b.insts) == cap(b.insts) {
		panic(fmt.Sprintf("nfa: emitting instruction %d into a program sized %d", len(b.insts), cap(b.insts)))
	}
	b.insts = append(b.insts, inst)
	return len(b.insts) - 1
}

// Inst returns the emitted instruction at pc for in-place updates
func (b *Builder) Inst(pc int) *Inst {
	return &b.insts[pc]
}

// Patch resolves every edge in l to target.
func (b *Builder) Patch(l patchList, target int) error {
	for _, ref := range l {
		if ref.pc < 0 || ref.pc >= len(b.insts) {
			return &BuildError{Message: "patch reference out of bounds", PC: ref.pc}
		}
		inst := &b.insts[ref.pc]
		switch {
		case ref.edge == 0 && (inst.Op == InstJump || inst.Op == InstBranch):
			inst.Out = target
		case ref.edge == 1 && inst.Op == InstBranch:
			inst.Out1 = target
		default:
			return &BuildError{
				Message: fmt.Sprintf("cannot patch edge %d of %s", ref.edge, inst.Op),
				PC:      ref.pc,
			}
		}
	}
	return nil
}

// Build validates the emitted instructions and returns the program.
func (b *Builder) Build(slotCount int) (*Program, error) {
	if len(b.insts) != cap(b.insts) {
		return nil, &BuildError{
			Message: fmt.Sprintf("program has %d instructions, sized for %d", len(b.insts), cap(b.insts)),
			PC:      -1,
		}
	}
	return newProgram(b.insts, slotCount)
}

func newProgram(insts []Inst, slotCount int) (*Program, error) {
	p := &Program{
		insts:     insts,
		slotCount: slotCount,
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	p.anchorStart = p.startsWithBeginAnchor()
	return p, nil
}
