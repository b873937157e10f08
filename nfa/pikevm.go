package nfa

import (
	"github.com/coregx/pikere/internal/sparse"
)

// Mode selects how a search is anchored
type Mode uint8

const (
	// ModeSearch finds the leftmost match anywhere in the input
	ModeSearch Mode = 0

	// ModeAnchorStart requires the match to start at the search offset
	ModeAnchorStart Mode = 1 << 0

	// ModeAnchorEnd requires the match to end at the end of the input
	ModeAnchorEnd Mode = 1 << 1

	// ModePrefix matches a prefix of the input
	ModePrefix = ModeAnchorStart

	// ModeFull matches the whole input
	ModeFull = ModeAnchorStart | ModeAnchorEnd
)

// String returns the mode name
func (m Mode) String() string {
	switch m {
	case ModeSearch:
		return "search"
	case ModePrefix:
		return "prefix"
	case ModeFull:
		return "full"
	case ModeAnchorEnd:
		return "suffix"
	default:
		return "invalid"
	}
}

// Match is the result of a successful execution.
// Start and End are offsets in the code units of the Input.
type Match struct {
	Start int
	End   int

	// Slots holds the offset recorded by each capture mark, Unset if the
	// mark was not passed on the winning path.
	Slots []int
}

// PikeVMConfig tunes the executor's memory behavior
type PikeVMConfig struct {
	// SlotBlocksPerChunk is how many capture slot blocks are allocated at once.
	// Default: 32
	SlotBlocksPerChunk int
}

// DefaultPikeVMConfig returns the default executor configuration
func DefaultPikeVMConfig() PikeVMConfig {
	return PikeVMConfig{SlotBlocksPerChunk: 32}
}

// PikeVM executes a Program by simulating all of its threads in lockstep.
//
// Threads are kept in priority order. When a thread reaches Match, every
// lower-priority thread of the same step is dropped and only the
// higher-priority ones keep running; the last recorded match therefore
// belongs to the highest-priority thread, which gives leftmost-first
// semantics with greedy quantifiers.
//
// PikeVM is immutable after construction and safe for concurrent use as
// long as every goroutine uses its own PikeVMState.
type PikeVM struct {
	prog   *Program
	config PikeVMConfig
}

// thread is one NFA thread waiting at a consuming or Match instruction
type thread struct {
	pc    int
	start int
	slots Slots
}

// frame is a pending epsilon-closure entry
type frame struct {
	pc    int
	slots Slots
}

// PikeVMState holds the mutable scratch of one execution: thread lists,
// closure worklist, visited stamps and the capture slot store.
// A state belongs to the PikeVM that created it and must not be used by two
// searches at once.
type PikeVMState struct {
	ready   []thread
	next    []thread
	stack   []frame
	visited *sparse.StampSet
	store   *SlotStore
	best    []int
}

// NewPikeVM creates an executor for prog with the default configuration
func NewPikeVM(prog *Program) *PikeVM {
	return NewPikeVMWithConfig(prog, DefaultPikeVMConfig())
}

// NewPikeVMWithConfig creates an executor for prog
func NewPikeVMWithConfig(prog *Program, config PikeVMConfig) *PikeVM {
	if config.SlotBlocksPerChunk <= 0 {
		config.SlotBlocksPerChunk = DefaultPikeVMConfig().SlotBlocksPerChunk
	}
	return &PikeVM{prog: prog, config: config}
}

// Program returns the program being executed
func (p *PikeVM) Program() *Program {
	return p.prog
}

// NewState allocates scratch sized for this executor's program
func (p *PikeVM) NewState() *PikeVMState {
	n := p.prog.Len()
	return &PikeVMState{
		ready:   make([]thread, 0, n),
		next:    make([]thread, 0, n),
		stack:   make([]frame, 0, n),
		visited: sparse.NewStampSet(n),
		store:   NewSlotStore(p.prog.SlotCount(), p.config.SlotBlocksPerChunk),
		best:    make([]int, p.prog.SlotCount()),
	}
}

// LiveSlotBlocks returns the number of capture slot blocks still referenced.
// It is zero between searches.
func (s *PikeVMState) LiveSlotBlocks() int {
	return s.store.Live()
}

// Search executes the program over the whole input with fresh scratch
func (p *PikeVM) Search(in Input, mode Mode) *Match {
	return p.SearchWithState(p.NewState(), in, 0, mode)
}

// SearchAt executes the program starting at offset at with fresh scratch
func (p *PikeVM) SearchAt(in Input, at int, mode Mode) *Match {
	return p.SearchWithState(p.NewState(), in, at, mode)
}

// SearchWithState executes the program starting at offset at, reusing st.
//
// Threads are seeded at at and, unless the search is anchored at start,
// at every later offset until a match is found. BeginAnchor still refers to
// offset 0 of the input, not to at.
func (p *PikeVM) SearchWithState(st *PikeVMState, in Input, at int, mode Mode) *Match {
	n := in.Len()
	if at < 0 || at > n {
		return nil
	}
	anchored := mode&ModeAnchorStart != 0 || p.prog.IsAnchoredStart()
	anchorEnd := mode&ModeAnchorEnd != 0

	matched := false
	matchStart, matchEnd := -1, -1
	pos := at

	st.visited.Clear()
	p.admit(st, &st.ready, 0, st.store.New(), pos, pos, n)

	for {
		r, w := in.Decode(pos)
		st.visited.Clear()

		for i := 0; i < len(st.ready); i++ {
			t := &st.ready[i]
			inst := &p.prog.insts[t.pc]
			switch inst.Op {
			case InstLiteral:
				if w > 0 && r == inst.Rune {
					p.admit(st, &st.next, t.pc+1, t.slots, t.start, pos+w, n)
				} else {
					st.store.Release(&t.slots)
				}
			case InstAnyChar:
				if w > 0 {
					p.admit(st, &st.next, t.pc+1, t.slots, t.start, pos+w, n)
				} else {
					st.store.Release(&t.slots)
				}
			case InstMatch:
				if anchorEnd && pos != n {
					st.store.Release(&t.slots)
					continue
				}
				matched = true
				matchStart, matchEnd = t.start, pos
				st.store.CopyOut(st.best, t.slots)
				st.store.Release(&t.slots)
				// Lower-priority threads can no longer win.
				for j := i + 1; j < len(st.ready); j++ {
					st.store.Release(&st.ready[j].slots)
				}
				i = len(st.ready)
			}
		}
		st.ready = st.ready[:0]

		if pos >= n {
			break
		}
		st.ready, st.next = st.next, st.ready
		pos += w

		if !matched && !anchored {
			p.admit(st, &st.ready, 0, st.store.New(), pos, pos, n)
		}
		if len(st.ready) == 0 && (matched || anchored) {
			break
		}
	}
	p.releaseAll(st)

	if !matched {
		return nil
	}
	m := &Match{Start: matchStart, End: matchEnd}
	if len(st.best) > 0 {
		m.Slots = append([]int(nil), st.best...)
	}
	return m
}

// admit follows the epsilon closure of pc at offset pos and appends every
// reachable consuming or Match instruction to list, in priority order.
// admit takes ownership of slots.
func (p *PikeVM) admit(st *PikeVMState, list *[]thread, pc int, slots Slots, start, pos, n int) {
	st.stack = append(st.stack[:0], frame{pc: pc, slots: slots})

	for len(st.stack) > 0 {
		top := len(st.stack) - 1
		f := st.stack[top]
		st.stack = st.stack[:top]

	follow:
		for {
			// pc < len(program), which NewStampSet checked fits uint32.
			if !st.visited.Insert(uint32(f.pc)) {
				st.store.Release(&f.slots)
				break
			}
			inst := &p.prog.insts[f.pc]
			switch inst.Op {
			case InstBeginAnchor:
				if pos != 0 {
					st.store.Release(&f.slots)
					break follow
				}
				f.pc++
			case InstEndAnchor:
				if pos != n {
					st.store.Release(&f.slots)
					break follow
				}
				f.pc++
			case InstCapture:
				st.store.Set(&f.slots, inst.Slot, pos)
				f.pc++
			case InstJump:
				f.pc = inst.Out
			case InstBranch:
				st.stack = append(st.stack, frame{pc: inst.Out1, slots: st.store.Clone(f.slots)})
				f.pc = inst.Out
			case InstDispatch:
				for k := len(inst.Targets) - 1; k > 0; k-- {
					st.stack = append(st.stack, frame{pc: inst.Targets[k], slots: st.store.Clone(f.slots)})
				}
				f.pc = inst.Targets[0]
			default:
				*list = append(*list, thread{pc: f.pc, start: start, slots: f.slots})
				break follow
			}
		}
	}
}

func (p *PikeVM) releaseAll(st *PikeVMState) {
	for i := range st.ready {
		st.store.Release(&st.ready[i].slots)
	}
	for i := range st.next {
		st.store.Release(&st.next[i].slots)
	}
	st.ready = st.ready[:0]
	st.next = st.next[:0]
}
