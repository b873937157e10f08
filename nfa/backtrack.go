package nfa

// DefaultBacktrackBudget is the default size limit of the visited bit vector,
// in bits: 256KB.
const DefaultBacktrackBudget = 256 * 1024 * 8

// BoundedBacktracker finds the same matches as PikeVM by depth-first search.
//
// Each (pc, position) pair is explored at most once, tracked in a bit
// vector, so a search still takes O(len(program) * len(input)) steps. The
// vector needs len(program) * (len(input)+1) bits, which bounds the inputs
// the engine accepts; see CanHandle.
//
// Depth-first order is priority order, so the first Match reached is the
// leftmost-first match. A pair that was explored without reaching Match
// fails from every start offset, so the vector is kept across start offsets.
type BoundedBacktracker struct {
	prog   *Program
	budget int
}

// btFrame is either a pending exploration of (pc, pos) or, when restore is
// set, the previous value of slot pc to put back on unwinding.
type btFrame struct {
	pc      int
	pos     int
	restore bool
}

// BacktrackerState is the per-search scratch of a BoundedBacktracker.
// It must not be shared by concurrent searches.
type BacktrackerState struct {
	visited []uint64
	width   int
	stack   []btFrame
	slots   []int
}

// NewBoundedBacktracker creates a backtracker with DefaultBacktrackBudget.
func NewBoundedBacktracker(prog *Program) *BoundedBacktracker {
	return NewBoundedBacktrackerWithBudget(prog, DefaultBacktrackBudget)
}

// NewBoundedBacktrackerWithBudget creates a backtracker whose visited vector
// holds at most budget bits.
func NewBoundedBacktrackerWithBudget(prog *Program, budget int) *BoundedBacktracker {
	return &BoundedBacktracker{prog: prog, budget: budget}
}

// NewState allocates scratch for one search at a time.
func (b *BoundedBacktracker) NewState() *BacktrackerState {
	return &BacktrackerState{slots: make([]int, b.prog.slotCount)}
}

// CanHandle reports whether an input of n code units fits the budget.
func (b *BoundedBacktracker) CanHandle(n int) bool {
	if n < 0 || n >= b.budget {
		return false
	}
	return len(b.prog.insts)*(n+1) <= b.budget
}

// Search is SearchAt from offset 0 with fresh scratch.
func (b *BoundedBacktracker) Search(in Input, mode Mode) *Match {
	return b.SearchWithState(b.NewState(), in, 0, mode)
}

// SearchAt is like PikeVM.SearchAt. It returns nil when the input does not
// fit the budget.
func (b *BoundedBacktracker) SearchAt(in Input, at int, mode Mode) *Match {
	return b.SearchWithState(b.NewState(), in, at, mode)
}

// SearchWithState runs a search from offset at reusing st. Its result is
// identical to PikeVM.SearchWithState for every input CanHandle accepts;
// for other inputs it returns nil.
func (b *BoundedBacktracker) SearchWithState(st *BacktrackerState, in Input, at int, mode Mode) *Match {
	n := in.Len()
	if at < 0 || at > n || !b.CanHandle(n) {
		return nil
	}
	anchored := mode&ModeAnchorStart != 0 || b.prog.IsAnchoredStart()
	anchorEnd := mode&ModeAnchorEnd != 0

	st.reset(len(b.prog.insts), n)
	for i := range st.slots {
		st.slots[i] = Unset
	}

	for start := at; ; {
		if end := b.explore(st, in, start, n, anchorEnd); end >= 0 {
			m := &Match{Start: start, End: end}
			if len(st.slots) > 0 {
				m.Slots = append([]int(nil), st.slots...)
			}
			return m
		}
		if anchored || start >= n {
			return nil
		}
		_, w := in.Decode(start)
		start += w
	}
}

// explore runs the depth-first search from (0, start) and returns the end of
// the first match found, or -1. On success st.slots holds the match's slots;
// on failure every slot is restored.
func (b *BoundedBacktracker) explore(st *BacktrackerState, in Input, start, n int, anchorEnd bool) int {
	st.stack = append(st.stack[:0], btFrame{pc: 0, pos: start})

	for len(st.stack) > 0 {
		top := len(st.stack) - 1
		f := st.stack[top]
		st.stack = st.stack[:top]
		if f.restore {
			st.slots[f.pc] = f.pos
			continue
		}

		pc, pos := f.pc, f.pos
	step:
		for {
			if !st.visit(pc, pos) {
				break
			}
			inst := &b.prog.insts[pc]
			switch inst.Op {
			case InstLiteral:
				r, w := in.Decode(pos)
				if w == 0 || r != inst.Rune {
					break step
				}
				pos += w
				pc++
			case InstAnyChar:
				_, w := in.Decode(pos)
				if w == 0 {
					break step
				}
				pos += w
				pc++
			case InstBeginAnchor:
				if pos != 0 {
					break step
				}
				pc++
			case InstEndAnchor:
				if pos != n {
					break step
				}
				pc++
			case InstCapture:
				st.stack = append(st.stack, btFrame{pc: inst.Slot, pos: st.slots[inst.Slot], restore: true})
				st.slots[inst.Slot] = pos
				pc++
			case InstJump:
				pc = inst.Out
			case InstBranch:
				st.stack = append(st.stack, btFrame{pc: inst.Out1, pos: pos})
				pc = inst.Out
			case InstDispatch:
				for k := len(inst.Targets) - 1; k > 0; k-- {
					st.stack = append(st.stack, btFrame{pc: inst.Targets[k], pos: pos})
				}
				pc = inst.Targets[0]
			case InstMatch:
				if anchorEnd && pos != n {
					break step
				}
				return pos
			default:
				break step
			}
		}
	}
	return -1
}

// reset clears the visited vector for a program of size insts over an input
// of n code units.
func (s *BacktrackerState) reset(insts, n int) {
	s.width = n + 1
	words := (insts*s.width + 63) / 64
	if cap(s.visited) >= words {
		s.visited = s.visited[:words]
		for i := range s.visited {
			s.visited[i] = 0
		}
	} else {
		s.visited = make([]uint64, words)
	}
}

// visit marks (pc, pos) and reports whether it was unmarked.
func (s *BacktrackerState) visit(pc, pos int) bool {
	idx := pc*s.width + pos
	word, bit := idx/64, uint64(1)<<(idx%64)
	if s.visited[word]&bit != 0 {
		return false
	}
	s.visited[word] |= bit
	return true
}
