package nfa

import (
	"fmt"

	"github.com/coregx/pikere/internal/pool"
)

// Unset is the value of a capture slot that no Capture instruction wrote.
const Unset = -1

// Slots is a handle to a capture slot block shared copy-on-write between
// threads. Element 0 of the block is the reference count; elements 1..n hold
// the slot values.
//
// Programs without slots use the zero Slots, which owns no block.
type Slots struct {
	blk []int
}

// SlotStore owns the slot blocks of one search. Blocks come from a pool and
// go back to it when their last reference is released, so a search that
// releases every handle it acquired ends with Live() == 0.
type SlotStore struct {
	n    int
	pool *pool.Pool[int]
}

// NewSlotStore creates a store for slotCount slots per thread, allocating
// blocksPerChunk blocks at a time.
func NewSlotStore(slotCount, blocksPerChunk int) *SlotStore {
	if slotCount < 0 {
		panic("nfa: negative slot count")
	}
	return &SlotStore{
		n:    slotCount,
		pool: pool.New[int](slotCount+1, blocksPerChunk),
	}
}

// SlotCount returns the number of slots per handle
func (s *SlotStore) SlotCount() int {
	return s.n
}

// New returns a fresh handle with every slot Unset and one reference
func (s *SlotStore) New() Slots {
	if s.n == 0 {
		return Slots{}
	}
	blk := s.pool.Acquire()
	blk[0] = 1
	for i := 1; i < len(blk); i++ {
		blk[i] = Unset
	}
	return Slots{blk: blk}
}

// Clone returns another reference to the same block
func (s *SlotStore) Clone(h Slots) Slots {
	if h.blk != nil {
		h.blk[0]++
	}
	return h
}

// Set writes v into slot i of *h. A block with other owners is copied
// first, so the write is never visible through any other handle.
func (s *SlotStore) Set(h *Slots, i, v int) {
	if i < 0 || i >= s.n {
		panic(fmt.Sprintf("nfa: slot %d out of range [0, %d)", i, s.n))
	}
	if h.blk[0] > 1 {
		blk := s.pool.Acquire()
		copy(blk, h.blk)
		blk[0] = 1
		h.blk[0]--
		h.blk = blk
	}
	h.blk[i+1] = v
}

// Get returns the value of slot i
func (s *SlotStore) Get(h Slots, i int) int {
	if i < 0 || i >= s.n {
		panic(fmt.Sprintf("nfa: slot %d out of range [0, %d)", i, s.n))
	}
	return h.blk[i+1]
}

// Refs returns the reference count of the block behind h, 0 for the empty handle
func (s *SlotStore) Refs(h Slots) int {
	if h.blk == nil {
		return 0
	}
	return h.blk[0]
}

// Release drops the reference held by *h and clears it. The block returns to
// the pool when this was the last reference.
func (s *SlotStore) Release(h *Slots) {
	if h.blk == nil {
		return
	}
	h.blk[0]--
	if h.blk[0] == 0 {
		s.pool.Release(h.blk)
	}
	h.blk = nil
}

// CopyOut copies the slot values of h into dst, which must hold SlotCount elements
func (s *SlotStore) CopyOut(dst []int, h Slots) {
	if h.blk == nil {
		return
	}
	copy(dst[:s.n], h.blk[1:])
}

// Live returns the number of blocks currently referenced
func (s *SlotStore) Live() int {
	return s.pool.Live()
}
