// Package pool provides a free-list allocator of fixed-size blocks.
//
// Blocks are carved out of larger chunks so that a burst of Acquire calls
// costs one allocation per chunk, and released blocks are reused before any
// new chunk is allocated. A Pool is not safe for concurrent use; each search
// owns its own.
package pool

// Pool hands out blocks of a fixed number of elements.
type Pool[T any] struct {
	blockSize      int
	blocksPerChunk int

	free   [][]T
	chunks int
	live   int
}

// New creates a pool of blocks with blockSize elements, allocating
// blocksPerChunk blocks at a time. Panics if either argument is < 1.
func New[T any](blockSize, blocksPerChunk int) *Pool[T] {
	if blockSize < 1 || blocksPerChunk < 1 {
		panic("pool: block size and blocks per chunk must be positive")
	}
	return &Pool[T]{
		blockSize:      blockSize,
		blocksPerChunk: blocksPerChunk,
	}
}

// Acquire returns a block of the pool's block size. The contents are whatever
// the previous owner left; callers initialize what they read.
func (p *Pool[T]) Acquire() []T {
	if len(p.free) == 0 {
		p.grow()
	}
	n := len(p.free) - 1
	b := p.free[n]
	p.free[n] = nil
	p.free = p.free[:n]
	p.live++
	return b
}

// Release returns a block obtained from Acquire to the free list.
// Releasing a block of the wrong size panics.
func (p *Pool[T]) Release(b []T) {
	if len(b) != p.blockSize {
		panic("pool: released block has wrong size")
	}
	p.free = append(p.free, b)
	p.live--
}

// Live returns the number of acquired and not yet released blocks.
func (p *Pool[T]) Live() int {
	return p.live
}

func (p *Pool[T]) grow() {
	chunk := make([]T, p.blockSize*p.blocksPerChunk)
	// Push in reverse so blocks are handed out in address order.
	for i := p.blocksPerChunk - 1; i >= 0; i-- {
		lo := i * p.blockSize
		hi := lo + p.blockSize
		p.free = append(p.free, chunk[lo:hi:hi])
	}
	p.chunks++
}
