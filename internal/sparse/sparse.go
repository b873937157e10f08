// Package sparse provides the visited set used by the PikeVM epsilon closure.
//
// StampSet records, for every value in a fixed universe, the generation in
// which it was last inserted. Membership is "stamp equals current
// generation", so clearing the whole set is a single increment. The set is
// per-run scratch: it is owned by one execution and indexed by instruction
// position, which keeps compiled programs free of mutable state.
package sparse

import "github.com/coregx/pikere/internal/conv"

// StampSet is a set of uint32 values below a fixed capacity with O(1)
// Insert, Contains and Clear.
type StampSet struct {
	stamps []uint32
	gen    uint32
}

// NewStampSet creates a set able to hold values in [0, capacity).
// Panics if capacity does not fit in uint32, so every index below it does.
func NewStampSet(capacity int) *StampSet {
	conv.IntToUint32(capacity)
	return &StampSet{
		stamps: make([]uint32, capacity),
		gen:    1,
	}
}

// Insert adds value and reports whether it was absent.
// Panics if value is not below the set's capacity.
func (s *StampSet) Insert(value uint32) bool {
	if s.stamps[value] == s.gen {
		return false
	}
	s.stamps[value] = s.gen
	return true
}

// Contains reports whether value was inserted since the last Clear.
func (s *StampSet) Contains(value uint32) bool {
	return int(value) < len(s.stamps) && s.stamps[value] == s.gen
}

// Clear empties the set. On generation wrap-around the stamps are zeroed so
// that a stale stamp can never alias the new generation.
func (s *StampSet) Clear() {
	s.gen++
	if s.gen == 0 {
		for i := range s.stamps {
			s.stamps[i] = 0
		}
		s.gen = 1
	}
}
