package nfa

import (
	"testing"
)

// TestSlotStore_CopyOnWrite verifies reference counting and copy-on-write
func TestSlotStore_CopyOnWrite(t *testing.T) {
	tests := []struct {
		name string
		ops  func(t *testing.T, s *SlotStore)
	}{
		{
			name: "new handle is unset with one reference",
			ops: func(t *testing.T, s *SlotStore) {
				h := s.New()
				for i := 0; i < s.SlotCount(); i++ {
					if got := s.Get(h, i); got != Unset {
						t.Errorf("slot %d = %d, want Unset", i, got)
					}
				}
				if got := s.Refs(h); got != 1 {
					t.Errorf("Refs() = %d, want 1", got)
				}
				s.Release(&h)
			},
		},
		{
			name: "clone shares the block",
			ops: func(t *testing.T, s *SlotStore) {
				h1 := s.New()
				h2 := s.Clone(h1)
				if s.Refs(h1) != 2 || s.Refs(h2) != 2 {
					t.Errorf("Refs() = %d, %d, want 2, 2", s.Refs(h1), s.Refs(h2))
				}
				if s.Live() != 1 {
					t.Errorf("Live() = %d, want 1", s.Live())
				}
				s.Release(&h1)
				s.Release(&h2)
			},
		},
		{
			name: "set on unique block writes in place",
			ops: func(t *testing.T, s *SlotStore) {
				h := s.New()
				s.Set(&h, 1, 7)
				if got := s.Get(h, 1); got != 7 {
					t.Errorf("Get(1) = %d, want 7", got)
				}
				if s.Live() != 1 {
					t.Errorf("Live() = %d, want 1", s.Live())
				}
				s.Release(&h)
			},
		},
		{
			name: "set on shared block copies",
			ops: func(t *testing.T, s *SlotStore) {
				h1 := s.New()
				s.Set(&h1, 0, 3)
				h2 := s.Clone(h1)
				s.Set(&h2, 0, 9)

				if got := s.Get(h1, 0); got != 3 {
					t.Errorf("original slot changed: got %d, want 3", got)
				}
				if got := s.Get(h2, 0); got != 9 {
					t.Errorf("copy slot = %d, want 9", got)
				}
				if s.Refs(h1) != 1 || s.Refs(h2) != 1 {
					t.Errorf("Refs() = %d, %d, want 1, 1", s.Refs(h1), s.Refs(h2))
				}
				if s.Live() != 2 {
					t.Errorf("Live() = %d, want 2", s.Live())
				}
				s.Release(&h1)
				s.Release(&h2)
			},
		},
		{
			name: "release clears the handle",
			ops: func(t *testing.T, s *SlotStore) {
				h := s.New()
				s.Release(&h)
				if h.blk != nil {
					t.Error("Release() left the handle pointing at the block")
				}
				s.Release(&h)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSlotStore(3, 2)
			tt.ops(t, s)
			if s.Live() != 0 {
				t.Errorf("Live() = %d after releasing everything, want 0", s.Live())
			}
		})
	}
}

func TestSlotStore_ZeroSlots(t *testing.T) {
	s := NewSlotStore(0, 4)
	h := s.New()
	h2 := s.Clone(h)
	if s.Live() != 0 {
		t.Errorf("Live() = %d, want 0 for a slotless store", s.Live())
	}
	s.CopyOut(nil, h2)
	s.Release(&h)
	s.Release(&h2)
}

func TestSlotStore_CopyOut(t *testing.T) {
	s := NewSlotStore(2, 1)
	h := s.New()
	s.Set(&h, 1, 4)

	dst := []int{5, 5}
	s.CopyOut(dst, h)
	if dst[0] != Unset || dst[1] != 4 {
		t.Errorf("CopyOut() = %v, want [-1 4]", dst)
	}
	s.Release(&h)
}

func TestSlotStore_OutOfRangePanics(t *testing.T) {
	s := NewSlotStore(1, 1)
	h := s.New()
	defer func() {
		if recover() == nil {
			t.Error("Set() out of range did not panic")
		}
	}()
	s.Set(&h, 1, 0)
}

func TestSlotStore_ReusesBlocks(t *testing.T) {
	s := NewSlotStore(2, 4)
	for i := 0; i < 100; i++ {
		h := s.New()
		h2 := s.Clone(h)
		s.Set(&h2, 0, i)
		s.Release(&h)
		s.Release(&h2)
	}
	if got := s.Live(); got != 0 {
		t.Errorf("Live() = %d, want 0", got)
	}
}
