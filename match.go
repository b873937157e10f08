package pikere

import "fmt"

// Match is a successful match: its bounds and the offsets recorded by the
// pattern's capture marks. Offsets are in the code units of the subject
// (bytes for UTF-8 input).
//
// Example:
//
//	m := pikere.MustCompile("&a+&").SearchString("baaab")
//	fmt.Println(m.Start(), m.End(), m.Slot(0), m.Slot(1)) // 1 4 1 4
type Match struct {
	start int
	end   int
	slots []int
}

// Start returns the inclusive start offset of the match.
func (m *Match) Start() int {
	return m.start
}

// End returns the exclusive end offset of the match.
func (m *Match) End() int {
	return m.end
}

// Len returns the length of the match in code units.
func (m *Match) Len() int {
	return m.end - m.start
}

// NumSlots returns the number of capture slots, one per '&' in the pattern.
func (m *Match) NumSlots() int {
	return len(m.slots)
}

// Slot returns the offset recorded by capture mark i, or -1 if the winning
// path did not pass it. Panics if i is not in [0, NumSlots()).
func (m *Match) Slot(i int) int {
	if i < 0 || i >= len(m.slots) {
		panic(fmt.Sprintf("pikere: slot %d out of range [0, %d)", i, len(m.slots)))
	}
	return m.slots[i]
}

// Slots returns a copy of all slot values.
func (m *Match) Slots() []int {
	return append([]int(nil), m.slots...)
}

// Range returns the span delimited by slots 2k and 2k+1, the usual way
// of pairing marks into groups. ok is false when either mark is unset or the
// pair is out of order.
//
// Example:
//
//	m := pikere.MustCompile("x&a+&y").SearchString("xaay")
//	start, end, _ := m.Range(0) // 1, 3
func (m *Match) Range(k int) (start, end int, ok bool) {
	start, end = m.Slot(2*k), m.Slot(2*k+1)
	if start < 0 || end < start {
		return -1, -1, false
	}
	return start, end, true
}

// Text returns the matched part of subject, which must be the slice the
// match was found in. The result aliases subject.
func (m *Match) Text(subject []byte) []byte {
	return subject[m.start:m.end:m.end]
}

// TextString returns the matched part of subject.
func (m *Match) TextString(subject string) string {
	return subject[m.start:m.end]
}

// String returns a debugging representation: "[start, end)" followed by the slots.
func (m *Match) String() string {
	if len(m.slots) == 0 {
		return fmt.Sprintf("[%d, %d)", m.start, m.end)
	}
	return fmt.Sprintf("[%d, %d) %v", m.start, m.end, m.slots)
}
