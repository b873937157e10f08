package pikere

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMatchAccessors(t *testing.T) {
	subject := "key=value"
	m := MustCompile("&[kvy(ey)]+&=&.*&").SearchString(subject)
	if m == nil {
		t.Fatal("no match")
	}
	if m.Start() != 0 || m.End() != 9 || m.Len() != 9 {
		t.Errorf("bounds = [%d, %d) len %d", m.Start(), m.End(), m.Len())
	}
	if m.NumSlots() != 4 {
		t.Fatalf("NumSlots() = %d, want 4", m.NumSlots())
	}
	if diff := cmp.Diff([]int{0, 3, 4, 9}, m.Slots()); diff != "" {
		t.Errorf("Slots() mismatch (-want +got):\n%s", diff)
	}

	start, end, ok := m.Range(0)
	if !ok || subject[start:end] != "key" {
		t.Errorf("Range(0) = %d, %d, %v", start, end, ok)
	}
	start, end, ok = m.Range(1)
	if !ok || subject[start:end] != "value" {
		t.Errorf("Range(1) = %d, %d, %v", start, end, ok)
	}
	if got := m.TextString(subject); got != subject {
		t.Errorf("TextString() = %q", got)
	}
	if got := string(m.Text([]byte(subject))); got != subject {
		t.Errorf("Text() = %q", got)
	}
}

func TestMatchSlotsIsACopy(t *testing.T) {
	m := MustCompile("&a&").SearchString("a")
	slots := m.Slots()
	slots[0] = 42
	if m.Slot(0) != 0 {
		t.Errorf("Slot(0) = %d after modifying the copy", m.Slot(0))
	}
}

func TestMatchRangeUnset(t *testing.T) {
	m := MustCompile("[(&a&)b]").SearchString("b")
	if m == nil {
		t.Fatal("no match")
	}
	if m.Slot(0) != -1 || m.Slot(1) != -1 {
		t.Errorf("slots = %v, want unset", m.Slots())
	}
	if start, end, ok := m.Range(0); ok || start != -1 || end != -1 {
		t.Errorf("Range(0) = %d, %d, %v", start, end, ok)
	}
}

func TestMatchSlotOutOfRange(t *testing.T) {
	m := MustCompile("&a").SearchString("a")
	for _, i := range []int{-1, 1} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("Slot(%d) did not panic", i)
				}
			}()
			m.Slot(i)
		}()
	}
}

func TestMatchTextAliasesSubject(t *testing.T) {
	subject := []byte("xaay")
	m := MustCompile("a+").Search(subject)
	text := m.Text(subject)
	if cap(text) != len(text) {
		t.Errorf("cap(Text()) = %d, want %d", cap(text), len(text))
	}
	text[0] = 'b'
	if subject[1] != 'b' {
		t.Error("Text() does not alias the subject")
	}
}

func TestMatchString(t *testing.T) {
	tests := []struct {
		pattern string
		input   string
		want    string
	}{
		{"b", "ab", "[1, 2)"},
		{"&b&", "ab", "[1, 2) [1 2]"},
		{"a*", "", "[0, 0)"},
	}
	for _, tt := range tests {
		if got := MustCompile(tt.pattern).SearchString(tt.input).String(); got != tt.want {
			t.Errorf("%q on %q: String() = %q, want %q", tt.pattern, tt.input, got, tt.want)
		}
	}
}
