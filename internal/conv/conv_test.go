package conv

import (
	"math"
	"testing"
)

func TestIntToUint32(t *testing.T) {
	if got := IntToUint32(42); got != 42 {
		t.Errorf("IntToUint32(42) = %d, want 42", got)
	}

	defer func() {
		if recover() == nil {
			t.Error("IntToUint32(-1) did not panic")
		}
	}()
	IntToUint32(-1)
}

func TestUint64ToInt(t *testing.T) {
	tests := []struct {
		in     uint64
		want   int
		wantOK bool
	}{
		{0, 0, true},
		{7, 7, true},
		{math.MaxInt32, math.MaxInt32, true},
		{math.MaxInt32 + 1, 0, false},
		{math.MaxUint64, 0, false},
	}
	for _, tt := range tests {
		got, ok := Uint64ToInt(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("Uint64ToInt(%d) = (%d, %v), want (%d, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestUint64ToRune(t *testing.T) {
	if r, ok := Uint64ToRune('x'); !ok || r != 'x' {
		t.Errorf("Uint64ToRune('x') = (%q, %v)", r, ok)
	}
	if _, ok := Uint64ToRune(0x110000); ok {
		t.Error("Uint64ToRune(0x110000) should fail")
	}
}
