package nfa

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"google.golang.org/protobuf/encoding/protowire"
)

func TestProgram_BinaryRoundTrip(t *testing.T) {
	patterns := []string{"a", "^abc$", "[(&a)(&b)]*&", "(a*)*b", "é.😀", "a[bc]d?"}
	inputs := []string{"", "abc", "ab", "aab", "xé😀😀", "acd"}

	for _, pattern := range patterns {
		t.Run(pattern, func(t *testing.T) {
			prog := mustCompile(t, pattern)
			data, err := prog.MarshalBinary()
			if err != nil {
				t.Fatalf("MarshalBinary failed: %v", err)
			}
			decoded, err := UnmarshalProgram(data)
			if err != nil {
				t.Fatalf("UnmarshalProgram failed: %v", err)
			}

			if diff := cmp.Diff(prog.String(), decoded.String()); diff != "" {
				t.Errorf("disassembly changed (-orig +decoded):\n%s", diff)
			}
			if decoded.SlotCount() != prog.SlotCount() {
				t.Errorf("SlotCount() = %d, want %d", decoded.SlotCount(), prog.SlotCount())
			}
			if decoded.IsAnchoredStart() != prog.IsAnchoredStart() {
				t.Errorf("IsAnchoredStart() = %v, want %v", decoded.IsAnchoredStart(), prog.IsAnchoredStart())
			}

			orig, dec := NewPikeVM(prog), NewPikeVM(decoded)
			for _, input := range inputs {
				want := orig.Search(StringInput(input), ModeSearch)
				got := dec.Search(StringInput(input), ModeSearch)
				if diff := cmp.Diff(want, got); diff != "" {
					t.Errorf("Search(%q) differs after decoding (-orig +decoded):\n%s", input, diff)
				}
			}
		})
	}
}

func TestUnmarshalProgram_SkipsUnknownFields(t *testing.T) {
	data, _ := mustCompile(t, "ab").MarshalBinary()
	data = protowire.AppendTag(data, 15, protowire.BytesType)
	data = protowire.AppendBytes(data, []byte("future"))

	prog, err := UnmarshalProgram(data)
	if err != nil {
		t.Fatalf("UnmarshalProgram failed: %v", err)
	}
	if prog.Len() != 3 {
		t.Errorf("Len() = %d, want 3", prog.Len())
	}
}

func TestUnmarshalProgram_Invalid(t *testing.T) {
	inst := func(fields ...uint64) []byte {
		var b []byte
		for i := 0; i+1 < len(fields); i += 2 {
			b = protowire.AppendTag(b, protowire.Number(fields[i]), protowire.VarintType)
			b = protowire.AppendVarint(b, fields[i+1])
		}
		return b
	}
	program := func(slotCount uint64, insts ...[]byte) []byte {
		var b []byte
		b = protowire.AppendTag(b, fieldSlotCount, protowire.VarintType)
		b = protowire.AppendVarint(b, slotCount)
		for _, in := range insts {
			b = protowire.AppendTag(b, fieldInsts, protowire.BytesType)
			b = protowire.AppendBytes(b, in)
		}
		return b
	}
	match := inst(uint64(fieldOp), uint64(InstMatch))

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"truncated tag", []byte{0x80}},
		{"truncated instruction", []byte{0x12, 0x05, 0x08}},
		{"unknown opcode", program(0, inst(uint64(fieldOp), 200))},
		{"jump out of bounds", program(0, inst(uint64(fieldOp), uint64(InstJump), uint64(fieldOut), 9), match)},
		{"undeclared slot", program(0, inst(uint64(fieldOp), uint64(InstCapture), uint64(fieldSlot), 0), match)},
		{"rune out of range", program(0, inst(uint64(fieldOp), uint64(InstLiteral), uint64(fieldRune), protowire.EncodeZigZag(0x110000)), match)},
		{"falls off end", program(0, inst(uint64(fieldOp), uint64(InstAnyChar)))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalProgram(tt.data)
			if !errors.Is(err, ErrInvalidProgram) {
				t.Errorf("error = %v, want ErrInvalidProgram", err)
			}
		})
	}
}
