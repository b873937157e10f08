package nfa

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/coregx/pikere/internal/conv"
)

// Wire layout, protobuf compatible:
//
//	message Program {
//	  uint64 slot_count = 1;
//	  repeated Inst insts = 2;
//	}
//	message Inst {
//	  uint64 op = 1;
//	  sint64 rune = 2;
//	  uint64 slot = 3;
//	  uint64 out = 4;
//	  uint64 out1 = 5;
//	  repeated uint64 targets = 6 [packed = true];
//	}
const (
	fieldSlotCount protowire.Number = 1
	fieldInsts     protowire.Number = 2

	fieldOp      protowire.Number = 1
	fieldRune    protowire.Number = 2
	fieldSlot    protowire.Number = 3
	fieldOut     protowire.Number = 4
	fieldOut1    protowire.Number = 5
	fieldTargets protowire.Number = 6
)

// MarshalBinary encodes the program in protobuf wire format
func (p *Program) MarshalBinary() ([]byte, error) {
	return p.AppendBinary(nil), nil
}

// AppendBinary appends the encoded program to b
func (p *Program) AppendBinary(b []byte) []byte {
	if p.slotCount > 0 {
		b = protowire.AppendTag(b, fieldSlotCount, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(p.slotCount))
	}
	var scratch []byte
	for pc := range p.insts {
		scratch = appendInst(scratch[:0], &p.insts[pc])
		b = protowire.AppendTag(b, fieldInsts, protowire.BytesType)
		b = protowire.AppendBytes(b, scratch)
	}
	return b
}

func appendInst(b []byte, inst *Inst) []byte {
	appendUint := func(num protowire.Number, v int) {
		if v != 0 {
			b = protowire.AppendTag(b, num, protowire.VarintType)
			b = protowire.AppendVarint(b, uint64(v))
		}
	}
	appendUint(fieldOp, int(inst.Op))
	if inst.Rune != 0 {
		b = protowire.AppendTag(b, fieldRune, protowire.VarintType)
		b = protowire.AppendVarint(b, protowire.EncodeZigZag(int64(inst.Rune)))
	}
	appendUint(fieldSlot, inst.Slot)
	appendUint(fieldOut, inst.Out)
	appendUint(fieldOut1, inst.Out1)
	if len(inst.Targets) > 0 {
		var packed []byte
		for _, t := range inst.Targets {
			packed = protowire.AppendVarint(packed, uint64(t))
		}
		b = protowire.AppendTag(b, fieldTargets, protowire.BytesType)
		b = protowire.AppendBytes(b, packed)
	}
	return b
}

// UnmarshalProgram decodes a program produced by MarshalBinary.
// The result is validated like a freshly compiled program; any malformed
// input yields an error wrapping ErrInvalidProgram.
func UnmarshalProgram(data []byte) (*Program, error) {
	var (
		slotCount int
		insts     []Inst
	)
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, invalidf("program tag: %v", protowire.ParseError(n))
		}
		data = data[n:]

		switch {
		case num == fieldSlotCount && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return nil, invalidf("slot count: %v", protowire.ParseError(n))
			}
			c, ok := conv.Uint64ToInt(v)
			if !ok {
				return nil, invalidf("slot count %d too large", v)
			}
			slotCount = c
			data = data[n:]
		case num == fieldInsts && typ == protowire.BytesType:
			raw, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return nil, invalidf("instruction %d: %v", len(insts), protowire.ParseError(n))
			}
			inst, err := decodeInst(raw)
			if err != nil {
				return nil, invalidf("instruction %d: %v", len(insts), err)
			}
			insts = append(insts, inst)
			data = data[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return nil, invalidf("field %d: %v", num, protowire.ParseError(n))
			}
			data = data[n:]
		}
	}

	prog, err := newProgram(insts, slotCount)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProgram, err)
	}
	return prog, nil
}

func decodeInst(data []byte) (Inst, error) {
	var inst Inst
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return inst, protowire.ParseError(n)
		}
		data = data[n:]

		if num == fieldTargets && typ == protowire.BytesType {
			packed, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return inst, protowire.ParseError(n)
			}
			for len(packed) > 0 {
				v, m := protowire.ConsumeVarint(packed)
				if m < 0 {
					return inst, protowire.ParseError(m)
				}
				t, ok := conv.Uint64ToInt(v)
				if !ok {
					return inst, fmt.Errorf("target %d too large", v)
				}
				inst.Targets = append(inst.Targets, t)
				packed = packed[m:]
			}
			data = data[n:]
			continue
		}

		if typ != protowire.VarintType || num < fieldOp || num > fieldOut1 {
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return inst, protowire.ParseError(n)
			}
			data = data[n:]
			continue
		}

		v, n := protowire.ConsumeVarint(data)
		if n < 0 {
			return inst, protowire.ParseError(n)
		}
		data = data[n:]

		if num == fieldRune {
			r, ok := conv.Uint64ToRune(uint64(protowire.DecodeZigZag(v)))
			if !ok {
				return inst, fmt.Errorf("code point %d out of range", protowire.DecodeZigZag(v))
			}
			inst.Rune = r
			continue
		}
		x, ok := conv.Uint64ToInt(v)
		if !ok {
			return inst, fmt.Errorf("field %d value %d too large", num, v)
		}
		switch num {
		case fieldOp:
			if v >= uint64(instOpCount) {
				return inst, fmt.Errorf("unknown opcode %d", v)
			}
			inst.Op = InstOp(x)
		case fieldSlot:
			inst.Slot = x
		case fieldOut:
			inst.Out = x
		case fieldOut1:
			inst.Out1 = x
		}
	}
	return inst, nil
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidProgram, fmt.Sprintf(format, args...))
}
