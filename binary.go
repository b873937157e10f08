package pikere

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/coregx/pikere/nfa"
	"github.com/coregx/pikere/syntax"
)

// Wire layout, protobuf compatible:
//
//	message Regex {
//	  string pattern = 1;
//	  bytes program = 2; // nfa.Program encoding
//	}
const (
	fieldPattern protowire.Number = 1
	fieldProgram protowire.Number = 2
)

// MarshalBinary encodes the pattern together with its compiled program, so
// that Load can rebuild the Regex without running the compiler.
func (r *Regex) MarshalBinary() ([]byte, error) {
	prog, err := r.prog.MarshalBinary()
	if err != nil {
		return nil, err
	}
	var b []byte
	b = protowire.AppendTag(b, fieldPattern, protowire.BytesType)
	b = protowire.AppendString(b, r.pattern)
	b = protowire.AppendTag(b, fieldProgram, protowire.BytesType)
	b = protowire.AppendBytes(b, prog)
	return b, nil
}

// Load rebuilds a Regex from the output of MarshalBinary using
// DefaultConfig. Malformed data yields an error wrapping
// nfa.ErrInvalidProgram.
func Load(data []byte) (*Regex, error) {
	return LoadWithConfig(data, DefaultConfig())
}

// MustLoad is like Load but panics on malformed data. It is meant for
// programs embedded by the code generator.
func MustLoad(data []byte) *Regex {
	re, err := Load(data)
	if err != nil {
		panic("pikere: Load: " + err.Error())
	}
	return re
}

// LoadWithConfig is like Load with a custom configuration. The program is
// taken as encoded; only the search settings of config apply. The encoded
// pattern must declare as many slots, and size to as many instructions, as
// the program; beyond that it is trusted to be the one the program was
// compiled from.
func LoadWithConfig(data []byte, config Config) (*Regex, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		pattern  string
		progData []byte
		seen     int
	)
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, fmt.Errorf("%w: %v", nfa.ErrInvalidProgram, protowire.ParseError(n))
		}
		data = data[n:]
		switch {
		case num == fieldPattern && typ == protowire.BytesType:
			pattern, n = protowire.ConsumeString(data)
			seen |= 1
		case num == fieldProgram && typ == protowire.BytesType:
			progData, n = protowire.ConsumeBytes(data)
			seen |= 2
		default:
			n = protowire.ConsumeFieldValue(num, typ, data)
		}
		if n < 0 {
			return nil, fmt.Errorf("%w: field %d: %v", nfa.ErrInvalidProgram, num, protowire.ParseError(n))
		}
		data = data[n:]
	}
	if seen != 3 {
		return nil, fmt.Errorf("%w: missing pattern or program", nfa.ErrInvalidProgram)
	}

	prog, err := nfa.UnmarshalProgram(progData)
	if err != nil {
		return nil, err
	}
	// The AST is only needed for prefix literals.
	root, err := syntax.ParseWithLimit(pattern, config.MaxNestingDepth)
	if err != nil {
		return nil, fmt.Errorf("%w: pattern: %v", nfa.ErrInvalidProgram, err)
	}
	if syntax.CountMarks(root) != prog.SlotCount() {
		return nil, fmt.Errorf("%w: pattern declares %d slots, program %d",
			nfa.ErrInvalidProgram, syntax.CountMarks(root), prog.SlotCount())
	}
	if size := nfa.ProgramSize(root); size != prog.Len() {
		return nil, fmt.Errorf("%w: pattern compiles to %d instructions, program has %d",
			nfa.ErrInvalidProgram, size, prog.Len())
	}
	return newRegex(pattern, root, prog, config), nil
}
