package pikere

import (
	"fmt"

	"github.com/coregx/pikere/nfa"
)

// Config controls compilation limits and search acceleration.
//
// Example:
//
//	config := pikere.DefaultConfig()
//	config.EnablePrefilter = false // always run the VM from the search offset
//	re, err := pikere.CompileWithConfig("[(foo)(bar)]+", config)
type Config struct {
	// EnablePrefilter enables literal-based prefiltering for unanchored
	// searches over UTF-8 input.
	// Default: true
	EnablePrefilter bool

	// MaxLiterals limits the number of prefix literals extracted for the
	// prefilter. Patterns needing more get no prefilter.
	// Default: 64
	MaxLiterals int

	// MaxLiteralLen limits the length of each prefix literal in bytes.
	// Default: 32
	MaxLiteralLen int

	// MaxNestingDepth limits group, alternation and postfix nesting.
	// Default: 1000
	MaxNestingDepth int

	// MaxProgramSize limits the number of instructions of a compiled pattern.
	// Default: 1 << 20
	MaxProgramSize int

	// EnableBacktracker runs searches whose input fits BacktrackBudget on
	// a bounded backtracker instead of the Pike VM. Results are identical.
	// Default: false
	EnableBacktracker bool

	// BacktrackBudget is the size in bits of the backtracker's visited
	// vector, which needs (program length) * (input length + 1) bits.
	// Default: 2,097,152 (256KB)
	BacktrackBudget int

	// SlotBlocksPerChunk is how many capture slot blocks a search allocates
	// at once when its pool runs dry.
	// Default: 32
	SlotBlocksPerChunk int
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		EnablePrefilter:    true,
		MaxLiterals:        64,
		MaxLiteralLen:      32,
		MaxNestingDepth:    1000,
		MaxProgramSize:     1 << 20,
		BacktrackBudget:    nfa.DefaultBacktrackBudget,
		SlotBlocksPerChunk: 32,
	}
}

// Validate checks that every parameter is in range.
//
// Valid ranges:
//   - MaxLiterals: 1 to 1,000 (only checked with EnablePrefilter)
//   - MaxLiteralLen: 1 to 256 (only checked with EnablePrefilter)
//   - MaxNestingDepth: 10 to 100,000
//   - MaxProgramSize: 16 to 1 << 26
//   - BacktrackBudget: 64 to 1 << 30 (only checked with EnableBacktracker)
//   - SlotBlocksPerChunk: 1 to 4,096
func (c Config) Validate() error {
	if c.EnablePrefilter {
		if err := checkRange("MaxLiterals", c.MaxLiterals, 1, 1_000); err != nil {
			return err
		}
		if err := checkRange("MaxLiteralLen", c.MaxLiteralLen, 1, 256); err != nil {
			return err
		}
	}
	if err := checkRange("MaxNestingDepth", c.MaxNestingDepth, 10, 100_000); err != nil {
		return err
	}
	if err := checkRange("MaxProgramSize", c.MaxProgramSize, 16, 1<<26); err != nil {
		return err
	}
	if c.EnableBacktracker {
		if err := checkRange("BacktrackBudget", c.BacktrackBudget, 64, 1<<30); err != nil {
			return err
		}
	}
	return checkRange("SlotBlocksPerChunk", c.SlotBlocksPerChunk, 1, 4_096)
}

func checkRange(field string, v, lo, hi int) error {
	if v < lo || v > hi {
		return &ConfigError{
			Field:   field,
			Message: fmt.Sprintf("must be between %d and %d", lo, hi),
		}
	}
	return nil
}

// ConfigError represents an invalid configuration parameter.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "pikere: invalid config: " + e.Field + ": " + e.Message
}
