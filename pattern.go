// Package dfc implements the DFC ("Direct Filter + Compact Table") exact
// multi-pattern matching engine: a two-stage filter that rejects
// non-matching input positions with a handful of cache-resident byte loads,
// falling back to exact verification only against the small candidate set a
// filter hit identifies.
//
// Usage is a two-phase build/scan split:
//
//	set := dfc.NewPatternSet()
//	_ = set.Add([]byte("attack"), false, 0)
//	_ = set.Add([]byte("crash"), true, 1)
//	idx, err := set.Compile()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	count := idx.Scan(input, func(m dfc.Match) {
//	    fmt.Printf("matched %q at %d (ids=%v)\n", m.Pattern.Original, m.Offset, m.Pattern.ExternalIDs)
//	})
//
// A CompiledIndex is immutable once built and may be scanned concurrently by
// any number of goroutines without synchronization; a PatternSet itself is
// not safe for concurrent use during the build phase.
package dfc

import "github.com/coregx/dfc/internal/dedup"

// MaxPatternLength is the hard per-pattern length ceiling enforced by Add.
const MaxPatternLength = 64

// Pattern is one distinct pattern after dedup: all patterns added with
// equal (normalized-bytes, case-flag) pairs collapse into a single Pattern
// carrying every external ID that named it.
type Pattern struct {
	// PID is the dense internal identifier assigned during Compile.
	PID uint32

	// Length is the pattern's byte length, 1..MaxPatternLength.
	Length int

	// CaseInsensitive reports whether this pattern matches under ASCII
	// case folding.
	CaseInsensitive bool

	// Original holds the bytes as first supplied to Add.
	Original []byte

	// Upper holds the ASCII-uppercased bytes, populated only when
	// CaseInsensitive is true.
	Upper []byte

	// ExternalIDs lists every caller-supplied ID that collapsed onto this
	// pattern, in the order Add was called.
	ExternalIDs []uint32
}

// PatternSet accumulates patterns for a single Compile call. It is not safe
// for concurrent use: the build phase is expected to run on one goroutine
// before any scanning begins (§5 of the matching specification).
type PatternSet struct {
	cfg   Config
	table *dedup.Table
}

// NewPatternSet creates an empty PatternSet using DefaultConfig.
func NewPatternSet() *PatternSet {
	return NewPatternSetWithConfig(DefaultConfig())
}

// NewPatternSetWithConfig creates an empty PatternSet using the given
// capacity configuration.
func NewPatternSetWithConfig(cfg Config) *PatternSet {
	return &PatternSet{cfg: cfg, table: dedup.New()}
}

// Add registers pattern under externalID. If an equal (bytes, case-flag)
// pattern was already added, externalID is appended to its ID list instead
// of creating a new internal pattern.
//
// Returns ErrPatternEmpty, ErrPatternTooLong, or a *BuildError with Kind
// TooManyEqualPatterns if this pattern's group would exceed
// Config.MaxEqualPatterns.
func (s *PatternSet) Add(pattern []byte, caseInsensitive bool, externalID uint32) error {
	if len(pattern) == 0 {
		return ErrPatternEmpty
	}
	if len(pattern) > MaxPatternLength {
		return ErrPatternTooLong
	}

	_, _, err := s.table.AddOrAppend(pattern, caseInsensitive, externalID, s.cfg.MaxEqualPatterns)
	if err != nil {
		return &BuildError{
			Kind:    TooManyEqualPatterns,
			Detail:  err.Error(),
			Pattern: pattern,
		}
	}
	return nil
}

// Len returns the number of distinct patterns added so far (after dedup).
func (s *PatternSet) Len() int {
	return s.table.Len()
}

// Compile consumes the PatternSet and builds an immutable CompiledIndex. The
// PatternSet must not be reused after Compile — though nothing currently
// prevents further Add calls, doing so has no effect on any previously
// returned CompiledIndex.
func (s *PatternSet) Compile() (*CompiledIndex, error) {
	return compile(s.table.Ordered(), s.cfg)
}
