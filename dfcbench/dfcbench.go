// Package dfcbench cross-checks the DFC engine against an independent
// multi-pattern matcher (github.com/coregx/ahocorasick) on the same corpus.
//
// This is deliberately not a second copy of DFC's own filter/verify logic:
// Aho-Corasick reaches its answer by automaton traversal, a completely
// different algorithmic path, so agreement between the two is meaningful
// evidence rather than two implementations sharing the same bug.
//
// The core engine in package dfc never depends on this package or on
// github.com/coregx/ahocorasick — wiring it here, in a benchmarking/fuzzing
// harness, keeps the dependency exercised without displacing the DFC
// algorithm it exists to validate.
package dfcbench

import (
	"fmt"

	"github.com/coregx/ahocorasick"
	"github.com/coregx/dfc"
)

// Discrepancy records a haystack offset where the DFC index and the
// reference automaton disagreed about whether some pattern starts there.
type Discrepancy struct {
	Offset      int
	InDFC       bool
	InReference bool
}

// CrossCheck builds a dfc.CompiledIndex and an ahocorasick.Automaton over
// the same case-sensitive literal set, scans haystack with both, and
// returns every offset where they disagree on whether *some* pattern starts
// there.
//
// Patterns must be case-sensitive and non-empty; CrossCheck does not
// attempt to model ahocorasick's matching semantics for case folding.
//
// The comparison is position-level, not pattern-identity-level:
// ahocorasick.Automaton.Find returns one (leftmost) match per call, so
// CrossCheck walks it forward (m.Start+1 each step) to enumerate match
// starts the same way a fuzz harness would, rather than asserting it
// reports every overlapping literal at a shared start the way dfc.Scan
// does. This makes CrossCheck a corroborating oracle for "did matching
// happen roughly here", not a byte-for-byte replacement for the property
// tests in the dfc package itself.
func CrossCheck(patterns [][]byte, haystack []byte) ([]Discrepancy, error) {
	set := dfc.NewPatternSet()
	for id, p := range patterns {
		if len(p) == 0 {
			return nil, fmt.Errorf("dfcbench: pattern %d is empty", id)
		}
		if err := set.Add(p, false, uint32(id)); err != nil {
			return nil, fmt.Errorf("dfcbench: adding pattern %d: %w", id, err)
		}
	}
	idx, err := set.Compile()
	if err != nil {
		return nil, fmt.Errorf("dfcbench: compiling dfc index: %w", err)
	}

	builder := ahocorasick.NewBuilder()
	for _, p := range patterns {
		builder.AddPattern(p)
	}
	auto, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("dfcbench: building reference automaton: %w", err)
	}

	dfcStarts := map[int]bool{}
	idx.Scan(haystack, func(m dfc.Match) {
		dfcStarts[m.Offset] = true
	})

	refStarts := map[int]bool{}
	for pos := 0; pos <= len(haystack); {
		m := auto.Find(haystack, pos)
		if m == nil {
			break
		}
		refStarts[m.Start] = true
		pos = m.Start + 1
	}

	seen := map[int]bool{}
	var discrepancies []Discrepancy
	for off := range dfcStarts {
		seen[off] = true
		if !refStarts[off] {
			discrepancies = append(discrepancies, Discrepancy{Offset: off, InDFC: true, InReference: false})
		}
	}
	for off := range refStarts {
		if seen[off] {
			continue
		}
		discrepancies = append(discrepancies, Discrepancy{Offset: off, InDFC: false, InReference: true})
	}
	return discrepancies, nil
}
