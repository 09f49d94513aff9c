package dfc

import (
	"github.com/coregx/dfc/bytesx"
	"github.com/coregx/dfc/filter"
)

// Scan reports every occurrence of every pattern in idx against input,
// invoking onMatch once per confirmed match, and returns the total match
// count.
//
// Callers may optionally size input's backing array with MaxPatternLength
// bytes of extra, zero-filled capacity past len(input) to mirror the
// original format's read-ahead padding contract; Scan never reads past
// len(input) itself (Go's bounds-checked slices make that elision
// unnecessary for correctness — positions past the logical end are treated
// as implicit zero bytes either way).
//
// Scan performs no dynamic allocation once warmed up: it neither grows
// idx's tables nor allocates a per-call accumulator. Callers own sizing
// their own match accumulator inside onMatch if they need one (§5).
func (idx *CompiledIndex) Scan(input []byte, onMatch func(Match)) int {
	length := len(input)
	matches := 0

	for i := 0; i < length; i++ {
		b1 := byte(0)
		if i+1 < length {
			b1 = input[i+1]
		}
		w2 := filter.Window(input[i], b1)

		if idx.dfs.Test(w2) {
			matches += idx.verifySmall(input, i, length, onMatch)
		}

		if i+3 < length && idx.dfl.Test(w2) && idx.isInHashDF(input, i) {
			matches += idx.verifyLarge(input, i, length, onMatch)
		}
	}

	return matches
}

// isInHashDF reports whether DFlh accepts the 4-byte window starting at i.
// Requires i+3 < len(input) to be true (callers check this before calling).
func (idx *CompiledIndex) isInHashDF(input []byte, i int) bool {
	k := filter.TailKey(input[i], input[i+1], input[i+2], input[i+3])
	return idx.dflh.Test(filter.LargeHashWindow(k))
}

// verifySmall checks every candidate PID bucketed under input[i] (the CTs
// key for length<=3 patterns, which always start at their scan position).
func (idx *CompiledIndex) verifySmall(input []byte, i, length int, onMatch func(Match)) int {
	bucket := input[i]
	count := 0

	for _, pid := range idx.small.Bucket(bucket) {
		p := &idx.patterns[pid]
		if length-i < p.Length {
			continue
		}
		if matchesAt(input[i:i+p.Length], p) {
			onMatch(Match{Pattern: p, Offset: i})
			count++
		}
	}
	return count
}

// verifyLarge checks every candidate PID whose tail key matches the 4-byte
// window at i. Per the tail-anchored convention, a length>=4 pattern that
// matches here starts at i-(length-4).
func (idx *CompiledIndex) verifyLarge(input []byte, i, length int, onMatch func(Match)) int {
	k := filter.TailKey(input[i], input[i+1], input[i+2], input[i+3])
	bucket := filter.LargeTableBucket(k)
	count := 0

	for _, entry := range idx.large.Bucket(bucket) {
		if entry.Pattern != k {
			continue
		}
		for _, pid := range idx.large.PIDs(entry) {
			p := &idx.patterns[pid]
			start := i - (p.Length - 4)
			if start < 0 || start+p.Length > length {
				continue
			}
			if matchesAt(input[start:start+p.Length], p) {
				onMatch(Match{Pattern: p, Offset: start})
				count++
			}
		}
	}
	return count
}

// matchesAt compares window (already sliced to p.Length) against p's
// original bytes, case-insensitively when p.CaseInsensitive (§4.6: ASCII
// A-Z/a-z only, no locale dependence).
func matchesAt(window []byte, p *Pattern) bool {
	if p.CaseInsensitive {
		return bytesx.EqualFold(window, p.Original)
	}
	return bytesx.Equal(window, p.Original)
}
