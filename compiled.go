package dfc

import (
	"github.com/coregx/dfc/compact"
	"github.com/coregx/dfc/filter"
	"github.com/coregx/dfc/internal/dedup"
)

// CompiledIndex is the immutable, scan-ready form of a PatternSet. It holds
// the Direct Filters (DF0, DFs, DFl, DFlh) and Compact Tables (CTs, CTl)
// described in the matching specification, plus the dense pattern array
// they index into.
//
// A CompiledIndex never mutates after compile returns it, so any number of
// goroutines may call Scan concurrently against the same index with no
// locking (§5).
type CompiledIndex struct {
	patterns []Pattern

	df0  filter.Byte
	dfs  filter.Direct
	dfl  filter.Direct
	dflh filter.Direct

	small *compact.Small
	large *compact.Large
}

// anchoring convention (§9, tail-anchored reference choice): a large
// pattern's scan position i is where the pattern's own tail begins, i.e.
// input[i..i+4) equals the pattern's last four bytes. The pattern therefore
// starts at i - (length-4).

// compile builds a CompiledIndex from deduplicated intake entries.
func compile(entries []*dedup.Entry, cfg Config) (*CompiledIndex, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	patterns := make([]Pattern, len(entries))
	for pid, e := range entries {
		patterns[pid] = Pattern{
			PID:             uint32(pid),
			Length:          len(e.Original),
			CaseInsensitive: e.CaseInsensitive,
			Original:        e.Original,
			Upper:           e.Upper,
			ExternalIDs:     e.ExternalIDs,
		}
	}

	idx := &CompiledIndex{patterns: patterns}
	small := compact.NewSmallBuilder(cfg.MaxPIDsPerSmallBucket)
	large := compact.NewLargeBuilder(cfg.MaxEntriesPerLargeBucket, cfg.MaxPIDsPerLargeEntry)

	for pid := range patterns {
		p := &patterns[pid]
		key := p.Original
		if p.CaseInsensitive {
			key = p.Upper
		}

		idx.df0.Set(key[0])

		if p.Length <= 3 {
			if err := buildSmall(idx, small, p, key, uint32(pid)); err != nil {
				return nil, err
			}
			continue
		}

		if err := buildLarge(idx, large, p, key, uint32(pid)); err != nil {
			return nil, err
		}
	}

	idx.small = small.Build()
	idx.large = large.Build()

	if idx.small.PIDCount()+idx.large.PIDCount() > cfg.MaxTotalPIDs {
		return nil, &BuildError{
			Kind:   PidOverflow,
			Detail: "combined CTs/CTl PID vector exceeds MaxTotalPIDs",
		}
	}

	return idx, nil
}

// buildSmall registers a length<=3 pattern's Direct Filter bits and CTs
// bucket membership.
//
// For length==1, the scanner's 2-byte window is unconstrained in its second
// byte (the pattern only commits to input[i]), so the filter bit is set for
// every possible second byte (§4.2).
func buildSmall(idx *CompiledIndex, small *compact.SmallBuilder, p *Pattern, key []byte, pid uint32) error {
	firstByteVariants := filter.CaseVariants(key[0])
	if !p.CaseInsensitive {
		firstByteVariants = []byte{key[0]}
	}

	if p.Length == 1 {
		for _, b0 := range firstByteVariants {
			for x := 0; x < 256; x++ {
				idx.dfs.Set(filter.Window(b0, byte(x)))
			}
		}
	} else {
		window := key[0:2]
		combos := [][]byte{window}
		if p.CaseInsensitive {
			combos = filter.ExpandVariants(window)
		}
		for _, c := range combos {
			idx.dfs.Set(filter.Window(c[0], c[1]))
		}
	}

	for _, b0 := range firstByteVariants {
		if err := small.Add(b0, pid); err != nil {
			return &BuildError{Kind: CompactTableOverflowSmall, Detail: err.Error(), Pattern: p.Original, Cause: err}
		}
	}
	return nil
}

// buildLarge registers a length>=4 pattern's Direct Filter bits (DFl, DFlh)
// and CTl bucket/entry/PID membership, under every case variant of its
// 4-byte tail when case-insensitive.
func buildLarge(idx *CompiledIndex, large *compact.LargeBuilder, p *Pattern, key []byte, pid uint32) error {
	tail := key[p.Length-4 : p.Length]
	combos := [][]byte{tail}
	if p.CaseInsensitive {
		combos = filter.ExpandVariants(tail)
	}

	for _, t := range combos {
		idx.dfl.Set(filter.Window(t[0], t[1]))

		tailKey := filter.TailKey(t[0], t[1], t[2], t[3])
		idx.dflh.Set(filter.LargeHashWindow(tailKey))

		bucket := filter.LargeTableBucket(tailKey)
		if err := large.Add(bucket, tailKey, pid); err != nil {
			return &BuildError{Kind: CompactTableOverflowLarge, Detail: err.Error(), Pattern: p.Original, Cause: err}
		}
	}
	return nil
}

// IndexStats reports per-table population, useful for profiling and for
// deciding whether a pattern set is approaching a Config capacity limit.
// This is a pure read-only accessor, not logging: the core itself never
// logs (§7).
type IndexStats struct {
	PatternCount int

	DF0BitsSet int

	SmallPIDCount int

	LargeEntryCount int
	LargePIDCount   int
}

// Stats returns a snapshot of idx's table occupancy.
func (idx *CompiledIndex) Stats() IndexStats {
	return IndexStats{
		PatternCount:    len(idx.patterns),
		DF0BitsSet:      idx.df0.Count(),
		SmallPIDCount:   idx.small.PIDCount(),
		LargeEntryCount: idx.large.EntryCount(),
		LargePIDCount:   idx.large.PIDCount(),
	}
}
