// Package compact builds and represents the Compact Tables (CTs, CTl) that
// the DFC scan loop uses to verify Direct Filter hits.
//
// Both tables are built as per-bucket adjacency lists during compile, then
// flattened into three contiguous arrays (buckets -> entries -> pids for
// CTl; buckets -> pids for CTs) so the scan loop only ever indexes flat
// slices, never walks pointers. Flattening order is insertion order, which
// makes two compiles of the same PatternSet produce bit-identical tables.
package compact

import "errors"

// PID is the internal pattern identifier used throughout the compiled
// index: a dense, 0-based index into the pattern array.
type PID = uint32

// Errors returned by builder Add methods when a fixed capacity is exceeded.
// These map onto the fatal build errors from the top-level package.
var (
	ErrSmallBucketOverflow = errors.New("compact: small compact table bucket overflow")
	ErrLargeEntryOverflow  = errors.New("compact: large compact table bucket has too many distinct tail keys")
	ErrLargePIDOverflow    = errors.New("compact: large compact table entry has too many pids")
)

// ---- Small Compact Table (CTs), keyed on a single byte (input[i]). ----

// SmallBuckets is the number of buckets in CTs: one per possible byte value.
const SmallBuckets = 256

// SmallBuilder accumulates PID adjacency lists for CTs during compile.
type SmallBuilder struct {
	buckets      [SmallBuckets][]PID
	maxPerBucket int
}

// NewSmallBuilder creates a builder enforcing maxPerBucket PIDs per bucket.
func NewSmallBuilder(maxPerBucket int) *SmallBuilder {
	return &SmallBuilder{maxPerBucket: maxPerBucket}
}

// Add registers pid under bucket key. Duplicate (key, pid) pairs are
// collapsed to a single entry.
func (b *SmallBuilder) Add(key byte, pid PID) error {
	bucket := b.buckets[key]
	for _, existing := range bucket {
		if existing == pid {
			return nil
		}
	}
	if len(bucket) >= b.maxPerBucket {
		return ErrSmallBucketOverflow
	}
	b.buckets[key] = append(bucket, pid)
	return nil
}

// Build flattens the adjacency lists into a Small table.
func (b *SmallBuilder) Build() *Small {
	s := &Small{}
	for key := 0; key < SmallBuckets; key++ {
		bucket := b.buckets[key]
		s.offset[key] = uint32(len(s.pids))
		s.count[key] = uint32(len(bucket))
		s.pids = append(s.pids, bucket...)
	}
	return s
}

// Small is the compiled, read-only Small Compact Table.
type Small struct {
	offset [SmallBuckets]uint32
	count  [SmallBuckets]uint32
	pids   []PID
}

// Bucket returns the PIDs registered under key, in insertion order.
func (s *Small) Bucket(key byte) []PID {
	return s.pids[s.offset[key] : s.offset[key]+s.count[key]]
}

// PIDCount returns the total number of (bucket, pid) slots used, for Stats.
func (s *Small) PIDCount() int {
	return len(s.pids)
}

// ---- Large Compact Table (CTl), keyed on a folded 32-bit tail hash. ----

// LargeBuckets is the number of buckets in CTl (2^17, per §3/§4.3).
const LargeBuckets = 1 << 17

type largeEntryBuild struct {
	pattern uint32
	pids    []PID
}

// LargeBuilder accumulates bucket -> entry -> pid adjacency lists for CTl
// during compile.
type LargeBuilder struct {
	buckets          [][]*largeEntryBuild
	maxEntryPerBucket int
	maxPIDsPerEntry   int
}

// NewLargeBuilder creates a builder enforcing the given per-bucket entry cap
// and per-entry PID cap.
func NewLargeBuilder(maxEntryPerBucket, maxPIDsPerEntry int) *LargeBuilder {
	return &LargeBuilder{
		buckets:           make([][]*largeEntryBuild, LargeBuckets),
		maxEntryPerBucket: maxEntryPerBucket,
		maxPIDsPerEntry:   maxPIDsPerEntry,
	}
}

// Add registers pid under the entry for tailKey within bucket, creating the
// entry if this is the first pid seen for that exact tail key in this
// bucket. Per §4.3: "look for an existing entry with entry.pattern == k; if
// found, append; otherwise append a new entry."
func (b *LargeBuilder) Add(bucket uint32, tailKey uint32, pid PID) error {
	entries := b.buckets[bucket]
	for _, e := range entries {
		if e.pattern == tailKey {
			for _, existing := range e.pids {
				if existing == pid {
					return nil
				}
			}
			if len(e.pids) >= b.maxPIDsPerEntry {
				return ErrLargePIDOverflow
			}
			e.pids = append(e.pids, pid)
			return nil
		}
	}
	if len(entries) >= b.maxEntryPerBucket {
		return ErrLargeEntryOverflow
	}
	b.buckets[bucket] = append(entries, &largeEntryBuild{pattern: tailKey, pids: []PID{pid}})
	return nil
}

// Build flattens the adjacency lists into a Large table.
func (b *LargeBuilder) Build() *Large {
	l := &Large{
		bucketOffset: make([]uint32, LargeBuckets),
		bucketCount:  make([]uint32, LargeBuckets),
	}
	for bucket := 0; bucket < LargeBuckets; bucket++ {
		entries := b.buckets[bucket]
		l.bucketOffset[bucket] = uint32(len(l.entries))
		l.bucketCount[bucket] = uint32(len(entries))
		for _, e := range entries {
			l.entries = append(l.entries, LargeEntry{
				Pattern:   e.pattern,
				pidOffset: uint32(len(l.pids)),
				pidCount:  uint32(len(e.pids)),
			})
			l.pids = append(l.pids, e.pids...)
		}
	}
	return l
}

// LargeEntry is one distinct tail key within a CTl bucket, with its PID list
// addressed as an offset/count pair into the shared PID vector.
type LargeEntry struct {
	Pattern   uint32
	pidOffset uint32
	pidCount  uint32
}

// Large is the compiled, read-only Large Compact Table.
type Large struct {
	bucketOffset []uint32
	bucketCount  []uint32
	entries      []LargeEntry
	pids         []PID
}

// Bucket returns the entries registered under the given bucket index, in
// insertion order.
func (l *Large) Bucket(bucket uint32) []LargeEntry {
	off := l.bucketOffset[bucket]
	return l.entries[off : off+l.bucketCount[bucket]]
}

// PIDs returns the PID list for entry e.
func (l *Large) PIDs(e LargeEntry) []PID {
	return l.pids[e.pidOffset : e.pidOffset+e.pidCount]
}

// EntryCount returns the total number of distinct tail-key entries, for
// Stats.
func (l *Large) EntryCount() int {
	return len(l.entries)
}

// PIDCount returns the total number of (entry, pid) slots used, for Stats.
func (l *Large) PIDCount() int {
	return len(l.pids)
}
