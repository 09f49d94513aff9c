// Package dedup implements pattern-intake deduplication for the DFC compiler.
//
// Patterns are collected into a chained hash table keyed by a rolling hash of
// their normalized bytes. The table exists purely to make Add fast during
// intake (amortized O(1) lookup instead of an O(P) linear scan); it is
// discarded once PatternSet.Compile flattens entries into the compiled
// index's dense arrays. The technique mirrors the dense/sparse split used by
// sparse-set membership structures elsewhere in the ecosystem, adapted here
// to hash-chain collision buckets instead of a direct-indexed sparse array.
package dedup

import "github.com/coregx/dfc/bytesx"

// InitHashSize is the number of chain-head slots in a new Table. This is an
// intake-performance tuning constant, not part of the compiled index format.
const InitHashSize = 65536

// Entry is one distinct (normalized-bytes, case-flag) group after dedup.
type Entry struct {
	Original        []byte   // bytes as first supplied
	Upper           []byte   // ASCII-uppercased bytes, populated only when CaseInsensitive
	CaseInsensitive bool
	ExternalIDs     []uint32
}

// key returns the normalized bytes used for equality and hashing: the
// uppercased bytes for case-insensitive entries, the original bytes
// otherwise.
func (e *Entry) key() []byte {
	if e.CaseInsensitive {
		return e.Upper
	}
	return e.Original
}

// Table is a chained hash map from normalized pattern key to Entry. It
// preserves first-insertion order separately from hash-chain order so that
// compilation is deterministic regardless of bucket layout.
type Table struct {
	slots   [][]*Entry
	ordered []*Entry
}

// New creates an empty Table with InitHashSize chain-head slots.
func New() *Table {
	return &Table{slots: make([][]*Entry, InitHashSize)}
}

// ErrTooManyExternalIDs is returned by AddOrAppend when appending an
// external ID to an existing group would exceed maxExternalIDs.
type ErrTooManyExternalIDs struct{}

func (ErrTooManyExternalIDs) Error() string { return "dedup: too many external ids for one pattern" }

// AddOrAppend adds a new pattern or, if an equal (normalized-bytes,
// case-flag) entry already exists, appends externalID to its ID list.
//
// Returns the resulting entry and whether it was newly created. If the
// existing entry's ID list is already at maxExternalIDs, returns
// ErrTooManyExternalIDs and leaves the table unchanged.
func (t *Table) AddOrAppend(original []byte, caseInsensitive bool, externalID uint32, maxExternalIDs int) (*Entry, bool, error) {
	var upper []byte
	if caseInsensitive {
		upper = bytesx.ToUpper(original)
	}
	normalized := original
	if caseInsensitive {
		normalized = upper
	}

	h := hashKey(normalized, caseInsensitive) % uint32(len(t.slots))
	for _, e := range t.slots[h] {
		if e.CaseInsensitive == caseInsensitive && bytesx.Equal(e.key(), normalized) {
			if len(e.ExternalIDs) >= maxExternalIDs {
				return nil, false, ErrTooManyExternalIDs{}
			}
			e.ExternalIDs = append(e.ExternalIDs, externalID)
			return e, false, nil
		}
	}

	e := &Entry{
		Original:        append([]byte(nil), original...),
		Upper:           upper,
		CaseInsensitive: caseInsensitive,
		ExternalIDs:     []uint32{externalID},
	}
	t.slots[h] = append(t.slots[h], e)
	t.ordered = append(t.ordered, e)
	return e, true, nil
}

// Ordered returns all entries in first-insertion order. The returned slice
// must not be mutated by the caller.
func (t *Table) Ordered() []*Entry {
	return t.ordered
}

// Len returns the number of distinct entries.
func (t *Table) Len() int {
	return len(t.ordered)
}

// hashKey computes a simple rolling hash over normalized bytes, folding in
// the case-sensitivity flag so that case-sensitive and case-insensitive
// patterns with coincidentally equal bytes land in (usually) different
// chains.
func hashKey(key []byte, caseInsensitive bool) uint32 {
	h := uint32(2166136261)
	if caseInsensitive {
		h ^= 0x9e3779b9
	}
	for _, b := range key {
		h ^= uint32(b)
		h *= 16777619
	}
	return h
}
