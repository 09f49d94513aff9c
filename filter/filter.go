// Package filter implements the Direct Filter bit arrays used by the DFC
// scan loop: DF0 (legacy single-byte filter, built for parity with the
// original format but not consulted by Scan — see Byte), DFs (small
// 2-byte filter), DFl (large 2-byte filter) and DFlh (large secondary 4-byte
// hash filter).
//
// All multi-byte filters are DF_BITS = 2^16 bit arrays addressed the same
// way: byteIndex = h>>3, bitMask = 1<<(h&7). A zero bit proves no pattern
// can match at the probed window; a set bit only means "maybe" and must be
// followed by compact-table verification.
package filter

const (
	// Bits is the number of bits in a 2-byte direct filter (DF_BITS = 2^16).
	Bits = 1 << 16
	// Bytes is the backing storage size for a Bits-sized filter.
	Bytes = Bits / 8
)

// Direct is a 2^16-bit array indexed by a 16-bit window hash. DFs, DFl and
// DFlh all share this representation.
type Direct struct {
	bits [Bytes]byte
}

// Set marks window h as a possible match position.
func (d *Direct) Set(h uint16) {
	d.bits[h>>3] |= 1 << (h & 7)
}

// Test reports whether window h was marked by Set.
func (d *Direct) Test(h uint16) bool {
	return d.bits[h>>3]&(1<<(h&7)) != 0
}

// Byte is the legacy DF0 filter: one bit per possible first byte. The
// original DFC format builds this table, but the flat-array scan variant
// specified here never probes it (§9's Open Question resolves in favor of
// the flat-array variant only). It is retained purely so CompiledIndex.Stats
// can report the same per-table population the original DFC_PrintInfo did.
type Byte struct {
	bits [32]byte // 256 bits
}

// Set marks byte c as the first byte of some pattern.
func (b *Byte) Set(c byte) {
	b.bits[c>>3] |= 1 << (c & 7)
}

// Test reports whether byte c was marked by Set.
func (b *Byte) Test(c byte) bool {
	return b.bits[c>>3]&(1<<(c&7)) != 0
}

// Count returns the number of bits set, used by Stats for introspection.
func (b *Byte) Count() int {
	n := 0
	for _, byt := range b.bits {
		for byt != 0 {
			n += int(byt & 1)
			byt >>= 1
		}
	}
	return n
}

// Window packs two input bytes into the 16-bit key the scanner uses to
// probe DFs and DFl: the byte one position ahead is the high byte, matching
// the scan loop's w2 = (input[i+1]<<8) | input[i].
func Window(b0, b1 byte) uint16 {
	return uint16(b1)<<8 | uint16(b0)
}

// TailKey packs four bytes into the little-endian 32-bit key used for DFlh
// and the large compact table: k = b3<<24 | b2<<16 | b1<<8 | b0.
func TailKey(b0, b1, b2, b3 byte) uint32 {
	return uint32(b3)<<24 | uint32(b2)<<16 | uint32(b1)<<8 | uint32(b0)
}

// FoldTailKey mixes a 32-bit tail key into a bucket-selectable value. Builder
// and scanner must call this identically; §4.4 only requires the mix be
// deterministic and reasonably uniform.
func FoldTailKey(k uint32) uint32 {
	return (k * 0x9E3779B1) ^ (k >> 16)
}

// LargeHashWindow derives the 16-bit key DFlh is indexed by from a tail key:
// fold to 32 bits, then take the low 16 bits.
func LargeHashWindow(k uint32) uint16 {
	return uint16(FoldTailKey(k) & 0xFFFF)
}

// LargeTableBucket derives the Large Compact Table bucket index (17 bits)
// from a tail key. Builder and scanner share this so CTl lookups agree with
// however DFlh was populated for the same key.
func LargeTableBucket(k uint32) uint32 {
	return FoldTailKey(k) & 0x1FFFF
}

// CaseVariants returns the possible byte values of b under ASCII case
// folding: {b} if b is not an ASCII letter, {lower, upper} otherwise
// (in unspecified order — callers must not rely on order, only membership).
func CaseVariants(b byte) []byte {
	switch {
	case b >= 'A' && b <= 'Z':
		return []byte{b, b + 32}
	case b >= 'a' && b <= 'z':
		return []byte{b, b - 32}
	default:
		return []byte{b}
	}
}

// ExpandVariants returns the cartesian product of CaseVariants across bs,
// used to enumerate the up-to-4 (2-byte window) or up-to-16 (4-byte tail)
// combinations a case-insensitive pattern must set filter bits for.
func ExpandVariants(bs []byte) [][]byte {
	combos := [][]byte{{}}
	for _, b := range bs {
		variants := CaseVariants(b)
		next := make([][]byte, 0, len(combos)*len(variants))
		for _, c := range combos {
			for _, v := range variants {
				grown := make([]byte, len(c), len(c)+1)
				copy(grown, c)
				next = append(next, append(grown, v))
			}
		}
		combos = next
	}
	return combos
}
