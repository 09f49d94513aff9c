package dfc

import (
	"math/rand"
	"sort"
	"testing"
)

// patternCase is one distinct pattern fed into both the compiled index and
// the brute-force oracle in TestPropertyCompletenessAndSoundness.
type patternCase struct {
	bytes []byte
	ci    bool
}

// bruteForceMatches finds every (patternIndex, offset) occurrence of pats in
// haystack by direct comparison, with no filtering shortcuts. It is the
// reference oracle the compiled index is checked against.
func bruteForceMatches(pats []patternCase, haystack []byte) map[[2]int]bool {
	want := map[[2]int]bool{}
	for pi, p := range pats {
		n := len(p.bytes)
		for off := 0; off+n <= len(haystack); off++ {
			window := haystack[off : off+n]
			if bruteEqual(window, p.bytes, p.ci) {
				want[[2]int{pi, off}] = true
			}
		}
	}
	return want
}

func bruteEqual(a, b []byte, ci bool) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		ca, cb := a[i], b[i]
		if ci {
			ca = asciiUpper(ca)
			cb = asciiUpper(cb)
		}
		if ca != cb {
			return false
		}
	}
	return true
}

func asciiUpper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 32
	}
	return c
}

func randomPattern(r *rand.Rand, alphabet string, minLen, maxLen int) []byte {
	n := minLen + r.Intn(maxLen-minLen+1)
	out := make([]byte, n)
	for i := range out {
		out[i] = alphabet[r.Intn(len(alphabet))]
	}
	return out
}

func upperIfCI(p []byte, ci bool) string {
	if !ci {
		return string(p)
	}
	out := make([]byte, len(p))
	for i, b := range p {
		out[i] = asciiUpper(b)
	}
	return string(out)
}

func findPatternIndex(pats []patternCase, original []byte, ci bool) int {
	for i, p := range pats {
		if p.ci == ci && bruteEqual(p.bytes, original, false) {
			return i
		}
	}
	return -1
}

func matchSetsEqual(a, b map[[2]int]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}

func setDiff(a, b map[[2]int]bool) [][2]int {
	var out [][2]int
	for k := range a {
		if !b[k] {
			out = append(out, k)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i][1] != out[j][1] {
			return out[i][1] < out[j][1]
		}
		return out[i][0] < out[j][0]
	})
	return out
}

// TestPropertyCompletenessAndSoundness builds randomized pattern sets over a
// small alphabet (so collisions and shared prefixes/tails are common) and
// checks that CompiledIndex.Scan reports exactly the occurrences a brute
// force scan finds, no more and no fewer.
func TestPropertyCompletenessAndSoundness(t *testing.T) {
	const alphabet = "abcd"
	const trials = 40

	for trial := 0; trial < trials; trial++ {
		r := rand.New(rand.NewSource(int64(trial)*2654435761 + 1))

		numPatterns := 1 + r.Intn(50)
		set := NewPatternSet()

		seen := map[string]bool{}
		var pats []patternCase

		for i := 0; i < numPatterns; i++ {
			ci := r.Intn(2) == 0
			p := randomPattern(r, alphabet, 1, 16)
			key := upperIfCI(p, ci)
			if ci {
				key = "ci:" + key
			} else {
				key = "cs:" + key
			}
			if seen[key] {
				continue
			}
			if err := set.Add(p, ci, uint32(i)); err != nil {
				t.Fatalf("trial %d: Add(%q, ci=%v): %v", trial, p, ci, err)
			}
			seen[key] = true
			pats = append(pats, patternCase{bytes: p, ci: ci})
		}

		idx, err := set.Compile()
		if err != nil {
			t.Fatalf("trial %d: Compile: %v", trial, err)
		}

		haystack := randomPattern(r, alphabet, 0, 200)

		want := bruteForceMatches(pats, haystack)

		got := map[[2]int]bool{}
		idx.Scan(haystack, func(m Match) {
			pi := findPatternIndex(pats, m.Pattern.Original, m.Pattern.CaseInsensitive)
			if pi < 0 {
				t.Fatalf("trial %d: reported match for unknown pattern %q (ci=%v)", trial, m.Pattern.Original, m.Pattern.CaseInsensitive)
			}
			got[[2]int{pi, m.Offset}] = true
		})

		if !matchSetsEqual(got, want) {
			t.Fatalf("trial %d: mismatch\n haystack=%q\n patterns=%v\n missing=%v\n extra=%v",
				trial, haystack, pats, setDiff(want, got), setDiff(got, want))
		}
	}
}
