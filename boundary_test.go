package dfc

import "testing"

func scanAll(t *testing.T, idx *CompiledIndex, input string) []Match {
	t.Helper()
	var got []Match
	idx.Scan([]byte(input), func(m Match) {
		got = append(got, m)
	})
	return got
}

func TestBoundaryEmptyInput(t *testing.T) {
	set := NewPatternSet()
	must(t, set.Add([]byte("x"), false, 0))
	idx := compileOrFatal(t, set)

	if n := idx.Scan(nil, func(Match) { t.Fatal("unexpected match on empty input") }); n != 0 {
		t.Fatalf("Scan(nil) = %d, want 0", n)
	}
}

func TestBoundaryInputShorterThanAnyPattern(t *testing.T) {
	set := NewPatternSet()
	must(t, set.Add([]byte("abcdefgh"), false, 0))
	idx := compileOrFatal(t, set)

	got := scanAll(t, idx, "abc")
	if len(got) != 0 {
		t.Fatalf("got %d matches, want 0: %+v", len(got), got)
	}
}

func TestBoundaryMatchAtOffsetZero(t *testing.T) {
	set := NewPatternSet()
	must(t, set.Add([]byte("abcd"), false, 0))
	idx := compileOrFatal(t, set)

	got := scanAll(t, idx, "abcd")
	if len(got) != 1 || got[0].Offset != 0 {
		t.Fatalf("got %+v, want one match at offset 0", got)
	}
}

func TestBoundaryMatchAtLastPossibleOffset(t *testing.T) {
	set := NewPatternSet()
	must(t, set.Add([]byte("xyz"), false, 0))
	idx := compileOrFatal(t, set)

	input := "abcxyz"
	got := scanAll(t, idx, input)
	want := len(input) - len("xyz")
	if len(got) != 1 || got[0].Offset != want {
		t.Fatalf("got %+v, want one match at offset %d", got, want)
	}
}

func TestBoundaryOneBytePattern(t *testing.T) {
	set := NewPatternSet()
	must(t, set.Add([]byte("q"), false, 0))
	idx := compileOrFatal(t, set)

	got := scanAll(t, idx, "qqq")
	if len(got) != 3 {
		t.Fatalf("got %d matches, want 3: %+v", len(got), got)
	}
}

func TestBoundaryMaxLengthPattern(t *testing.T) {
	pat := make([]byte, MaxPatternLength)
	for i := range pat {
		pat[i] = byte('a' + i%26)
	}
	set := NewPatternSet()
	must(t, set.Add(pat, false, 0))
	idx := compileOrFatal(t, set)

	haystack := append([]byte("PREFIX-"), pat...)
	haystack = append(haystack, "-SUFFIX"...)
	got := scanAll(t, idx, string(haystack))
	if len(got) != 1 || got[0].Offset != len("PREFIX-") {
		t.Fatalf("got %+v, want one match at offset %d", got, len("PREFIX-"))
	}
}

func TestBoundaryOverLengthPatternRejected(t *testing.T) {
	set := NewPatternSet()
	pat := make([]byte, MaxPatternLength+1)
	if err := set.Add(pat, false, 0); err != ErrPatternTooLong {
		t.Fatalf("Add(len=%d) = %v, want ErrPatternTooLong", len(pat), err)
	}
}

func TestBoundaryEmptyPatternRejected(t *testing.T) {
	set := NewPatternSet()
	if err := set.Add(nil, false, 0); err != ErrPatternEmpty {
		t.Fatalf("Add(nil) = %v, want ErrPatternEmpty", err)
	}
}

// TestBoundarySharedPrefixAndTail exercises two length>=4 patterns that
// share both a 2-byte scan window and a 4-byte tail key, differing only in
// the bytes further from the tail.
func TestBoundarySharedPrefixAndTail(t *testing.T) {
	set := NewPatternSet()
	must(t, set.Add([]byte("aaaatail"), false, 0))
	must(t, set.Add([]byte("bbbbtail"), false, 1))
	idx := compileOrFatal(t, set)

	got := scanAll(t, idx, "xxaaaatailyybbbbtailzz")
	offsets := map[int]bool{}
	for _, m := range got {
		offsets[m.Offset] = true
	}
	if !offsets[2] || !offsets[12] {
		t.Fatalf("got %+v, want matches at offsets 2 and 12", got)
	}
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
}

func compileOrFatal(t *testing.T, set *PatternSet) *CompiledIndex {
	t.Helper()
	idx, err := set.Compile()
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	return idx
}
