package dfc

// Match describes one confirmed occurrence of a pattern in a scanned input.
//
// The engine is an occurrence reporter: it does not deduplicate matches at
// the same offset when multiple patterns (or overlapping patterns) match
// there — each is reported via its own callback invocation (§6).
type Match struct {
	// Pattern is the matched internal pattern. Its ExternalIDs lists every
	// caller-supplied ID that collapsed onto it during dedup; the callback
	// is invoked once per match site carrying the full ID list, not once
	// per external ID (§8 property 4).
	Pattern *Pattern

	// Offset is the start offset of the match within the scanned input.
	Offset int
}
