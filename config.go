package dfc

// Config controls the fixed capacities enforced during PatternSet.Compile.
//
// The original DFC engine hard-codes these as compile-time constants; this
// port exposes them as a validated struct (the way the wider ecosystem does
// for engine tuning knobs) so callers can size their pattern sets ahead of
// time instead of discovering a capacity fault only at Compile.
type Config struct {
	// MaxEqualPatterns is the maximum number of external IDs that may
	// collapse onto a single internal pattern before Add fails with
	// TooManyEqualPatterns. DefaultConfig sets it to 220 (§9).
	MaxEqualPatterns int

	// MaxPIDsPerSmallBucket bounds how many distinct patterns may share a
	// Small Compact Table bucket (keyed on a single input byte).
	MaxPIDsPerSmallBucket int

	// MaxEntriesPerLargeBucket bounds how many distinct 32-bit tail keys
	// may land in one Large Compact Table bucket.
	MaxEntriesPerLargeBucket int

	// MaxPIDsPerLargeEntry bounds how many patterns may share one exact
	// tail key within a CTl bucket.
	MaxPIDsPerLargeEntry int

	// MaxTotalPIDs bounds the combined size of the CTs and CTl PID
	// vectors, modeling the fixed addressable range of the PID vector in
	// the original format.
	MaxTotalPIDs int
}

// DefaultConfig returns the engine's default capacities. These are generous
// enough for the test corpora in §8 while still catching pathological
// pattern sets.
func DefaultConfig() Config {
	return Config{
		MaxEqualPatterns:         220,
		MaxPIDsPerSmallBucket:    4096,
		MaxEntriesPerLargeBucket: 64,
		MaxPIDsPerLargeEntry:     1024,
		MaxTotalPIDs:             1 << 20,
	}
}

// Validate reports whether the configuration's capacities are all positive.
func (c Config) Validate() error {
	switch {
	case c.MaxEqualPatterns <= 0:
		return &BuildError{Kind: TooManyEqualPatterns, Detail: "MaxEqualPatterns must be positive"}
	case c.MaxPIDsPerSmallBucket <= 0:
		return &BuildError{Kind: CompactTableOverflowSmall, Detail: "MaxPIDsPerSmallBucket must be positive"}
	case c.MaxEntriesPerLargeBucket <= 0 || c.MaxPIDsPerLargeEntry <= 0:
		return &BuildError{Kind: CompactTableOverflowLarge, Detail: "MaxEntriesPerLargeBucket and MaxPIDsPerLargeEntry must be positive"}
	case c.MaxTotalPIDs <= 0:
		return &BuildError{Kind: PidOverflow, Detail: "MaxTotalPIDs must be positive"}
	}
	return nil
}
