package model

import "encoding/hex"

// Hash128 is the 128-bit digest used to identify datasets and blocks
// (spec: "128-bit digests"). Built from two independent 64-bit xxhash
// sums rather than md5, see internal/hashgroup for the construction.
type Hash128 [16]byte

// String returns the lowercase hex encoding, used both as the
// DS_KEY/BLOCK_KEY metadata value and in persisted partition maps.
func (h Hash128) String() string {
	return hex.EncodeToString(h[:])
}

// Short returns the first 8 hex characters, used as the default block
// name when no block name pattern is configured.
func (h Hash128) Short() string {
	return h.String()[:8]
}

// IsZero reports whether h is the zero digest (never a valid hash of
// anything, used as a sentinel for "not computed").
func (h Hash128) IsZero() bool {
	return h == Hash128{}
}
