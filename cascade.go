// cascade.go -- the Cascade type: a built, immutable minimal perfect hash
//
// (c) Sudhi Herle 2018
//
// License GPLv2
//
// If you need a commercial license for this work, please contact
// the author.
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

package mph

// Cascade is a minimal perfect hash function built from a cascade of
// bitvectors: each level absorbs the keys that didn't collide with
// anyone else at that level's hash domain, and passes the rest down to
// the next level. Any key that is still unresolved after the last
// bitvector level is held explicitly in a fallback map. Once built, a
// Cascade is read-only and safe for concurrent lookups from any number
// of goroutines.
type Cascade struct {
	bits     []*bitVector
	fallback map[uint64]uint64

	salt  uint64
	gamma float64
	h     Hasher

	n              int
	lastBitsetRank uint64

	// fastLevel is purely diagnostic: the level at which the cascade's
	// expected surviving population first drops below the configured
	// fast-mode ratio. It has no effect on construction or lookup.
	fastLevel int
}

// Len returns the total number of keys represented by this Cascade.
func (c *Cascade) Len() int {
	return c.n
}
