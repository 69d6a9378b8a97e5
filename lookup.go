// lookup.go -- constant-time lookups against a built Cascade
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

// Sentinel is returned by Lookup when Find reports the key as not found.
const Sentinel = ^uint64(0)

// Lookup returns the unique, 0-based index assigned to 'key', or
// Sentinel if Find reports 'key' as not found. A key that was never part
// of the key set may still get an index back instead of Sentinel; see
// Find. Unlike Find, Lookup doesn't distinguish "not found" from a
// legitimate index via a second return value -- it exists for callers
// that find the (idx, ok) form of Find awkward to chain.
func (c *Cascade) Lookup(key uint64) uint64 {
	idx, ok := c.Find(key)
	if !ok {
		return Sentinel
	}
	return idx
}

// Find walks 'key' down the cascade one level at a time until it lands
// on a bit that's set in that level's bitvector, at which point the
// bit's rank (already offset by every earlier level's population) is
// its perfect-hash index. A key that survives every bitvector level is
// looked up in the fallback map instead.
//
// Find is only meaningful for keys that were part of the original key
// set; calling it with an arbitrary key returns an arbitrary (idx, true)
// or (idx, false) -- there is no way to distinguish a member key from a
// non-member one other than knowing the key set in advance.
func (c *Cascade) Find(key uint64) (uint64, bool) {
	var state hashState

	for lvl, bv := range c.bits {
		raw := levelHash(c.h, key, lvl, &state, c.salt)
		pos := fastrange(raw, bv.Size())
		if bv.Get(pos) == 1 {
			return bv.Rank(pos), true
		}
	}

	if idx, ok := c.fallback[key]; ok {
		return idx, true
	}

	return 0, false
}
