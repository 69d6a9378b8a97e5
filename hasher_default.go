// hasher_default.go -- fasthash-backed default Hasher
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

import (
	"encoding/binary"

	"github.com/opencoff/go-fasthash"
)

// FastHasher is the default Hasher: Zi Long Tan's fasthash over the
// key's little-endian byte representation, keyed by the cascade's
// per-level seed. It's the same hash the rest of this package's test
// suite and the cascadedb CLI use for turning arbitrary byte keys into
// uint64s.
type FastHasher struct{}

func (FastHasher) Hash(key, seed uint64) uint64 {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], key)
	return fasthash.Hash64(seed, b[:])
}
