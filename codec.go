// codec.go -- binary encoding for a built Cascade
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
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sort"
)

// cascadeHeader is the fixed-size prefix written ahead of the per-level
// bitvectors and the fallback table. Every multi-byte field is
// little-endian, matching the rest of this package's on-disk encoding --
// this keeps a marshaled Cascade's bytes independent of the host's
// native byte order.
type cascadeHeader struct {
	Gamma          uint64 // float64 bits
	Salt           uint64
	NLevels        uint32
	FastLevel      int32
	LastBitsetRank uint64
	N              uint64
	NFallback      uint64
}

// MarshalBinary writes gamma, salt, the per-level bitvectors and the
// sorted fallback table. The fallback table is written key-sorted so
// that the encoding is identical regardless of how many goroutines built
// the Cascade -- see Find's sibling, DESIGN.md's note on thread-count
// independence.
func (c *Cascade) MarshalBinary(w io.Writer) (int, error) {
	ew := newErrWriter(w)
	var total int

	hdr := cascadeHeader{
		Gamma:          math.Float64bits(c.gamma),
		Salt:           c.salt,
		NLevels:        uint32(len(c.bits)),
		FastLevel:      int32(c.fastLevel),
		LastBitsetRank: c.lastBitsetRank,
		N:              uint64(c.n),
		NFallback:      uint64(len(c.fallback)),
	}

	var b [48]byte
	binary.LittleEndian.PutUint64(b[0:8], hdr.Gamma)
	binary.LittleEndian.PutUint64(b[8:16], hdr.Salt)
	binary.LittleEndian.PutUint32(b[16:20], hdr.NLevels)
	binary.LittleEndian.PutUint32(b[20:24], uint32(hdr.FastLevel))
	binary.LittleEndian.PutUint64(b[24:32], hdr.LastBitsetRank)
	binary.LittleEndian.PutUint64(b[32:40], hdr.N)
	binary.LittleEndian.PutUint64(b[40:48], hdr.NFallback)
	n, _ := ew.Write(b[:])
	total += n

	for _, bv := range c.bits {
		n, _ := bv.MarshalBinary(ew)
		total += n
		if ew.Error() != nil {
			return total, ew.Error()
		}
	}

	keys := make([]uint64, 0, len(c.fallback))
	for k := range c.fallback {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	pairs := make([]uint64, 0, 2*len(keys))
	for _, k := range keys {
		pairs = append(pairs, k, c.fallback[k])
	}
	n, _ = writeLEUint64s(ew, pairs)
	total += n

	return total, ew.Error()
}

// unmarshalCascade reads back a Cascade encoded by MarshalBinary. The
// caller must supply the same Hasher used at construction time -- it
// isn't itself serialized, since it's code, not data.
func unmarshalCascade(r io.Reader, h Hasher) (*Cascade, error) {
	var b [48]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return nil, err
	}

	gamma := math.Float64frombits(binary.LittleEndian.Uint64(b[0:8]))
	salt := binary.LittleEndian.Uint64(b[8:16])
	nlevels := binary.LittleEndian.Uint32(b[16:20])
	fastLevel := int32(binary.LittleEndian.Uint32(b[20:24]))
	lastBitsetRank := binary.LittleEndian.Uint64(b[24:32])
	n := binary.LittleEndian.Uint64(b[32:40])
	nfallback := binary.LittleEndian.Uint64(b[40:48])

	if nlevels > cascadeLevels {
		return nil, fmt.Errorf("cascade: unmarshal: %d levels exceeds max of %d", nlevels, cascadeLevels)
	}

	bits := make([]*bitVector, 0, nlevels)
	for i := uint32(0); i < nlevels; i++ {
		bv, err := unmarshalBitVector(r)
		if err != nil {
			return nil, fmt.Errorf("cascade: unmarshal level %d: %w", i, err)
		}
		bits = append(bits, bv)
	}

	pairs, err := readLEUint64s(r, 2*nfallback)
	if err != nil {
		return nil, fmt.Errorf("cascade: unmarshal fallback table: %w", err)
	}

	fallback := make(map[uint64]uint64, nfallback)
	for i := uint64(0); i < nfallback; i++ {
		fallback[pairs[2*i]] = pairs[2*i+1]
	}

	c := &Cascade{
		bits:           bits,
		fallback:       fallback,
		salt:           salt,
		gamma:          gamma,
		h:              h,
		n:              int(n),
		lastBitsetRank: lastBitsetRank,
		fastLevel:      int(fastLevel),
	}
	return c, nil
}

// DumpMeta writes a short human-readable summary of the Cascade's shape:
// per-level bitvector sizes, the fallback table's size and the
// diagnostic fast-mode level.
func (c *Cascade) DumpMeta(w io.Writer) {
	var b bytes.Buffer

	fmt.Fprintf(&b, "cascade: salt %#x; gamma %4.2f; %d keys; %d levels; %d fallback; fast-mode level %d\n",
		c.salt, c.gamma, c.n, len(c.bits), len(c.fallback), c.fastLevel)

	for i, bv := range c.bits {
		fmt.Fprintf(&b, "  %2d: %10d bits (%8d bytes)\n", i, bv.Size(), bv.Words()*8)
	}

	w.Write(b.Bytes())
}
