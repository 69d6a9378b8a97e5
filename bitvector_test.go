// bitvector_test.go -- test suite for bitvector
//
// (c) Sudhi Herle 2018
//
// License GPLv2
// If you need a commercial license for this work, please contact
// the author.
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

package mph

import (
	"bytes"
	"math/rand"
	"runtime"
	"sync"
	"testing"
)

func TestBV(t *testing.T) {
	assert := newAsserter(t)

	bv := newBitVector(100)
	assert(bv.Size() == 100, "size mismatch; exp 100, saw %d", bv.Size())

	var i uint64
	for i = 0; i < bv.Size(); i++ {
		if 1 == (i & 1) {
			bv.Set(i)
		}
	}

	for i = 0; i < bv.Size(); i++ {
		if 1 == (i & 1) {
			assert(bv.Get(i) == 1, "%d not set", i)
		} else {
			assert(bv.Get(i) == 0, "%d is set", i)
		}
	}
}

func TestBVAtomicTestAndSet(t *testing.T) {
	assert := newAsserter(t)

	bv := newBitVector(128)
	old := bv.AtomicTestAndSet(17)
	assert(old == 0, "first test-and-set should report bit unset, saw %d", old)
	assert(bv.Get(17) == 1, "bit 17 should be set after test-and-set")

	old = bv.AtomicTestAndSet(17)
	assert(old == 1, "second test-and-set should report bit already set, saw %d", old)
}

// TestBVConcurrentRace has many goroutines race to set the same bit via
// AtomicTestAndSet; exactly one must observe the bit unset.
func TestBVConcurrentRace(t *testing.T) {
	assert := newAsserter(t)

	ncpu := runtime.NumCPU() * 4
	bv := newBitVector(64)

	var winners int32
	var wg sync.WaitGroup
	var mu sync.Mutex
	wg.Add(ncpu)
	for i := 0; i < ncpu; i++ {
		go func() {
			defer wg.Done()
			if bv.AtomicTestAndSet(5) == 0 {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert(winners == 1, "exactly one goroutine should win the race, saw %d", winners)
	assert(bv.Get(5) == 1, "bit 5 should be set")
}

// TestBVConcurrentRandom has many goroutines copy bits from one bitvector
// to another purely via Set/Get -- verifying no write is lost under race.
func TestBVConcurrentRandom(t *testing.T) {
	assert := newAsserter(t)
	ncpu := runtime.NumCPU() * 2

	br := newBitVector(1000)
	bw := newBitVector(1000)
	n := br.Size()

	for i := uint64(0); i < n; i++ {
		if 1 == (i & 1) {
			br.Set(i)
		}
	}

	verify := make([][]uint64, ncpu)
	var w sync.WaitGroup
	w.Add(ncpu)
	for i := 0; i < ncpu; i++ {
		go func(i int, a, b *bitVector) {
			defer w.Done()

			n := a.Size() * 16
			idx := make([]uint64, 0, n)
			sz := a.Size()

			for j := uint64(0); j < n; j++ {
				r := rand.Uint64() % sz
				if a.Get(r) == 1 {
					b.Set(r)
					idx = append(idx, r)
				}
			}

			verify[i] = idx
		}(i, br, bw)
	}

	w.Wait()

	for _, v := range verify {
		for _, k := range v {
			assert(bw.Get(k) == 1, "%d is not set", k)
		}
	}
}

func TestBVMarshal(t *testing.T) {
	assert := newAsserter(t)

	var b bytes.Buffer

	bv := newBitVector(100)
	assert(bv.Size() == 100, "size mismatch; exp 100, saw %d", bv.Size())

	var i uint64
	for i = 0; i < bv.Size(); i++ {
		if 1 == (i & 1) {
			bv.Set(i)
		}
	}
	bv.BuildRanks(0)

	_, err := bv.MarshalBinary(&b)
	assert(err == nil, "marshal failed: %s", err)

	bn, err := unmarshalBitVector(&b)
	assert(err == nil, "unmarshal failed: %s", err)
	assert(bn.Size() == bv.Size(), "unmarshal size error; exp %d, saw %d", bv.Size(), bn.Size())

	for i = 0; i < bv.Size(); i++ {
		if bv.Get(i) == 1 {
			assert(bn.Get(i) == 1, "unmarshal %d is unset", i)
		} else {
			assert(bn.Get(i) == 0, "unmarshal %d is set", i)
		}
	}
}

func TestBVClearCollisions(t *testing.T) {
	assert := newAsserter(t)

	bv := newBitVector(128)
	coll := newBitVector(128)

	// bit 3 set once, no collision
	bv.Set(3)

	// bit 9 "collides": two writers both saw it occupied
	bv.Set(9)
	coll.Set(9)

	bv.ClearCollisions(0, 128, coll)

	assert(bv.Get(3) == 1, "bit 3 should survive (no collision)")
	assert(bv.Get(9) == 0, "bit 9 should be cleared (collision)")
	assert(coll.Get(9) == 0, "collision bitvector should be cleared after use")
}

func TestBVRank(t *testing.T) {
	assert := newAsserter(t)

	bv := newBitVector(2048)
	var want uint64
	for i := uint64(0); i < bv.Size(); i += 7 {
		bv.Set(i)
	}
	bv.BuildRanks(0)

	for i := uint64(0); i < bv.Size(); i++ {
		got := bv.Rank(i)
		assert(got == want, "rank(%d): exp %d, saw %d", i, want, got)
		if bv.Get(i) == 1 {
			want++
		}
	}
}
