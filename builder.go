// builder.go -- concurrent construction of a Cascade minimal perfect hash
//
// Implements the BBHash algorithm: https://arxiv.org/abs/1702.03154
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
	"fmt"
	"math"
	"os"
	"runtime"
	"sort"
	"sync"
)

// Gamma is the default expansion factor for each level's bitvector.
// Empirically, 2.0 balances construction speed against space usage; see
// the BBHash paper for the tradeoff curve.
const Gamma float64 = 2.0

// MinParallelKeys is the key-count threshold below which Build runs a
// single goroutine per level instead of sharding across every CPU --
// below this size, goroutine setup overhead outweighs the parallelism.
const MinParallelKeys = 20000

// Options configures a Cascade build.
type Options struct {
	// Gamma is the bitvector expansion factor; values <= 1.0 are
	// replaced by the package default (2.0).
	Gamma float64

	// Hasher supplies the two seed hashes each key's xorshift chain is
	// derived from. Defaults to FastHasher{}.
	Hasher Hasher

	// Nthreads caps how many goroutines process each level
	// concurrently. Defaults to runtime.NumCPU().
	Nthreads int

	// FastModeRatio, if > 0, is purely diagnostic: Build records the
	// first level at which the expected surviving population drops
	// below FastModeRatio * n, for DumpMeta to report. It has no effect
	// on construction.
	FastModeRatio float64

	// WriteEachLevel, when true, writes each level's redo list (keys
	// only) to a temp file and reads it straight back before the next
	// level, recomputing every key's hash state on the way in. The
	// whole redo list is still held in memory while a level runs, so
	// this does not lower peak memory.
	WriteEachLevel bool

	// TempDir is where WriteEachLevel spills its temp files. Defaults
	// to os.TempDir().
	TempDir string

	// Progress, if set, receives construction progress ticks.
	Progress Progress

	// Salt, if non-zero, is used in place of a freshly drawn random
	// salt. This exists for tests and reproducible builds; production
	// callers should leave it zero and let Build draw its own.
	Salt uint64
}

func (o Options) normalized() Options {
	if o.Gamma <= 1.0 {
		o.Gamma = Gamma
	}
	if o.Hasher == nil {
		o.Hasher = FastHasher{}
	}
	if o.Nthreads <= 0 {
		o.Nthreads = runtime.NumCPU()
	}
	o.Nthreads = clampThreads(o.Nthreads)
	if o.TempDir == "" {
		o.TempDir = os.TempDir()
	}
	if o.Progress == nil {
		o.Progress = noopProgress{}
	}
	return o
}

// keyState carries one key's xorshift128* state and the raw hash value
// it last produced, as it's pushed through successive cascade levels.
// lastHash is cached so the collision-sweep phase of a level can reuse
// the same hash the assignment phase computed, without re-deriving it
// (which would silently advance the xorshift state a second time).
type keyState struct {
	key      uint64
	state    hashState
	lastHash uint64
}

// cascadeBuilder accumulates keys via Add and produces a Cascade on
// Freeze; it implements MPHBuilder.
type cascadeBuilder struct {
	keys []uint64
	opt  Options
}

// NewBuilder creates a builder for a Cascade-based minimal perfect hash.
// Callers Add() keys to it and then Freeze() to run the construction.
func NewBuilder(opt Options) (MPHBuilder, error) {
	b := &cascadeBuilder{
		keys: make([]uint64, 0, 1024),
		opt:  opt.normalized(),
	}
	return b, nil
}

// NewBBHashBuilder mirrors the historical constructor signature (gamma
// only, default hasher and thread count) for callers that don't need the
// rest of Options.
func NewBBHashBuilder(g float64) (MPHBuilder, error) {
	return NewBuilder(Options{Gamma: g})
}

func (b *cascadeBuilder) Add(key uint64) error {
	b.keys = append(b.keys, key)
	return nil
}

func (b *cascadeBuilder) Freeze() (MPH, error) {
	return Build(b.keys, b.opt)
}

// Build runs the cascade construction over 'keys' and returns the
// resulting Cascade. It chooses a concurrent, sharded implementation
// whenever there are enough keys to make that worthwhile; otherwise it
// runs every level on a single goroutine.
func Build(keys []uint64, opt Options) (*Cascade, error) {
	opt = opt.normalized()
	n := len(keys)

	salt := opt.Salt
	if salt == 0 {
		salt = rand64()
	}

	c := &Cascade{
		salt:      salt,
		gamma:     opt.Gamma,
		h:         opt.Hasher,
		n:         n,
		fastLevel: fastModeLevel(collisionProbability(uint64(n), opt.Gamma), opt.FastModeRatio),
	}

	if n == 0 {
		return c, nil
	}

	nthreads := opt.Nthreads
	if n < MinParallelKeys {
		nthreads = 1
	}

	p := collisionProbability(uint64(n), opt.Gamma)
	baseDomain := uint64(math.Ceil(float64(n) * opt.Gamma))

	opt.Progress.Init(uint64(n), "cascade", nthreads)
	defer opt.Progress.FinishThreaded()

	redo := make([]keyState, n)
	for i, k := range keys {
		redo[i] = keyState{key: k}
	}

	for lvl := 0; lvl < cascadeLevels && len(redo) > 0; lvl++ {
		domain := hashDomainSize(baseDomain, p, lvl)

		bv, next, err := processLevel(c, redo, domain, lvl, nthreads, opt)
		if err != nil {
			return nil, err
		}

		c.bits = append(c.bits, bv)
		redo = next

		if opt.WriteEachLevel && len(redo) > 0 {
			path, err := spillLevel(opt.TempDir, lvl, keyStatesToKeys(redo))
			if err != nil {
				return nil, fmt.Errorf("cascade: writeEachLevel: %w", err)
			}
			spilled, err := readSpilledLevel(path)
			if err != nil {
				return nil, fmt.Errorf("cascade: writeEachLevel: %w", err)
			}
			redo = rehydrate(opt.Hasher, spilled, lvl+1, c.salt)
		}
	}

	// Whatever's left falls through to the fallback map. Sorting by key
	// before assigning indices makes the assignment -- and therefore
	// the whole Cascade's serialized bytes -- independent of how many
	// goroutines built it.
	sort.Slice(redo, func(i, j int) bool { return redo[i].key < redo[j].key })

	var running uint64
	for _, bv := range c.bits {
		running = bv.BuildRanks(running)
	}
	c.lastBitsetRank = running

	c.fallback = make(map[uint64]uint64, len(redo))
	for i, ks := range redo {
		c.fallback[ks.key] = c.lastBitsetRank + uint64(i)
	}

	return c, nil
}

func keyStatesToKeys(ks []keyState) []uint64 {
	out := make([]uint64, len(ks))
	for i, k := range ks {
		out[i] = k.key
	}
	return out
}

// processLevel runs one cascade level over 'redo': a collision-detection
// pass followed by a collision-sweep pass, sharded across 'nthreads'
// goroutines. It returns the level's populated bitvector and the keys
// that collided and must be retried at the next level.
//
// Both passes are lock-free: AtomicTestAndSet resolves exactly one
// "winner" per contended bit regardless of goroutine interleaving, and
// the collision bitvector coll records every bit that saw more than one
// claimant so phase two can evict all of them -- including the
// "winner", who never actually owned the slot uniquely. The resulting
// bitvector and redo list are therefore the same no matter how the keys
// were sharded or how goroutines were scheduled.
func processLevel(c *Cascade, redo []keyState, domain uint64, lvl int, nthreads int, opt Options) (*bitVector, []keyState, error) {
	bv := newBitVector(domain)
	coll := newBitVector(domain)

	shards := splitWork(len(redo), nthreads)

	var wg sync.WaitGroup
	wg.Add(len(shards))
	for tid, sh := range shards {
		tid, sh := tid, sh
		go func() {
			defer wg.Done()
			for i := sh[0]; i < sh[1]; i++ {
				ks := &redo[i]
				raw := levelHash(c.h, ks.key, lvl, &ks.state, c.salt)
				ks.lastHash = raw
				pos := fastrange(raw, domain)
				if bv.AtomicTestAndSet(pos) == 1 {
					coll.Set(pos)
				}
			}
			opt.Progress.Inc(uint64(sh[1]-sh[0]), tid)
		}()
	}
	wg.Wait()

	redoPerShard := make([][]keyState, len(shards))
	wg.Add(len(shards))
	for tid, sh := range shards {
		tid, sh := tid, sh
		go func() {
			defer wg.Done()
			local := make([]keyState, 0, (sh[1]-sh[0])/4)
			for i := sh[0]; i < sh[1]; i++ {
				ks := redo[i]
				pos := fastrange(ks.lastHash, domain)
				if coll.Get(pos) == 1 {
					local = append(local, ks)
				}
			}
			redoPerShard[tid] = local
		}()
	}
	wg.Wait()

	bv.ClearCollisions(0, domain, coll)

	var total int
	for _, r := range redoPerShard {
		total += len(r)
	}
	next := make([]keyState, 0, total)
	for _, r := range redoPerShard {
		next = append(next, r...)
	}

	return bv, next, nil
}

// splitWork divides [0, total) into up to nthreads contiguous shards,
// splitting evenly and folding the remainder into the last shard. When
// total is smaller than nthreads, only total one-key shards are made, so
// no shard is empty.
func splitWork(total, nthreads int) [][2]int {
	if nthreads < 1 {
		nthreads = 1
	}
	if total == 0 {
		return nil
	}
	if nthreads > total {
		nthreads = total
	}

	shards := make([][2]int, 0, nthreads)
	z := total / nthreads
	r := total % nthreads
	x := 0
	for i := 0; i < nthreads; i++ {
		y := x + z
		if i == nthreads-1 {
			y += r
		}
		shards = append(shards, [2]int{x, y})
		x = y
	}
	return shards
}

// clampThreads keeps a requested thread count within [1, runtime.NumCPU()*4],
// a generous ceiling that avoids spawning a pathological number of
// goroutines if a caller passes a huge Nthreads by mistake.
func clampThreads(n int) int {
	if n < 1 {
		return 1
	}
	max := runtime.NumCPU() * 4
	if n > max {
		return max
	}
	return n
}
