// writeeach.go -- optional spill-to-disk path for very large key sets
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
	"fmt"
	"os"
)

// spillLevel writes the redo list's raw keys (no hashState -- that's
// cheap to recompute on the way back in via freshHashState) to a temp
// file in dir. Returns the path; the caller is responsible for removing
// it once the next level has read it back.
func spillLevel(dir string, lvl int, keys []uint64) (string, error) {
	f, err := os.CreateTemp(dir, fmt.Sprintf("cascade.lvl%02d.*.tmp", lvl))
	if err != nil {
		return "", err
	}
	defer f.Close()

	bs := u64sToByteSlice(keys)
	if _, err := writeAll(f, bs); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

// readSpilledLevel reads back a key list written by spillLevel and
// removes the backing file.
func readSpilledLevel(path string) ([]uint64, error) {
	defer os.Remove(path)

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if fi.Size()%8 != 0 {
		return nil, fmt.Errorf("cascade: spill file %s has a non-multiple-of-8 size %d", path, fi.Size())
	}

	buf := make([]byte, fi.Size())
	if _, err := f.Read(buf); err != nil {
		return nil, err
	}
	return bsToUint64Slice(buf), nil
}

// rehydrate turns a plain key list back into keyState pairs, replaying
// each key's hash chain up to (but not including) level 'lvl'. This is
// the extra cost of writeEachLevel: every spilled key pays for lvl
// xorshift/hasher calls again instead of zero.
func rehydrate(h Hasher, keys []uint64, lvl int, salt uint64) []keyState {
	out := make([]keyState, len(keys))
	for i, k := range keys {
		out[i] = keyState{
			key:   k,
			state: freshHashState(h, k, lvl, salt),
		}
	}
	return out
}
