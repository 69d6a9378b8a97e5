// slices.go -- zero-copy re-interpretation between byte slices and
// fixed-width integer slices, used by the DB's offset and value-length
// tables (mmap'd on read) and by the writeEachLevel spill files.
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

import "unsafe"

// u64sToByteSlice reinterprets a []uint64 as a []byte without copying.
// The bytes are the values in host byte order; no conversion is done.
func u64sToByteSlice(v []uint64) []byte {
	if len(v) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&v[0])), len(v)*8)
}

// bsToUint64Slice reinterprets a []byte as a []uint64 without copying.
// 'b' must be at least 8-byte aligned and its length a multiple of 8 --
// true for mmap'd regions and for buffers produced by u64sToByteSlice.
func bsToUint64Slice(b []byte) []uint64 {
	if len(b) == 0 {
		return nil
	}
	return unsafe.Slice((*uint64)(unsafe.Pointer(&b[0])), len(b)/8)
}

func u32sToByteSlice(v []uint32) []byte {
	if len(v) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&v[0])), len(v)*4)
}

func bsToUint32Slice(b []byte) []uint32 {
	if len(b) == 0 {
		return nil
	}
	return unsafe.Slice((*uint32)(unsafe.Pointer(&b[0])), len(b)/4)
}
