// endian_le.go -- scalar endian conversion helpers, little-endian hosts
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

//go:build 386 || amd64 || arm || arm64 || ppc64le || mipsle || mips64le
// +build 386 amd64 arm arm64 ppc64le mipsle mips64le

package mph

import "math/bits"

// toLEUint16/32/64 return 'v' unchanged: on these architectures, native
// host order already is little-endian -- exactly what the on-disk offset
// table is encoded in.
func toLEUint16(v uint16) uint16 { return v }
func toLEUint32(v uint32) uint32 { return v }
func toLEUint64(v uint64) uint64 { return v }

// toBEUint16/32/64 byte-swap 'v', since the host is little-endian and the
// caller wants big-endian order.
func toBEUint16(v uint16) uint16 { return bits.ReverseBytes16(v) }
func toBEUint32(v uint32) uint32 { return bits.ReverseBytes32(v) }
func toBEUint64(v uint64) uint64 { return bits.ReverseBytes64(v) }

// toLittleEndianUint32/64 are the names dbreader.go calls when converting
// the mmap'd, little-endian-encoded offset table to host order.
func toLittleEndianUint32(v uint32) uint32 { return toLEUint32(v) }
func toLittleEndianUint64(v uint64) uint64 { return toLEUint64(v) }
