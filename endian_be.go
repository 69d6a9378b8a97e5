// endian_be.go -- scalar endian conversion helpers, big-endian hosts
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

//go:build !(386 || amd64 || arm || arm64 || ppc64le || mipsle || mips64le)
// +build !386,!amd64,!arm,!arm64,!ppc64le,!mipsle,!mips64le

package mph

import "math/bits"

// toLEUint16/32/64 byte-swap 'v': the host is big-endian, but the on-disk
// offset table is always written little-endian.
func toLEUint16(v uint16) uint16 { return bits.ReverseBytes16(v) }
func toLEUint32(v uint32) uint32 { return bits.ReverseBytes32(v) }
func toLEUint64(v uint64) uint64 { return bits.ReverseBytes64(v) }

// toBEUint16/32/64 return 'v' unchanged: the host is already big-endian.
func toBEUint16(v uint16) uint16 { return v }
func toBEUint32(v uint32) uint32 { return v }
func toBEUint64(v uint64) uint64 { return v }

func toLittleEndianUint32(v uint32) uint32 { return toLEUint32(v) }
func toLittleEndianUint64(v uint64) uint64 { return toLEUint64(v) }
