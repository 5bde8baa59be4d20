/*
 *
 * Copyright 2026 LilPowerMan authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 *
 */

// Package rtss publishes OSD content into the shared memory segment of a
// running RivaTuner Statistics Server compatible overlay server.
//
// The segment is owned and concurrently mutated by the server process. Every
// structure below mirrors the server's compiled v2 layout bit-for-bit; no
// field may be dereferenced before the signature, version and declared sizes
// have been validated against the actually mapped region.
package rtss

// Memory layout constants, hand-carried from RTSSSharedMemory.h.
const (
	// OS-level name of the v2 protocol segment.
	SegmentName = "RTSSSharedMemoryV2"

	// v2.14 is the lowest version to support OSD locking via the busy flag.
	minSupportedVersion = uint32(0x0002000e)

	// Byte sizes of the fixed protocol structures. The Go structs below must
	// match these exactly; layout_test.go asserts it field by field.
	headerBytes      = 40
	osdEntryBytes    = 256 + 256 + 4096 + 262144
	appEntryBytes    = 284
	graphHeaderBytes = 36

	// Buffer widths inside an OSD slot.
	osdTextBytes   = 256
	osdOwnerBytes  = 256
	osdTextExBytes = 4096
	osdBufferBytes = 262144
)

// rtssSignature is the DWORD 'RTSS' as it appears in segment memory
// (little-endian byte order).
var rtssSignature = [4]byte{'S', 'S', 'T', 'R'}

// graphSignature is the DWORD 'GR00' marking an embedded graph object.
var graphSignature = [4]byte{'0', '0', 'R', 'G'}

// OwnerMark is the identity string written into a slot's owner buffer to
// claim it. Comparing a slot's owner field against this string is the sole
// mechanism for detecting whether we already hold a slot.
const OwnerMark = "LilPowerMan"

// sharedMemoryHeader is the first block of the segment.
//
// The signature can be set to:
//
//	'RTSS'    - the server's memory is initialized and contains valid data
//	0xDEAD    - the memory is marked for deallocation and no longer valid
//	otherwise - the memory is not initialized
//
// All size/offset/count fields are declared by the server process and are
// untrusted until checked against the mapped region size.
type sharedMemoryHeader struct {
	signature    [4]byte // 0x00: 'RTSS' when valid
	version      uint32  // 0x04: (major<<16) | minor
	appEntrySize uint32  // 0x08: size of one app array entry
	appArrOffset uint32  // 0x0C: offset of the app array
	appArrSize   uint32  // 0x10: number of app array entries
	osdEntrySize uint32  // 0x14: size of one OSD array entry
	osdArrOffset uint32  // 0x18: offset of the OSD array
	osdArrSize   uint32  // 0x1C: number of OSD array entries
	osdFrame     uint32  // 0x20: global OSD frame counter
	busy         int32   // 0x24: bit 0 set while any client writes
}

// osdEntry is one OSD slot. Slots form a zero-indexed array; index 0 is
// reserved by protocol convention and never claimed.
type osdEntry struct {
	osd    [osdTextBytes]byte   // slot text
	owner  [osdOwnerBytes]byte  // slot owner ID
	osdEx  [osdTextExBytes]byte // extended slot text (v2.7+)
	buffer [osdBufferBytes]byte // slot data buffer for embedded objects (v2.12+)
}

// appEntry describes one 3D application tracked by the server. This core
// never writes app entries; the layout is carried for bounds math and for
// diagnostics.
type appEntry struct {
	processID uint32    // 0x000: process ID
	name      [260]byte // 0x004: process executable name (MAX_PATH)
	flags     uint32    // 0x108: application specific flags
	time0     uint32    // 0x10C: framerate measurement period start, ms
	time1     uint32    // 0x110: framerate measurement period end, ms
	frames    uint32    // 0x114: frames rendered during (time1 - time0)
	frameTime uint32    // 0x118: frame time, us
}

// graphHeader is the fixed prefix of an embedded graph object written inside
// a slot's data buffer, immediately followed by dataCount float32 samples.
type graphHeader struct {
	signature [4]byte // 0x00: 'GR00'
	size      uint32  // 0x04: object size in bytes, samples included
	width     int32   // 0x08: pixels if positive, chars if negative
	height    int32   // 0x0C: pixels if positive, chars if negative
	margin    int32   // 0x10: margin in pixels
	flags     uint32  // 0x14: GraphFlag* bitmask
	min       float32 // 0x18: graph minimum value
	max       float32 // 0x1C: graph maximum value
	dataCount uint32  // 0x20: count of samples following the struct
}

// Embedded graph flag bits.
const (
	GraphFlagFilled    = uint32(1)
	GraphFlagFramerate = uint32(2)
	GraphFlagFrametime = uint32(4)
	GraphFlagBar       = uint32(8)
	GraphFlagBgnd      = uint32(16)
	GraphFlagVertical  = uint32(32)
	GraphFlagMirrored  = uint32(64)
	GraphFlagAutoscale = uint32(128)

	GraphFlagFramerateMin      = uint32(256)
	GraphFlagFramerateAvg      = uint32(512)
	GraphFlagFramerateMax      = uint32(1024)
	GraphFlagFramerate1Dot0Low = uint32(2048)
	GraphFlagFramerate0Dot1Low = uint32(4096)

	GraphFlagBarRange = uint32(8192)
)
