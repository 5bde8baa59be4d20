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

package rtss

import (
	"testing"
	"unsafe"
)

// The structs must match the server's compiled C layout bit-for-bit. These
// tests pin every size and field offset so that a compiler or build-tag
// change cannot silently desynchronize from the protocol.

func TestStructSizes(t *testing.T) {
	tests := []struct {
		name string
		size uintptr
		want uintptr
	}{
		{"sharedMemoryHeader", unsafe.Sizeof(sharedMemoryHeader{}), headerBytes},
		{"osdEntry", unsafe.Sizeof(osdEntry{}), osdEntryBytes},
		{"appEntry", unsafe.Sizeof(appEntry{}), appEntryBytes},
		{"graphHeader", unsafe.Sizeof(graphHeader{}), graphHeaderBytes},
	}
	for _, tt := range tests {
		if tt.size != tt.want {
			t.Errorf("sizeof(%s) = %d, want %d", tt.name, tt.size, tt.want)
		}
	}
}

func TestHeaderFieldOffsets(t *testing.T) {
	h := &sharedMemoryHeader{}
	tests := []struct {
		name   string
		offset uintptr
		want   uintptr
	}{
		{"signature", unsafe.Offsetof(h.signature), 0x00},
		{"version", unsafe.Offsetof(h.version), 0x04},
		{"appEntrySize", unsafe.Offsetof(h.appEntrySize), 0x08},
		{"appArrOffset", unsafe.Offsetof(h.appArrOffset), 0x0C},
		{"appArrSize", unsafe.Offsetof(h.appArrSize), 0x10},
		{"osdEntrySize", unsafe.Offsetof(h.osdEntrySize), 0x14},
		{"osdArrOffset", unsafe.Offsetof(h.osdArrOffset), 0x18},
		{"osdArrSize", unsafe.Offsetof(h.osdArrSize), 0x1C},
		{"osdFrame", unsafe.Offsetof(h.osdFrame), 0x20},
		{"busy", unsafe.Offsetof(h.busy), 0x24},
	}
	for _, tt := range tests {
		if tt.offset != tt.want {
			t.Errorf("offsetof(sharedMemoryHeader.%s) = %d, want %d", tt.name, tt.offset, tt.want)
		}
	}
}

func TestOsdEntryFieldOffsets(t *testing.T) {
	e := &osdEntry{}
	tests := []struct {
		name   string
		offset uintptr
		want   uintptr
	}{
		{"osd", unsafe.Offsetof(e.osd), 0},
		{"owner", unsafe.Offsetof(e.owner), 256},
		{"osdEx", unsafe.Offsetof(e.osdEx), 512},
		{"buffer", unsafe.Offsetof(e.buffer), 4608},
	}
	for _, tt := range tests {
		if tt.offset != tt.want {
			t.Errorf("offsetof(osdEntry.%s) = %d, want %d", tt.name, tt.offset, tt.want)
		}
	}
}

func TestAppEntryFieldOffsets(t *testing.T) {
	e := &appEntry{}
	tests := []struct {
		name   string
		offset uintptr
		want   uintptr
	}{
		{"processID", unsafe.Offsetof(e.processID), 0x000},
		{"name", unsafe.Offsetof(e.name), 0x004},
		{"flags", unsafe.Offsetof(e.flags), 0x108},
		{"time0", unsafe.Offsetof(e.time0), 0x10C},
		{"time1", unsafe.Offsetof(e.time1), 0x110},
		{"frames", unsafe.Offsetof(e.frames), 0x114},
		{"frameTime", unsafe.Offsetof(e.frameTime), 0x118},
	}
	for _, tt := range tests {
		if tt.offset != tt.want {
			t.Errorf("offsetof(appEntry.%s) = %d, want %d", tt.name, tt.offset, tt.want)
		}
	}
}

func TestGraphHeaderFieldOffsets(t *testing.T) {
	g := &graphHeader{}
	tests := []struct {
		name   string
		offset uintptr
		want   uintptr
	}{
		{"signature", unsafe.Offsetof(g.signature), 0x00},
		{"size", unsafe.Offsetof(g.size), 0x04},
		{"width", unsafe.Offsetof(g.width), 0x08},
		{"height", unsafe.Offsetof(g.height), 0x0C},
		{"margin", unsafe.Offsetof(g.margin), 0x10},
		{"flags", unsafe.Offsetof(g.flags), 0x14},
		{"min", unsafe.Offsetof(g.min), 0x18},
		{"max", unsafe.Offsetof(g.max), 0x1C},
		{"dataCount", unsafe.Offsetof(g.dataCount), 0x20},
	}
	for _, tt := range tests {
		if tt.offset != tt.want {
			t.Errorf("offsetof(graphHeader.%s) = %d, want %d", tt.name, tt.offset, tt.want)
		}
	}
}
