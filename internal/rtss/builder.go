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
	"bytes"
	"encoding/binary"
	"math"
	"strings"
)

// Server-recognized markup tokens. They must be emitted verbatim,
// byte-for-byte: the server interprets them, this package never escapes or
// reinterprets them.
const (
	// MarkupFramerate is substituted by the server with its own measured
	// frame rate of the foreground 3D application.
	MarkupFramerate = "<FR>"
	// MarkupSizeBegin/MarkupSizeEnd bracket a sub-string rendered at 50% of
	// the base OSD size.
	MarkupSizeBegin = "<S=50>"
	MarkupSizeEnd   = "<S>"
)

// cstring returns the string content of a null-terminated buffer, or the
// whole buffer when no terminator is present.
func cstring(mem []byte) string {
	if i := bytes.IndexByte(mem, 0); i >= 0 {
		return string(mem[:i])
	}
	return string(mem)
}

// copyCString copies min(len(s), len(mem)) bytes of s into mem and
// null-terminates if room remains. It reports whether s fit entirely,
// terminator included; either way the buffer is safe for the server to read.
func copyCString(s string, mem []byte) bool {
	n := copy(mem, s)
	if n < len(mem) {
		mem[n] = 0
	}
	return len(s) < len(mem)
}

// Graph describes an embedded graph object rendered by the server inside
// the claimed slot, instead of (or alongside) plain text.
type Graph struct {
	Width   int32 // pixels if positive, chars if negative
	Height  int32 // pixels if positive, chars if negative
	Margin  int32 // pixels
	Flags   uint32
	Min     float32
	Max     float32
	Samples []float32
}

// marshal serializes the fixed-size graph header immediately followed by the
// samples into dst, little-endian, with the same bounds discipline as the
// text copies.
func (g *Graph) marshal(dst []byte) error {
	size := graphHeaderBytes + 4*len(g.Samples)
	if size > len(dst) {
		return ErrEntryOverflow
	}
	copy(dst[0:4], graphSignature[:])
	binary.LittleEndian.PutUint32(dst[4:], uint32(size))
	binary.LittleEndian.PutUint32(dst[8:], uint32(g.Width))
	binary.LittleEndian.PutUint32(dst[12:], uint32(g.Height))
	binary.LittleEndian.PutUint32(dst[16:], uint32(g.Margin))
	binary.LittleEndian.PutUint32(dst[20:], g.Flags)
	binary.LittleEndian.PutUint32(dst[24:], math.Float32bits(g.Min))
	binary.LittleEndian.PutUint32(dst[28:], math.Float32bits(g.Max))
	binary.LittleEndian.PutUint32(dst[32:], uint32(len(g.Samples)))
	for i, sample := range g.Samples {
		binary.LittleEndian.PutUint32(dst[graphHeaderBytes+4*i:], math.Float32bits(sample))
	}
	return nil
}

// builder accumulates draw directives and serializes them into a claimed
// slot in one shot.
type builder struct {
	osd   strings.Builder
	graph *Graph
}

// addText appends a literal text segment. Markup tokens pass through
// untouched.
func (b *builder) addText(text string) *builder {
	b.osd.WriteString(text)
	return b
}

// addNewline separates OSD lines. The server expects CRLF.
func (b *builder) addNewline() *builder {
	return b.addText("\r\n")
}

// addGraph attaches an embedded graph object to be written into the slot's
// data buffer.
func (b *builder) addGraph(g *Graph) *builder {
	b.graph = g
	return b
}

// write claims a slot and serializes the accumulated content into it: the
// owner mark into the owner buffer, the composed text into the extended
// text buffer, and the graph (if any) into the data buffer. If any part did
// not fit, the whole write reports ErrEntryOverflow; the truncated bytes are
// still terminated, so no partial state is ever served as garbage.
func (b *builder) write(v *view) error {
	return v.claimSlot(func(entry *osdEntry) error {
		ownerFit := copyCString(OwnerMark, entry.owner[:])
		textFit := copyCString(b.osd.String(), entry.osdEx[:])
		if !ownerFit || !textFit {
			return ErrEntryOverflow
		}
		if b.graph != nil {
			return b.graph.marshal(entry.buffer[:])
		}
		return nil
	})
}
