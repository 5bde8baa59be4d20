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
	"encoding/binary"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyCString(t *testing.T) {
	tests := []struct {
		name    string
		s       string
		bufLen  int
		wantFit bool
		wantNul bool
	}{
		{"fits with room", "abc", 8, true, true},
		{"fits exactly with terminator", "abc", 4, true, true},
		{"exactly fills buffer", "abcd", 4, false, false},
		{"overflows", "abcdef", 4, false, false},
		{"empty string", "", 4, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := make([]byte, tt.bufLen)
			for i := range buf {
				buf[i] = 0xFF // stale garbage the copy must neutralize
			}
			fit := copyCString(tt.s, buf)
			assert.Equal(t, tt.wantFit, fit)
			n := min(len(tt.s), tt.bufLen)
			assert.Equal(t, tt.s[:n], string(buf[:n]))
			if tt.wantNul {
				assert.EqualValues(t, 0, buf[n], "terminator expected right after the content")
			}
		})
	}
}

func TestCopyCStringZeroLengthBuffer(t *testing.T) {
	assert.False(t, copyCString("x", nil))
	assert.False(t, copyCString("", nil), "even an empty string needs room for its terminator")
}

func TestCString(t *testing.T) {
	assert.Equal(t, "abc", cstring([]byte{'a', 'b', 'c', 0, 'x'}))
	assert.Equal(t, "", cstring([]byte{0, 'a'}))
	assert.Equal(t, "ab", cstring([]byte{'a', 'b'}), "unterminated buffer yields its full content")
}

func TestBuilderComposesDirectivesInOrder(t *testing.T) {
	v := newTestView(t, 2)

	var b builder
	b.addText("12.345" + MarkupSizeBegin + "W" + MarkupSizeEnd)
	b.addNewline()
	b.addText(MarkupFramerate + MarkupSizeBegin + "FPS" + MarkupSizeEnd)
	require.NoError(t, b.write(v))

	entry := slot(t, v, 1)
	assert.Equal(t, OwnerMark, cstring(entry.owner[:]))
	assert.Equal(t, "12.345<S=50>W<S>\r\n<FR><S=50>FPS<S>", cstring(entry.osdEx[:]),
		"markup tokens must pass through byte-for-byte")
}

func TestBuilderReportsTextOverflow(t *testing.T) {
	v := newTestView(t, 2)

	var b builder
	b.addText(strings.Repeat("x", osdTextExBytes))
	err := b.write(v)
	assert.ErrorIs(t, err, ErrEntryOverflow)

	// The written bytes are truncated to capacity; the owner buffer had
	// room and stays terminated, so the server never reads garbage.
	entry := slot(t, v, 1)
	assert.Equal(t, OwnerMark, cstring(entry.owner[:]))
	assert.Equal(t, strings.Repeat("x", osdTextExBytes), string(entry.osdEx[:]))
}

func TestGraphMarshal(t *testing.T) {
	g := &Graph{
		Width:   50,
		Height:  15,
		Margin:  2,
		Flags:   GraphFlagFramerate | GraphFlagFramerateAvg,
		Min:     0,
		Max:     60,
		Samples: []float32{1.5, -2.25, 30},
	}
	buf := make([]byte, 256)
	require.NoError(t, g.marshal(buf))

	assert.Equal(t, graphSignature[:], buf[0:4])
	wantSize := uint32(graphHeaderBytes + 4*3)
	assert.Equal(t, wantSize, binary.LittleEndian.Uint32(buf[4:]))
	assert.EqualValues(t, 50, int32(binary.LittleEndian.Uint32(buf[8:])))
	assert.EqualValues(t, 15, int32(binary.LittleEndian.Uint32(buf[12:])))
	assert.EqualValues(t, 2, int32(binary.LittleEndian.Uint32(buf[16:])))
	assert.Equal(t, GraphFlagFramerate|GraphFlagFramerateAvg, binary.LittleEndian.Uint32(buf[20:]))
	assert.Equal(t, float32(0), math.Float32frombits(binary.LittleEndian.Uint32(buf[24:])))
	assert.Equal(t, float32(60), math.Float32frombits(binary.LittleEndian.Uint32(buf[28:])))
	assert.EqualValues(t, 3, binary.LittleEndian.Uint32(buf[32:]))
	assert.Equal(t, float32(1.5), math.Float32frombits(binary.LittleEndian.Uint32(buf[36:])))
	assert.Equal(t, float32(-2.25), math.Float32frombits(binary.LittleEndian.Uint32(buf[40:])))
	assert.Equal(t, float32(30), math.Float32frombits(binary.LittleEndian.Uint32(buf[44:])))
}

func TestGraphMarshalOverflow(t *testing.T) {
	g := &Graph{Samples: make([]float32, 16)}
	buf := make([]byte, graphHeaderBytes+4*16-1)
	assert.ErrorIs(t, g.marshal(buf), ErrEntryOverflow)
}

func TestBuilderWritesGraphIntoSlotBuffer(t *testing.T) {
	v := newTestView(t, 2)

	var b builder
	b.addText("fps")
	b.addGraph(&Graph{Width: 50, Height: 15, Flags: GraphFlagFramerate, Max: 60})
	require.NoError(t, b.write(v))

	entry := slot(t, v, 1)
	assert.Equal(t, graphSignature[:], entry.buffer[0:4])
	assert.EqualValues(t, graphHeaderBytes, binary.LittleEndian.Uint32(entry.buffer[4:]))
}
