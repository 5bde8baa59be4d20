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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const testOsdOffset = 4096

// newTestView fabricates an in-memory region shaped like a live v2.20
// segment with the given number of OSD slots (slot 0, which the protocol
// reserves, counts toward slots).
func newTestView(t *testing.T, slots int) *view {
	t.Helper()
	buf := make([]byte, testOsdOffset+slots*osdEntryBytes)
	v := &view{mem: buf, size: len(buf)}
	hdr := v.header()
	hdr.signature = rtssSignature
	hdr.version = 0x00020014
	hdr.appEntrySize = appEntryBytes
	hdr.appArrOffset = headerBytes
	hdr.appArrSize = 0
	hdr.osdEntrySize = osdEntryBytes
	hdr.osdArrOffset = testOsdOffset
	hdr.osdArrSize = uint32(slots)
	return v
}

// slot returns the typed view of slot i, bypassing the scanner, for test
// setup and assertions.
func slot(t *testing.T, v *view, i int) *osdEntry {
	t.Helper()
	entry, err := v.osdEntryAt(i)
	require.NoError(t, err)
	return entry
}

// setSlot fills a slot's owner and extended text buffers.
func setSlot(t *testing.T, v *view, i int, owner, text string) {
	t.Helper()
	entry := slot(t, v, i)
	copyCString(owner, entry.owner[:])
	copyCString(text, entry.osdEx[:])
}

// writeSegmentFile persists the fabricated region as a segment file that
// openSegment can map, registering cleanup through the test's temp dir.
func writeSegmentFile(t *testing.T, v *view) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), SegmentName)
	require.NoError(t, os.WriteFile(path, v.mem, 0o600))
	return path
}

// readSegmentFile loads a segment file back into an in-memory view for
// assertions after a client cycle ran against it.
func readSegmentFile(t *testing.T, path string) *view {
	t.Helper()
	buf, err := os.ReadFile(path)
	require.NoError(t, err)
	return &view{mem: buf, size: len(buf)}
}
