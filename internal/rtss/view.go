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
	"fmt"
	"log/slog"
	"unsafe"
)

// view is a validated mapping of the segment. Holding a view guarantees that
// the region is at least headerBytes long and that the signature and version
// checks passed; every further entry access is still bounds-checked against
// size, because the entry offsets come from untrusted header fields.
type view struct {
	mem  []byte
	size int
}

// mapSegment maps the segment and validates it. Each step is a hard
// precondition for the next: determine the actual region size from the OS,
// map, require the minimum header size, then check signature and version.
// No size claimed inside the segment is trusted before the region size is
// known.
func mapSegment(s *segment) (*view, error) {
	info, err := s.file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat segment: %w", err)
	}
	size := info.Size()
	if size < headerBytes {
		slog.Error("shared memory region is too small", "size", size, "want", headerBytes)
		return nil, ErrUnexpectedLayout
	}
	mem, err := mapMemory(s.file, int(size))
	if err != nil {
		return nil, fmt.Errorf("failed to map segment: %w", err)
	}
	// The view exists from here on so that memory gets unmapped on any
	// validation failure.
	v := &view{mem: mem, size: int(size)}
	hdr := v.header()
	if hdr.signature != rtssSignature {
		slog.Debug("shared memory signature mismatch", "signature", hdr.signature[:])
		v.Close()
		return nil, ErrNotRunning
	}
	version := versionString(hdr.version)
	if hdr.version < minSupportedVersion {
		slog.Debug("unsupported server version", "version", version)
		v.Close()
		return nil, &VersionError{Version: version}
	}
	slog.Debug("mapped shared memory segment", "size", size, "version", version)
	return v, nil
}

// header returns the typed header view. Only valid after mapSegment's
// minimum size check.
func (v *view) header() *sharedMemoryHeader {
	return (*sharedMemoryHeader)(unsafe.Pointer(&v.mem[0]))
}

// Close unmaps the view unconditionally. Unmap failures are logged, never
// propagated: there is nothing a caller could do about them.
func (v *view) Close() {
	if v.mem == nil {
		return
	}
	if err := unmapMemory(v.mem); err != nil {
		slog.Error("failed to unmap shared memory view", "err", err)
	}
	v.mem = nil
}
