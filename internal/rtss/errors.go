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
	"errors"
	"strconv"
)

// Every error returned by this package is non-fatal to the hosting
// application: the caller logs it and retries on its next tick.
var (
	// ErrNotRunning indicates the overlay server is not running: either the
	// segment does not exist, or it mapped but carries no valid signature.
	ErrNotRunning = errors.New("overlay server is not running")

	// ErrUnexpectedLayout indicates the declared header or entry sizes and
	// offsets are inconsistent with the actually mapped region. Treated as
	// corruption; the cycle aborts with no partial write.
	ErrUnexpectedLayout = errors.New("shared memory layout does not match expectations")

	// ErrNoFreeSlots indicates every OSD slot is occupied by another client.
	ErrNoFreeSlots = errors.New("all OSD slots are occupied")

	// ErrEntryOverflow indicates the composed content does not fit in the
	// server-allocated buffers. Whatever was written is still
	// null-terminated, so the server never reads garbage.
	ErrEntryOverflow = errors.New("entry does not fit in server-allocated buffer")
)

// VersionError indicates the server's shared memory structure predates the
// minimum supported version.
type VersionError struct {
	// Version is the human-readable "major.minor" reported by the server.
	Version string
}

func (e *VersionError) Error() string {
	return "overlay server version is not supported: " + e.Version
}

// versionString renders the packed (major<<16)|minor form.
func versionString(v uint32) string {
	return strconv.FormatUint(uint64(v>>16), 10) + "." + strconv.FormatUint(uint64(v&0xFFFF), 10)
}
