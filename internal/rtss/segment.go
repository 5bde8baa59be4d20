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
	"os"
	"path/filepath"
)

// segment is an open handle to the server-owned shared memory object. It is
// created fresh for every publish cycle and closed before the cycle returns;
// nothing is cached across ticks, so the server may restart or upgrade
// between any two ticks without special-casing here.
type segment struct {
	file *os.File
}

// openSegment opens the named shared memory object read/write. The object
// not existing means the server is simply not started and is reported as
// ErrNotRunning; any other OS failure is passed through. No retries at this
// layer: the caller's periodic cadence is the retry mechanism.
func openSegment(path string) (*segment, error) {
	file, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotRunning
		}
		return nil, fmt.Errorf("failed to open segment %s: %w", path, err)
	}
	return &segment{file: file}, nil
}

// Close releases the OS handle. The mapped view, if any, stays valid until
// it is unmapped on its own.
func (s *segment) Close() error {
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}

// DefaultSegmentPath resolves the fixed segment name against the preferred
// shared memory directory, falling back to the temporary directory when
// /dev/shm is unavailable.
func DefaultSegmentPath() string {
	if info, err := os.Stat("/dev/shm"); err == nil && info.IsDir() {
		return filepath.Join("/dev/shm", SegmentName)
	}
	return filepath.Join(os.TempDir(), SegmentName)
}
