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
	"io"
)

// Dump writes a human-readable snapshot of the live segment to w: the header
// fields followed by the owner and text of every occupied OSD slot. It is a
// diagnostic aid and holds the busy flag only for the duration of the slot
// scan.
func Dump(w io.Writer, path string) error {
	seg, err := openSegment(path)
	if err != nil {
		return err
	}
	defer seg.Close()
	v, err := mapSegment(seg)
	if err != nil {
		return err
	}
	defer v.Close()

	hdr := v.header()
	fmt.Fprintf(w, "segment: %s (%d bytes mapped)\n", path, v.size)
	fmt.Fprintf(w, "version: %s\n", versionString(hdr.version))
	fmt.Fprintf(w, "app array:  %d entries of %d bytes at offset %d\n",
		hdr.appArrSize, hdr.appEntrySize, hdr.appArrOffset)
	fmt.Fprintf(w, "OSD array:  %d entries of %d bytes at offset %d\n",
		hdr.osdArrSize, hdr.osdEntrySize, hdr.osdArrOffset)
	fmt.Fprintf(w, "OSD frame:  %d\n", hdr.osdFrame)

	// Snapshot the slots first: no I/O while the busy flag is held.
	var lines []string
	err = v.forEachEntry(
		func(i int, entry *osdEntry) scanDirective {
			if owner := cstring(entry.owner[:]); owner != "" {
				lines = append(lines, fmt.Sprintf("slot %d: owner=%q text=%q",
					i, owner, cstring(entry.osdEx[:])))
			}
			return scanContinue
		},
		func(int, *osdEntry) error { return nil },
	)
	if err != nil {
		return err
	}
	for _, line := range lines {
		fmt.Fprintln(w, line)
	}
	fmt.Fprintf(w, "%d slot(s) occupied\n", len(lines))
	return nil
}
