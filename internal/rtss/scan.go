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
	"log/slog"
	"unsafe"
)

// scanDirective tells forEachEntry what to do after processing one slot.
type scanDirective int

const (
	// scanBreak stops the scan immediately.
	scanBreak scanDirective = iota
	// scanContinue skips to the next slot.
	scanContinue
	// scanRememberAndBreak remembers this slot as the result and stops.
	scanRememberAndBreak
	// scanRememberIfNeeded remembers this slot only if nothing better was
	// remembered yet, and keeps scanning.
	scanRememberIfNeeded
)

// osdEntryAt computes the typed view of slot i from the header-declared
// offset and entry size. This is the single chokepoint for deriving entry
// addresses: the slot's whole byte range must lie within the mapped region
// or the access fails with ErrUnexpectedLayout.
func (v *view) osdEntryAt(i int) (*osdEntry, error) {
	hdr := v.header()
	offset := int64(hdr.osdArrOffset) + int64(i)*int64(hdr.osdEntrySize)
	end := offset + int64(hdr.osdEntrySize)
	if offset < headerBytes || end < offset || end > int64(v.size) {
		slog.Error("shared memory is corrupted: entry is out of bounds",
			"slot", i, "offset", offset, "end", end, "region", v.size)
		return nil, ErrUnexpectedLayout
	}
	return (*osdEntry)(unsafe.Pointer(&v.mem[offset])), nil
}

// forEachEntry performs a bounded linear scan over OSD slots 1..count-1
// under the busy flag. Slot 0 is reserved by protocol convention and never
// visited. process decides per slot how the scan proceeds; finalize then
// receives the remembered slot, or (-1, nil) when nothing was remembered.
func (v *view) forEachEntry(process func(i int, e *osdEntry) scanDirective, finalize func(i int, e *osdEntry) error) error {
	guard := v.lock()
	defer guard.release()
	hdr := v.header()
	// The server may have torn the segment down while we waited on the flag.
	if hdr.signature != rtssSignature {
		return ErrNotRunning
	}
	if hdr.osdEntrySize < osdEntryBytes {
		slog.Error("shared memory is corrupted: OSD entry is too small",
			"size", hdr.osdEntrySize, "want", osdEntryBytes)
		return ErrUnexpectedLayout
	}
	rememberedIdx := -1
	var remembered *osdEntry
scan:
	for i := 1; i < int(hdr.osdArrSize); i++ {
		entry, err := v.osdEntryAt(i)
		if err != nil {
			return err
		}
		switch process(i, entry) {
		case scanBreak:
			break scan
		case scanContinue:
			continue
		case scanRememberAndBreak:
			rememberedIdx, remembered = i, entry
			break scan
		case scanRememberIfNeeded:
			if remembered == nil {
				rememberedIdx, remembered = i, entry
			}
		}
	}
	return finalize(rememberedIdx, remembered)
}

// claimSlot finds the slot to write and hands it to write while still
// holding the busy flag. A slot we already own always wins over an empty
// one, which keeps re-acquisition idempotent: at most one slot ever carries
// our owner mark.
func (v *view) claimSlot(write func(e *osdEntry) error) error {
	return v.forEachEntry(
		func(_ int, entry *osdEntry) scanDirective {
			switch cstring(entry.owner[:]) {
			case OwnerMark:
				return scanRememberAndBreak
			case "":
				return scanRememberIfNeeded
			default:
				return scanContinue
			}
		},
		func(i int, entry *osdEntry) error {
			if entry == nil {
				return ErrNoFreeSlots
			}
			if cstring(entry.owner[:]) != OwnerMark {
				slog.Info("registered in OSD slot", "slot", i)
			}
			return write(entry)
		},
	)
}

// clearOwnSlots zeroes out every slot carrying our owner mark. The scan
// never stops early: duplicates should not exist, but a crashed previous
// instance could have left some behind, and all of them get erased.
func (v *view) clearOwnSlots() error {
	return v.forEachEntry(
		func(i int, entry *osdEntry) scanDirective {
			if cstring(entry.owner[:]) == OwnerMark {
				*entry = osdEntry{}
				slog.Info("unregistered from OSD slot", "slot", i)
			}
			return scanContinue
		},
		func(int, *osdEntry) error { return nil },
	)
}
