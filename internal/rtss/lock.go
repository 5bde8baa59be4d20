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
	"runtime"
	"sync/atomic"
)

// busyGuard holds the segment-wide busy flag, the single synchronization
// primitive shared with the server and every other client of the segment.
// While held, all other readers and writers of the structure are excluded,
// so critical sections must stay minimal and free of slow work.
type busyGuard struct {
	busy *int32
}

// lock acquires the busy flag, spinning until the flag transitions 0 -> 1.
// The spin has no timeout and no fairness guarantee beyond yielding the
// processor between attempts; a hung server holding the flag blocks the
// caller indefinitely. That matches the protocol as every client implements
// it, so the limitation is accepted rather than papered over with a bounded
// spin that would change observable behavior.
func (v *view) lock() busyGuard {
	busy := &v.header().busy
	for !atomic.CompareAndSwapInt32(busy, 0, 1) {
		runtime.Gosched()
	}
	return busyGuard{busy: busy}
}

// release stores 0 unconditionally. Always call it via defer: leaking the
// flag locks OSD updates for every client of the segment.
func (g busyGuard) release() {
	atomic.StoreInt32(g.busy, 0)
}
