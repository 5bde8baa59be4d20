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

// Command osdprobe dumps the state of the overlay server's shared memory
// segment: header fields and the owner of every occupied OSD slot. A
// diagnostic for checking what the server declares and who holds slots.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/Samarkin/LilPowerMan/internal/rtss"
)

func main() {
	segment := flag.String("segment", rtss.DefaultSegmentPath(), "path of the overlay server's shared memory object")
	flag.Parse()

	if err := rtss.Dump(os.Stdout, *segment); err != nil {
		if errors.Is(err, rtss.ErrNotRunning) {
			fmt.Fprintln(os.Stderr, "overlay server is not running")
		} else {
			fmt.Fprintf(os.Stderr, "failed to probe segment: %v\n", err)
		}
		os.Exit(1)
	}
}
