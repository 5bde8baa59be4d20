//go:build !unix

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
	"os"
)

var errUnsupportedPlatform = errors.New("shared memory mapping is not supported on this platform")

func mapMemory(*os.File, int) ([]byte, error) {
	return nil, errUnsupportedPlatform
}

func unmapMemory([]byte) error {
	return nil
}
