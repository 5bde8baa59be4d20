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

// Package powerlimit reads and sets the sustained CPU package power limit
// through the kernel's powercap interface.
package powerlimit

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// DefaultRoot is where the kernel exposes powercap control zones.
const DefaultRoot = "/sys/class/powercap"

// ErrNotAvailable indicates no CPU package power zone was found; the
// platform either lacks RAPL or the driver is not loaded.
var ErrNotAvailable = errors.New("no CPU package power zone available")

// sustainedLimitFile is constraint 0, the long-term power limit.
const sustainedLimitFile = "constraint_0_power_limit_uw"

// Controller adjusts the power limit of one CPU package zone.
type Controller struct {
	zone string
}

// Open locates the first CPU package zone under root.
func Open(root string) (*Controller, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate powercap zones: %w", err)
	}
	for _, entry := range entries {
		zone := filepath.Join(root, entry.Name())
		raw, err := os.ReadFile(filepath.Join(zone, "name"))
		if err != nil {
			continue
		}
		if name := strings.TrimSpace(string(raw)); strings.HasPrefix(name, "package") {
			return &Controller{zone: zone}, nil
		}
	}
	return nil, ErrNotAvailable
}

// Sustained returns the long-term package power limit in watts.
func (c *Controller) Sustained() (float64, error) {
	raw, err := os.ReadFile(filepath.Join(c.zone, sustainedLimitFile))
	if err != nil {
		return 0, fmt.Errorf("failed to read power limit: %w", err)
	}
	uw, err := strconv.ParseInt(strings.TrimSpace(string(raw)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("unexpected power limit value: %w", err)
	}
	return float64(uw) / 1e6, nil
}

// SetSustained sets the long-term package power limit in watts. Requires
// write access to the powercap tree; permission errors surface to the
// caller and are not fatal to the application.
func (c *Controller) SetSustained(watts float64) error {
	if watts <= 0 {
		return fmt.Errorf("power limit must be positive, got %v", watts)
	}
	uw := strconv.FormatInt(int64(watts*1e6), 10)
	if err := os.WriteFile(filepath.Join(c.zone, sustainedLimitFile), []byte(uw), 0o644); err != nil {
		return fmt.Errorf("failed to set power limit: %w", err)
	}
	return nil
}
