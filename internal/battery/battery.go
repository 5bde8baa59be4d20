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

// Package battery reads the charge rate and remaining capacity of the
// system battery from the kernel's power supply class.
package battery

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// DefaultRoot is where the kernel exposes power supply devices.
const DefaultRoot = "/sys/class/power_supply"

// ErrNoBattery indicates no supported system battery was found.
var ErrNoBattery = errors.New("no supported battery found")

// Status is one reading of the battery state.
type Status struct {
	// ChargeRate is the charge rate in milliwatts, negative while draining.
	ChargeRate int32
	// Capacity is the remaining capacity in milliwatt-hours.
	Capacity uint32
}

// Battery is one supported system battery.
type Battery struct {
	dir string
}

// Discover enumerates the power supply devices under root and returns the
// supported system batteries: actual batteries, present, and not scoped to
// a peripheral device (a wireless mouse reports its cell here too).
func Discover(root string) ([]*Battery, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate power supplies: %w", err)
	}
	var batteries []*Battery
	for _, entry := range entries {
		dir := filepath.Join(root, entry.Name())
		if kind, err := readValue(dir, "type"); err != nil || kind != "Battery" {
			continue
		}
		if present, err := readValue(dir, "present"); err == nil && present == "0" {
			continue
		}
		if scope, err := readValue(dir, "scope"); err == nil && scope == "Device" {
			continue
		}
		batteries = append(batteries, &Battery{dir: dir})
	}
	return batteries, nil
}

// Find returns the first supported system battery.
func Find(root string) (*Battery, error) {
	batteries, err := Discover(root)
	if err != nil {
		return nil, err
	}
	if len(batteries) == 0 {
		return nil, ErrNoBattery
	}
	return batteries[0], nil
}

// Name returns the kernel device name, e.g. "BAT0".
func (b *Battery) Name() string {
	return filepath.Base(b.dir)
}

// Status reads the current charge rate and remaining capacity. Energy-style
// batteries report power and energy directly; charge-style ones report
// current and charge, which get converted through the present voltage.
func (b *Battery) Status() (Status, error) {
	status, err := readValue(b.dir, "status")
	if err != nil {
		return Status{}, err
	}
	rate, err := b.readRate()
	if err != nil {
		return Status{}, err
	}
	if status == "Discharging" {
		rate = -rate
	}
	capacity, err := b.readCapacity()
	if err != nil {
		return Status{}, err
	}
	return Status{ChargeRate: int32(rate / 1000), Capacity: uint32(capacity / 1000)}, nil
}

// readRate returns the charge rate magnitude in microwatts.
func (b *Battery) readRate() (int64, error) {
	if power, err := readInt(b.dir, "power_now"); err == nil {
		return power, nil
	}
	current, err := readInt(b.dir, "current_now") // uA
	if err != nil {
		return 0, err
	}
	voltage, err := readInt(b.dir, "voltage_now") // uV
	if err != nil {
		return 0, err
	}
	return current * voltage / 1_000_000, nil
}

// readCapacity returns the remaining capacity in microwatt-hours.
func (b *Battery) readCapacity() (int64, error) {
	if energy, err := readInt(b.dir, "energy_now"); err == nil {
		return energy, nil
	}
	charge, err := readInt(b.dir, "charge_now") // uAh
	if err != nil {
		return 0, err
	}
	voltage, err := readInt(b.dir, "voltage_now") // uV
	if err != nil {
		return 0, err
	}
	return charge * voltage / 1_000_000, nil
}

func readValue(dir, name string) (string, error) {
	raw, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to read battery attribute %s: %w", name, err)
	}
	return strings.TrimSpace(string(raw)), nil
}

func readInt(dir, name string) (int64, error) {
	value, err := readValue(dir, name)
	if err != nil {
		return 0, err
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("unexpected value of battery attribute %s: %w", name, err)
	}
	return parsed, nil
}
