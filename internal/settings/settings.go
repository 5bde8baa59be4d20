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

// Package settings persists user settings between runs.
package settings

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sugawarayuuta/sonnet"
)

// Settings are the persisted user preferences.
type Settings struct {
	// TickSeconds is the period of the telemetry publishing timer.
	TickSeconds int `json:"tick_seconds"`
	// OSDEnabled controls whether measurements are published to the
	// overlay server at all.
	OSDEnabled bool `json:"osd_enabled"`
	// OSDGraph embeds the server-rendered framerate graph into our slot.
	OSDGraph bool `json:"osd_graph"`
	// PowerLimitWatts, when positive, is applied as the sustained CPU
	// package power limit at startup.
	PowerLimitWatts float64 `json:"power_limit_watts,omitempty"`
}

// Default returns the settings used on first run.
func Default() Settings {
	return Settings{
		TickSeconds: 1,
		OSDEnabled:  true,
	}
}

// Load reads settings from path. A missing file is not an error: first run
// gets the defaults.
func Load(path string) (Settings, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Default(), fmt.Errorf("failed to read settings: %w", err)
	}
	s := Default()
	if err := sonnet.Unmarshal(raw, &s); err != nil {
		return Default(), fmt.Errorf("failed to parse settings: %w", err)
	}
	if s.TickSeconds < 1 {
		s.TickSeconds = 1
	}
	return s, nil
}

// Save writes the settings atomically: a rename can't leave a half-written
// file behind for the next Load.
func (s Settings) Save(path string) error {
	raw, err := sonnet.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace settings: %w", err)
	}
	return nil
}
