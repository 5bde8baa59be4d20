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

// The lilpowerman daemon reads the system battery charge rate once per tick
// and publishes it, together with a frame rate readback line, into the OSD
// of a running overlay server. It degrades gracefully when the server is
// absent: every publish failure is logged and the next tick retries from
// scratch.
package main

import (
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/Samarkin/LilPowerMan/internal/battery"
	"github.com/Samarkin/LilPowerMan/internal/logging"
	"github.com/Samarkin/LilPowerMan/internal/powerlimit"
	"github.com/Samarkin/LilPowerMan/internal/rtss"
	"github.com/Samarkin/LilPowerMan/internal/settings"
)

func main() {
	os.Exit(run())
}

func run() int {
	debug := flag.Bool("debug", false, "enable debug logging")
	segment := flag.String("segment", rtss.DefaultSegmentPath(), "path of the overlay server's shared memory object")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	_, logCloser, err := logging.Setup(os.TempDir(), level)
	if err != nil {
		// No log file is not a reason to refuse to run.
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		slog.Warn("failed to set up file logging", "err", err)
	} else {
		defer logCloser.Close()
	}
	slog.Info("application startup")

	release, err := acquireInstanceLock(filepath.Join(os.TempDir(), "lilpowerman.lock"))
	if err != nil {
		if errors.Is(err, errAlreadyRunning) {
			slog.Info("another instance found, shutting down")
		} else {
			slog.Error("failed to acquire instance lock", "err", err)
		}
		return 1
	}
	defer release()

	cfg := loadSettings()

	if cfg.PowerLimitWatts > 0 {
		applyPowerLimit(cfg.PowerLimitWatts)
	}

	bat, err := battery.Find(battery.DefaultRoot)
	if err != nil {
		slog.Error("failed to find a system battery", "err", err)
		return 1
	}
	slog.Info("watching battery", "name", bat.Name())

	client := rtss.NewClient()
	client.Path = *segment
	client.FramerateGraph = cfg.OSDGraph
	defer client.Close()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	ticker := time.NewTicker(time.Duration(cfg.TickSeconds) * time.Second)
	defer ticker.Stop()

	pub := publisher{client: client, bat: bat, enabled: cfg.OSDEnabled}
	pub.tick()
	for {
		select {
		case <-ticker.C:
			pub.tick()
		case sig := <-stop:
			slog.Info("graceful shutdown", "signal", sig.String())
			return 0
		}
	}
}

// publisher runs one measurement-and-publish cycle per tick. Every failure
// is non-fatal: log and let the next tick retry.
type publisher struct {
	client  *rtss.Client
	bat     *battery.Battery
	enabled bool

	warnedVersion string
}

func (p *publisher) tick() {
	status, err := p.bat.Status()
	if err != nil {
		slog.Warn("failed to read battery status", "err", err)
		return
	}
	slog.Debug("battery status", "rate_mw", status.ChargeRate, "capacity_mwh", status.Capacity)
	if !p.enabled {
		return
	}
	err = p.client.Update(rtss.Measurement{
		ChargeRate: status.ChargeRate,
		Capacity:   status.Capacity,
	})
	var verr *rtss.VersionError
	switch {
	case err == nil:
	case errors.Is(err, rtss.ErrNotRunning):
		slog.Debug("overlay server is not running, skipping publish")
	case errors.As(err, &verr):
		if verr.Version != p.warnedVersion {
			slog.Warn("overlay server version is not supported", "version", verr.Version)
			p.warnedVersion = verr.Version
		}
	default:
		slog.Warn("failed to publish to the OSD", "err", err)
	}
}

func loadSettings() settings.Settings {
	path := settingsPath()
	cfg, err := settings.Load(path)
	if err != nil {
		slog.Warn("failed to load settings, using defaults", "err", err)
		return cfg
	}
	if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
		if saveErr := cfg.Save(path); saveErr != nil {
			slog.Warn("failed to persist default settings", "err", saveErr)
		}
	}
	return cfg
}

func settingsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "lilpowerman", "settings.json")
}

func applyPowerLimit(watts float64) {
	ctrl, err := powerlimit.Open(powerlimit.DefaultRoot)
	if err != nil {
		slog.Warn("CPU power limit control is unavailable", "err", err)
		return
	}
	if err := ctrl.SetSustained(watts); err != nil {
		slog.Warn("failed to apply CPU power limit", "watts", watts, "err", err)
		return
	}
	slog.Info("applied CPU power limit", "watts", watts)
}
