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
	"fmt"
	"log/slog"
)

// Measurement is the telemetry published into the OSD on one tick.
type Measurement struct {
	// ChargeRate is the battery charge rate in milliwatts, negative while
	// the battery is draining.
	ChargeRate int32
	// Capacity is the remaining battery capacity in milliwatt-hours, used
	// to estimate time to empty while draining.
	Capacity uint32
}

// Client publishes measurements into the overlay server's OSD. Every Update
// call runs one full open, validate, lock, scan, write, unlock, unmap cycle;
// no handle survives between calls, which is what makes the client resilient
// to the server restarting or upgrading between ticks. The only state that
// outlives a cycle is whether any update ever succeeded, consulted once at
// teardown to decide whether a release is owed.
type Client struct {
	// Path locates the segment object. NewClient fills in the default.
	Path string
	// FramerateGraph embeds a server-rendered average framerate graph into
	// the claimed slot alongside the text.
	FramerateGraph bool

	everUpdated bool
}

// NewClient returns a client publishing to the well-known segment.
func NewClient() *Client {
	return &Client{Path: DefaultSegmentPath()}
}

// Update publishes the measurement, claiming an OSD slot if this client does
// not hold one yet. Every returned error is non-fatal: the caller logs it
// and simply skips this tick's publish.
func (c *Client) Update(m Measurement) error {
	seg, err := openSegment(c.Path)
	if err != nil {
		return err
	}
	defer seg.Close()
	v, err := mapSegment(seg)
	if err != nil {
		return err
	}
	defer v.Close()

	var b builder
	b.addText(fmt.Sprintf("%d.%03d%sW%s",
		m.ChargeRate/1000, abs32(m.ChargeRate%1000), MarkupSizeBegin, MarkupSizeEnd))
	if m.ChargeRate < 0 {
		// draining
		mins := int64(-60.0 * (float64(m.Capacity) / float64(m.ChargeRate)))
		b.addText(fmt.Sprintf(" %d%smins%s", mins, MarkupSizeBegin, MarkupSizeEnd))
	} else {
		b.addText(" (on charger)")
	}
	b.addNewline().addText(MarkupFramerate + MarkupSizeBegin + "FPS" + MarkupSizeEnd)
	if c.FramerateGraph {
		b.addGraph(&Graph{
			Width:  50,
			Height: 15,
			Flags:  GraphFlagFramerate | GraphFlagFramerateAvg,
			Min:    0,
			Max:    60,
		})
	}
	if err := b.write(v); err != nil {
		return err
	}
	c.everUpdated = true
	return nil
}

// Close releases the claimed slot if any update ever succeeded. Errors are
// logged and swallowed: teardown must never abort process shutdown, and the
// server being gone already means there is nothing left to release.
func (c *Client) Close() {
	if !c.everUpdated {
		return
	}
	if err := c.unregister(); err != nil && !errors.Is(err, ErrNotRunning) {
		slog.Error("failed to unregister from the OSD shared memory", "err", err)
	}
}

func (c *Client) unregister() error {
	seg, err := openSegment(c.Path)
	if err != nil {
		return err
	}
	defer seg.Close()
	v, err := mapSegment(seg)
	if err != nil {
		return err
	}
	defer v.Close()
	return v.clearOwnSlots()
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
