// SPDX-License-Identifier: EPL-2.0

// Package null registers a backend that discards output at the nominal rate.
// It is the last resort of the probe order.
package null

import (
	"fmt"
	"sync/atomic"

	"github.com/ik5/soundcore/audio"
	"github.com/ik5/soundcore/device"
)

const Name = "null"

func init() {
	device.Register(Name, 0, func() device.Device { return New() })
}

// Device discards everything committed to it and counts frames.
type Device struct {
	cfg   device.Config
	buf   []byte
	clock *device.Clock
	open  bool

	frames  atomic.Int64
	commits atomic.Int64
}

func New() *Device { return &Device{} }

func (d *Device) Probe() error { return nil }

func (d *Device) Open(cfg device.Config) (device.Info, error) {
	if d.open {
		return device.Info{}, fmt.Errorf("null: already open: %w", audio.ErrBusy)
	}
	d.cfg = cfg
	d.buf = make([]byte, cfg.PeriodFrames*cfg.BytesPerFrame())
	d.clock = device.NewClock(cfg.Rate, cfg.PeriodFrames*cfg.Periods)
	d.open = true

	return device.Info{Name: "Null sink", Driver: Name, Caps: device.CapSuspend, Config: cfg}, nil
}

func (d *Device) GetBuffer() ([]byte, int, error) {
	return d.buf, min(d.cfg.PeriodFrames, d.clock.Free()), nil
}

func (d *Device) CommitBuffer(frames int) error {
	if frames < 0 || frames > d.cfg.PeriodFrames {
		return fmt.Errorf("null: commit of %d frames: %w", frames, audio.ErrInvalidArgument)
	}
	d.clock.Commit(frames)
	d.frames.Add(int64(frames))
	d.commits.Add(1)
	return nil
}

func (d *Device) OutputDelay() int { return d.clock.Queued() }

func (d *Device) Volume() (float32, error) {
	return 0, fmt.Errorf("null: volume: %w", audio.ErrUnsupported)
}

func (d *Device) SetVolume(float32) error {
	return fmt.Errorf("null: volume: %w", audio.ErrUnsupported)
}

func (d *Device) Suspend() error {
	d.clock.Suspend()
	return nil
}

func (d *Device) Resume() error {
	d.clock.Resume()
	return nil
}

func (d *Device) HandleFork(device.ForkAction, device.ForkState) {}

func (d *Device) Close() error {
	d.open = false
	return nil
}

// Frames returns the number of frames committed since Open.
func (d *Device) Frames() int64 { return d.frames.Load() }

// Commits returns the number of CommitBuffer calls.
func (d *Device) Commits() int64 { return d.commits.Load() }
