// SPDX-License-Identifier: EPL-2.0

// Package device defines the output sink contract of the sound core and a
// registry of backends. Backends live in sub packages and register
// themselves from init, so programs select them with a blank import:
//
//	import _ "github.com/ik5/soundcore/device/oto"
package device

import (
	"fmt"

	"github.com/ik5/soundcore/audio"
)

// Config is the stream configuration requested from a backend.
type Config struct {
	Rate         int
	Mode         audio.ChannelMode
	Format       audio.SampleFormat
	PeriodFrames int
	Periods      int
}

func DefaultConfig() Config {
	return Config{
		Rate:         48000,
		Mode:         audio.ModeStereo,
		Format:       audio.FormatS16,
		PeriodFrames: 1024,
		Periods:      2,
	}
}

func (c Config) Validate() error {
	switch {
	case c.Rate <= 0:
		return fmt.Errorf("device: rate %d: %w", c.Rate, audio.ErrInvalidArgument)
	case !c.Mode.Valid():
		return fmt.Errorf("device: mode %s: %w", c.Mode, audio.ErrInvalidArgument)
	case !c.Format.Valid():
		return fmt.Errorf("device: format %s: %w", c.Format, audio.ErrInvalidArgument)
	case c.PeriodFrames <= 0:
		return fmt.Errorf("device: period frames %d: %w", c.PeriodFrames, audio.ErrInvalidArgument)
	case c.Periods <= 0:
		return fmt.Errorf("device: periods %d: %w", c.Periods, audio.ErrInvalidArgument)
	}
	return nil
}

// BytesPerFrame of the configured stream.
func (c Config) BytesPerFrame() int { return audio.BytesPerFrame(c.Format, c.Mode) }

// Caps lists optional features of a backend.
type Caps int

const (
	CapVolume Caps = 1 << iota
	CapSuspend
)

// Info describes an opened device. Config holds the negotiated stream
// parameters, which may differ from the request.
type Info struct {
	Name   string
	Driver string
	Caps   Caps
	Config Config
}

// ForkAction tells a backend what to do with its resources across fork.
type ForkAction int

const (
	ForkNone ForkAction = iota
	ForkClose
)

// ForkState is the phase of a fork being reported.
type ForkState int

const (
	ForkPrepare ForkState = iota
	ForkParent
	ForkChild
)

// Device is an output sink. The audio thread calls GetBuffer, fills up to
// the returned number of frames and commits what it produced.
type Device interface {
	// Probe reports audio.ErrUnsupported when the backend cannot run here.
	Probe() error
	Open(cfg Config) (Info, error)
	// GetBuffer returns memory for up to frames frames. frames may be zero
	// when the device has no room yet.
	GetBuffer() (buf []byte, frames int, err error)
	CommitBuffer(frames int) error
	// OutputDelay is the number of committed frames not yet audible.
	OutputDelay() int
	Volume() (float32, error)
	SetVolume(level float32) error
	Suspend() error
	Resume() error
	HandleFork(action ForkAction, state ForkState)
	Close() error
}
