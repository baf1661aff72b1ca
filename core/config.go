// SPDX-License-Identifier: EPL-2.0

package core

import (
	"fmt"

	"github.com/ik5/soundcore/audio"
	"github.com/ik5/soundcore/device"
	"github.com/ik5/soundcore/mix"
)

// Config sizes a session and selects its output.
type Config struct {
	// PoolSize is the size of the shared sample arena in bytes.
	PoolSize     int
	MaxBuffers   int
	MaxPlaybacks int

	Representation mix.Representation
	Dither         bool

	Device device.Config
	// DeviceName selects a backend; empty probes the registered ones.
	DeviceName string

	MasterVolume float32
	LocalVolume  float32
}

func DefaultConfig() Config {
	return Config{
		PoolSize:       16 << 20,
		MaxBuffers:     256,
		MaxPlaybacks:   256,
		Representation: mix.FloatRepresentation,
		Dither:         true,
		Device:         device.DefaultConfig(),
		MasterVolume:   1,
		LocalVolume:    1,
	}
}

func (c Config) Validate() error {
	switch {
	case c.PoolSize <= 0:
		return fmt.Errorf("core: pool size %d: %w", c.PoolSize, audio.ErrInvalidArgument)
	case c.MaxBuffers <= 0:
		return fmt.Errorf("core: max buffers %d: %w", c.MaxBuffers, audio.ErrInvalidArgument)
	case c.MaxPlaybacks <= 0:
		return fmt.Errorf("core: max playbacks %d: %w", c.MaxPlaybacks, audio.ErrInvalidArgument)
	case c.MasterVolume < 0 || c.MasterVolume > 1:
		return fmt.Errorf("core: master volume %v: %w", c.MasterVolume, audio.ErrInvalidArgument)
	case c.LocalVolume < 0 || c.LocalVolume > 1:
		return fmt.Errorf("core: local volume %v: %w", c.LocalVolume, audio.ErrInvalidArgument)
	}
	if _, err := mix.NewEngine(c.Representation); err != nil {
		return fmt.Errorf("core: %w", err)
	}
	return c.Device.Validate()
}
