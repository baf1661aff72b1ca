// SPDX-License-Identifier: EPL-2.0

// Package wavfile registers a backend that records the session output into
// a WAV file at the nominal rate. The file is named by the SOUNDCORE_WAVFILE
// environment variable; without it the backend does not probe.
package wavfile

import (
	"fmt"
	"os"

	"github.com/ik5/soundcore/audio"
	"github.com/ik5/soundcore/device"
	"github.com/ik5/soundcore/formats/wav"
)

const (
	Name = "wavfile"
	// EnvPath names the environment variable holding the output path.
	EnvPath = "SOUNDCORE_WAVFILE"
)

func init() {
	device.Register(Name, 10, func() device.Device { return New() })
}

// Device writes committed periods to a WAV file.
type Device struct {
	path  string
	cfg   device.Config
	file  *os.File
	enc   *wav.Encoder
	buf   []byte
	clock *device.Clock
}

// New returns a device writing to the file named by EnvPath.
func New() *Device { return NewFile(os.Getenv(EnvPath)) }

// NewFile returns a device writing to path.
func NewFile(path string) *Device { return &Device{path: path} }

func (d *Device) Probe() error {
	if d.path == "" {
		return fmt.Errorf("wavfile: %s not set: %w", EnvPath, audio.ErrUnsupported)
	}
	return nil
}

// Open creates the file. U8 and float streams are recorded as S16.
func (d *Device) Open(cfg device.Config) (device.Info, error) {
	if err := d.Probe(); err != nil {
		return device.Info{}, err
	}
	if d.file != nil {
		return device.Info{}, fmt.Errorf("wavfile: %s already open: %w", d.path, audio.ErrBusy)
	}

	switch cfg.Format {
	case audio.FormatU8, audio.FormatFloat:
		cfg.Format = audio.FormatS16
	}

	f, err := os.Create(d.path)
	if err != nil {
		return device.Info{}, fmt.Errorf("wavfile: %w", err)
	}
	enc, err := wav.NewEncoder(f, cfg.Rate, cfg.Mode.Channels(), cfg.Format)
	if err != nil {
		f.Close()
		return device.Info{}, fmt.Errorf("wavfile: %w", err)
	}

	d.cfg, d.file, d.enc = cfg, f, enc
	d.buf = make([]byte, cfg.PeriodFrames*cfg.BytesPerFrame())
	d.clock = device.NewClock(cfg.Rate, cfg.PeriodFrames*cfg.Periods)

	device.Log().Debugf("Recording to %s", d.path)
	return device.Info{Name: d.path, Driver: Name, Caps: device.CapSuspend, Config: cfg}, nil
}

func (d *Device) GetBuffer() ([]byte, int, error) {
	if d.enc == nil {
		return nil, 0, fmt.Errorf("wavfile: not open: %w", audio.ErrInvalidArgument)
	}
	return d.buf, min(d.cfg.PeriodFrames, d.clock.Free()), nil
}

func (d *Device) CommitBuffer(frames int) error {
	if d.enc == nil {
		return fmt.Errorf("wavfile: not open: %w", audio.ErrInvalidArgument)
	}
	if frames < 0 || frames > d.cfg.PeriodFrames {
		return fmt.Errorf("wavfile: commit of %d frames: %w", frames, audio.ErrInvalidArgument)
	}
	if err := d.enc.WritePCM(d.buf[:frames*d.cfg.BytesPerFrame()]); err != nil {
		return fmt.Errorf("wavfile: %w", err)
	}
	d.clock.Commit(frames)
	return nil
}

func (d *Device) OutputDelay() int {
	if d.clock == nil {
		return 0
	}
	return d.clock.Queued()
}

func (d *Device) Volume() (float32, error) {
	return 0, fmt.Errorf("wavfile: volume: %w", audio.ErrUnsupported)
}

func (d *Device) SetVolume(float32) error {
	return fmt.Errorf("wavfile: volume: %w", audio.ErrUnsupported)
}

func (d *Device) Suspend() error {
	if d.clock != nil {
		d.clock.Suspend()
	}
	return nil
}

func (d *Device) Resume() error {
	if d.clock != nil {
		d.clock.Resume()
	}
	return nil
}

// HandleFork drops the file in a child that must not share it. The parent
// keeps recording and finalises the header.
func (d *Device) HandleFork(action device.ForkAction, state device.ForkState) {
	if action != device.ForkClose || state != device.ForkChild || d.file == nil {
		return
	}
	d.file.Close()
	d.file, d.enc = nil, nil
}

// Frames returns the number of frames written.
func (d *Device) Frames() int {
	if d.enc == nil {
		return 0
	}
	return d.enc.Frames()
}

// Close finalises the WAV header and closes the file.
func (d *Device) Close() error {
	if d.file == nil {
		return nil
	}
	errEnc := d.enc.Close()
	errFile := d.file.Close()
	d.file, d.enc = nil, nil

	if errEnc != nil {
		return fmt.Errorf("wavfile: %w", errEnc)
	}
	if errFile != nil {
		return fmt.Errorf("wavfile: %w", errFile)
	}
	return nil
}
