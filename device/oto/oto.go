// SPDX-License-Identifier: EPL-2.0

// Package oto registers a backend playing through github.com/ebitengine/oto/v3.
// It is the preferred backend when the platform has an audio output.
//
// oto allows one context per process, so the first Open fixes the rate and
// sample layout; later opens are negotiated to it.
package oto

import (
	"fmt"
	"sync"
	"time"

	otov3 "github.com/ebitengine/oto/v3"

	"github.com/ik5/soundcore/audio"
	"github.com/ik5/soundcore/device"
)

const Name = "oto"

func init() {
	device.Register(Name, 100, func() device.Device { return New() })
}

var (
	ctxOnce   sync.Once
	ctxShared *otov3.Context
	ctxConfig device.Config
	ctxErr    error
)

// negotiate maps cfg onto what oto can play.
func negotiate(cfg device.Config) device.Config {
	switch cfg.Format {
	case audio.FormatS24, audio.FormatS32:
		cfg.Format = audio.FormatS16
	}
	if cfg.Mode.Channels() > 2 {
		cfg.Mode = audio.ModeStereo
	}
	return cfg
}

func otoFormat(f audio.SampleFormat) otov3.Format {
	switch f {
	case audio.FormatU8:
		return otov3.FormatUnsignedInt8
	case audio.FormatFloat:
		return otov3.FormatFloat32LE
	}
	return otov3.FormatSignedInt16LE
}

func silence(f audio.SampleFormat) byte {
	if f == audio.FormatU8 {
		return 0x80
	}
	return 0
}

// sharedContext returns the process wide oto context, creating it for cfg.
func sharedContext(cfg device.Config) (*otov3.Context, device.Config, error) {
	ctxOnce.Do(func() {
		latency := time.Duration(cfg.PeriodFrames*cfg.Periods) * time.Second / time.Duration(cfg.Rate)

		ctx, ready, err := otov3.NewContext(&otov3.NewContextOptions{
			SampleRate:   cfg.Rate,
			ChannelCount: cfg.Mode.Channels(),
			Format:       otoFormat(cfg.Format),
			BufferSize:   latency,
		})
		if err != nil {
			ctxErr = fmt.Errorf("oto: new context: %w", err)
			return
		}
		<-ready
		ctxShared, ctxConfig = ctx, cfg
	})
	if ctxErr != nil {
		return nil, device.Config{}, ctxErr
	}

	cfg.Rate = ctxConfig.Rate
	cfg.Mode = ctxConfig.Mode
	cfg.Format = ctxConfig.Format
	return ctxShared, cfg, nil
}

// Device plays committed periods through an oto player.
type Device struct {
	mtx    sync.Mutex
	cfg    device.Config
	ctx    *otov3.Context
	player *otov3.Player
	queue  *ring
	buf    []byte
}

func New() *Device { return &Device{} }

func (d *Device) Probe() error { return nil }

func (d *Device) Open(cfg device.Config) (device.Info, error) {
	d.mtx.Lock()
	defer d.mtx.Unlock()

	if d.player != nil {
		return device.Info{}, fmt.Errorf("oto: already open: %w", audio.ErrBusy)
	}

	ctx, cfg, err := sharedContext(negotiate(cfg))
	if err != nil {
		return device.Info{}, err
	}

	bpf := cfg.BytesPerFrame()
	d.cfg, d.ctx = cfg, ctx
	d.buf = make([]byte, cfg.PeriodFrames*bpf)
	d.queue = newRing(cfg.PeriodFrames*cfg.Periods*bpf, silence(cfg.Format))
	d.player = ctx.NewPlayer(d.queue)
	d.player.SetBufferSize(cfg.PeriodFrames * bpf)
	d.player.Play()

	return device.Info{
		Name:   "oto",
		Driver: Name,
		Caps:   device.CapVolume | device.CapSuspend,
		Config: cfg,
	}, nil
}

func (d *Device) GetBuffer() ([]byte, int, error) {
	d.mtx.Lock()
	defer d.mtx.Unlock()

	if d.player == nil {
		return nil, 0, fmt.Errorf("oto: not open: %w", audio.ErrInvalidArgument)
	}
	return d.buf, min(d.cfg.PeriodFrames, d.queue.free()/d.cfg.BytesPerFrame()), nil
}

func (d *Device) CommitBuffer(frames int) error {
	d.mtx.Lock()
	defer d.mtx.Unlock()

	if d.player == nil {
		return fmt.Errorf("oto: not open: %w", audio.ErrInvalidArgument)
	}
	if frames < 0 || frames > d.cfg.PeriodFrames {
		return fmt.Errorf("oto: commit of %d frames: %w", frames, audio.ErrInvalidArgument)
	}

	size := frames * d.cfg.BytesPerFrame()
	if n := d.queue.write(d.buf[:size]); n < size {
		device.Log().Warnf("oto: queue overflow, dropped %d bytes", size-n)
	}
	return nil
}

func (d *Device) OutputDelay() int {
	d.mtx.Lock()
	defer d.mtx.Unlock()

	if d.player == nil {
		return 0
	}
	return (d.queue.queued() + d.player.BufferedSize()) / d.cfg.BytesPerFrame()
}

func (d *Device) Volume() (float32, error) {
	d.mtx.Lock()
	defer d.mtx.Unlock()

	if d.player == nil {
		return 0, fmt.Errorf("oto: not open: %w", audio.ErrInvalidArgument)
	}
	return float32(d.player.Volume()), nil
}

func (d *Device) SetVolume(v float32) error {
	d.mtx.Lock()
	defer d.mtx.Unlock()

	if d.player == nil {
		return fmt.Errorf("oto: not open: %w", audio.ErrInvalidArgument)
	}
	d.player.SetVolume(float64(v))
	return nil
}

func (d *Device) Suspend() error {
	d.mtx.Lock()
	defer d.mtx.Unlock()

	if d.ctx == nil {
		return nil
	}
	if err := d.ctx.Suspend(); err != nil {
		return fmt.Errorf("oto: suspend: %w", err)
	}
	return nil
}

func (d *Device) Resume() error {
	d.mtx.Lock()
	defer d.mtx.Unlock()

	if d.ctx == nil {
		return nil
	}
	if err := d.ctx.Resume(); err != nil {
		return fmt.Errorf("oto: resume: %w", err)
	}
	return nil
}

// HandleFork is a no-op: the oto context lives in the process that created
// it and a child never touches it.
func (d *Device) HandleFork(device.ForkAction, device.ForkState) {}

// Close stops the player. The shared context stays alive for later opens.
func (d *Device) Close() error {
	d.mtx.Lock()
	defer d.mtx.Unlock()

	if d.player == nil {
		return nil
	}
	err := d.player.Close()
	d.player = nil
	d.queue.reset()
	if err != nil {
		return fmt.Errorf("oto: close: %w", err)
	}
	return nil
}
