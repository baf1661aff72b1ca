// SPDX-License-Identifier: EPL-2.0

// Package devicetest provides an output device that records what is
// committed to it, for tests of the sound core.
package devicetest

import (
	"fmt"
	"sync"

	"github.com/ik5/soundcore/audio"
	"github.com/ik5/soundcore/device"
)

// Recorder keeps every committed frame in memory. It is never full, so each
// mixing pass renders a whole period.
type Recorder struct {
	mtx sync.Mutex

	cfg       device.Config
	buf       []byte
	data      []byte
	commits   int
	volume    float32
	hwVolume  bool
	suspended bool
	open      bool
	closed    bool
	forks     []device.ForkState
	failOpen  error
	limit     int
}

// NewRecorder returns a recorder without a hardware volume control.
func NewRecorder() *Recorder { return &Recorder{volume: 1, limit: -1} }

// WithVolume makes the recorder report a hardware volume control.
func (r *Recorder) WithVolume() *Recorder {
	r.hwVolume = true
	return r
}

// FailOpen makes Open return err.
func (r *Recorder) FailOpen(err error) *Recorder {
	r.failOpen = err
	return r
}

// Limit caps the frames GetBuffer offers in total. A negative n removes the
// cap.
func (r *Recorder) Limit(n int) {
	r.mtx.Lock()
	r.limit = n
	r.mtx.Unlock()
}

func (r *Recorder) Probe() error { return nil }

func (r *Recorder) Open(cfg device.Config) (device.Info, error) {
	if r.failOpen != nil {
		return device.Info{}, r.failOpen
	}

	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.cfg = cfg
	r.buf = make([]byte, cfg.PeriodFrames*cfg.BytesPerFrame())
	r.open = true

	caps := device.CapSuspend
	if r.hwVolume {
		caps |= device.CapVolume
	}
	return device.Info{Name: "Recorder", Driver: "recorder", Caps: caps, Config: cfg}, nil
}

func (r *Recorder) GetBuffer() ([]byte, int, error) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	if !r.open {
		return nil, 0, fmt.Errorf("recorder: not open: %w", audio.ErrInvalidArgument)
	}
	frames := r.cfg.PeriodFrames
	if r.limit >= 0 {
		frames = min(frames, r.limit)
	}
	return r.buf, frames, nil
}

func (r *Recorder) CommitBuffer(frames int) error {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	if frames < 0 || frames > r.cfg.PeriodFrames {
		return fmt.Errorf("recorder: commit of %d frames: %w", frames, audio.ErrInvalidArgument)
	}
	r.data = append(r.data, r.buf[:frames*r.cfg.BytesPerFrame()]...)
	r.commits++
	if r.limit > 0 {
		r.limit = max(r.limit-frames, 0)
	}
	return nil
}

func (r *Recorder) OutputDelay() int { return 0 }

func (r *Recorder) Volume() (float32, error) {
	if !r.hwVolume {
		return 0, fmt.Errorf("recorder: volume: %w", audio.ErrUnsupported)
	}
	r.mtx.Lock()
	defer r.mtx.Unlock()
	return r.volume, nil
}

func (r *Recorder) SetVolume(v float32) error {
	if !r.hwVolume {
		return fmt.Errorf("recorder: volume: %w", audio.ErrUnsupported)
	}
	r.mtx.Lock()
	r.volume = v
	r.mtx.Unlock()
	return nil
}

func (r *Recorder) Suspend() error {
	r.mtx.Lock()
	r.suspended = true
	r.mtx.Unlock()
	return nil
}

func (r *Recorder) Resume() error {
	r.mtx.Lock()
	r.suspended = false
	r.mtx.Unlock()
	return nil
}

func (r *Recorder) HandleFork(_ device.ForkAction, state device.ForkState) {
	r.mtx.Lock()
	r.forks = append(r.forks, state)
	r.mtx.Unlock()
}

func (r *Recorder) Close() error {
	r.mtx.Lock()
	r.open = false
	r.closed = true
	r.mtx.Unlock()
	return nil
}

// Bytes returns a copy of everything committed.
func (r *Recorder) Bytes() []byte {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	return append([]byte(nil), r.data...)
}

// Frames returns the number of committed frames.
func (r *Recorder) Frames() int {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	if r.cfg.BytesPerFrame() == 0 {
		return 0
	}
	return len(r.data) / r.cfg.BytesPerFrame()
}

func (r *Recorder) Commits() int {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	return r.commits
}

func (r *Recorder) Suspended() bool {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	return r.suspended
}

func (r *Recorder) Closed() bool {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	return r.closed
}

// Forks returns the fork states reported so far.
func (r *Recorder) Forks() []device.ForkState {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	return append([]device.ForkState(nil), r.forks...)
}

// Reset drops the recorded data.
func (r *Recorder) Reset() {
	r.mtx.Lock()
	r.data = r.data[:0]
	r.commits = 0
	r.mtx.Unlock()
}
