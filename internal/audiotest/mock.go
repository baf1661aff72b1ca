// SPDX-License-Identifier: EPL-2.0

// Package audiotest holds synthetic sources shared by the package tests.
package audiotest

import (
	"errors"
	"io"
	"math"
)

// Waveform returns the value of channel ch at frame.
type Waveform func(frame, ch int) float32

// MockSource generates a fixed number of frames from a Waveform. It satisfies
// audio.Source without importing it.
type MockSource struct {
	rate     int
	channels int
	frames   int
	pos      int
	wave     Waveform
	err      error // returned once pos reaches failAt
	failAt   int
	closed   bool
}

func NewMockSource(rate, channels, frames int, wave Waveform) *MockSource {
	return &MockSource{rate: rate, channels: channels, frames: frames, wave: wave, failAt: -1}
}

// NewSilentSource generates silence.
func NewSilentSource(rate, channels, frames int) *MockSource {
	return NewMockSource(rate, channels, frames, func(int, int) float32 { return 0 })
}

// NewSineSource generates the same sine tone on every channel.
func NewSineSource(rate, channels, frames int, freq float64) *MockSource {
	return NewMockSource(rate, channels, frames, func(frame, _ int) float32 {
		return float32(math.Sin(2 * math.Pi * freq * float64(frame) / float64(rate)))
	})
}

// NewConstantSource generates value on every channel.
func NewConstantSource(rate, channels, frames int, value float32) *MockSource {
	return NewMockSource(rate, channels, frames, func(int, int) float32 { return value })
}

// NewRampSource encodes the frame index into the signal: frame f channel c
// carries (f*channels+c)/32768, which round-trips exactly through 16 bit PCM
// for the first 32768 samples.
func NewRampSource(rate, channels, frames int) *MockSource {
	return NewMockSource(rate, channels, frames, func(frame, ch int) float32 {
		return float32(frame*channels+ch) / 32768
	})
}

// FailAfter makes ReadSamples return err once frame has been produced.
func (m *MockSource) FailAfter(frame int, err error) *MockSource {
	m.failAt, m.err = frame, err
	return m
}

func (m *MockSource) SampleRate() int { return m.rate }
func (m *MockSource) Channels() int   { return m.channels }
func (m *MockSource) BufSize() int    { return 4096 }

func (m *MockSource) Close() error {
	m.closed = true
	return nil
}

// Closed reports whether Close was called.
func (m *MockSource) Closed() bool { return m.closed }

// Reset rewinds to the first frame.
func (m *MockSource) Reset() { m.pos = 0 }

// Frames returns the total frame count.
func (m *MockSource) Frames() int { return m.frames }

func (m *MockSource) ReadSamples(dst []float32) (int, error) {
	if m.failAt >= 0 && m.pos >= m.failAt {
		return 0, m.err
	}
	if m.pos >= m.frames {
		return 0, io.EOF
	}

	n := min(len(dst)/m.channels, m.frames-m.pos)
	if m.failAt >= 0 {
		n = min(n, m.failAt-m.pos)
	}
	for f := 0; f < n; f++ {
		for c := 0; c < m.channels; c++ {
			dst[f*m.channels+c] = m.wave(m.pos+f, c)
		}
	}
	m.pos += n

	if m.pos >= m.frames {
		return n * m.channels, io.EOF
	}
	return n * m.channels, nil
}

// ErrInjected is a convenience error for FailAfter.
var ErrInjected = errors.New("audiotest: injected failure")
