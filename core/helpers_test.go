// SPDX-License-Identifier: EPL-2.0

package core

import (
	"encoding/binary"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ik5/soundcore/audio"
	"github.com/ik5/soundcore/device"
	"github.com/ik5/soundcore/fusion"
	"github.com/ik5/soundcore/internal/devicetest"
	"github.com/ik5/soundcore/mix"
)

const testRate = 44100

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.PoolSize = 1 << 20
	cfg.Dither = false
	cfg.Device = device.Config{
		Rate:         testRate,
		Mode:         audio.ModeMono,
		Format:       audio.FormatS16,
		PeriodFrames: 1024,
		Periods:      2,
	}
	return cfg
}

func newTestCore(t *testing.T, cfg Config, rec *devicetest.Recorder) *Core {
	t.Helper()

	if rec == nil {
		rec = devicetest.NewRecorder()
	}
	c, err := NewWithDevice(cfg, rec)
	require.NoError(t, err)
	t.Cleanup(func() { c.Shutdown(true) })
	return c
}

// constBuffer creates a mono S16 buffer holding value in every frame.
func constBuffer(t *testing.T, c *Core, owner *fusion.Owner, frames int, value int16) *Buffer {
	t.Helper()

	b, err := c.CreateBuffer(owner, frames, audio.ModeMono, audio.FormatS16, testRate)
	require.NoError(t, err)

	data, err := b.Lock(0, 0)
	require.NoError(t, err)
	for i := 0; i < frames; i++ {
		binary.LittleEndian.PutUint16(data[2*i:], uint16(value))
	}
	b.Unlock()
	return b
}

func samplesS16(data []byte) []int16 {
	out := make([]int16, len(data)/2)
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(data[2*i:]))
	}
	return out
}

func allEqual(samples []int16, v int16) bool {
	for _, s := range samples {
		if s != v {
			return false
		}
	}
	return true
}

// noteLog collects notifications.
type noteLog struct {
	mtx   sync.Mutex
	notes []Notification
}

func (l *noteLog) listen(n Notification) fusion.Result {
	l.mtx.Lock()
	l.notes = append(l.notes, n)
	l.mtx.Unlock()
	return fusion.RSOk
}

func (l *noteLog) all() []Notification {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	return append([]Notification(nil), l.notes...)
}

func (l *noteLog) last() Notification {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	if len(l.notes) == 0 {
		return Notification{}
	}
	return l.notes[len(l.notes)-1]
}

func unity() *mix.Gains {
	g := mix.UnityGains()
	return &g
}
