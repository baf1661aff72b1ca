// SPDX-License-Identifier: EPL-2.0

package soundcore

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ik5/soundcore/audio"
	"github.com/ik5/soundcore/core"
	"github.com/ik5/soundcore/device"
	"github.com/ik5/soundcore/internal/audiotest"
	"github.com/ik5/soundcore/internal/devicetest"
	"github.com/ik5/soundcore/sound"
)

const testRate = 8000

func newTestSound(t *testing.T) (*sound.Sound, *devicetest.Recorder) {
	t.Helper()

	cfg := core.DefaultConfig()
	cfg.PoolSize = 4 << 20
	cfg.Dither = false
	cfg.Device = device.Config{
		Rate:         testRate,
		Mode:         audio.ModeMono,
		Format:       audio.FormatS16,
		PeriodFrames: 256,
		Periods:      2,
	}

	rec := devicetest.NewRecorder()
	c, err := core.NewWithDevice(cfg, rec)
	require.NoError(t, err)
	t.Cleanup(func() { c.Shutdown(true) })

	s := sound.New(c)
	t.Cleanup(s.Close)
	return s, rec
}

func samplesS16(data []byte) []int16 {
	out := make([]int16, len(data)/2)
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(data[2*i:]))
	}
	return out
}

func count(samples []int16, v int16) int {
	n := 0
	for _, s := range samples {
		if s == v {
			n++
		}
	}
	return n
}

func audioConst(frames int) *audiotest.MockSource {
	return audiotest.NewConstantSource(testRate, 1, frames, 0.5)
}
