// SPDX-License-Identifier: EPL-2.0

package mix

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ik5/soundcore/audio"
)

func allEngines(t *testing.T) map[string]Engine {
	t.Helper()

	out := make(map[string]Engine)
	for _, rep := range []Representation{FloatRepresentation, FixedRepresentation} {
		e, err := NewEngine(rep)
		require.NoError(t, err)
		out[rep.String()] = e
	}
	return out
}

// rampSource is a mono S16 buffer whose frame i holds i%32768.
func rampSource(length, rate int) *Source {
	data := make([]byte, 2*length)
	for i := range length {
		le.PutUint16(data[2*i:], uint16(int16(i%32768)))
	}
	return &Source{Data: data, Length: length, Format: audio.FormatS16, Mode: audio.ModeMono, Rate: rate}
}

func floatSource(mode audio.ChannelMode, frames [][]float32) *Source {
	ch := mode.Channels()
	samples := make([]float32, 0, len(frames)*ch)
	for _, f := range frames {
		samples = append(samples, f...)
	}
	data := make([]byte, 4*len(samples))
	EncodeFloat(data, audio.FormatFloat, samples)
	return &Source{Data: data, Length: len(frames), Format: audio.FormatFloat, Mode: mode, Rate: 48000}
}

func rampValue(frame int) float64 {
	return float64(frame%32768) / 32768
}
