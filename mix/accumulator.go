// SPDX-License-Identifier: EPL-2.0

package mix

import "github.com/ik5/soundcore/audio"

// Accumulator is the interleaved mixing destination for one period. Only the
// slice of the engine's representation is allocated. An accumulator must not
// be mixed into from two goroutines at once.
type Accumulator struct {
	mode     audio.ChannelMode
	channels int
	frames   int
	f        []Float
	x        []Fixed

	fcall mixCall[Float]
	xcall mixCall[Fixed]
}

func (a *Accumulator) Mode() audio.ChannelMode { return a.mode }
func (a *Accumulator) Channels() int           { return a.channels }

// Frames returns the capacity in frames.
func (a *Accumulator) Frames() int { return a.frames }

// Clear zeroes the accumulator.
func (a *Accumulator) Clear() {
	clear(a.f)
	clear(a.x)
}

// Float returns sample ch of frame as a normalised value, whatever the
// representation.
func (a *Accumulator) Float(frame, ch int) float64 {
	i := frame*a.channels + ch
	if a.f != nil {
		return float64(a.f[i])
	}
	return float64(a.x[i]) / (1 << FixedFracBits)
}
