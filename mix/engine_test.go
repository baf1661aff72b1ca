// SPDX-License-Identifier: EPL-2.0

package mix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ik5/soundcore/audio"
)

func TestNewEngine_Invalid(t *testing.T) {
	t.Parallel()

	_, err := NewEngine(Representation(7))
	assert.ErrorIs(t, err, audio.ErrInvalidArgument)
}

func TestMixTo_Scenarios(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		pos, stop int
		frames    int
		wantPos   int
		written   int
		empty     bool
	}{
		{"unit pitch half buffer", 0, -1, 8192, 8192, 8192, false},
		{"wrap around end", 16000, -1, 1000, 616, 1000, false},
		{"stop point reached", 0, 100, 200, 100, 100, true},
	}

	for name, e := range allEngines(t) {
		for _, tt := range tests {
			t.Run(name+"/"+tt.name, func(t *testing.T) {
				t.Parallel()

				src := rampSource(16384, 44100)
				acc := e.NewAccumulator(audio.ModeStereo, 8192)
				g := UnityGains()

				res, err := e.MixTo(acc, src, &Params{
					Pos: tt.pos, Stop: tt.stop, Pitch: PitchOne,
					MaxFrames: tt.frames, DestRate: 44100, Gains: &g,
				})
				if tt.empty {
					assert.ErrorIs(t, err, audio.ErrBufferEmpty)
				} else {
					assert.NoError(t, err)
				}
				assert.Equal(t, tt.wantPos, res.Pos)
				assert.Equal(t, tt.written, res.Written)
				assert.Equal(t, tt.written, res.Consumed)
				assert.Equal(t, tt.empty, res.Last)

				for n := 0; n < res.Written; n += 97 {
					want := rampValue((tt.pos + n) % 16384)
					assert.InDelta(t, want, acc.Float(n, 0), 1e-6, "frame %d", n)
					assert.InDelta(t, want, acc.Float(n, 1), 1e-6, "frame %d", n)
				}
				if res.Written < acc.Frames() {
					assert.Zero(t, acc.Float(res.Written, 0), "frames past the stop stay untouched")
				}
			})
		}
	}
}

func TestMixTo_Backward(t *testing.T) {
	t.Parallel()

	for name, e := range allEngines(t) {
		t.Run(name, func(t *testing.T) {
			src := rampSource(10, 8000)
			acc := e.NewAccumulator(audio.ModeMono, 20)
			g := UnityGains()

			res, err := e.MixTo(acc, src, &Params{
				Pos: 9, Stop: 4, Pitch: -PitchOne, MaxFrames: 20, DestRate: 8000, Gains: &g,
			})
			require.ErrorIs(t, err, audio.ErrBufferEmpty)
			assert.Equal(t, 5, res.Written)
			assert.Equal(t, 4, res.Pos)

			for n, frame := range []int{9, 8, 7, 6, 5} {
				assert.InDelta(t, rampValue(frame), acc.Float(n, 0), 1e-6)
			}
		})
	}
}

func TestMixTo_BackwardWrap(t *testing.T) {
	t.Parallel()

	for name, e := range allEngines(t) {
		t.Run(name, func(t *testing.T) {
			src := rampSource(10, 8000)
			acc := e.NewAccumulator(audio.ModeMono, 5)
			g := UnityGains()

			res, err := e.MixTo(acc, src, &Params{
				Pos: 2, Stop: -1, Pitch: -PitchOne, MaxFrames: 5, DestRate: 8000, Gains: &g,
			})
			require.NoError(t, err)
			assert.Equal(t, 7, res.Pos)
			for n, frame := range []int{2, 1, 0, 9, 8} {
				assert.InDelta(t, rampValue(frame), acc.Float(n, 0), 1e-6)
			}
		})
	}
}

func TestMixTo_BackwardCycle(t *testing.T) {
	t.Parallel()

	e, err := NewEngine(FloatRepresentation)
	require.NoError(t, err)
	src := rampSource(10, 8000)
	acc := e.NewAccumulator(audio.ModeMono, 32)
	g := UnityGains()

	// stop equal to the position means one full cycle
	res, err := e.MixTo(acc, src, &Params{
		Pos: 3, Stop: 3, Pitch: -PitchOne, MaxFrames: 32, DestRate: 8000, Gains: &g,
	})
	require.ErrorIs(t, err, audio.ErrBufferEmpty)
	assert.Equal(t, 10, res.Written)
	assert.Equal(t, 3, res.Pos)
}

func TestMixTo_ForwardCycle(t *testing.T) {
	t.Parallel()

	for name, e := range allEngines(t) {
		t.Run(name, func(t *testing.T) {
			src := rampSource(100, 8000)
			acc := e.NewAccumulator(audio.ModeMono, 150)
			g := UnityGains()

			res, err := e.MixTo(acc, src, &Params{
				Pos: 0, Stop: 0, Pitch: PitchOne, MaxFrames: 150, DestRate: 8000, Gains: &g,
			})
			require.ErrorIs(t, err, audio.ErrBufferEmpty)
			assert.Equal(t, 100, res.Written)
			assert.Equal(t, 0, res.Pos)
		})
	}
}

func TestMixTo_WrapIdempotence(t *testing.T) {
	t.Parallel()

	for name, e := range allEngines(t) {
		t.Run(name, func(t *testing.T) {
			const length, period = 1000, 250
			src := rampSource(length, 48000)
			acc := e.NewAccumulator(audio.ModeStereo, period)
			g := UnityGains()

			for _, start := range []int{0, 17, 999} {
				pos := start
				for range 3 * length / period {
					acc.Clear()
					res, err := e.MixTo(acc, src, &Params{
						Pos: pos, Stop: -1, Pitch: PitchOne, MaxFrames: period, DestRate: 48000, Gains: &g,
					})
					require.NoError(t, err)
					pos = res.Pos
				}
				assert.Equal(t, start, pos)
			}
		})
	}
}

func TestMixTo_LoopingNeverEmpty(t *testing.T) {
	t.Parallel()

	for name, e := range allEngines(t) {
		t.Run(name, func(t *testing.T) {
			src := rampSource(16384, 44100)
			acc := e.NewAccumulator(audio.ModeStereo, 4096)
			g := UnityGains()

			pos := 0
			for _, pitch := range []int{PitchOne, 3 * PitchOne, -2 * PitchOne, PitchOne / 3} {
				for range 200 {
					acc.Clear()
					res, err := e.MixTo(acc, src, &Params{
						Pos: pos, Stop: -1, Pitch: pitch, MaxFrames: 4096, DestRate: 44100, Gains: &g,
					})
					require.NoError(t, err)
					require.False(t, res.Last)
					require.GreaterOrEqual(t, res.Pos, 0)
					require.Less(t, res.Pos, 16384)
					pos = res.Pos
				}
			}
		})
	}
}

func TestMixTo_FractionalPitch(t *testing.T) {
	t.Parallel()

	for name, e := range allEngines(t) {
		t.Run(name, func(t *testing.T) {
			src := rampSource(1000, 8000)
			acc := e.NewAccumulator(audio.ModeMono, 100)
			g := UnityGains()

			res, err := e.MixTo(acc, src, &Params{
				Pos: 10, Stop: -1, Pitch: PitchOne / 2, MaxFrames: 100, DestRate: 8000, Gains: &g,
			})
			require.NoError(t, err)
			assert.Equal(t, 100, res.Written)
			assert.Equal(t, 50, res.Consumed)
			assert.Equal(t, 60, res.Pos)

			// nearest sampling repeats every source frame twice
			for n := range 100 {
				assert.InDelta(t, rampValue(10+n/2), acc.Float(n, 0), 1e-6)
			}
		})
	}
}

func TestMixTo_RateConversion(t *testing.T) {
	t.Parallel()

	e, err := NewEngine(FixedRepresentation)
	require.NoError(t, err)
	src := rampSource(1000, 22050)
	acc := e.NewAccumulator(audio.ModeStereo, 441)
	g := UnityGains()

	res, err := e.MixTo(acc, src, &Params{
		Pos: 0, Stop: -1, Pitch: PitchOne, MaxFrames: 441, DestRate: 44100, Gains: &g,
	})
	require.NoError(t, err)
	assert.Equal(t, 441, res.Written)
	assert.Equal(t, 220, res.Pos)
}

func TestMixTo_ZeroPitch(t *testing.T) {
	t.Parallel()

	for name, e := range allEngines(t) {
		t.Run(name, func(t *testing.T) {
			src := rampSource(100, 8000)
			acc := e.NewAccumulator(audio.ModeStereo, 64)
			g := UnityGains()

			res, err := e.MixTo(acc, src, &Params{
				Pos: 42, Stop: 50, Pitch: 0, MaxFrames: 64, DestRate: 8000, Gains: &g,
			})
			require.NoError(t, err)
			assert.Equal(t, Result{Pos: 42, Written: 64}, res)
			assert.Zero(t, acc.Float(0, 0))
		})
	}
}

func TestMixTo_SilentGainsStillAdvance(t *testing.T) {
	t.Parallel()

	for name, e := range allEngines(t) {
		t.Run(name, func(t *testing.T) {
			src := rampSource(100, 8000)
			acc := e.NewAccumulator(audio.ModeStereo, 64)
			g := NewGains([audio.NumSlots]float32{1, 1, 1, 1, 1, 1}, 0, DefaultDownmix, DefaultDownmix)
			require.True(t, g.Silent())

			res, err := e.MixTo(acc, src, &Params{
				Pos: 10, Stop: 30, Pitch: PitchOne * 3 / 2, MaxFrames: 64, DestRate: 8000, Gains: &g,
			})
			assert.ErrorIs(t, err, audio.ErrBufferEmpty)
			assert.Equal(t, 30, res.Pos)
			assert.Equal(t, 14, res.Written) // ceil(20 / 1.5)
			for n := range 64 {
				assert.Zero(t, acc.Float(n, 0))
			}
		})
	}
}

func TestMixTo_Accumulates(t *testing.T) {
	t.Parallel()

	for name, e := range allEngines(t) {
		t.Run(name, func(t *testing.T) {
			src := rampSource(100, 8000)
			acc := e.NewAccumulator(audio.ModeStereo, 10)
			g := UnityGains()

			for range 2 {
				_, err := e.MixTo(acc, src, &Params{
					Pos: 50, Stop: -1, Pitch: PitchOne, MaxFrames: 10, DestRate: 8000, Gains: &g,
				})
				require.NoError(t, err)
			}
			assert.InDelta(t, 2*rampValue(55), acc.Float(5, 0), 1e-6)

			acc.Clear()
			assert.Zero(t, acc.Float(5, 0))
		})
	}
}

func TestMixTo_Levels(t *testing.T) {
	t.Parallel()

	for name, e := range allEngines(t) {
		t.Run(name, func(t *testing.T) {
			src := floatSource(audio.ModeStereo, [][]float32{{0.5, 0.5}})
			acc := e.NewAccumulator(audio.ModeStereo, 1)
			g := NewGains([audio.NumSlots]float32{0.5, 1, 1, 1, 1, 1}, 0.5, DefaultDownmix, DefaultDownmix)

			_, err := e.MixTo(acc, src, &Params{Pos: 0, Stop: -1, Pitch: PitchOne, MaxFrames: 1, DestRate: 48000, Gains: &g})
			require.NoError(t, err)
			assert.InDelta(t, 0.125, acc.Float(0, 0), 1e-6)
			assert.InDelta(t, 0.25, acc.Float(0, 1), 1e-6)
		})
	}
}

func TestMixTo_Downmix(t *testing.T) {
	t.Parallel()

	frame51 := []float32{0.1, 0.2, 0.3, 0.4, 0.5, 0.6} // L C R RL RR LFE

	tests := []struct {
		name string
		src  *Source
		dst  audio.ChannelMode
		want []float64
	}{
		{
			name: "mono into 5.1",
			src:  floatSource(audio.ModeMono, [][]float32{{0.5}}),
			dst:  audio.ModeSurround51,
			want: []float64{0.5, 0, 0.5, 0, 0, 0},
		},
		{
			name: "stereo into mono",
			src:  floatSource(audio.ModeStereo, [][]float32{{0.2, 0.6}}),
			dst:  audio.ModeMono,
			want: []float64{0.4},
		},
		{
			name: "5.1 into stereo",
			src:  floatSource(audio.ModeSurround51, [][]float32{frame51}),
			dst:  audio.ModeStereo,
			want: []float64{0.1 + 0.1 + 0.1, 0.3 + 0.1 + 0.125},
		},
		{
			name: "5.1 into 3.0",
			src:  floatSource(audio.ModeSurround51, [][]float32{frame51}),
			dst:  audio.ModeStereo30,
			want: []float64{0.1 + 0.1, 0.2, 0.3 + 0.125},
		},
		{
			name: "5.1 into 4.1",
			src:  floatSource(audio.ModeSurround51, [][]float32{frame51}),
			dst:  audio.ModeSurround41,
			want: []float64{0.2, 0.4, 0.4, 0.5, 0.6},
		},
		{
			name: "5.1 into mono",
			src:  floatSource(audio.ModeSurround51, [][]float32{frame51}),
			dst:  audio.ModeMono,
			want: []float64{(0.3 + 0.525) / 2},
		},
	}

	for name, e := range allEngines(t) {
		for _, tt := range tests {
			t.Run(name+"/"+tt.name, func(t *testing.T) {
				acc := e.NewAccumulator(tt.dst, 1)
				g := NewGains([audio.NumSlots]float32{1, 1, 1, 1, 1, 1}, 1, 0.5, 0.25)

				res, err := e.MixTo(acc, tt.src, &Params{Pos: 0, Stop: -1, Pitch: PitchOne, MaxFrames: 1, DestRate: 48000, Gains: &g})
				require.NoError(t, err)
				require.Equal(t, 1, res.Written)

				for c, want := range tt.want {
					assert.InDelta(t, want, acc.Float(0, c), 1e-5, "channel %d", c)
				}
			})
		}
	}
}

func TestMixTo_AllFormats(t *testing.T) {
	t.Parallel()

	samples := []float32{0.5, -0.25, 0, -1}
	for _, f := range audio.Formats {
		data := make([]byte, len(samples)*f.Bytes())
		EncodeFloat(data, f, samples)
		src := &Source{Data: data, Length: len(samples), Format: f, Mode: audio.ModeMono, Rate: 8000}

		for name, e := range allEngines(t) {
			acc := e.NewAccumulator(audio.ModeMono, len(samples))
			g := UnityGains()
			_, err := e.MixTo(acc, src, &Params{Pos: 0, Stop: -1, Pitch: PitchOne, MaxFrames: len(samples), DestRate: 8000, Gains: &g})
			require.NoError(t, err)

			for n, want := range samples {
				assert.InDelta(t, want, acc.Float(n, 0), 1e-6, "%s %s frame %d", name, f, n)
			}
		}
	}
}

func TestMixTo_ContractViolationsPanic(t *testing.T) {
	t.Parallel()

	e, err := NewEngine(FloatRepresentation)
	require.NoError(t, err)
	src := rampSource(10, 8000)
	acc := e.NewAccumulator(audio.ModeStereo, 10)
	g := UnityGains()

	assert.Panics(t, func() {
		e.MixTo(acc, src, &Params{Pos: 10, Stop: -1, Pitch: PitchOne, MaxFrames: 1, DestRate: 8000, Gains: &g})
	})
	assert.Panics(t, func() {
		e.MixTo(acc, src, &Params{Pos: 0, Stop: -1, Pitch: PitchOne, MaxFrames: 11, DestRate: 8000, Gains: &g})
	})
	assert.Panics(t, func() {
		e.MixTo(acc, &Source{Mode: audio.ModeMono, Format: audio.FormatS16}, &Params{MaxFrames: 1, DestRate: 8000, Gains: &g})
	})
}

func BenchmarkMixTo(b *testing.B) {
	for _, rep := range []Representation{FloatRepresentation, FixedRepresentation} {
		e, _ := NewEngine(rep)
		src := rampSource(16384, 44100)
		acc := e.NewAccumulator(audio.ModeStereo, 1024)
		g := UnityGains()

		b.Run(rep.String(), func(b *testing.B) {
			pos := 0
			for range b.N {
				res, _ := e.MixTo(acc, src, &Params{Pos: pos, Stop: -1, Pitch: PitchOne, MaxFrames: 1024, DestRate: 48000, Gains: &g})
				pos = res.Pos
			}
		})
	}
}

func stereoS16Source(frames int, left, right int16) *Source {
	data := make([]byte, 4*frames)
	for i := range frames {
		le.PutUint16(data[4*i:], uint16(left))
		le.PutUint16(data[4*i+2:], uint16(right))
	}
	return &Source{Data: data, Length: frames, Format: audio.FormatS16, Mode: audio.ModeStereo, Rate: 48000}
}

// AllocsPerRun counts the allocations of every goroutine, so this test
// stays serial.
func TestMixTo_NoAllocs(t *testing.T) {
	for name, e := range allEngines(t) {
		t.Run(name, func(t *testing.T) {
			src := stereoS16Source(512, 1000, -1000)
			acc := e.NewAccumulator(audio.ModeStereo, 512)
			g := UnityGains()
			p := &Params{Pos: 0, Stop: -1, Pitch: PitchOne, MaxFrames: 512, DestRate: 48000, Gains: &g}

			allocs := testing.AllocsPerRun(100, func() {
				acc.Clear()
				if _, err := e.MixTo(acc, src, p); err != nil {
					t.Fatal(err)
				}
			})
			assert.Zero(t, allocs)
		})
	}
}

func TestMixTo_LoudSumsClip(t *testing.T) {
	t.Parallel()

	for name, e := range allEngines(t) {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			const frames = 64
			src := stereoS16Source(frames, 32767, -32768)
			acc := e.NewAccumulator(audio.ModeStereo, frames)
			levels := [audio.NumSlots]float32{1, 1, 1, 1, 1, 1}
			g := NewGains(levels, 64, DefaultDownmix, DefaultDownmix)

			for range 8 {
				_, err := e.MixTo(acc, src, &Params{
					Pos: 0, Stop: -1, Pitch: PitchOne,
					MaxFrames: frames, DestRate: 48000, Gains: &g,
				})
				require.NoError(t, err)
			}

			out := make([]byte, 4*frames)
			require.Equal(t, len(out), e.Render(out, audio.FormatS16, acc, frames, nil))
			for i := range frames {
				assert.Equal(t, int16(32767), int16(le.Uint16(out[4*i:])), "left of frame %d", i)
				assert.Equal(t, int16(-32768), int16(le.Uint16(out[4*i+2:])), "right of frame %d", i)
			}
		})
	}
}
