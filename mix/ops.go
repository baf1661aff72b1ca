// SPDX-License-Identifier: EPL-2.0

package mix

import "github.com/ik5/soundcore/audio"

// ops binds the arithmetic that differs between representations.
type ops[S sample] interface {
	decoder(f audio.SampleFormat) decodeFunc[S]
	mul(s, g S) S
	add(a, b S) S
	mid(a, b S) S
	call(a *Accumulator) *mixCall[S]
	gains(g *Gains) gainSet[S]
	buf(a *Accumulator) []S
	alloc(a *Accumulator)
	render(dst []byte, f audio.SampleFormat, src []S, channels int, d *Dither)
}

type gainSet[S sample] struct {
	lv     [audio.NumSlots]S
	center S
	rear   S
}

type floatOps struct{}

func (floatOps) decoder(f audio.SampleFormat) decodeFunc[Float] { return floatDecoder(f) }
func (floatOps) mul(s, g Float) Float                           { return s * g }
func (floatOps) add(a, b Float) Float                           { return a + b }
func (floatOps) mid(a, b Float) Float                           { return (a + b) / 2 }
func (floatOps) call(a *Accumulator) *mixCall[Float]            { return &a.fcall }
func (floatOps) buf(a *Accumulator) []Float                     { return a.f }
func (floatOps) alloc(a *Accumulator)                           { a.f = make([]Float, a.frames*a.channels) }

func (floatOps) gains(g *Gains) gainSet[Float] {
	return gainSet[Float]{lv: g.f, center: g.fc, rear: g.fr}
}

func (floatOps) render(dst []byte, f audio.SampleFormat, src []Float, channels int, d *Dither) {
	bps := f.Bytes()
	shaped := d != nil && (f == audio.FormatU8 || f == audio.FormatS16)
	for i, s := range src {
		var st *ditherState
		if shaped {
			st = &d.ch[i%channels]
		}
		putFloat(dst[i*bps:], f, s, st)
	}
}

type fixedOps struct{}

func (fixedOps) decoder(f audio.SampleFormat) decodeFunc[Fixed] { return fixedDecoder(f) }
func (fixedOps) buf(a *Accumulator) []Fixed                     { return a.x }
func (fixedOps) alloc(a *Accumulator)                           { a.x = make([]Fixed, a.frames*a.channels) }
func (fixedOps) call(a *Accumulator) *mixCall[Fixed]            { return &a.xcall }
func (fixedOps) mid(a, b Fixed) Fixed                           { return Fixed((int64(a) + int64(b)) / 2) }

// mul and add saturate, so loud sums clip at the output instead of
// wrapping around.
func (fixedOps) mul(s, g Fixed) Fixed {
	return Fixed(clampInt32(int64(s) * int64(g) >> FixedFracBits))
}

func (fixedOps) add(a, b Fixed) Fixed {
	return Fixed(clampInt32(int64(a) + int64(b)))
}

func (fixedOps) gains(g *Gains) gainSet[Fixed] {
	return gainSet[Fixed]{lv: g.x, center: g.xc, rear: g.xr}
}

func (fixedOps) render(dst []byte, f audio.SampleFormat, src []Fixed, channels int, d *Dither) {
	bps := f.Bytes()
	shaped := d != nil && (f == audio.FormatU8 || f == audio.FormatS16)
	for i, s := range src {
		var st *ditherState
		if shaped {
			st = &d.ch[i%channels]
		}
		putFixed(dst[i*bps:], f, s, st)
	}
}
