// SPDX-License-Identifier: EPL-2.0

package mix

// Lipshitz 5 tap noise shaping coefficients, scaled by 1<<shapeShift.
var shapeCoeffs = [5]int64{8327, -8868, 8024, -6513, 2519}

const shapeShift = 12

type ditherState struct {
	err  [5]int32
	seed uint32
}

func (s *ditherState) next() uint32 {
	s.seed = s.seed*1664525 + 1013904223
	return s.seed
}

// uniform returns a value in [0,1).
func (s *ditherState) uniform() float32 {
	return float32(s.next()>>8) / (1 << 24)
}

// tpdf returns triangular noise in (-1,1) LSB.
func (s *ditherState) tpdf() float32 {
	return s.uniform() - s.uniform()
}

func (s *ditherState) tpdfFixed(shift uint) int64 {
	mask := uint32(1)<<shift - 1
	return int64(s.next()>>8&mask) - int64(s.next()>>8&mask)
}

// shape quantises x by shift bits with error feedback and clips the result to
// [lo, hi].
func (s *ditherState) shape(x int64, shift uint, lo, hi int64) int64 {
	var fb int64
	for k, c := range shapeCoeffs {
		fb += c * int64(s.err[k])
	}
	in := x - fb>>shapeShift

	q := clamp64((in+s.tpdfFixed(shift)+1<<(shift-1))>>shift, lo, hi)

	// clipping would otherwise feed back without bound
	limit := int64(1) << (shift + 2)
	e := clamp64(q<<shift-in, -limit, limit)

	copy(s.err[1:], s.err[:4])
	s.err[0] = int32(e)
	return q
}

// Dither holds the per output channel dithering state of one output stream.
// It must outlive individual Render calls.
type Dither struct {
	ch []ditherState
}

func NewDither(channels int) *Dither {
	d := &Dither{ch: make([]ditherState, channels)}
	d.Reset()
	return d
}

func (d *Dither) Channels() int { return len(d.ch) }

// Reset clears the error history and reseeds the generators.
func (d *Dither) Reset() {
	for i := range d.ch {
		d.ch[i] = ditherState{seed: 0x9e3779b9 * uint32(i+1)}
	}
}
