// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"io"

	"github.com/ik5/soundcore/utils"
)

// Resampler converts src to another sample rate ahead of time using cubic
// interpolation. The real-time mixer only ever picks the nearest source frame,
// so loaders resample to the device rate when quality matters more than
// memory.
type Resampler struct {
	src      Source
	rate     int
	srcRate  int
	channels int

	// hist holds four consecutive source frames; output is interpolated
	// between hist[1] and hist[2]. real marks frames that came from src
	// rather than edge repetition.
	hist   [4][]float32
	real   [4]bool
	primed bool
	// acc/rate is the fractional read position between hist[1] and hist[2]
	acc int

	in     []float32
	inPos  int
	inLen  int
	srcEOF bool
}

func NewResampler(src Source, dstRate int) *Resampler {
	ch := src.Channels()
	r := &Resampler{
		src:      src,
		rate:     dstRate,
		srcRate:  src.SampleRate(),
		channels: ch,
		in:       make([]float32, 1024*ch),
	}
	for i := range r.hist {
		r.hist[i] = make([]float32, ch)
	}
	return r
}

func (r *Resampler) SampleRate() int { return r.rate }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }
func (r *Resampler) Close() error    { return r.src.Close() }

// pull copies the next source frame into dst.
func (r *Resampler) pull(dst []float32) (bool, error) {
	for r.inPos >= r.inLen {
		if r.srcEOF {
			return false, nil
		}
		n, err := r.src.ReadSamples(r.in)
		r.inPos, r.inLen = 0, n-n%r.channels
		if errors.Is(err, io.EOF) {
			r.srcEOF = true
		} else if err != nil {
			return false, err
		}
	}

	copy(dst, r.in[r.inPos:r.inPos+r.channels])
	r.inPos += r.channels
	return true, nil
}

func (r *Resampler) prime() error {
	ok, err := r.pull(r.hist[1])
	if err != nil {
		return err
	}
	if !ok {
		return io.EOF
	}
	copy(r.hist[0], r.hist[1])
	r.real[0], r.real[1] = true, true

	for i := 2; i < 4; i++ {
		ok, err := r.pull(r.hist[i])
		if err != nil {
			return err
		}
		if !ok {
			copy(r.hist[i], r.hist[i-1])
		}
		r.real[i] = ok
	}

	r.primed = true
	return nil
}

func (r *Resampler) advance() error {
	first := r.hist[0]
	copy(r.hist[:], r.hist[1:])
	r.hist[3] = first
	copy(r.real[:], r.real[1:])

	ok, err := r.pull(r.hist[3])
	if err != nil {
		return err
	}
	if !ok {
		copy(r.hist[3], r.hist[2])
	}
	r.real[3] = ok
	return nil
}

// ReadSamples produces dst samples at the target rate. dst length should be a
// multiple of the channel count.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}
	if !r.primed {
		if err := r.prime(); err != nil {
			return 0, err
		}
	}

	written := 0
	for written < len(dst) {
		for r.acc >= r.rate {
			r.acc -= r.rate
			if err := r.advance(); err != nil {
				return written, err
			}
		}
		if !r.real[1] {
			return written, io.EOF
		}

		x := float32(float64(r.acc) / float64(r.rate))
		for c := 0; c < r.channels; c++ {
			dst[written+c] = utils.CatmullRom([4]float32{r.hist[0][c], r.hist[1][c], r.hist[2][c], r.hist[3][c]}, x)
		}
		written += r.channels
		r.acc += r.srcRate
	}

	return written, nil
}
