// SPDX-License-Identifier: EPL-2.0

package mix

import (
	"fmt"
	"math"

	"github.com/ik5/soundcore/audio"
)

// Source describes the PCM a mixing call reads from.
type Source struct {
	Data   []byte
	Length int // frames
	Format audio.SampleFormat
	Mode   audio.ChannelMode
	Rate   int
}

// Params are the playback cursor and output request of one mixing call.
type Params struct {
	Pos int
	// Stop is the frame the call must not read past, or -1 to loop.
	Stop      int
	Pitch     int
	MaxFrames int
	DestRate  int
	Gains     *Gains
}

// Result reports the outcome of a mixing call.
type Result struct {
	Pos      int
	Consumed int // source frames advanced
	Written  int // destination frames produced
	Last     bool
}

// Engine mixes buffers into accumulators and renders accumulators into
// device memory.
type Engine interface {
	Representation() Representation
	NewAccumulator(mode audio.ChannelMode, frames int) *Accumulator
	// MixTo adds src into acc. It returns audio.ErrBufferEmpty together with
	// a valid Result when the stop point was reached.
	MixTo(acc *Accumulator, src *Source, p *Params) (Result, error)
	// Render narrows the first frames of acc into dst and returns the bytes
	// written. d may be nil.
	Render(dst []byte, format audio.SampleFormat, acc *Accumulator, frames int, d *Dither) int
}

type engine[S sample, O ops[S]] struct {
	rep   Representation
	table *table[S]
}

var (
	floatEngine = &engine[Float, floatOps]{rep: FloatRepresentation, table: buildTable[Float, floatOps]()}
	fixedEngine = &engine[Fixed, fixedOps]{rep: FixedRepresentation, table: buildTable[Fixed, fixedOps]()}
)

// NewEngine returns the engine for rep. Engines are stateless and shared.
func NewEngine(rep Representation) (Engine, error) {
	switch rep {
	case FloatRepresentation:
		return floatEngine, nil
	case FixedRepresentation:
		return fixedEngine, nil
	}
	return nil, fmt.Errorf("mix: representation %s: %w", rep, audio.ErrInvalidArgument)
}

func (e *engine[S, O]) Representation() Representation { return e.rep }

func (e *engine[S, O]) NewAccumulator(mode audio.ChannelMode, frames int) *Accumulator {
	var o O
	a := &Accumulator{mode: mode, channels: mode.Channels(), frames: frames}
	o.alloc(a)
	return a
}

func clampInt32(v int64) int64 {
	return clamp64(v, math.MinInt32, math.MaxInt32)
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

func (e *engine[S, O]) MixTo(acc *Accumulator, src *Source, p *Params) (Result, error) {
	var o O

	switch {
	case src.Length <= 0 || src.Data == nil:
		panic(fmt.Sprintf("mix: empty source (length %d)", src.Length))
	case p.Pos < 0 || p.Pos >= src.Length:
		panic(fmt.Sprintf("mix: position %d outside [0,%d)", p.Pos, src.Length))
	case len(src.Data) < src.Length*audio.BytesPerFrame(src.Format, src.Mode):
		panic("mix: source data shorter than its length")
	case p.MaxFrames > acc.frames || p.DestRate <= 0:
		panic(fmt.Sprintf("mix: bad request for %d frames at %d Hz", p.MaxFrames, p.DestRate))
	}

	inc := clampInt32(int64(src.Rate) * int64(p.Pitch) / int64(p.DestRate))
	span := clampInt32(int64(p.MaxFrames) * inc)

	last := false
	if p.Stop >= 0 {
		pos, stop := int64(p.Pos), int64(p.Stop)
		if p.Pitch < 0 {
			if stop >= pos {
				stop -= int64(src.Length)
			}
		} else if stop <= pos {
			stop += int64(src.Length)
		}
		dist := (stop - pos) << PitchBits
		if abs64(span) >= abs64(dist) {
			span = dist
			last = true
		}
	}

	res := Result{Pos: p.Pos, Last: last}
	switch {
	case inc == 0:
		res.Written = p.MaxFrames
	case p.Gains.Silent():
		a, i := abs64(span), abs64(inc)
		res.Written = int((a + i - 1) / i)
	default:
		dir := 0
		if inc < 0 {
			dir = 1
		}
		m := o.call(acc)
		*m = mixCall[S]{
			dst:    o.buf(acc),
			dch:    acc.channels,
			dmono:  acc.mode.IsMono(),
			dslots: layoutSlots(acc.mode),
			foldC:  !acc.mode.HasCenter(),
			foldR:  !acc.mode.HasRears(),
			data:   src.Data,
			length: src.Length,
			sch:    src.Mode.Channels(),
			sslots: layoutSlots(src.Mode),
			pos:    p.Pos,
			max:    int(span),
			inc:    int(inc),
			g:      o.gains(p.Gains),
		}
		res.Written = e.table[src.Format][kindOf(src.Mode)][dir](m)
		m.data = nil
	}

	if inc != 0 {
		adv := span >> PitchBits
		pos := (int64(p.Pos) + adv) % int64(src.Length)
		if pos < 0 {
			pos += int64(src.Length)
		}
		res.Pos = int(pos)
		res.Consumed = int(abs64(adv))
	}

	if last {
		return res, audio.ErrBufferEmpty
	}
	return res, nil
}

// modeSlots holds the interleaving order of every mode as a ready slice.
var modeSlots = func() (t [audio.ModeSurround51 + 1][]audio.Slot) {
	for _, m := range audio.Modes {
		l := m.Layout()
		t[m] = append([]audio.Slot(nil), l.Slots[:l.N]...)
	}
	return t
}()

func layoutSlots(m audio.ChannelMode) []audio.Slot {
	if !m.Valid() {
		return nil
	}
	return modeSlots[m]
}

func (e *engine[S, O]) Render(dst []byte, format audio.SampleFormat, acc *Accumulator, frames int, d *Dither) int {
	var o O

	n := frames * acc.channels
	size := n * format.Bytes()
	if frames > acc.frames || len(dst) < size {
		panic(fmt.Sprintf("mix: render of %d frames into %d bytes", frames, len(dst)))
	}
	if d != nil && d.Channels() < acc.channels {
		panic("mix: dither state has fewer channels than the accumulator")
	}

	o.render(dst, format, o.buf(acc)[:n], acc.channels, d)
	return size
}
