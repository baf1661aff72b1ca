// SPDX-License-Identifier: EPL-2.0

package mix

import (
	"encoding/binary"
	"math"

	"github.com/ik5/soundcore/audio"
)

var le = binary.LittleEndian

var (
	u8Float [256]Float
	u8Fixed [256]Fixed
)

func init() {
	for i := range 256 {
		u8Float[i] = Float(i-128) / 128
		u8Fixed[i] = Fixed(i-128) << (FixedFracBits - 7)
	}
}

func readS24(b []byte) int32 {
	return int32(b[0]) | int32(b[1])<<8 | int32(int8(b[2]))<<16
}

func writeS24(b []byte, v int32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
}

// decodeFunc reads sample i (not frame) from data.
type decodeFunc[S sample] func(data []byte, i int) S

func floatDecoder(f audio.SampleFormat) decodeFunc[Float] {
	switch f {
	case audio.FormatU8:
		return func(d []byte, i int) Float { return u8Float[d[i]] }
	case audio.FormatS16:
		return func(d []byte, i int) Float { return Float(int16(le.Uint16(d[2*i:]))) / (1 << 15) }
	case audio.FormatS24:
		return func(d []byte, i int) Float { return Float(readS24(d[3*i:])) / (1 << 23) }
	case audio.FormatS32:
		return func(d []byte, i int) Float { return Float(float64(int32(le.Uint32(d[4*i:]))) / (1 << 31)) }
	case audio.FormatFloat:
		return func(d []byte, i int) Float { return Float(math.Float32frombits(le.Uint32(d[4*i:]))) }
	}
	return nil
}

func fixedDecoder(f audio.SampleFormat) decodeFunc[Fixed] {
	switch f {
	case audio.FormatU8:
		return func(d []byte, i int) Fixed { return u8Fixed[d[i]] }
	case audio.FormatS16:
		return func(d []byte, i int) Fixed { return Fixed(int16(le.Uint16(d[2*i:]))) << (FixedFracBits - 15) }
	case audio.FormatS24:
		return func(d []byte, i int) Fixed { return Fixed(readS24(d[3*i:])) }
	case audio.FormatS32:
		return func(d []byte, i int) Fixed { return Fixed(int32(le.Uint32(d[4*i:])) >> (31 - FixedFracBits)) }
	case audio.FormatFloat:
		return func(d []byte, i int) Fixed {
			return floatToFixed(math.Float32frombits(le.Uint32(d[4*i:])))
		}
	}
	return nil
}

func floatToFixed(v float32) Fixed {
	const limit = 255
	switch {
	case v > limit:
		v = limit
	case v < -limit:
		v = -limit
	case v != v:
		v = 0
	}
	return Fixed(math.Round(float64(v) * (1 << FixedFracBits)))
}

func clamp64(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// putFloat narrows s into dst. st is nil when no dithering applies.
func putFloat(dst []byte, f audio.SampleFormat, s Float, st *ditherState) {
	switch f {
	case audio.FormatU8:
		v := float64(s) * (1 << 7)
		if st != nil {
			v += float64(st.tpdf())
		}
		dst[0] = byte(clamp64(int64(math.Round(v)), -128, 127) + 128)
	case audio.FormatS16:
		v := float64(s) * (1 << 15)
		if st != nil {
			v += float64(st.tpdf())
		}
		le.PutUint16(dst, uint16(int16(clamp64(int64(math.Round(v)), math.MinInt16, math.MaxInt16))))
	case audio.FormatS24:
		v := int64(math.Round(float64(s) * (1 << 23)))
		writeS24(dst, int32(clamp64(v, -1<<23, 1<<23-1)))
	case audio.FormatS32:
		v := math.Round(float64(s) * (1 << 31))
		var q int64
		switch {
		case v >= math.MaxInt32:
			q = math.MaxInt32
		case v <= math.MinInt32:
			q = math.MinInt32
		default:
			q = int64(v)
		}
		le.PutUint32(dst, uint32(int32(q)))
	case audio.FormatFloat:
		v := float32(s)
		if v > 1 {
			v = 1
		} else if v < -1 {
			v = -1
		}
		le.PutUint32(dst, math.Float32bits(v))
	}
}

// putFixed narrows s into dst. st is nil when no dithering applies.
func putFixed(dst []byte, f audio.SampleFormat, s Fixed, st *ditherState) {
	switch f {
	case audio.FormatU8:
		const shift = FixedFracBits - 7
		var q int64
		if st != nil {
			q = st.shape(int64(s), shift, -128, 127)
		} else {
			q = clamp64((int64(s)+1<<(shift-1))>>shift, -128, 127)
		}
		dst[0] = byte(q + 128)
	case audio.FormatS16:
		const shift = FixedFracBits - 15
		var q int64
		if st != nil {
			q = st.shape(int64(s), shift, math.MinInt16, math.MaxInt16)
		} else {
			q = clamp64((int64(s)+1<<(shift-1))>>shift, math.MinInt16, math.MaxInt16)
		}
		le.PutUint16(dst, uint16(int16(q)))
	case audio.FormatS24:
		writeS24(dst, int32(clamp64(int64(s), -1<<23, 1<<23-1)))
	case audio.FormatS32:
		q := clamp64(int64(s)<<(31-FixedFracBits), math.MinInt32, math.MaxInt32)
		le.PutUint32(dst, uint32(int32(q)))
	case audio.FormatFloat:
		v := float32(s) / (1 << FixedFracBits)
		if v > 1 {
			v = 1
		} else if v < -1 {
			v = -1
		}
		le.PutUint32(dst, math.Float32bits(v))
	}
}

// EncodeFloat writes src, normalised float samples, into dst in format f.
// dst must hold len(src)*f.Bytes() bytes.
func EncodeFloat(dst []byte, f audio.SampleFormat, src []float32) {
	bps := f.Bytes()
	if len(dst) < len(src)*bps {
		panic("mix: EncodeFloat destination too short")
	}
	for i, v := range src {
		putFloat(dst[i*bps:], f, Float(v), nil)
	}
}

// DecodeFloat reads len(dst) samples of format f from src.
func DecodeFloat(dst []float32, f audio.SampleFormat, src []byte) {
	dec := floatDecoder(f)
	if dec == nil {
		panic("mix: DecodeFloat invalid format")
	}
	for i := range dst {
		dst[i] = float32(dec(src, i))
	}
}
