// SPDX-License-Identifier: EPL-2.0

// Package pcm converts between integer PCM as decoders report it and
// normalised float samples.
package pcm

import "math"

// Scale returns the full scale magnitude of a signed sample of bitDepth bits.
func Scale(bitDepth int) float32 {
	if bitDepth <= 0 || bitDepth > 32 {
		bitDepth = 16
	}
	return float32(uint64(1) << (bitDepth - 1))
}

// IntsToFloats normalises src into dst. With unsigned8 set, 8 bit samples
// are taken as offset binary, the way WAV stores them.
func IntsToFloats(dst []float32, src []int, bitDepth int, unsigned8 bool) {
	scale := 1 / Scale(bitDepth)
	offset := 0
	if bitDepth == 8 && unsigned8 {
		offset = 128
	}
	for i, v := range src {
		dst[i] = float32(v-offset) * scale
	}
}

// FloatsToInts scales src to bitDepth bit signed integers, clipping values
// outside [-1,1].
func FloatsToInts(dst []int, src []float32, bitDepth int) {
	scale := float64(Scale(bitDepth))
	hi, lo := int64(scale)-1, -int64(scale)
	for i, v := range src {
		q := int64(math.Round(float64(v) * scale))
		if q > hi {
			q = hi
		} else if q < lo {
			q = lo
		}
		dst[i] = int(q)
	}
}
