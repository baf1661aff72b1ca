// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"

	"github.com/ik5/soundcore/audio"
	"github.com/ik5/soundcore/internal/pcm"
)

// Encoder streams interleaved PCM into a WAV file. The header is finalised by
// Close, which is why the destination must be seekable.
type Encoder struct {
	enc      *gowav.Encoder
	format   audio.SampleFormat
	channels int
	buf      goaudio.IntBuffer
	frames   int
}

// NewEncoder writes S16, S24 or S32 samples.
func NewEncoder(w io.WriteSeeker, rate, channels int, format audio.SampleFormat) (*Encoder, error) {
	switch format {
	case audio.FormatS16, audio.FormatS24, audio.FormatS32:
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedBitDepth, format)
	}
	if rate <= 0 || channels <= 0 {
		return nil, fmt.Errorf("wav: %d Hz, %d channels: %w", rate, channels, audio.ErrInvalidArgument)
	}

	return &Encoder{
		enc:      gowav.NewEncoder(w, rate, format.Bits(), channels, wavFormatPCM),
		format:   format,
		channels: channels,
		buf: goaudio.IntBuffer{
			Format:         &goaudio.Format{NumChannels: channels, SampleRate: rate},
			SourceBitDepth: format.Bits(),
		},
	}, nil
}

// Frames returns the number of frames written so far.
func (e *Encoder) Frames() int { return e.frames }

func (e *Encoder) ints(n int) []int {
	if cap(e.buf.Data) < n {
		e.buf.Data = make([]int, n)
	}
	e.buf.Data = e.buf.Data[:n]
	return e.buf.Data
}

// WritePCM writes little endian samples already in the encoder's format.
func (e *Encoder) WritePCM(data []byte) error {
	bps := e.format.Bytes()
	if len(data)%(bps*e.channels) != 0 {
		return fmt.Errorf("wav: %d bytes is not a whole number of frames: %w", len(data), audio.ErrInvalidArgument)
	}

	ints := e.ints(len(data) / bps)
	for i := range ints {
		b := data[i*bps:]
		switch e.format {
		case audio.FormatS16:
			ints[i] = int(int16(uint16(b[0]) | uint16(b[1])<<8))
		case audio.FormatS24:
			ints[i] = int(int32(b[0]) | int32(b[1])<<8 | int32(int8(b[2]))<<16)
		case audio.FormatS32:
			ints[i] = int(int32(uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24))
		}
	}
	return e.write(len(ints))
}

// WriteFloat writes normalised samples.
func (e *Encoder) WriteFloat(samples []float32) error {
	if len(samples)%e.channels != 0 {
		return audio.ErrInvalidDstSize
	}
	pcm.FloatsToInts(e.ints(len(samples)), samples, e.format.Bits())
	return e.write(len(samples))
}

func (e *Encoder) write(samples int) error {
	if samples == 0 {
		return nil
	}
	if err := e.enc.Write(&e.buf); err != nil {
		return fmt.Errorf("wav: write: %w", err)
	}
	e.frames += samples / e.channels
	return nil
}

// Close finalises the header. It does not close the underlying writer.
func (e *Encoder) Close() error {
	if err := e.enc.Close(); err != nil {
		return fmt.Errorf("wav: close: %w", err)
	}
	return nil
}
