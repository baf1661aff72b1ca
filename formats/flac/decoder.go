// SPDX-License-Identifier: EPL-2.0

package flac

import (
	"errors"
	"fmt"
	"io"

	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"

	"github.com/ik5/soundcore/audio"
	"github.com/ik5/soundcore/internal/pcm"
)

var (
	// ErrUnsupportedBitDepth indicates a sample size above 32 bits
	ErrUnsupportedBitDepth = errors.New("unsupported FLAC bit depth")

	// ErrChannelMismatch indicates a frame whose subframes disagree with the
	// stream info
	ErrChannelMismatch = errors.New("FLAC frame channel mismatch")
)

// frameReader is the part of flac.Stream the source needs, so tests can
// substitute it.
type frameReader interface {
	ParseNext() (*frame.Frame, error)
}

type source struct {
	dec        frameReader
	closer     io.Closer
	sampleRate int
	channels   int
	bitDepth   int
	pending    []int // interleaved samples of the current frame
	floats     int   // samples of pending already delivered
	done       bool
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) BufSize() int    { return 4096 }

func (s *source) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// fill decodes the next frame into pending.
func (s *source) fill() error {
	f, err := s.dec.ParseNext()
	if err != nil {
		return err
	}
	if len(f.Subframes) != s.channels {
		return fmt.Errorf("%w: %d subframes, want %d", ErrChannelMismatch, len(f.Subframes), s.channels)
	}

	n := len(f.Subframes[0].Samples)
	for _, sub := range f.Subframes[1:] {
		n = min(n, len(sub.Samples))
	}

	s.pending = s.pending[:0]
	for i := range n {
		for _, sub := range f.Subframes {
			s.pending = append(s.pending, int(sub.Samples[i]))
		}
	}
	s.floats = 0
	return nil
}

func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst)%s.channels != 0 {
		return 0, audio.ErrInvalidDstSize
	}
	if s.done {
		return 0, io.EOF
	}

	written := 0
	for written < len(dst) {
		if s.floats >= len(s.pending) {
			if err := s.fill(); err != nil {
				if errors.Is(err, io.EOF) {
					s.done = true
					return written, io.EOF
				}
				return written, fmt.Errorf("flac: %w", err)
			}
			continue
		}

		n := min(len(dst)-written, len(s.pending)-s.floats)
		pcm.IntsToFloats(dst[written:written+n], s.pending[s.floats:s.floats+n], s.bitDepth, false)
		written += n
		s.floats += n
	}
	return written, nil
}

// Decoder decodes FLAC streams with github.com/mewkiz/flac.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	stream, err := flac.New(r)
	if err != nil {
		return nil, fmt.Errorf("flac header: %w", err)
	}

	info := stream.Info
	if info.BitsPerSample == 0 || info.BitsPerSample > 32 {
		stream.Close()
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, info.BitsPerSample)
	}

	return &source{
		dec:        stream,
		closer:     stream,
		sampleRate: int(info.SampleRate),
		channels:   int(info.NChannels),
		bitDepth:   int(info.BitsPerSample),
	}, nil
}
