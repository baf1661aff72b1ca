// SPDX-License-Identifier: EPL-2.0

package soundcore

import (
	"fmt"
	"io"
	"os"

	"github.com/ik5/soundcore/audio"
	"github.com/ik5/soundcore/formats/aiff"
	"github.com/ik5/soundcore/formats/flac"
	"github.com/ik5/soundcore/formats/mp3"
	"github.com/ik5/soundcore/formats/vorbis"
	"github.com/ik5/soundcore/formats/wav"
)

// Decoders returns a registry holding every decoder, keyed by file
// extension.
func Decoders() *audio.Registry {
	reg := audio.NewRegistry()
	reg.Register("wav", wav.Decoder{})
	reg.Register("aiff", aiff.Decoder{})
	reg.Register("aif", aiff.Decoder{})
	reg.Register("mp3", mp3.Decoder{})
	reg.Register("ogg", vorbis.Decoder{})
	reg.Register("oga", vorbis.Decoder{})
	reg.Register("flac", flac.Decoder{})
	return reg
}

// fileSource closes the file along with the source.
type fileSource struct {
	audio.Source
	f io.Closer
}

func (s *fileSource) Close() error {
	err := s.Source.Close()
	if cerr := s.f.Close(); err == nil {
		err = cerr
	}
	return err
}

// DecodeFile opens path and decodes it by its extension. Closing the
// source closes the file.
func DecodeFile(path string) (audio.Source, error) {
	dec, ok := Decoders().ForFile(path)
	if !ok {
		return nil, fmt.Errorf("decode %s: no decoder: %w", path, audio.ErrUnsupported)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	src, err := dec.Decode(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	log.Debugf("Decoding %s: %d Hz, %d channels", path, src.SampleRate(), src.Channels())
	return &fileSource{Source: src, f: f}, nil
}
