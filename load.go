// SPDX-License-Identifier: EPL-2.0

package soundcore

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/soundcore/audio"
	"github.com/ik5/soundcore/mix"
	"github.com/ik5/soundcore/sound"
)

// layout returns src with a channel count a buffer can hold and its mode.
// Sources with more channels than the speaker layout are folded to mono.
func layout(src audio.Source) (audio.Source, audio.ChannelMode) {
	if mode, ok := audio.ModeForChannels(src.Channels()); ok {
		return src, mode
	}
	log.Debugf("Folding %d channels to mono", src.Channels())
	return audio.NewMonoMixer(src), audio.ModeMono
}

// readAll collects every sample of src.
func readAll(src audio.Source) ([]float32, error) {
	chunk := max(src.BufSize(), 256) * src.Channels()
	samples := make([]float32, 0, src.SampleRate()*src.Channels())

	for {
		if cap(samples)-len(samples) < chunk {
			grown := make([]float32, len(samples), len(samples)+max(chunk, cap(samples)))
			copy(grown, samples)
			samples = grown
		}

		n, err := src.ReadSamples(samples[len(samples) : len(samples)+chunk])
		samples = samples[:len(samples)+n]

		if errors.Is(err, io.EOF) {
			return samples, nil
		}
		if err != nil {
			return samples, fmt.Errorf("read samples: %w", err)
		}
	}
}

// LoadBuffer decodes all of src into a new buffer of s at the source rate.
// format is the sample format of the buffer; FormatUnknown picks the device
// format. The source is not closed.
func LoadBuffer(s *sound.Sound, src audio.Source, format audio.SampleFormat) (*sound.Buffer, error) {
	src, mode := layout(src)

	samples, err := readAll(src)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	frames := len(samples) / mode.Channels()
	if frames == 0 {
		return nil, fmt.Errorf("load: empty source: %w", audio.ErrInvalidArgument)
	}

	buf, err := s.CreateBuffer(sound.Desc{Length: frames, Mode: mode, Format: format, Rate: src.SampleRate()})
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}

	data, _, err := buf.Lock()
	if err != nil {
		buf.Release()
		return nil, fmt.Errorf("load: %w", err)
	}
	mix.EncodeFloat(data, buf.Format(), samples[:frames*mode.Channels()])
	if err := buf.Unlock(); err != nil {
		buf.Release()
		return nil, fmt.Errorf("load: %w", err)
	}

	log.Debugf("Loaded %d frames (%s %s at %d Hz)", frames, mode, buf.Format(), buf.Rate())
	return buf, nil
}

// LoadResampled is LoadBuffer with the source first converted to rate by
// cubic interpolation. The mixer resamples on its own; converting up front
// trades memory for a cleaner signal than its nearest sampling.
func LoadResampled(s *sound.Sound, src audio.Source, format audio.SampleFormat, rate int) (*sound.Buffer, error) {
	if rate <= 0 {
		return nil, fmt.Errorf("load: rate %d: %w", rate, audio.ErrInvalidArgument)
	}
	if src.SampleRate() == rate {
		return LoadBuffer(s, src, format)
	}
	return LoadBuffer(s, audio.NewResampler(src, rate), format)
}
