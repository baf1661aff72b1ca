// SPDX-License-Identifier: EPL-2.0

// Package audio holds the vocabulary shared by every layer of the sound core.
//
// It defines:
//   - SampleFormat and ChannelMode, the external PCM description of buffers
//     and devices, together with the six speaker slots volume vectors use
//   - the error taxonomy returned across the public interface
//   - the Source and Decoder contract track providers satisfy
//   - a decoder Registry keyed by file extension
//   - offline helpers (Resampler, MonoMixer) loaders chain in front of a
//     buffer upload
//
// # Source Interface
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// Samples are interleaved float32 values in [-1,1]. ReadSamples returns io.EOF
// once the stream is exhausted, possibly together with the last samples:
//
//	buf := make([]float32, src.BufSize()*src.Channels())
//	for {
//	    n, err := src.ReadSamples(buf)
//	    consume(buf[:n])
//	    if errors.Is(err, io.EOF) {
//	        break
//	    }
//	    if err != nil {
//	        return err
//	    }
//	}
//
// # Sample Formats
//
// Buffers and devices store one of:
//   - FormatU8, unsigned 8 bit with a 128 offset
//   - FormatS16, FormatS24 and FormatS32, signed little endian integers
//   - FormatFloat, 32 bit IEEE floats in [-1,1]
//
// S24 is packed into three bytes. BytesPerFrame gives the stride of a frame:
//
//	audio.BytesPerFrame(audio.FormatS24, audio.ModeStereo) // 6
//
// # Channel Modes
//
// Interleaving follows the slot order left, center, right, rear-left,
// rear-right, LFE, skipping slots a mode lacks:
//
//	mode := audio.ModeSurround50
//	mode.Channels()  // 5
//	mode.HasLFE()    // false
//
// ModeForChannels maps a decoded channel count to the default mode for it.
// Counts beyond six have no mode; loaders fold such sources to mono.
//
// # Decoder Registry
//
// A Registry maps file extensions to decoders, ignoring case, and is safe
// for concurrent use:
//
//	reg := audio.NewRegistry()
//	reg.Register("wav", wav.Decoder{})
//	if dec, ok := reg.ForFile("intro.WAV"); ok {
//	    src, err := dec.Decode(file)
//	}
//
// # Resampling
//
// The mixer picks the nearest source frame for any pitch, so loaders that care
// about quality resample to the device rate first:
//
//	resampler := audio.NewResampler(source, 48000)
//
// The resampler interpolates with a Catmull-Rom spline over four frames and
// keeps every channel.
//
// # Downmixing
//
// MonoMixer averages the channels of every frame:
//
//	mono := audio.NewMonoMixer(audio.NewResampler(source, 16000))
//	n, err := mono.ReadSamples(buf)
//
// # Errors
//
// Every failure of the public interface wraps one of the sentinels declared
// in errors.go; match them with errors.Is. ErrBufferEmpty is a status: it
// marks the final mixing call of a finished playback.
//
//	if errors.Is(err, audio.ErrBusy) {
//	    // the buffer is locked or already looping
//	}
package audio
