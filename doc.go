// SPDX-License-Identifier: EPL-2.0

// Package soundcore ties the sound server core to decoded audio.
//
// A session is a core.Core mixing every playing playback into an output
// device; clients reach it through the sound package. This package feeds
// decoded tracks into such a session, either loaded whole into a buffer or
// streamed through a small looping one.
//
// # Supported Formats
//
// Decoders returns a registry with every decoder of the module:
//   - WAV (PCM 8/16/24/32-bit) via formats/wav
//   - AIFF via formats/aiff
//   - MP3 via formats/mp3
//   - Ogg Vorbis via formats/vorbis
//   - FLAC via formats/flac
//
// DecodeFile picks the decoder by file extension and closes the file along
// with the source.
//
// # Quick Start
//
//	c, _ := core.New(core.DefaultConfig())
//	defer c.Shutdown(false)
//	go c.Run(ctx)
//
//	s := sound.New(c)
//	defer s.Close()
//
//	src, _ := soundcore.DecodeFile("track.wav")
//	defer src.Close()
//
//	// short sounds are loaded whole
//	buf, _ := soundcore.LoadBuffer(s, src, audio.FormatS16)
//	buf.Play(0)
//
//	// long tracks are streamed through a ring buffer
//	err := soundcore.PlayStream(ctx, s, src, 8192)
//
// # Output Devices
//
// The core opens the device named by Config.DeviceName. With no name it
// tries the registered devices by priority and keeps the first that opens:
//   - "oto" plays through the system audio stack
//   - "wavfile" writes every period into the file named by SOUNDCORE_WAVFILE
//   - "null" discards the output at the device pace
//
// Blank-import the device packages a program wants to offer:
//
//	import _ "github.com/ik5/soundcore/device/oto"
//
// # Loading Buffers
//
// LoadBuffer reads the whole source into a new buffer at the source rate.
// The mixer converts rates on the fly by picking the nearest frame, which
// is cheap but aliases. LoadResampled converts once, up front, by cubic
// interpolation:
//
//	buf, err := soundcore.LoadResampled(s, src, audio.FormatUnknown, 48000)
//
// FormatUnknown stores the buffer in the device sample format. Sources with
// more channels than any speaker layout are folded to mono first.
//
// # Streaming
//
// PlayStream decodes ahead of the mixer into a looping buffer of the given
// number of frames and returns once the last decoded frame was mixed:
//
//	ctx, cancel := context.WithTimeout(ctx, time.Minute)
//	defer cancel()
//	if err := soundcore.PlayStream(ctx, s, src, 8192); err != nil {
//	    // context error or decode failure
//	}
//
// A decoder slower than the mixer underruns: the ring keeps looping over
// stale frames until the producer catches up. Rings smaller than
// MinStreamFrames are refused.
//
// # Error Handling
//
// Failures wrap the sentinels of the audio package:
//
//	_, err := soundcore.DecodeFile("notes.txt")
//	if errors.Is(err, audio.ErrUnsupported) {
//	    fmt.Println("no decoder for this file")
//	}
//
// # Logging
//
// Every package logs through github.com/decred/slog and is silent until
// SetLogWriter is called:
//
//	err := soundcore.SetLogWriter(os.Stderr, "debug")
//
// The subsystem tags are FUSN (object pools), CORE (sessions and mixing),
// DEVC (output devices), SOND (client handles) and SNDC (this package).
//
// See the individual subpackages for more detailed documentation.
package soundcore
