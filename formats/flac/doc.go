// SPDX-License-Identifier: EPL-2.0

// Package flac decodes FLAC streams through github.com/mewkiz/flac.
//
// # Supported Formats
//
// Any stream the library parses is accepted:
//   - bit depths from 1 to 32
//   - any channel count up to the eight FLAC allows
//   - any sample rate
//
// Every bit depth is normalised to float32 in [-1,1].
//
// # Decoding FLAC Files
//
//	file, _ := os.Open("audio.flac")
//	src, err := flac.Decoder{}.Decode(file)
//	if err != nil {
//	    // Handle error
//	}
//	defer src.Close()
//
//	buf := make([]float32, src.BufSize()*src.Channels())
//	n, err := src.ReadSamples(buf)
//
// Close releases the decoder, which also closes the reader when it is an
// io.Closer.
//
// # Streaming
//
// Frames are decoded one at a time and interleaved on demand, so memory use
// does not grow with the length of the stream. A read may span several
// frames, and a frame may span several reads.
//
// # Error Handling
//
// The package defines two errors:
//   - ErrUnsupportedBitDepth: the stream header names a depth above 32 bits
//   - ErrChannelMismatch: a frame carries a different number of subframes
//     than the header announced
//
// Example:
//
//	n, err := src.ReadSamples(buf)
//	if errors.Is(err, flac.ErrChannelMismatch) {
//	    // corrupt stream
//	}
package flac
