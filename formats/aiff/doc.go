// SPDX-License-Identifier: EPL-2.0

// Package aiff provides AIFF (Audio Interchange File Format) decoding.
//
// This package uses github.com/go-audio/aiff to decode uncompressed AIFF
// files. Samples are returned as float32 in [-1,1] through audio.Source.
//
// # Supported Formats
//
// Currently supported:
//   - PCM 8, 16, 24 and 32 bit, big endian as AIFF stores it
//   - any channel count
//   - any sample rate
//
// Compressed AIFF-C variants are not supported.
//
// # Decoding AIFF Files
//
// Use the Decoder to read AIFF files:
//
//	file, _ := os.Open("audio.aiff")
//	src, err := aiff.Decoder{}.Decode(file)
//	if err != nil {
//	    // Handle error
//	}
//
//	buf := make([]float32, 4096)
//	n, err := src.ReadSamples(buf)
//
// The length of buf must be a multiple of the channel count, or ReadSamples
// fails with audio.ErrInvalidDstSize. The last samples come together with
// io.EOF.
//
// Readers that cannot seek are buffered in memory first, as go-audio needs
// random access to the chunks.
//
// # Error Handling
//
// The package defines several errors:
//   - ErrNotAiffFile: the input is not a FORM AIFF file
//   - ErrUnsupportedBitDepth: the sample size is not 8, 16, 24 or 32 bits
//   - ErrUnsupportedAiffLayout: the file announces no channels
//
// Example:
//
//	src, err := aiff.Decoder{}.Decode(file)
//	if errors.Is(err, aiff.ErrNotAiffFile) {
//	    fmt.Println("Not an AIFF file")
//	}
//
// # Performance
//
// The source keeps one integer buffer and grows it only when a read asks for
// more samples than before.
package aiff
