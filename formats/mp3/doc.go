// SPDX-License-Identifier: EPL-2.0

// Package mp3 provides MP3 audio file decoding.
//
// This package uses github.com/hajimehoshi/go-mp3 to decode MPEG-1 and
// MPEG-2 Layer III streams.
//
// # Output Format
//
// The source always reports two channels, as go-mp3 duplicates mono streams,
// at the sample rate of the file. Samples are 16 bit PCM normalised to
// float32 in [-1,1].
//
// Use audio.NewMonoMixer to fold the output down to one channel:
//
//	mono := audio.NewMonoMixer(src)
//
// # Decoding MP3 Files
//
//	file, _ := os.Open("audio.mp3")
//	src, err := mp3.Decoder{}.Decode(file)
//	if err != nil {
//	    // no valid frame header
//	}
//
//	buf := make([]float32, 4096)
//	n, err := src.ReadSamples(buf)
//
// The length of buf must be even. Decode reads the first frame header, so
// the reader need not seek.
//
// # Error Handling
//
// Header and stream errors of go-mp3 are wrapped with the "mp3" prefix and
// can be matched with errors.Is. A read that ends the stream returns the last
// samples together with io.EOF; later reads return io.EOF alone.
//
// # Performance
//
// go-mp3 hands out bytes in arbitrary amounts. A partial frame is carried
// over to the next read, so no sample is lost or split, and the byte buffer
// is reused between reads.
package mp3
