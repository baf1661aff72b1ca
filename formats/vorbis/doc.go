// SPDX-License-Identifier: EPL-2.0

// Package vorbis provides Ogg Vorbis audio file decoding.
//
// This package uses github.com/jfreymuth/oggvorbis, a pure Go decoder, so
// no cgo or system library is needed.
//
// # Decoding Vorbis Files
//
// Use the Decoder to read .ogg and .oga files:
//
//	file, _ := os.Open("audio.ogg")
//	src, err := vorbis.Decoder{}.Decode(file)
//	if err != nil {
//	    // Handle error
//	}
//
//	buf := make([]float32, 4096*src.Channels())
//	n, err := src.ReadSamples(buf)
//
// Samples come out as float32 in [-1,1], interleaved in the channel order of
// the stream. The length of buf must be a multiple of the channel count.
//
// # Channel Order
//
// Vorbis fixes the order of its surround layouts. A 5.1 stream is
// L C R RL RR LFE, which matches audio.ModeSurround51, so buffers can take
// the samples as they are:
//
//	mode, ok := audio.ModeForChannels(src.Channels())
//
// Streams with more than six channels have no mode and are folded to mono
// by the loaders.
//
// # Error Handling
//
// Errors of the decoder are wrapped with a "vorbis" prefix. A header that
// cannot be parsed fails Decode:
//
//	_, err := vorbis.Decoder{}.Decode(strings.NewReader("not ogg"))
//	fmt.Println(err != nil) // true
//
// The last samples of the stream come together with io.EOF.
package vorbis
