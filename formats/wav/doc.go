// SPDX-License-Identifier: EPL-2.0

// Package wav reads and writes integer PCM WAV files through
// github.com/go-audio/wav.
//
// # Supported Formats
//
// Decoding accepts:
//   - PCM 8, 16, 24 and 32 bit
//   - any channel count
//   - any sample rate
//
// Encoding writes S16, S24 or S32. Floating point and compressed WAV
// variants are rejected.
//
// # Decoding WAV Files
//
// The Decoder yields an audio.Source of normalised float32 samples:
//
//	file, _ := os.Open("audio.wav")
//	src, err := wav.Decoder{}.Decode(file)
//	if err != nil {
//	    // Handle error
//	}
//
//	buf := make([]float32, src.BufSize()*src.Channels())
//	n, err := src.ReadSamples(buf)
//
// 8 bit data is offset binary, as WAV stores it, and is centred on zero.
// Readers that cannot seek are read into memory first, since go-audio needs
// random access to the chunks.
//
// # Writing WAV Files
//
// The Encoder streams frames into a seekable writer and patches the header
// on Close. The wavfile output device is built on it.
//
//	file, _ := os.Create("out.wav")
//	enc, err := wav.NewEncoder(file, 48000, 2, audio.FormatS16)
//	err = enc.WritePCM(period)          // little endian S16 frames
//	err = enc.WriteFloat([]float32{0.5, -0.5})
//	err = enc.Close()                   // file stays open
//
// WritePCM takes data already in the encoder's format and refuses partial
// frames. WriteFloat rounds to the nearest integer and clips at full scale.
//
// # Error Handling
//
// The package defines several errors:
//   - ErrNotWavFile: the input is not a RIFF WAVE file
//   - ErrUnsupportedEncoding: the format tag is not integer PCM
//   - ErrUnsupportedBitDepth: the sample size is not 8, 16, 24 or 32 bits
//   - ErrUnsupportedWavChunk: the chunks cannot be laid out as PCM frames
//
// Example:
//
//	src, err := wav.Decoder{}.Decode(file)
//	if errors.Is(err, wav.ErrNotWavFile) {
//	    fmt.Println("Not a WAV file")
//	}
//
// # Performance
//
// The source reuses one integer buffer across reads and only grows it for a
// larger request, so steady state reading does not allocate. The encoder
// does the same for its staging buffer.
package wav
