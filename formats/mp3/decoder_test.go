// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ik5/soundcore/audio"
)

// mockMP3Reader simulates the go-mp3 decoder. chunk limits the bytes handed
// out per Read to exercise split samples.
type mockMP3Reader struct {
	sampleRate   int
	data         []byte
	offset       int
	chunk        int
	returnErrors bool
}

func newMockMP3Reader(rate int, samples []int16) *mockMP3Reader {
	data := make([]byte, 2*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(data[2*i:], uint16(s))
	}
	return &mockMP3Reader{sampleRate: rate, data: data}
}

func (m *mockMP3Reader) SampleRate() int { return m.sampleRate }

func (m *mockMP3Reader) Read(p []byte) (int, error) {
	if m.returnErrors {
		return 0, io.ErrUnexpectedEOF
	}
	if m.offset >= len(m.data) {
		return 0, io.EOF
	}
	if m.chunk > 0 && len(p) > m.chunk {
		p = p[:m.chunk]
	}
	n := copy(p, m.data[m.offset:])
	m.offset += n
	return n, nil
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	_, err := Decoder{}.Decode(bytes.NewReader(nil))
	assert.Error(t, err)
}

func TestSource_Metadata(t *testing.T) {
	t.Parallel()

	src := &source{dec: newMockMP3Reader(44100, nil), sampleRate: 44100, buf: make([]byte, 8192)}
	assert.Equal(t, 44100, src.SampleRate())
	assert.Equal(t, 2, src.Channels())
	assert.Equal(t, 4096, src.BufSize())
	assert.NoError(t, src.Close())
}

func TestSource_ReadSamples(t *testing.T) {
	t.Parallel()

	src := &source{dec: newMockMP3Reader(44100, []int16{0, 16384, -16384, -32768}), sampleRate: 44100}
	dst := make([]float32, 8)

	n, err := src.ReadSamples(dst)
	require.NoError(t, err)
	require.Equal(t, 4, n)
	assert.InDeltaSlice(t, []float32{0, 0.5, -0.5, -1}, dst[:n], 1e-6)

	n, err = src.ReadSamples(dst)
	assert.ErrorIs(t, err, io.EOF)
	assert.Zero(t, n)

	n, err = src.ReadSamples(dst)
	assert.ErrorIs(t, err, io.EOF)
	assert.Zero(t, n)
}

func TestSource_SplitSamples(t *testing.T) {
	t.Parallel()

	mock := newMockMP3Reader(48000, []int16{100, 200, 300, 400})
	mock.chunk = 3
	src := &source{dec: mock, sampleRate: 48000}

	var got []float32
	dst := make([]float32, 2)
	for {
		n, err := src.ReadSamples(dst)
		got = append(got, dst[:n]...)
		if err != nil {
			require.ErrorIs(t, err, io.EOF)
			break
		}
	}

	assert.InDeltaSlice(t, []float32{100.0 / 32768, 200.0 / 32768, 300.0 / 32768, 400.0 / 32768}, got, 1e-7)
}

func TestSource_ReadSamples_Errors(t *testing.T) {
	t.Parallel()

	mock := newMockMP3Reader(44100, []int16{1, 2})
	mock.returnErrors = true
	src := &source{dec: mock, sampleRate: 44100}

	_, err := src.ReadSamples(make([]float32, 4))
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)

	_, err = src.ReadSamples(make([]float32, 3))
	assert.ErrorIs(t, err, audio.ErrInvalidDstSize)
}
