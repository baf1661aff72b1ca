// SPDX-License-Identifier: EPL-2.0

package vorbis_test

import (
	"bytes"
	"fmt"

	"github.com/ik5/soundcore/audio"
	"github.com/ik5/soundcore/formats/vorbis"
)

// ExampleDecoder_Decode shows error handling for data that is not Ogg.
func ExampleDecoder_Decode() {
	registry := audio.NewRegistry()
	registry.Register("ogg", vorbis.Decoder{})

	dec, _ := registry.Get("OGG")
	_, err := dec.Decode(bytes.NewReader([]byte("not an ogg file")))
	fmt.Println(err != nil)
	// Output: true
}
