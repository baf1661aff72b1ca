// SPDX-License-Identifier: EPL-2.0

package mp3_test

import (
	"bytes"
	"fmt"

	"github.com/ik5/soundcore/audio"
	"github.com/ik5/soundcore/formats/mp3"
)

// ExampleDecoder_Decode shows how a broken stream is reported.
func ExampleDecoder_Decode() {
	registry := audio.NewRegistry()
	registry.Register("mp3", mp3.Decoder{})

	dec, ok := registry.ForFile("song.mp3")
	fmt.Println(ok)

	_, err := dec.Decode(bytes.NewReader(nil))
	fmt.Println(err != nil)
	// Output:
	// true
	// true
}
