// SPDX-License-Identifier: EPL-2.0

package flac_test

import (
	"fmt"

	"github.com/ik5/soundcore/audio"
	"github.com/ik5/soundcore/formats/flac"
)

func ExampleDecoder() {
	registry := audio.NewRegistry()
	registry.Register("flac", flac.Decoder{})

	_, ok := registry.ForFile("/music/track01.FLAC")
	fmt.Println(ok)
	// Output: true
}
