// SPDX-License-Identifier: EPL-2.0

// Package sound is the client facing layer over a core session. It checks
// every argument before anything in the core changes, so a rejected call
// leaves the buffer or playback exactly as it was.
//
// A Sound stands for one client. Buffers and playbacks created through it are
// owned by the client and are reclaimed when it closes:
//
//	s := sound.New(c)
//	defer s.Close()
//
//	buf, _ := s.CreateBuffer(sound.Desc{Length: 44100})
//	data, frames, _ := buf.Lock()
//	// fill frames frames of data
//	buf.Unlock()
//
//	pb, _ := buf.CreatePlayback()
//	pb.Start(0, 0)
//	pb.Wait(ctx)
//
// Volumes range over [0,64] with 1 as unity, pitch over [0,64] with 1 as the
// recorded speed.
package sound
