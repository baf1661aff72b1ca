// SPDX-License-Identifier: EPL-2.0

// Package core is the sound core of a session: it owns the sample arena,
// the buffer and playback registries, the playlist and the output device,
// and runs the audio thread that mixes every playing Playback into the
// device one period at a time.
//
// A Buffer is fixed size PCM storage carved out of the arena. A Playback is
// a cursor over a Buffer with its own position, stop point, pitch and
// volume. Both are reference counted registry objects; the core holds an
// extra reference on every Playback in the playlist and drops it once the
// Playback finishes or is stopped with disable set.
//
// Every mutation visible to the mixer takes the playlist lock, which the
// audio thread holds for one mixing pass. Format conversion and device I/O
// happen outside of it. Notifications produced while mixing are delivered
// after the lock is released.
package core
