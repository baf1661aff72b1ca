// SPDX-License-Identifier: EPL-2.0

package soundcore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ik5/soundcore/audio"
	"github.com/ik5/soundcore/core"
	"github.com/ik5/soundcore/fusion"
	"github.com/ik5/soundcore/mix"
	"github.com/ik5/soundcore/sound"
)

// MinStreamFrames is the smallest ring PlayStream accepts.
const MinStreamFrames = 256

// stream tracks how far the producer is ahead of the mixer in a looping
// ring buffer.
type stream struct {
	buf    *core.Buffer
	frames int
	mode   audio.ChannelMode
	chunk  []float32

	mtx      sync.Mutex
	cond     *sync.Cond
	written  int64
	consumed int64
	done     bool
}

// advanced counts the frames the mixer took. It runs on the mixing thread.
func (st *stream) advanced(n core.Notification) fusion.Result {
	if n.Flags&(core.NotifyAdvance|core.NotifyStop) == 0 {
		return fusion.RSOk
	}
	st.mtx.Lock()
	st.consumed += int64(n.Num)
	st.cond.Broadcast()
	st.mtx.Unlock()
	return fusion.RSOk
}

func (st *stream) wake() {
	st.mtx.Lock()
	st.done = true
	st.cond.Broadcast()
	st.mtx.Unlock()
}

// space returns the room in the ring in frames, waiting for some when wait
// is set. One frame stays empty so a full ring never looks like an empty one.
func (st *stream) space(ctx context.Context, wait bool) (int, error) {
	st.mtx.Lock()
	defer st.mtx.Unlock()

	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		// after an underrun the mixer is ahead of the producer
		free := min(st.frames-1, st.frames-1-int(st.written-st.consumed))
		if free > 0 || !wait {
			return free, nil
		}
		if st.done {
			return 0, context.Canceled
		}
		st.cond.Wait()
	}
}

// put encodes samples at the write cursor, wrapping at the ring end.
func (st *stream) put(samples []float32) error {
	ch := st.mode.Channels()
	at := int(st.written % int64(st.frames))

	for len(samples) > 0 {
		n := min(len(samples)/ch, st.frames-at)
		data, err := st.buf.Lock(at, n)
		if err != nil {
			return err
		}
		mix.EncodeFloat(data, st.buf.Format(), samples[:n*ch])
		st.buf.Unlock()

		samples = samples[n*ch:]
		at = (at + n) % st.frames

		st.mtx.Lock()
		st.written += int64(n)
		st.mtx.Unlock()
	}
	return nil
}

// fill copies src into the ring until it runs dry or the ring is full
// and block is false.
func (st *stream) fill(ctx context.Context, src audio.Source, block bool) (bool, error) {
	ch := st.mode.Channels()
	for {
		free, err := st.space(ctx, block)
		if err != nil {
			return false, err
		}
		if !block && free < len(st.chunk)/ch {
			return false, nil
		}

		n, err := src.ReadSamples(st.chunk[:min(free*ch, len(st.chunk))])
		n -= n % ch
		if n > 0 {
			if perr := st.put(st.chunk[:n]); perr != nil {
				return false, perr
			}
		}
		if errors.Is(err, io.EOF) {
			return true, nil
		}
		if err != nil {
			return false, fmt.Errorf("read samples: %w", err)
		}
	}
}

// PlayStream plays src through a looping ring buffer of frames frames,
// decoding ahead of the mixer as it frees room. It returns once the last
// decoded frame was mixed or ctx is done. The source is not closed.
func PlayStream(ctx context.Context, s *sound.Sound, src audio.Source, frames int) error {
	if frames < MinStreamFrames {
		return fmt.Errorf("stream: ring of %d frames: %w", frames, audio.ErrInvalidArgument)
	}
	src, mode := layout(src)

	buf, err := s.CreateBuffer(sound.Desc{Length: frames, Mode: mode, Format: audio.FormatFloat, Rate: src.SampleRate()})
	if err != nil {
		return fmt.Errorf("stream: %w", err)
	}
	defer buf.Release()

	pb, err := buf.CreatePlayback()
	if err != nil {
		return fmt.Errorf("stream: %w", err)
	}
	defer pb.Release()

	st := &stream{
		buf:    buf.Core(),
		frames: frames,
		mode:   mode,
		chunk:  make([]float32, min(max(src.BufSize(), 256), frames/2)*mode.Channels()),
	}
	st.cond = sync.NewCond(&st.mtx)
	reaction := pb.Core().Attach(st.advanced)
	defer pb.Core().Detach(reaction)

	eof, err := st.fill(ctx, src, false)
	if err != nil {
		return fmt.Errorf("stream: prefill: %w", err)
	}

	if eof && st.written == 0 {
		log.Debugf("Nothing to stream")
		return nil
	}

	stop := -1
	if eof {
		stop = int(st.written % int64(frames))
	}
	if err := pb.Start(0, stop); err != nil {
		return fmt.Errorf("stream: %w", err)
	}
	log.Debugf("Streaming %s at %d Hz through %d frames", mode, src.SampleRate(), frames)

	g, gctx := errgroup.WithContext(ctx)
	produced := make(chan struct{})

	g.Go(func() error {
		defer close(produced)
		if eof {
			return nil
		}

		unwake := context.AfterFunc(gctx, st.wake)
		defer unwake()

		if _, err := st.fill(gctx, src, true); err != nil {
			return err
		}

		// consumed lags the mixer, so ahead bounds what is left to play
		st.mtx.Lock()
		ahead := int(st.written - st.consumed)
		at := int(st.written % int64(frames))
		st.mtx.Unlock()

		_, err := pb.Core().SetStopWithin(at, ahead)
		return err
	})

	g.Go(func() error {
		select {
		case <-produced:
		case <-gctx.Done():
			return gctx.Err()
		}
		return pb.Wait(gctx)
	})

	err = g.Wait()
	if stopErr := pb.Core().Stop(true); err == nil {
		err = stopErr
	}
	if err != nil {
		return fmt.Errorf("stream: %w", err)
	}
	log.Debugf("Stream finished after %d frames", st.written)
	return nil
}
