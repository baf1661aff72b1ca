// SPDX-License-Identifier: EPL-2.0

package sound

import (
	"fmt"

	"github.com/ik5/soundcore/audio"
	"github.com/ik5/soundcore/core"
	"github.com/ik5/soundcore/fusion"
)

// MaxLevel bounds volumes and pitch factors.
const MaxLevel = core.MaxLevel

// Sound is one client of a core session.
type Sound struct {
	core  *core.Core
	owner *fusion.Owner
}

func New(c *core.Core) *Sound {
	s := &Sound{core: c, owner: fusion.NewOwner()}
	log.Debugf("Client %s joined session %s", s.owner, c.ID())
	return s
}

func (s *Sound) Core() *core.Core { return s.core }

// Owner is the identity that holds this client's references.
func (s *Sound) Owner() *fusion.Owner { return s.owner }

// Desc describes a buffer to create. Zero fields take the device settings.
type Desc struct {
	Length int
	Mode   audio.ChannelMode
	Format audio.SampleFormat
	Rate   int
}

func (s *Sound) fill(d Desc) Desc {
	dev := s.core.Info().Config
	if d.Mode == audio.ModeUnknown {
		d.Mode = dev.Mode
	}
	if d.Format == audio.FormatUnknown {
		d.Format = dev.Format
	}
	if d.Rate == 0 {
		d.Rate = dev.Rate
	}
	return d
}

// CreateBuffer allocates a buffer in the session arena.
func (s *Sound) CreateBuffer(d Desc) (*Buffer, error) {
	d = s.fill(d)
	if d.Length <= 0 {
		return nil, fmt.Errorf("buffer length %d: %w", d.Length, audio.ErrInvalidArgument)
	}

	b, err := s.core.CreateBuffer(s.owner, d.Length, d.Mode, d.Format, d.Rate)
	if err != nil {
		return nil, err
	}
	return &Buffer{sound: s, buf: b}, nil
}

func (s *Sound) MasterVolume() float32 { return s.core.MasterVolume() }

// SetMasterVolume sets the session volume in [0,1].
func (s *Sound) SetMasterVolume(v float32) error { return s.core.SetMasterVolume(v) }

func (s *Sound) LocalVolume() float32 { return s.core.LocalVolume() }

// SetLocalVolume sets the software volume in [0,1].
func (s *Sound) SetLocalVolume(v float32) error { return s.core.SetLocalVolume(v) }

func (s *Sound) Suspend() error { return s.core.Suspend() }

func (s *Sound) Resume() error { return s.core.Resume() }

// Close ends the client. Its references are dropped; objects still in use
// elsewhere live on as zombies until released.
func (s *Sound) Close() {
	log.Debugf("Client %s leaving, %d references held", s.owner, s.owner.Held())
	s.owner.Exit()
}
