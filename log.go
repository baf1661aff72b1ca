// SPDX-License-Identifier: EPL-2.0

package soundcore

import (
	"fmt"
	"io"

	"github.com/decred/slog"

	"github.com/ik5/soundcore/audio"
	"github.com/ik5/soundcore/core"
	"github.com/ik5/soundcore/device"
	"github.com/ik5/soundcore/fusion"
	"github.com/ik5/soundcore/sound"
)

var log = slog.Disabled

// SetLogWriter sends the logs of every package to w. level is one of
// trace, debug, info, warn, error, critical or off.
func SetLogWriter(w io.Writer, level string) error {
	lvl, ok := slog.LevelFromString(level)
	if !ok {
		return fmt.Errorf("log level %q: %w", level, audio.ErrInvalidArgument)
	}

	backend := slog.NewBackend(w)
	logger := func(tag string) slog.Logger {
		l := backend.Logger(tag)
		l.SetLevel(lvl)
		return l
	}

	fusion.UseLogger(logger("FUSN"))
	core.UseLogger(logger("CORE"))
	device.UseLogger(logger("DEVC"))
	sound.UseLogger(logger("SOND"))
	log = logger("SNDC")
	return nil
}
