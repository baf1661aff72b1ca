// SPDX-License-Identifier: EPL-2.0

package core

import "github.com/decred/slog"

var log = slog.Disabled

// UseLogger sets the package logger. The audio thread only logs at trace
// level while mixing.
func UseLogger(logger slog.Logger) {
	log = logger
}
