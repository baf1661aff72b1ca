// SPDX-License-Identifier: EPL-2.0

package device

import "github.com/decred/slog"

var log = slog.Disabled

// UseLogger sets the logger shared by the registry and every backend.
func UseLogger(logger slog.Logger) {
	log = logger
}

// Log returns the package logger for backends.
func Log() slog.Logger { return log }
