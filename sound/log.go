// SPDX-License-Identifier: EPL-2.0

package sound

import "github.com/decred/slog"

var log = slog.Disabled

func UseLogger(logger slog.Logger) {
	log = logger
}
