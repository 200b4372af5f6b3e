// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package sknn

import (
	"log/slog"

	"github.com/born-ml/sknn/internal/mlp"
)

// SetLogger redirects the package's log output. Every record is tagged
// with a "channel=sknn" attribute so it can be filtered. Training progress
// is logged at Info when Config.Verbose is set; recoverable configuration
// oddities (such as layer parameters that have no effect for their kind)
// are logged at Warn. Passing nil restores the default logger.
func SetLogger(l *slog.Logger) {
	mlp.SetLogger(l)
}
