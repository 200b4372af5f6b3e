package mlp

import "log/slog"

// logger carries every record the engine emits, tagged with the "sknn"
// channel so callers can filter or silence it.
var logger = slog.Default().With(slog.String("channel", "sknn"))

// SetLogger redirects the engine's log output. Passing nil restores the
// default logger.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.Default()
	}
	logger = l.With(slog.String("channel", "sknn"))
}
