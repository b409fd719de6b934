// internal/log/console.go
package log

import (
	"io"
	"log/slog"
)

// Output formats accepted by Config.Format.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// NewConsoleHandler builds the slog handler backing the global logger.
// Text is the default; JSON is for when the server runs behind a log
// collector. Unknown formats fall back to text rather than failing.
func NewConsoleHandler(w io.Writer, cfg *Config, level slog.Level) slog.Handler {
	opts := &slog.HandlerOptions{
		Level: level,
	}

	if cfg.Format == FormatJSON {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}
