package log

import (
	"context"
	"log/slog"
)

// Diagnostics reports human-readable progress of a single probe.
// The zero value is not usable; use NewDiagnostics.
type Diagnostics struct {
	logger  *slog.Logger
	verbose bool
}

// NewDiagnostics binds logger to the verbosity of one probe.
// A nil logger discards all messages.
func NewDiagnostics(logger *slog.Logger, verbose bool) *Diagnostics {
	if logger == nil {
		logger = Nop()
	}
	return &Diagnostics{logger: logger, verbose: verbose}
}

// Report emits msg with the given key/value pairs.
// verboseOnly messages are emitted at Debug level and only in verbose mode;
// the rest are emitted at Info level.
func (d *Diagnostics) Report(msg string, verboseOnly bool, args ...any) {
	if verboseOnly {
		if !d.verbose {
			return
		}
		d.logger.Log(context.Background(), slog.LevelDebug, msg, args...)
		return
	}
	d.logger.Log(context.Background(), slog.LevelInfo, msg, args...)
}

// Verbose reports whether verbose-only messages are emitted.
func (d *Diagnostics) Verbose() bool {
	return d.verbose
}

// With returns Diagnostics that add args to every message.
func (d *Diagnostics) With(args ...any) *Diagnostics {
	return &Diagnostics{logger: d.logger.With(args...), verbose: d.verbose}
}
