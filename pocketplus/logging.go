package pocketplus

import (
	"io"

	"github.com/rs/zerolog"
)

// NewLogger builds a zerolog.Logger writing to w at the given level. It is
// a convenience for callers wiring a Compressor/Decompressor's WithLogger
// option; the package itself never writes to stdout/stderr on its own.
func NewLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// nopLogger is the default logger for every Compressor/Decompressor:
// silent, and cheap enough (zerolog short-circuits disabled levels before
// building the event) to leave wired in on the per-packet path.
func nopLogger() zerolog.Logger {
	return zerolog.Nop()
}
