// Package logging builds the service's zerolog logger.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
)

// New returns a timestamped logger writing to w at the given level.
// Format "console" renders human-readable lines; "json" writes raw JSON.
// A nil w writes to stderr.
func New(level, format string, w io.Writer) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("log level: %w", err)
	}
	if w == nil {
		w = os.Stderr
	}
	switch format {
	case "console":
		w = zerolog.ConsoleWriter{Out: w}
	case "json", "":
	default:
		return zerolog.Nop(), fmt.Errorf("unknown log format %q", format)
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}
