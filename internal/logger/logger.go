// Package logger builds the zerolog logger injected into every component.
package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// New constructs the process logger. Components receive it (or a child of it)
// through their constructors; there is no package-level logger singleton.
func New(level string, pretty bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	var out io.Writer = os.Stdout
	if pretty {
		out = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}
