package observability

import (
	"os"
	"time"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ConsoleOptions controls the human-readable diagnostic stream.
type ConsoleOptions struct {
	Timestamp bool
	NoColor   bool
}

// InitLogger installs a console logger on out as the global zerolog logger.
// Colour is dropped when out is not a terminal.
func InitLogger(app string, out *os.File, opts ConsoleOptions) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        colorable.NewColorable(out),
		NoColor:    opts.NoColor || !IsTerminal(out),
		TimeFormat: time.RFC3339,
	}
	if !opts.Timestamp {
		output.PartsExclude = []string{zerolog.TimestampFieldName}
	}
	ctx := zerolog.New(output).With().Str("app", app)
	if opts.Timestamp {
		ctx = ctx.Timestamp()
	}
	logger := ctx.Logger()
	log.Logger = logger
	return logger
}

// InitJSONLogger installs a plain JSON-lines logger on out.
func InitJSONLogger(app string, out *os.File) zerolog.Logger {
	logger := zerolog.New(out).With().Timestamp().Str("app", app).Logger()
	log.Logger = logger
	return logger
}

// IsTerminal reports whether f is attached to an interactive terminal.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
