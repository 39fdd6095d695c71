package logger

import (
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// global is the process-wide logger. It discards everything until Init runs.
var global = zerolog.New(io.Discard)

// Options controls Init.
type Options struct {
	Debug   bool
	NoColor bool
	// JSON switches the console writer off, e.g. when output is redirected.
	JSON bool
	Out  io.Writer
}

// New builds a logger tagged with a fresh run_id.
func New(opts Options) zerolog.Logger {
	out := opts.Out
	if out == nil {
		out = os.Stderr
	}
	if !opts.JSON {
		out = zerolog.ConsoleWriter{
			Out:        out,
			NoColor:    opts.NoColor,
			TimeFormat: "15:04:05",
		}
	}

	level := zerolog.InfoLevel
	if opts.Debug {
		level = zerolog.DebugLevel
	}

	ctx := zerolog.New(out).Level(level).With().Timestamp().Str("run_id", uuid.NewString())
	if opts.Debug {
		ctx = ctx.Caller()
	}
	return ctx.Logger()
}

// Init replaces the process-wide logger and zerolog's global one.
func Init(opts Options) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339
	global = New(opts)
	log.Logger = global
	return global
}

// Warn starts a warn-level event on the process-wide logger.
func Warn() *zerolog.Event { return global.Warn() }
