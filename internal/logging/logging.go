// Package logging configura o logger global do zerolog.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

type Options struct {
	Level   string
	Format  string
	NoColor bool
	// Output defaults to stderr.
	Output io.Writer
}

// InitDefault sets up a console logger before flags are parsed.
func InitDefault() {
	_ = Init(Options{Level: "info", Format: FormatConsole})
}

func Init(opts Options) error {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	level := zerolog.InfoLevel
	if strings.TrimSpace(opts.Level) != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		level = parsed
	}
	zerolog.SetGlobalLevel(level)

	switch strings.ToLower(opts.Format) {
	case "", FormatConsole:
		out = zerolog.ConsoleWriter{Out: out, NoColor: opts.NoColor, TimeFormat: time.RFC3339}
	case FormatJSON:
	default:
		return fmt.Errorf("invalid log format %q", opts.Format)
	}

	log.Logger = zerolog.New(out).With().Timestamp().Logger()
	return nil
}
