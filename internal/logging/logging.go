// Package logging configures zerolog output for the analysis pipeline.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var base = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
	Level(zerolog.InfoLevel).
	With().Timestamp().Logger()

// Init configures the base logger. Level is one of zerolog's named levels
// (trace, debug, info, warn, error). When logFile is non-empty, log events
// are written both to the console and to that file.
func Init(level, logFile string) error {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("parse log level %q: %w", level, err)
	}

	writers := []io.Writer{zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}}

	if logFile != "" {
		if dir := filepath.Dir(logFile); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create log directory: %w", err)
			}
		}
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		writers = append(writers, f)
	}

	base = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(lvl).
		With().Timestamp().Logger()
	return nil
}

// NewLogger returns a logger tagged with a component name, so every
// pipeline stage can be told apart in shared log output.
func NewLogger(component string) zerolog.Logger {
	return base.With().Str("component", component).Logger()
}
