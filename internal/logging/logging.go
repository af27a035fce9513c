// Package logging builds the application logger. The terminal belongs to the
// UI, so log output goes to a file (or is discarded).
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// Options holds logger configuration.
type Options struct {
	Level           string
	Path            string
	Formatter       log.Formatter
	ReportTimestamp bool
	Prefix          string
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Level:           "info",
		Formatter:       log.LogfmtFormatter,
		ReportTimestamp: true,
		Prefix:          "todoer",
	}
}

// New opens the log destination and returns a logger writing to it. The
// returned closer releases the file; it is a no-op when logging is discarded.
func New(opts Options) (*log.Logger, io.Closer, error) {
	var w io.Writer = io.Discard
	var closer io.Closer = nopCloser{}
	if path := strings.TrimSpace(opts.Path); path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w = f
		closer = f
	}
	return NewWithWriter(w, opts), closer, nil
}

// NewWithWriter builds a logger on an arbitrary writer.
func NewWithWriter(w io.Writer, opts Options) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           ParseLevel(opts.Level),
		Formatter:       opts.Formatter,
		ReportTimestamp: opts.ReportTimestamp,
		Prefix:          opts.Prefix,
	})
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

// ParseLevel converts a level name to a log.Level, defaulting to info.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
