// Package logger builds the charmbracelet loggers shared by the host, the
// engines and the CLI.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// New returns a stderr logger at the given level name.
func New(level string) *log.Logger {
	return NewWithWriter(os.Stderr, level)
}

// NewWithWriter returns a logger writing to w at the given level name.
// Unknown names select info.
func NewWithWriter(w io.Writer, level string) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "2006-01-02 15:04:05",
		Prefix:          "webtempl",
	})
	l.SetLevel(ParseLevel(level))
	return l
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

// ParseLevel maps a level name to a log level.
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
