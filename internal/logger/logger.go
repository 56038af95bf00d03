// Package logger configures the diagnostic logger shared by all commands.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/phuslu/log"
)

// New returns a console logger writing to stderr at the given level
func New(level string) *log.Logger {
	return &log.Logger{
		Level: ParseLevel(level),
		Writer: &log.ConsoleWriter{
			Writer:      os.Stderr,
			ColorOutput: isatty.IsTerminal(os.Stderr.Fd()),
		},
	}
}

// Discard returns a logger that drops everything, for tests
func Discard() *log.Logger {
	return &log.Logger{Level: log.PanicLevel, Writer: log.IOWriter{Writer: io.Discard}}
}

// ParseLevel maps a config string to a log level, defaulting to warn
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return log.TraceLevel
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.WarnLevel
	}
}
