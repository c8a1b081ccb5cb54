// Package logger builds charmbracelet/log loggers for glosstip packages.
// Every logger writes to stderr since stdout carries the IPC stream.
package logger

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// Setup configures the package-level logger used by the core packages.
func Setup(debug bool) {
	log.SetOutput(os.Stderr)
	log.SetReportTimestamp(false)
	if debug {
		log.SetLevel(log.DebugLevel)
		log.SetReportCaller(true)
		return
	}
	log.SetLevel(log.WarnLevel)
}

// New creates a prefixed logger that respects the global log level.
func New(prefix string) *log.Logger {
	return NewWithWriter(os.Stderr, prefix, log.GetLevel())
}

// NewWithWriter creates a prefixed logger on w.
func NewWithWriter(w io.Writer, prefix string, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:          prefix,
		Level:           level,
		ReportCaller:    false,
		ReportTimestamp: level == log.DebugLevel,
		Formatter:       log.TextFormatter,
	})
}
