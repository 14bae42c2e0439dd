// Package logger provides the logging used across linkmark.
package logger

import (
	"io"
	"log"
)

// Logger reports progress and dropped references.
type Logger interface {
	Logf(format string, args ...any)
}

type noopLogger struct{}

// NewNoopLogger returns a logger that discards everything.
func NewNoopLogger() Logger {
	return noopLogger{}
}

func (noopLogger) Logf(string, ...any) {}

type defaultLogger struct {
	l *log.Logger
}

// NewDefaultLogger returns a logger writing through the standard log
// package.
func NewDefaultLogger() Logger {
	return &defaultLogger{l: log.Default()}
}

// New returns a logger writing to w with the standard log flags.
func New(w io.Writer) Logger {
	return &defaultLogger{l: log.New(w, "", log.LstdFlags)}
}

func (d *defaultLogger) Logf(format string, args ...any) {
	d.l.Printf(format, args...)
}
