// Package logger defines the minimal logging interface used across the libraries.
//
// Libraries accept a Logger through a WithLogger modifier and default to Go,
// which writes through the standard log package. Binaries generally install
// a structured logger from the klog package instead.
package logger

import (
	"io"
	"log"
)

type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})

	SetOutput(writer io.Writer)
}

// DefaultLogger forwards all messages to a *log.Logger, adding a level prefix.
type DefaultLogger struct {
	Printer func(format string, args ...interface{})
	Setter  func(writer io.Writer)
}

func (dl DefaultLogger) Debugf(format string, args ...interface{}) {
	dl.Printer("DEBUG "+format, args...)
}
func (dl DefaultLogger) Infof(format string, args ...interface{}) {
	dl.Printer("INFO "+format, args...)
}
func (dl DefaultLogger) Warnf(format string, args ...interface{}) {
	dl.Printer("WARN "+format, args...)
}
func (dl DefaultLogger) Errorf(format string, args ...interface{}) {
	dl.Printer("ERROR "+format, args...)
}
func (dl DefaultLogger) SetOutput(writer io.Writer) {
	dl.Setter(writer)
}

// Go is a Logger writing to the default logger of the log package.
var Go = &DefaultLogger{Printer: log.Printf, Setter: log.SetOutput}

type NilLogger struct{}

func (nl NilLogger) Debugf(format string, args ...interface{}) {}
func (nl NilLogger) Infof(format string, args ...interface{})  {}
func (nl NilLogger) Warnf(format string, args ...interface{})  {}
func (nl NilLogger) Errorf(format string, args ...interface{}) {}
func (nl NilLogger) SetOutput(writer io.Writer)                {}

// Nil discards every message.
var Nil = &NilLogger{}
