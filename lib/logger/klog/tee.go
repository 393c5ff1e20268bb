package klog

import (
	"io"

	"github.com/dunice-shabanov/passport-youtube/lib/logger"
)

// Tee forwards every message to all its loggers, in order.
type Tee []logger.Logger

// NewTee returns a Logger writing to all the non nil loggers passed.
func NewTee(loggers ...logger.Logger) Tee {
	var tee Tee
	for _, log := range loggers {
		if log != nil {
			tee = append(tee, log)
		}
	}
	return tee
}

func (t Tee) Debugf(format string, args ...interface{}) {
	for _, log := range t {
		log.Debugf(format, args...)
	}
}

func (t Tee) Infof(format string, args ...interface{}) {
	for _, log := range t {
		log.Infof(format, args...)
	}
}

func (t Tee) Warnf(format string, args ...interface{}) {
	for _, log := range t {
		log.Warnf(format, args...)
	}
}

func (t Tee) Errorf(format string, args ...interface{}) {
	for _, log := range t {
		log.Errorf(format, args...)
	}
}

// SetOutput redirects all the loggers to writer.
func (t Tee) SetOutput(writer io.Writer) {
	for _, log := range t {
		log.SetOutput(writer)
	}
}
