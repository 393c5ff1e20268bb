package klog

import (
	"io"

	"github.com/dunice-shabanov/passport-youtube/lib/logger"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Zap adapts a zap logger to the logger.Logger interface.
type Zap struct {
	level   zap.AtomicLevel
	encoder zapcore.Encoder
	sugar   *zap.SugaredLogger
}

// NewZap returns a Logger writing console encoded lines to writer.
//
// debug enables Debugf output, which is discarded otherwise.
func NewZap(writer io.Writer, debug bool) *Zap {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if debug {
		level.SetLevel(zapcore.DebugLevel)
	}

	config := zap.NewProductionEncoderConfig()
	config.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncodeLevel = zapcore.CapitalLevelEncoder
	encoder := zapcore.NewConsoleEncoder(config)

	z := &Zap{level: level, encoder: encoder}
	z.SetOutput(writer)
	return z
}

func (z *Zap) Debugf(format string, args ...interface{}) {
	z.sugar.Debugf(format, args...)
}

func (z *Zap) Infof(format string, args ...interface{}) {
	z.sugar.Infof(format, args...)
}

func (z *Zap) Warnf(format string, args ...interface{}) {
	z.sugar.Warnf(format, args...)
}

func (z *Zap) Errorf(format string, args ...interface{}) {
	z.sugar.Errorf(format, args...)
}

// SetOutput rebuilds the zap core on top of writer, keeping level and encoding.
func (z *Zap) SetOutput(writer io.Writer) {
	core := zapcore.NewCore(z.encoder, zapcore.AddSync(writer), z.level)
	z.sugar = zap.New(core).Sugar()
}

// Sync flushes any buffered log entries.
func (z *Zap) Sync() error {
	return z.sugar.Sync()
}

var _ logger.Logger = (*Zap)(nil)
