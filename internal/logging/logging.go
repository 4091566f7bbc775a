// Package logging builds the launcher's zap logger.
package logging

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects the log sinks. A nil writer disables that sink.
type Options struct {
	// Info receives debug, info and warn entries (stdout when it is a terminal).
	Info io.Writer
	// Error receives error entries and above (stderr when it is a terminal).
	Error io.Writer
	// Color enables colored level names.
	Color bool
}

// New creates a console logger that splits entries by level across two sinks.
func New(opts Options) *zap.Logger {
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if opts.Color {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	encoder := zapcore.NewConsoleEncoder(encoderConfig)

	var cores []zapcore.Core
	if opts.Info != nil {
		low := zap.LevelEnablerFunc(func(l zapcore.Level) bool { return l < zapcore.ErrorLevel })
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(opts.Info), low))
	}
	if opts.Error != nil {
		high := zap.LevelEnablerFunc(func(l zapcore.Level) bool { return l >= zapcore.ErrorLevel })
		cores = append(cores, zapcore.NewCore(encoder.Clone(), zapcore.AddSync(opts.Error), high))
	}

	if len(cores) == 0 {
		return zap.NewNop()
	}
	return zap.New(zapcore.NewTee(cores...))
}
