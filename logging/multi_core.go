package logging

import (
	"os"

	"go.uber.org/zap/zapcore"
)

// NewMultiCore returns a zapcore.Core that tees every entry to stdout and
// to the given file writer.
//
// The file side always uses JSON encoding so the log survives as structured
// data. The console side is human-readable and colored in dev mode, JSON
// otherwise.
//
// Example:
//
//	core := NewMultiCore(zapcore.InfoLevel, NewFileWriter("dreamina.log"), true)
//	logger := zap.New(core)
func NewMultiCore(level zapcore.Level, fileWriter zapcore.WriteSyncer, isDev bool) zapcore.Core {
	return NewMultiCoreWithWriters(level, zapcore.Lock(os.Stdout), fileWriter, isDev)
}

// NewMultiCoreWithWriters is the writer-injected variant of NewMultiCore,
// used by tests to capture output.
func NewMultiCoreWithWriters(level zapcore.Level, consoleWriter, fileWriter zapcore.WriteSyncer, isDev bool) zapcore.Core {
	fileEncoder := zapcore.NewJSONEncoder(NewEncoderConfig())
	fileCore := zapcore.NewCore(fileEncoder, fileWriter, level)

	var consoleEncoder zapcore.Encoder
	if isDev {
		consoleEncoder = zapcore.NewConsoleEncoder(NewConsoleEncoderConfig())
	} else {
		consoleEncoder = zapcore.NewJSONEncoder(NewEncoderConfig())
	}
	consoleCore := zapcore.NewCore(consoleEncoder, consoleWriter, level)

	return zapcore.NewTee(consoleCore, fileCore)
}
