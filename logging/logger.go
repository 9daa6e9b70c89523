// Package logging provides the structured logging stack for the pipeline:
// a zap-backed Logger that tees colored console output (dev mode) with a
// rotating JSON log file, redacting session credentials before anything
// reaches a sink.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the logging organism wrapping zap.Logger with automatic
// sensitive-data redaction.
//
// It composes:
//   - FileWriter molecule (log rotation via lumberjack)
//   - MultiCore molecule (tee output to console + file)
//   - sensitive filter atoms (session credential redaction)
//
// Example:
//
//	logger, err := NewLogger(true, "dreamina.log")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer logger.Sync()
//
//	logger.Info("run started", zap.Int("total_prompts", 42))
type Logger struct {
	zap *zap.Logger
}

// NewLogger creates a Logger for the given environment.
//
// In development mode the console shows colored human-readable entries at
// debug level; otherwise both sinks emit JSON at info level. The file sink
// always emits JSON and rotates per DefaultFileWriterConfig.
func NewLogger(isDevelopment bool, logFilePath string) (*Logger, error) {
	return NewLoggerWithConfig(isDevelopment, logFilePath, DefaultFileWriterConfig())
}

// NewLoggerWithConfig creates a Logger with custom file rotation settings.
func NewLoggerWithConfig(isDevelopment bool, logFilePath string, fileConfig FileWriterConfig) (*Logger, error) {
	if logFilePath == "" {
		return nil, fmt.Errorf("logging: log file path is required")
	}

	level := zapcore.InfoLevel
	if isDevelopment {
		level = zapcore.DebugLevel
	}

	fileWriter := NewFileWriterWithConfig(logFilePath, fileConfig)
	core := NewMultiCore(level, fileWriter, isDevelopment)

	zapLogger := zap.New(core,
		zap.AddCaller(),
		zap.AddCallerSkip(1), // skip this wrapper layer
	)

	return &Logger{zap: zapLogger}, nil
}

// Sync flushes any buffered log entries. Call before exiting.
func (l *Logger) Sync() error {
	if l == nil || l.zap == nil {
		return nil
	}
	return l.zap.Sync()
}

// Debug logs a message at DebugLevel with structured fields.
func (l *Logger) Debug(msg string, fields ...zap.Field) {
	l.zap.Debug(msg, l.redactFields(fields)...)
}

// Info logs a message at InfoLevel with structured fields.
func (l *Logger) Info(msg string, fields ...zap.Field) {
	l.zap.Info(msg, l.redactFields(fields)...)
}

// Warn logs a message at WarnLevel with structured fields.
func (l *Logger) Warn(msg string, fields ...zap.Field) {
	l.zap.Warn(msg, l.redactFields(fields)...)
}

// Error logs a message at ErrorLevel with structured fields.
func (l *Logger) Error(msg string, fields ...zap.Field) {
	l.zap.Error(msg, l.redactFields(fields)...)
}

// Fatal logs a message at FatalLevel then exits the process.
func (l *Logger) Fatal(msg string, fields ...zap.Field) {
	l.zap.Fatal(msg, l.redactFields(fields)...)
}

// With returns a child logger carrying the given fields on every entry.
// Used for per-dispatch context such as correlation IDs.
//
// Example:
//
//	log := logger.With(zap.String(FieldCorrelationID, corrID))
//	log.Info("dispatching prompt")
func (l *Logger) With(fields ...zap.Field) *Logger {
	return &Logger{zap: l.zap.With(l.redactFields(fields)...)}
}

// Named returns a child logger tagged with a component name.
//
// Example:
//
//	schedLog := logger.Named("scheduler")
//	genLog := logger.Named("imagegen")
func (l *Logger) Named(name string) *Logger {
	return &Logger{zap: l.zap.Named(name)}
}

// redactFields filters sensitive data from fields before every log
// operation.
func (l *Logger) redactFields(fields []zap.Field) []zap.Field {
	if len(fields) == 0 {
		return fields
	}

	result := make([]zap.Field, len(fields))
	for i, field := range fields {
		result[i] = redactField(field)
	}
	return result
}

// redactField redacts a single field if its name or string value carries
// credential material.
func redactField(field zap.Field) zap.Field {
	if IsSensitiveField(field.Key) {
		return zap.String(field.Key, RedactedPlaceholder)
	}

	if field.Type == zapcore.StringType {
		redacted := RedactSensitiveData(field.String)
		if redacted != field.String {
			return zap.String(field.Key, redacted)
		}
	}

	return field
}
