package logging

import (
	"time"

	"go.uber.org/zap/zapcore"
)

// Standard encoder keys for structured log output.
const (
	// FieldTimestamp is the key for the log entry timestamp
	FieldTimestamp = "timestamp"

	// FieldLevel is the key for the log level
	FieldLevel = "level"

	// FieldComponent is the key carrying the Named() logger chain
	FieldComponent = "component"

	// FieldMessage is the key for the log message
	FieldMessage = "message"

	// FieldStacktrace is the key for stack traces (error and above)
	FieldStacktrace = "stacktrace"

	// FieldCaller is the key for the calling file:line
	FieldCaller = "caller"
)

// Shared field names attached by pipeline components, kept here so every
// package labels the same thing the same way.
const (
	// FieldRunID tags every entry of a run with its UUID
	FieldRunID = "run_id"

	// FieldCorrelationID tags all entries of one prompt dispatch
	FieldCorrelationID = "correlation_id"

	// FieldAccount is the account identity (file stem, never the credential)
	FieldAccount = "account"

	// FieldPromptIndex is the 1-based global prompt sequence index
	FieldPromptIndex = "prompt_index"
)

// NewEncoderConfig returns the encoder configuration for JSON output:
// ISO8601 timestamps, lowercase levels, short caller paths, and the
// standard keys above. Pure function.
func NewEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:       FieldTimestamp,
		LevelKey:      FieldLevel,
		NameKey:       FieldComponent,
		CallerKey:     FieldCaller,
		MessageKey:    FieldMessage,
		StacktraceKey: FieldStacktrace,
		LineEnding:    zapcore.DefaultLineEnding,

		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

// NewConsoleEncoderConfig returns the encoder configuration for dev-mode
// console output: colored capital levels and compact clock timestamps.
// Pure function.
func NewConsoleEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:       FieldTimestamp,
		LevelKey:      FieldLevel,
		NameKey:       FieldComponent,
		CallerKey:     FieldCaller,
		MessageKey:    FieldMessage,
		StacktraceKey: FieldStacktrace,
		LineEnding:    zapcore.DefaultLineEnding,

		EncodeLevel:    zapcore.CapitalColorLevelEncoder,
		EncodeTime:     clockTimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

// clockTimeEncoder encodes time as 15:04:05.000 for console readability.
func clockTimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("15:04:05.000"))
}
