package logging

import (
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Default rotation settings for the pipeline's log file. A batch run logs
// far less than a resident service, so the caps are modest.
const (
	// DefaultMaxSizeMB is the maximum log file size before rotation
	DefaultMaxSizeMB = 25

	// DefaultMaxBackups is the number of rotated files to retain
	DefaultMaxBackups = 3

	// DefaultMaxAgeDays is the retention age for rotated files
	DefaultMaxAgeDays = 14

	// DefaultCompress gzips rotated files
	DefaultCompress = true
)

// FileWriterConfig holds log rotation settings. Zero values fall back to
// the defaults above (Compress excepted; use DefaultFileWriterConfig to get
// the true default).
type FileWriterConfig struct {
	// MaxSizeMB is the maximum size in megabytes before rotation.
	MaxSizeMB int

	// MaxBackups is the maximum number of rotated files to retain.
	MaxBackups int

	// MaxAgeDays is the maximum age in days of retained rotated files.
	MaxAgeDays int

	// Compress gzips rotated files when true.
	Compress bool

	// LocalTime names backups in local time instead of UTC.
	LocalTime bool
}

// DefaultFileWriterConfig returns the standard rotation settings.
// Pure function.
func DefaultFileWriterConfig() FileWriterConfig {
	return FileWriterConfig{
		MaxSizeMB:  DefaultMaxSizeMB,
		MaxBackups: DefaultMaxBackups,
		MaxAgeDays: DefaultMaxAgeDays,
		Compress:   DefaultCompress,
		LocalTime:  false,
	}
}

// NewFileWriter returns a rotating WriteSyncer for the given path using the
// default configuration.
//
// Example:
//
//	writer := NewFileWriter("dreamina.log")
//	core := zapcore.NewCore(encoder, writer, level)
func NewFileWriter(path string) zapcore.WriteSyncer {
	return NewFileWriterWithConfig(path, DefaultFileWriterConfig())
}

// NewFileWriterWithConfig returns a rotating WriteSyncer with custom
// settings, filling zero values from the defaults.
func NewFileWriterWithConfig(path string, config FileWriterConfig) zapcore.WriteSyncer {
	cfg := applyFileWriterDefaults(config)

	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
		LocalTime:  cfg.LocalTime,
	})
}

// applyFileWriterDefaults fills zero values with defaults. Pure function.
// Compress cannot be defaulted here (false is a valid choice); it defaults
// through DefaultFileWriterConfig instead.
func applyFileWriterDefaults(config FileWriterConfig) FileWriterConfig {
	result := config

	if result.MaxSizeMB == 0 {
		result.MaxSizeMB = DefaultMaxSizeMB
	}
	if result.MaxBackups == 0 {
		result.MaxBackups = DefaultMaxBackups
	}
	if result.MaxAgeDays == 0 {
		result.MaxAgeDays = DefaultMaxAgeDays
	}

	return result
}
