// Package logging constructs the structured logger used by the cpuid CLI.
// Configuration comes from environment variables so the command surface
// stays free of logging flags.
package logging

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"time"

	"github.com/charmbracelet/log"
)

// LoggerCloser wraps a logger and provides a Close method for cleanup
type LoggerCloser struct {
	*log.Logger
	closer io.Closer
}

// Close closes the underlying writer if it's closeable
func (lc *LoggerCloser) Close() error {
	if lc.closer != nil {
		return lc.closer.Close()
	}
	return nil
}

// NewLoggerWithWriter creates a new logger with the provided writer
func NewLoggerWithWriter(w io.Writer) *LoggerCloser {
	lg := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
	})

	// Set log level from environment
	level := os.Getenv("CPUID_LOG_LEVEL")
	switch level {
	case "debug":
		lg.SetLevel(log.DebugLevel)
	case "warn":
		lg.SetLevel(log.WarnLevel)
	case "error":
		lg.SetLevel(log.ErrorLevel)
	default:
		lg.SetLevel(log.InfoLevel)
	}

	// Set prefix from environment
	prefix := os.Getenv("CPUID_LOG_PREFIX")
	if prefix == "" {
		prefix = "cpuid "
	}

	var closer io.Closer
	if c, ok := w.(io.Closer); ok {
		closer = c
	}

	return &LoggerCloser{
		Logger: lg.WithPrefix(prefix),
		closer: closer,
	}
}

// NewLogger creates a new logger based on environment variables
// CPUID_LOG_LEVEL: debug, info, warn, error (default: info)
// CPUID_LOG_PREFIX: prefix for log messages (default: "cpuid ")
// CPUID_LOG_TO_FILE: when set to "1", logs to a timestamped file instead of stderr
func NewLogger() *LoggerCloser {
	output := io.Writer(os.Stderr)

	// Check if we should log to file
	if os.Getenv("CPUID_LOG_TO_FILE") == "1" {
		// Create timestamped log file
		timestamp := time.Now().Format("20060102-150405")
		logFile := fmt.Sprintf("cpuid-%s-debug.log", timestamp)

		f, err := os.OpenFile(logFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
		if err == nil {
			output = f
		}
		// If file creation fails, fall back to stderr
	}

	return NewLoggerWithWriter(output)
}

// IsDebug returns true if debug logging is enabled
func IsDebug() bool {
	return os.Getenv("CPUID_LOG_LEVEL") == "debug"
}

// RecoverPanic logs an unhandled panic with its stack before running
// cleanup. Snapshot shape faults surface here when a caller mixes scalar
// and subleaf writes to the same leaf.
func RecoverPanic(name string, cleanup func()) {
	if r := recover(); r != nil {
		lg := NewLogger()
		lg.Error(fmt.Sprintf("Panic in %s", name),
			"panic", r,
			"stack", string(debug.Stack()))
		lg.Close()
		if cleanup != nil {
			cleanup()
		}
	}
}
