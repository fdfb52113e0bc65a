// Package logging provides structured logging for the completionist system using zerolog.
// It supports human-readable console output on terminals and structured JSON
// output otherwise.
//
// Example usage:
//
//	log := logging.Default()
//	log.Info().Int64("app_id", 440).Msg("Resolving achievements")
package logging

import (
	"os"

	"github.com/rs/zerolog"
)

var (
	// defaultLogger is the global logger instance.
	defaultLogger zerolog.Logger

	// Nop logger for discarding output.
	Nop = zerolog.Nop()
)

func init() {
	defaultLogger = NewLoggerFromConfig(DefaultConfig())
}

// Default returns the default logger instance.
func Default() zerolog.Logger {
	return defaultLogger
}

// SetDefault replaces the default logger instance.
func SetDefault(logger zerolog.Logger) {
	defaultLogger = logger
}

// Debug starts a new message with debug level using the default logger.
func Debug() *zerolog.Event {
	return defaultLogger.Debug()
}

// Info starts a new message with info level using the default logger.
func Info() *zerolog.Event {
	return defaultLogger.Info()
}

// Warn starts a new message with warn level using the default logger.
func Warn() *zerolog.Event {
	return defaultLogger.Warn()
}

// Error starts a new message with error level using the default logger.
func Error() *zerolog.Event {
	return defaultLogger.Error()
}

// isatty checks if stderr is a terminal.
func isatty() bool {
	if fileInfo, _ := os.Stderr.Stat(); (fileInfo.Mode() & os.ModeCharDevice) != 0 {
		return true
	}
	return false
}
