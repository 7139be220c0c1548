// Package vklog provides the leveled logging used across this module.
// It mirrors the teacher repo's internal/common/logger.go: one stdlib
// *log.Logger per level, all writing to stderr with a "[LEVEL] " prefix.
package vklog

import (
	"log"
	"os"
)

// Log levels.
const (
	INFO_  = "INFO"
	WARN_  = "WARN"
	ERROR_ = "ERROR"
	DEBUG_ = "DEBUG"
)

// Logger is a level-tagged wrapper around the standard logger.
type Logger struct {
	infoLogger  *log.Logger
	warnLogger  *log.Logger
	errorLogger *log.Logger
	debugLogger *log.Logger
}

// NewLogger initializes and returns a new Logger instance.
func NewLogger() *Logger {
	return &Logger{
		infoLogger:  log.New(os.Stderr, "[INFO]  ", log.Ldate|log.Ltime),
		warnLogger:  log.New(os.Stderr, "[WARN]  ", log.Ldate|log.Ltime),
		errorLogger: log.New(os.Stderr, "[ERROR] ", log.Ldate|log.Ltime),
		debugLogger: log.New(os.Stderr, "[DEBUG] ", log.Ldate|log.Ltime),
	}
}

// Default is the package-level logger used by internal/session's
// observer sideband and by the CLI entry point.
var Default = NewLogger()

// Info logs an informational message.
func (l *Logger) Info(format string, v ...interface{}) { l.Printf(INFO_, format, v...) }

// Warn logs a warning message.
func (l *Logger) Warn(format string, v ...interface{}) { l.Printf(WARN_, format, v...) }

// Error logs an error message.
func (l *Logger) Error(format string, v ...interface{}) { l.Printf(ERROR_, format, v...) }

// Debug logs a debug message.
func (l *Logger) Debug(format string, v ...interface{}) { l.Printf(DEBUG_, format, v...) }

// Printf dispatches format+v to the logger for level.
func (l *Logger) Printf(level string, format string, v ...interface{}) {
	switch level {
	case INFO_:
		l.infoLogger.Printf(format, v...)
	case WARN_:
		l.warnLogger.Printf(format, v...)
	case ERROR_:
		l.errorLogger.Printf(format, v...)
	case DEBUG_:
		l.debugLogger.Printf(format, v...)
	default:
		l.infoLogger.Printf(format, v...)
	}
}
