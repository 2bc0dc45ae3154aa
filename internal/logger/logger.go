package logger

import (
	"sync"
)

// Log levels accepted by log.level.
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

var (
	// globalLogger holds the process logger built by the first Get call.
	globalLogger *Logger
	once         sync.Once
)

// Get returns the process logger configured with the provided level.
// The first call initializes it; later calls ignore the level.
func Get(level string) *Logger {
	once.Do(func() {
		globalLogger = New(level)
	})
	return globalLogger
}

// New builds a standalone logger writing to stdout.
func New(level string) *Logger {
	return newZapLogger(level)
}
