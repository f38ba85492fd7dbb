package ddd

import (
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

// Log levels
const (
	LevelDebug = "[\033[90mDEBUG\033[0m] "
	LevelInfo  = "[\033[94mINFO\033[0m] "
	LevelWarn  = "[\033[93mWARN\033[0m] "
	LevelError = "[\033[91mERROR\033[0m] "
)

type Level int32

const (
	Debug Level = iota
	Info
	Warn
	Error
)

// ParseLevel maps a configured level name to a Level, defaulting to Info.
func ParseLevel(name string) Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return Debug
	case "warn", "warning":
		return Warn
	case "error":
		return Error
	default:
		return Info
	}
}

// Logger wraps the standard library logger with additional formatting
type Logger struct {
	*log.Logger
	name       string
	dateFormat string
	minLevel   *atomic.Int32
}

func NewLogger(name string) *Logger {
	return &Logger{
		Logger:     log.New(os.Stdout, "", 0),
		name:       name,
		dateFormat: "2006-01-02 15:04:05.000 -07:00",
		minLevel:   new(atomic.Int32),
	}
}

// Named returns a logger sharing output and level that tags entries with another component name.
func (l *Logger) Named(name string) *Logger {
	return &Logger{
		Logger:     l.Logger,
		name:       name,
		dateFormat: l.dateFormat,
		minLevel:   l.minLevel,
	}
}

// getCallerInfo returns the file name and line number of the caller
func (l *Logger) getCallerInfo(skipFrames int) string {
	_, file, line, ok := runtime.Caller(skipFrames)
	if !ok {
		return "???:0"
	}

	// Extract just the filename from the full path
	parts := strings.Split(file, "/")
	file = parts[len(parts)-1]

	return file + ":" + strconv.Itoa(line)
}

// formatLogEntry creates a formatted log entry
func (l *Logger) formatLogEntry(level, caller, format string, args ...any) string {
	timestamp := time.Now().Format(l.dateFormat)
	message := fmt.Sprintf(format, args...)
	if l.name == "" {
		return fmt.Sprintf("[%s] %s %s: %s", timestamp, level, caller, message)
	}
	return fmt.Sprintf("[%s] %s %s %s: %s", timestamp, level, l.name, caller, message)
}

// SetOutput changes the output destination for the logger
func (l *Logger) SetOutput(w io.Writer) {
	l.Logger.SetOutput(w)
}

// SetDateFormat changes the date format for log timestamps
func (l *Logger) SetDateFormat(format string) {
	l.dateFormat = format
}

// SetLevel drops entries below the given level.
func (l *Logger) SetLevel(level Level) {
	l.minLevel.Store(int32(level))
}

func (l *Logger) enabled(level Level) bool {
	return int32(level) >= l.minLevel.Load()
}

// Debug logs a diagnostic message
func (l *Logger) Debug(format string, args ...any) {
	if l.enabled(Debug) {
		l.Println(l.formatLogEntry(LevelDebug, l.getCallerInfo(2), format, args...))
	}
}

// Info logs an informational message
func (l *Logger) Info(format string, args ...any) {
	if l.enabled(Info) {
		l.Println(l.formatLogEntry(LevelInfo, l.getCallerInfo(2), format, args...))
	}
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...any) {
	if l.enabled(Warn) {
		l.Println(l.formatLogEntry(LevelWarn, l.getCallerInfo(2), format, args...))
	}
}

// Error logs an error message
func (l *Logger) Error(format string, args ...any) {
	if l.enabled(Error) {
		l.Println(l.formatLogEntry(LevelError, l.getCallerInfo(2), format, args...))
	}
}
