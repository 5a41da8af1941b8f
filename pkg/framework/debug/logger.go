// Package debug provides leveled logging for the relay and its adapters.
package debug

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"
)

// LogLevel represents the severity of a log message.
type LogLevel int

const (
	// LogLevelDebug is for detailed debugging information.
	LogLevelDebug LogLevel = iota
	// LogLevelInfo is for general informational messages.
	LogLevelInfo
	// LogLevelWarn is for warning messages.
	LogLevelWarn
	// LogLevelError is for error messages.
	LogLevelError
	// LogLevelFatal is for fatal errors.
	LogLevelFatal
	// LogLevelOff disables all logging.
	LogLevelOff
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	case LogLevelFatal:
		return "FATAL"
	case LogLevelOff:
		return "OFF"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a config string such as "warn" onto a LogLevel.
func ParseLevel(s string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LogLevelDebug, nil
	case "", "info":
		return LogLevelInfo, nil
	case "warn", "warning":
		return LogLevelWarn, nil
	case "error":
		return LogLevelError, nil
	case "fatal":
		return LogLevelFatal, nil
	case "off", "none":
		return LogLevelOff, nil
	default:
		return LogLevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// Flags for logger output formatting.
const (
	FlagTime      = 1 << iota // Include timestamp
	FlagShortFile             // Include short file name and line number
	FlagLevel                 // Include log level
	FlagPrefix                // Include prefix
)

// DefaultFlags are the default formatting flags.
const DefaultFlags = FlagTime | FlagLevel | FlagPrefix

// sink is shared between a logger and the children made with With so they
// write through one lock and one level.
type sink struct {
	mu      sync.Mutex
	output  io.Writer
	level   LogLevel
	prefix  string
	flags   int
	enabled bool
}

// Logger writes leveled lines with optional key=value fields.
type Logger struct {
	sink   *sink
	fields string
}

var defaultLogger = New(os.Stderr, "paramrelay", DefaultFlags)

// New creates a new logger instance at info level.
func New(output io.Writer, prefix string, flags int) *Logger {
	return &Logger{sink: &sink{
		output:  output,
		prefix:  prefix,
		flags:   flags,
		level:   LogLevelInfo,
		enabled: true,
	}}
}

// NewFileLogger creates a logger that appends to a file.
func NewFileLogger(filename, prefix string, flags int) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return New(file, prefix, flags), nil
}

// With returns a child logger that appends key=value to every line. Level,
// output and prefix stay shared with the parent.
func (l *Logger) With(key string, value any) *Logger {
	return &Logger{
		sink:   l.sink,
		fields: l.fields + fmt.Sprintf(" %s=%v", key, value),
	}
}

// SetOutput sets the output destination for the logger.
func (l *Logger) SetOutput(w io.Writer) {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	l.sink.output = w
}

// SetLevel sets the minimum log level.
func (l *Logger) SetLevel(level LogLevel) {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	l.sink.level = level
}

// Level returns the minimum log level.
func (l *Logger) Level() LogLevel {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	return l.sink.level
}

// SetPrefix sets the logger prefix.
func (l *Logger) SetPrefix(prefix string) {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	l.sink.prefix = prefix
}

// SetFlags sets the output formatting flags.
func (l *Logger) SetFlags(flags int) {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	l.sink.flags = flags
}

// SetEnabled enables or disables the logger.
func (l *Logger) SetEnabled(enabled bool) {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	l.sink.enabled = enabled
}

// IsEnabled returns whether the logger is enabled.
func (l *Logger) IsEnabled() bool {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	return l.sink.enabled
}

func (l *Logger) log(level LogLevel, format string, args ...any) {
	s := l.sink
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.enabled || level < s.level {
		return
	}

	var sb strings.Builder
	if s.flags&FlagTime != 0 {
		sb.WriteString(time.Now().Format("2006-01-02 15:04:05.000 "))
	}
	if s.flags&FlagLevel != 0 {
		fmt.Fprintf(&sb, "[%s] ", level)
	}
	if s.flags&FlagPrefix != 0 && s.prefix != "" {
		fmt.Fprintf(&sb, "[%s] ", s.prefix)
	}
	if s.flags&FlagShortFile != 0 {
		// Skip log() and Debug/Info/etc
		if _, file, line, ok := runtime.Caller(2); ok {
			fmt.Fprintf(&sb, "%s:%d: ", filepath.Base(file), line)
		}
	}

	sb.WriteString(strings.TrimSuffix(fmt.Sprintf(format, args...), "\n"))
	sb.WriteString(l.fields)
	sb.WriteByte('\n')

	_, _ = io.WriteString(s.output, sb.String())
}

// Debug logs a debug message.
func (l *Logger) Debug(format string, args ...any) {
	l.log(LogLevelDebug, format, args...)
}

// Info logs an informational message.
func (l *Logger) Info(format string, args ...any) {
	l.log(LogLevelInfo, format, args...)
}

// Warn logs a warning message.
func (l *Logger) Warn(format string, args ...any) {
	l.log(LogLevelWarn, format, args...)
}

// Error logs an error message.
func (l *Logger) Error(format string, args ...any) {
	l.log(LogLevelError, format, args...)
}

// Fatal logs a fatal error message and panics.
func (l *Logger) Fatal(format string, args ...any) {
	l.log(LogLevelFatal, format, args...)
	panic(fmt.Sprintf(format, args...))
}

// Default returns the default logger instance.
func Default() *Logger {
	return defaultLogger
}

// SetOutput sets the output destination for the default logger.
func SetOutput(w io.Writer) {
	defaultLogger.SetOutput(w)
}

// SetLevel sets the minimum log level for the default logger.
func SetLevel(level LogLevel) {
	defaultLogger.SetLevel(level)
}

// Debug logs a debug message using the default logger.
func Debug(format string, args ...any) {
	defaultLogger.Debug(format, args...)
}

// Info logs an informational message using the default logger.
func Info(format string, args ...any) {
	defaultLogger.Info(format, args...)
}

// Warn logs a warning message using the default logger.
func Warn(format string, args ...any) {
	defaultLogger.Warn(format, args...)
}

// Error logs an error message using the default logger.
func Error(format string, args ...any) {
	defaultLogger.Error(format, args...)
}
