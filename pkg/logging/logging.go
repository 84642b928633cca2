// Package logging provides structured logging for zonectl.
package logging

import (
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

// Level represents a log level.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// ParseLevel maps a config string to a Level, defaulting to info.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func (l Level) charm() log.Level {
	switch l {
	case LevelDebug:
		return log.DebugLevel
	case LevelWarn:
		return log.WarnLevel
	case LevelError:
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// Logger provides structured logging.
type Logger struct {
	mu     sync.Mutex
	level  Level
	json   bool
	output io.Writer
	fields map[string]any
	base   *log.Logger
}

// NewLogger creates a new text logger writing to stderr.
func NewLogger(level Level) *Logger {
	l := &Logger{
		level:  level,
		output: os.Stderr,
		fields: make(map[string]any),
	}
	l.rebuild()
	return l
}

// rebuild recreates the backend after an output, level or format change.
// Caller holds mu or has exclusive access.
func (l *Logger) rebuild() {
	opts := log.Options{
		Level:           l.level.charm(),
		ReportTimestamp: true,
		TimeFormat:      "2006-01-02T15:04:05.000Z07:00",
	}
	if l.json {
		opts.Formatter = log.JSONFormatter
	}
	l.base = log.NewWithOptions(l.output, opts).With(flatten(l.fields)...)
}

// WithFields returns a new logger with additional fields.
func (l *Logger) WithFields(fields map[string]any) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()

	newFields := make(map[string]any, len(l.fields)+len(fields))
	for k, v := range l.fields {
		newFields[k] = v
	}
	for k, v := range fields {
		newFields[k] = v
	}

	child := &Logger{
		level:  l.level,
		json:   l.json,
		output: l.output,
		fields: newFields,
	}
	child.rebuild()
	return child
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, fields ...map[string]any) {
	l.backend().Debug(msg, merge(fields)...)
}

// Info logs an info message.
func (l *Logger) Info(msg string, fields ...map[string]any) {
	l.backend().Info(msg, merge(fields)...)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, fields ...map[string]any) {
	l.backend().Warn(msg, merge(fields)...)
}

// Error logs an error message.
func (l *Logger) Error(msg string, fields ...map[string]any) {
	l.backend().Error(msg, merge(fields)...)
}

// ErrorErr logs an error message with an error value.
func (l *Logger) ErrorErr(msg string, err error, fields ...map[string]any) {
	kv := append([]any{"error", err.Error()}, merge(fields)...)
	l.backend().Error(msg, kv...)
}

func (l *Logger) backend() *log.Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.base
}

// SetOutput sets the output writer.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.output = w
	l.rebuild()
}

// SetLevel sets the log level.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
	l.rebuild()
}

// SetFormat selects "json" or "text" output.
func (l *Logger) SetFormat(format string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.json = strings.EqualFold(format, "json")
	l.rebuild()
}

// flatten turns a field map into sorted key/value pairs so output is stable.
func flatten(fields map[string]any) []any {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	kv := make([]any, 0, len(keys)*2)
	for _, k := range keys {
		kv = append(kv, k, fields[k])
	}
	return kv
}

func merge(fields []map[string]any) []any {
	if len(fields) == 0 {
		return nil
	}
	combined := make(map[string]any)
	for _, f := range fields {
		for k, v := range f {
			combined[k] = v
		}
	}
	return flatten(combined)
}

// Global logger instance
var (
	globalMu sync.RWMutex
	global   = NewLogger(LevelInfo)
)

// SetGlobal sets the global logger.
func SetGlobal(l *Logger) {
	globalMu.Lock()
	defer globalMu.Unlock()
	global = l
}

// Global returns the global logger.
func Global() *Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return global
}

// Debug logs to the global logger.
func Debug(msg string, fields ...map[string]any) {
	Global().Debug(msg, fields...)
}

// Info logs to the global logger.
func Info(msg string, fields ...map[string]any) {
	Global().Info(msg, fields...)
}

// Warn logs to the global logger.
func Warn(msg string, fields ...map[string]any) {
	Global().Warn(msg, fields...)
}

// Error logs to the global logger.
func Error(msg string, fields ...map[string]any) {
	Global().Error(msg, fields...)
}

// ErrorErr logs to the global logger with an error.
func ErrorErr(msg string, err error, fields ...map[string]any) {
	Global().ErrorErr(msg, err, fields...)
}

// WithFields returns a new logger from global with additional fields.
func WithFields(fields map[string]any) *Logger {
	return Global().WithFields(fields)
}
