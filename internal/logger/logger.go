// Package logger provides leveled logging and run metrics for pydocs-parser.
//
// Log lines go to the console and to a size-rotated log file. Two formats are
// supported: the fixed text layout
//
//	17.10.2026 12:00:00 - [INFO] - Parsing started mode=pep
//
// and JSON lines (one LogEntry per line). Error entries carry the file:line
// of the call site.
//
// Example usage:
//
//	logger.Info("Archive saved", logger.Fields{
//	    "path": path,
//	})
//
//	logger.Error("Page fetch failed", logger.Fields{"url": u}, err)
//
//	logger.IncrCounter("fetch.cache_hits")
//	logger.RecordTiming("fetch.request", duration)
package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Level represents log severity
type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

var levelRank = map[Level]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

// Format selects how entries are serialized
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// TimestampLayout is the timestamp layout of text-format entries.
const TimestampLayout = "02.01.2006 15:04:05"

// Logger provides structured logging
type Logger struct {
	mu       sync.Mutex
	minLevel Level
	format   Format
	output   io.Writer
	now      func() time.Time
}

// Fields represents structured log fields
type Fields map[string]interface{}

// LogEntry represents a single JSON log entry
type LogEntry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Message   string `json:"message"`
	Fields    Fields `json:"fields,omitempty"`
	Error     string `json:"error,omitempty"`
	Caller    string `json:"caller,omitempty"`
}

var defaultLogger *Logger

func init() {
	defaultLogger = New(LevelInfo, os.Stderr)
}

// New creates a text-format logger with the specified minimum level and output.
// Messages below the minimum level are discarded.
func New(level Level, output io.Writer) *Logger {
	return &Logger{
		minLevel: level,
		format:   FormatText,
		output:   output,
		now:      time.Now,
	}
}

// WithFormat switches the serialization format and returns the logger.
func (l *Logger) WithFormat(format Format) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	if format == FormatJSON {
		l.format = FormatJSON
	} else {
		l.format = FormatText
	}
	return l
}

// SetDefault sets the package-level logger used by Debug, Info, Warn and Error.
func SetDefault(logger *Logger) {
	defaultLogger = logger
}

// Default returns the package-level logger.
func Default() *Logger {
	return defaultLogger
}

// ParseLevel maps a level name to a Level, defaulting to LevelInfo.
func ParseLevel(name string) Level {
	lvl := Level(strings.ToUpper(strings.TrimSpace(name)))
	if _, ok := levelRank[lvl]; ok {
		return lvl
	}
	return LevelInfo
}

// Options configures Setup.
type Options struct {
	Level      Level
	Format     Format
	Console    io.Writer
	File       string
	MaxSizeMB  int
	MaxBackups int
}

// Setup builds a logger that writes to both the console and a rotating log
// file, installs it as the default logger and returns a closer for the file.
func Setup(opts Options) (io.Closer, error) {
	if opts.Console == nil {
		opts.Console = os.Stderr
	}
	if opts.File == "" {
		SetDefault(New(opts.Level, opts.Console).WithFormat(opts.Format))
		return io.NopCloser(nil), nil
	}

	if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}

	rotating := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
	}

	SetDefault(New(opts.Level, io.MultiWriter(rotating, opts.Console)).WithFormat(opts.Format))
	return rotating, nil
}

// log writes a single entry
func (l *Logger) log(level Level, message string, fields Fields, err error, caller string) {
	if !l.shouldLog(level) {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	ts := l.now()

	if l.format == FormatJSON {
		entry := LogEntry{
			Timestamp: ts.UTC().Format(time.RFC3339),
			Level:     string(level),
			Message:   message,
			Fields:    fields,
			Caller:    caller,
		}
		if err != nil {
			entry.Error = err.Error()
		}

		data, marshalErr := json.Marshal(entry)
		if marshalErr == nil {
			fmt.Fprintln(l.output, string(data))
			return
		}
		// fall through to the text layout
	}

	fmt.Fprintln(l.output, formatText(ts, level, message, fields, err, caller))
}

func formatText(ts time.Time, level Level, message string, fields Fields, err error, caller string) string {
	var b strings.Builder
	b.WriteString(ts.Format(TimestampLayout))
	b.WriteString(" - [")
	b.WriteString(string(level))
	b.WriteString("] - ")
	b.WriteString(message)

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, fields[k])
	}

	if err != nil {
		fmt.Fprintf(&b, " error=%q", err.Error())
	}
	if caller != "" {
		b.WriteString(" caller=")
		b.WriteString(caller)
	}
	return b.String()
}

func (l *Logger) shouldLog(level Level) bool {
	return levelRank[level] >= levelRank[l.minLevel]
}

// callerAt reports file:line skip frames above its own caller.
func callerAt(skip int) string {
	_, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s:%d", filepath.Base(file), line)
}

// Debug logs a debug message with optional structured fields.
func (l *Logger) Debug(message string, fields Fields) {
	l.log(LevelDebug, message, fields, nil, "")
}

// Info logs an informational message with optional structured fields.
func (l *Logger) Info(message string, fields Fields) {
	l.log(LevelInfo, message, fields, nil, "")
}

// Warn logs a warning message with optional structured fields.
func (l *Logger) Warn(message string, fields Fields) {
	l.log(LevelWarn, message, fields, nil, "")
}

// Error logs an error message with optional structured fields, an error
// object and the caller location.
func (l *Logger) Error(message string, fields Fields, err error) {
	l.log(LevelError, message, fields, err, callerAt(1))
}

// Package-level convenience functions using default logger

// Debug logs a debug message with the default logger
func Debug(message string, fields Fields) {
	defaultLogger.Debug(message, fields)
}

// Info logs an info message with the default logger
func Info(message string, fields Fields) {
	defaultLogger.Info(message, fields)
}

// Warn logs a warning message with the default logger
func Warn(message string, fields Fields) {
	defaultLogger.Warn(message, fields)
}

// Error logs an error message with the default logger
func Error(message string, fields Fields, err error) {
	defaultLogger.log(LevelError, message, fields, err, callerAt(1))
}
