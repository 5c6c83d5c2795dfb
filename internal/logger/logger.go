package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Level represents a log level
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Rotation limits for the log file.
const (
	maxSizeMB  = 10
	maxBackups = 3
	maxAgeDays = 14
)

// String returns the string representation of a log level
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel parses a log level string
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("invalid log level: %s", s)
	}
}

// Logger is a simple leveled logger.
// Output is discarded unless a log file is configured, so a running TUI is
// never written over.
type Logger struct {
	mu     sync.Mutex
	level  Level
	logger *log.Logger
	file   io.WriteCloser
}

var (
	// Default is the default logger instance
	Default *Logger
)

func init() {
	Default = New()
}

// New creates a new logger based on environment variables
func New() *Logger {
	l := &Logger{
		level:  LevelInfo,
		logger: log.New(io.Discard, "", log.LstdFlags),
	}

	if levelStr := os.Getenv("STRATAGEM_LOG_LEVEL"); levelStr != "" {
		if level, err := ParseLevel(levelStr); err == nil {
			l.level = level
		}
	}

	if logFile := os.Getenv("STRATAGEM_LOG_FILE"); logFile != "" {
		l.setFile(logFile)
	}

	return l
}

// Configure applies level and file settings loaded from config.
// An empty file leaves the current output untouched.
func (l *Logger) Configure(levelStr, file string) error {
	level, err := ParseLevel(levelStr)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
	if file != "" {
		if l.file != nil {
			_ = l.file.Close()
			l.file = nil
		}
		l.setFile(file)
	}
	return nil
}

// setFile points output at a rotating file. Caller holds mu (or is New).
func (l *Logger) setFile(path string) {
	rotating := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
	}
	l.file = rotating
	l.logger = log.New(rotating, "", log.LstdFlags)
}

// Close closes the logger and any open file handles
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

// SetLevel sets the log level
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// SetOutput sets the output writer
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logger.SetOutput(w)
}

// Debug logs a debug message
func (l *Logger) Debug(format string, v ...interface{}) {
	l.log(LevelDebug, format, v...)
}

// Info logs an info message
func (l *Logger) Info(format string, v ...interface{}) {
	l.log(LevelInfo, format, v...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, v ...interface{}) {
	l.log(LevelWarn, format, v...)
}

// Error logs an error message
func (l *Logger) Error(format string, v ...interface{}) {
	l.log(LevelError, format, v...)
}

func (l *Logger) log(level Level, format string, v ...interface{}) {
	l.logScoped(level, "", format, v...)
}

func (l *Logger) logScoped(level Level, scope, format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}

	msg := fmt.Sprintf(format, v...)
	if scope != "" {
		l.logger.Printf("[%s] %s: %s", level, scope, msg)
		return
	}
	l.logger.Printf("[%s] %s", level, msg)
}

// Scoped tags every line with a component name ("[WARN] nats: ...").
// It writes through its parent, so later Configure calls apply.
type Scoped struct {
	parent *Logger
	name   string
}

// Named returns a scoped view of the default logger.
func Named(name string) Scoped {
	return Default.Named(name)
}

// Named returns a scoped view of l.
func (l *Logger) Named(name string) Scoped {
	return Scoped{parent: l, name: name}
}

func (s Scoped) Debug(format string, v ...interface{}) {
	s.parent.logScoped(LevelDebug, s.name, format, v...)
}

func (s Scoped) Info(format string, v ...interface{}) {
	s.parent.logScoped(LevelInfo, s.name, format, v...)
}

func (s Scoped) Warn(format string, v ...interface{}) {
	s.parent.logScoped(LevelWarn, s.name, format, v...)
}

func (s Scoped) Error(format string, v ...interface{}) {
	s.parent.logScoped(LevelError, s.name, format, v...)
}

// Package-level functions that use the default logger

// Debug logs a debug message using the default logger
func Debug(format string, v ...interface{}) {
	Default.Debug(format, v...)
}

// Info logs an info message using the default logger
func Info(format string, v ...interface{}) {
	Default.Info(format, v...)
}

// Warn logs a warning message using the default logger
func Warn(format string, v ...interface{}) {
	Default.Warn(format, v...)
}

// Error logs an error message using the default logger
func Error(format string, v ...interface{}) {
	Default.Error(format, v...)
}

// Configure applies config-file settings to the default logger
func Configure(level, file string) error {
	return Default.Configure(level, file)
}

// Close closes the default logger
func Close() error {
	return Default.Close()
}
