// Package logger provides the leveled logging used across the addon.
package logger

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
)

// Logger defines the logging interface used by all services.
type Logger interface {
	Debug(v ...interface{})
	Debugf(format string, v ...interface{})
	Info(v ...interface{})
	Infof(format string, v ...interface{})
	Warn(v ...interface{})
	Warnf(format string, v ...interface{})
	Error(v ...interface{})
	Errorf(format string, v ...interface{})
	Fatal(v ...interface{})
	Fatalf(format string, v ...interface{})
}

// Level represents logging levels.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

type leveledLogger struct {
	level   Level
	loggers map[Level]*log.Logger
	mu      sync.RWMutex
}

// New creates a logger whose minimum level comes from the LOG_LEVEL
// environment variable (default info).
func New() Logger {
	return &leveledLogger{
		level: ParseLevel(os.Getenv("LOG_LEVEL")),
		loggers: map[Level]*log.Logger{
			LevelDebug: log.New(os.Stdout, "[DEBUG] ", log.LstdFlags|log.Lshortfile),
			LevelInfo:  log.New(os.Stdout, "[INFO] ", log.LstdFlags),
			LevelWarn:  log.New(os.Stdout, "[WARN] ", log.LstdFlags),
			LevelError: log.New(os.Stderr, "[ERROR] ", log.LstdFlags|log.Lshortfile),
		},
	}
}

// ParseLevel converts a string log level to a Level value.
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

func (l *leveledLogger) enabled(level Level) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return level >= l.level
}

func (l *leveledLogger) output(level Level, v ...interface{}) {
	if !l.enabled(level) {
		return
	}
	l.mu.RLock()
	lg := l.loggers[level]
	l.mu.RUnlock()
	lg.Output(3, fmt.Sprint(v...))
}

func (l *leveledLogger) outputf(level Level, format string, v ...interface{}) {
	if !l.enabled(level) {
		return
	}
	l.mu.RLock()
	lg := l.loggers[level]
	l.mu.RUnlock()
	lg.Output(3, fmt.Sprintf(format, v...))
}

func (l *leveledLogger) Debug(v ...interface{})                 { l.output(LevelDebug, v...) }
func (l *leveledLogger) Debugf(format string, v ...interface{}) { l.outputf(LevelDebug, format, v...) }
func (l *leveledLogger) Info(v ...interface{})                  { l.output(LevelInfo, v...) }
func (l *leveledLogger) Infof(format string, v ...interface{})  { l.outputf(LevelInfo, format, v...) }
func (l *leveledLogger) Warn(v ...interface{})                  { l.output(LevelWarn, v...) }
func (l *leveledLogger) Warnf(format string, v ...interface{})  { l.outputf(LevelWarn, format, v...) }
func (l *leveledLogger) Error(v ...interface{})                 { l.output(LevelError, v...) }
func (l *leveledLogger) Errorf(format string, v ...interface{}) { l.outputf(LevelError, format, v...) }

func (l *leveledLogger) Fatal(v ...interface{}) {
	l.output(LevelError, v...)
	os.Exit(1)
}

func (l *leveledLogger) Fatalf(format string, v ...interface{}) {
	l.outputf(LevelError, format, v...)
	os.Exit(1)
}
