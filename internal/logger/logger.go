// Package logger provides leveled, optionally colored logging for dir-scanner
package logger

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// Interface is the logging surface the scanning packages depend on
type Interface interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}

// Nop discards everything
type Nop struct{}

func (Nop) Debug(format string, args ...interface{}) {}
func (Nop) Info(format string, args ...interface{})  {}
func (Nop) Warn(format string, args ...interface{})  {}
func (Nop) Error(format string, args ...interface{}) {}

// Level defines log severity levels
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelNone
)

var levelNames = map[Level]string{
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
}

var levelColors = map[Level]func(format string, a ...interface{}) string{
	LevelDebug: color.CyanString,
	LevelInfo:  color.BlueString,
	LevelWarn:  color.YellowString,
	LevelError: color.RedString,
}

// Logger writes "[time LEVEL] message" lines to out
type Logger struct {
	mu        sync.Mutex
	out       io.Writer
	useColors bool
	level     Level
	now       func() time.Time
}

// New creates a Logger at the given level
func New(out io.Writer, level Level, useColors bool) *Logger {
	return &Logger{
		out:       out,
		useColors: useColors,
		level:     level,
		now:       time.Now,
	}
}

// SetLevel sets the log level from its name
func (l *Logger) SetLevel(name string) {
	l.mu.Lock()
	l.level = ParseLevel(name)
	l.mu.Unlock()
}

// Level returns the current threshold
func (l *Logger) Level() Level {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// ParseLevel converts a level name to a Level; unknown names map to info
func ParseLevel(name string) Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return LevelDebug
	case "info", "":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	case "none", "off", "quiet":
		return LevelNone
	default:
		return LevelInfo
	}
}

func (l *Logger) Debug(format string, args ...interface{}) { l.log(LevelDebug, format, args) }
func (l *Logger) Info(format string, args ...interface{})  { l.log(LevelInfo, format, args) }
func (l *Logger) Warn(format string, args ...interface{})  { l.log(LevelWarn, format, args) }
func (l *Logger) Error(format string, args ...interface{}) { l.log(LevelError, format, args) }

func (l *Logger) log(level Level, format string, args []interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if level < l.level || l.level == LevelNone {
		return
	}

	prefix := levelNames[level]
	if l.useColors {
		prefix = levelColors[level]("%s", prefix)
	}
	fmt.Fprintf(l.out, "[%s %s] %s\n", l.now().Format("15:04:05.000"), prefix, fmt.Sprintf(format, args...))
}
