package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// Logger writes leveled, human-oriented log lines. A nil *Logger discards
// everything, so components can hold an optional logger without checks.
type Logger struct {
	debug bool
	out   io.Writer
	mu    sync.Mutex

	infoMark  *color.Color
	warnMark  *color.Color
	errorMark *color.Color
	debugMark *color.Color
}

// New creates a logger writing to stderr.
func New(debug, noColor bool) *Logger {
	return NewWithWriter(os.Stderr, debug, noColor)
}

// NewWithWriter creates a logger writing to w.
func NewWithWriter(w io.Writer, debug, noColor bool) *Logger {
	l := &Logger{
		debug:     debug,
		out:       w,
		infoMark:  color.New(color.FgGreen),
		warnMark:  color.New(color.FgYellow),
		errorMark: color.New(color.FgRed),
		debugMark: color.New(color.FgCyan),
	}
	if noColor {
		for _, c := range []*color.Color{l.infoMark, l.warnMark, l.errorMark, l.debugMark} {
			c.DisableColor()
		}
	}
	return l
}

// DebugEnabled reports whether Debug lines are written.
func (l *Logger) DebugEnabled() bool {
	return l != nil && l.debug
}

type level int

const (
	levelInfo level = iota
	levelWarn
	levelError
	levelDebug
)

// Info logs an informational message
func (l *Logger) Info(format string, args ...interface{}) {
	l.write(levelInfo, format, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	l.write(levelWarn, format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.write(levelError, format, args...)
}

// Debug logs a debug message if debug mode is enabled
func (l *Logger) Debug(format string, args ...interface{}) {
	if !l.DebugEnabled() {
		return
	}
	l.write(levelDebug, format, args...)
}

func (l *Logger) mark(lvl level) string {
	switch lvl {
	case levelWarn:
		return l.warnMark.Sprint("⚠")
	case levelError:
		return l.errorMark.Sprint("✗")
	case levelDebug:
		return l.debugMark.Sprint("[DEBUG]")
	default:
		return l.infoMark.Sprint("✓")
	}
}

func (l *Logger) write(lvl level, format string, args ...interface{}) {
	if l == nil || l.out == nil {
		return
	}
	msg := fmt.Sprintf(format, args...)

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.out, "%s %s\n", l.mark(lvl), msg)
}

// Secret represents a value that should be redacted in logs
type Secret string

// String implements the Stringer interface, always returning a redacted value
func (s Secret) String() string {
	return "[REDACTED]"
}

// GoString implements the GoStringer interface for %#v formatting
func (s Secret) GoString() string {
	return "[REDACTED]"
}

// Redact replaces sensitive values in a string with [REDACTED]
func Redact(s string, secrets []string) string {
	result := s
	for _, secret := range secrets {
		if secret != "" && len(secret) > 3 { // Only redact non-trivial secrets
			result = strings.ReplaceAll(result, secret, "[REDACTED]")
		}
	}
	return result
}
