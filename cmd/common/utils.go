package common

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// LogLevel represents different logging levels
type LogLevel int

const (
	LogLevelError LogLevel = iota
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
)

// Logger prints emoji-prefixed console lines for CLI applications
type Logger struct {
	Level      LogLevel
	ShowEmojis bool
	SilentMode bool

	mu  sync.Mutex
	out io.Writer
}

// NewLogger creates a new logger writing to stdout
func NewLogger() *Logger {
	return NewLoggerTo(os.Stdout)
}

// NewLoggerTo creates a new logger writing to w
func NewLoggerTo(w io.Writer) *Logger {
	return &Logger{
		Level:      LogLevelInfo,
		ShowEmojis: true,
		out:        w,
	}
}

// printf serializes writes so the logger can be shared across goroutines
func (l *Logger) printf(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.out, format, args...)
}

func (l *Logger) prefix(emoji, plain string) string {
	if l.ShowEmojis {
		return emoji
	}
	return plain
}

// Header prints a formatted header
func (l *Logger) Header(title string) {
	if l.SilentMode {
		return
	}
	l.printf("\n%s %s\n", l.prefix("🎯", "***"), strings.ToUpper(title))
	l.printf("%s\n", strings.Repeat("=", len(title)+5))
}

// Section prints a formatted section header
func (l *Logger) Section(title string) {
	if l.SilentMode {
		return
	}
	l.printf("\n%s %s\n", l.prefix("📋", "---"), title)
	l.printf("%s\n", strings.Repeat("-", len(title)+5))
}

// Info prints an info message
func (l *Logger) Info(format string, args ...interface{}) {
	if l.SilentMode || l.Level < LogLevelInfo {
		return
	}
	l.printf("%s  %s\n", l.prefix("ℹ️", "[INFO]"), fmt.Sprintf(format, args...))
}

// Error prints an error message; errors ignore silent mode
func (l *Logger) Error(format string, args ...interface{}) {
	l.printf("%s %s\n", l.prefix("❌", "[ERROR]"), fmt.Sprintf(format, args...))
}

// Success prints a success message
func (l *Logger) Success(format string, args ...interface{}) {
	if l.SilentMode {
		return
	}
	l.printf("%s %s\n", l.prefix("✅", "[SUCCESS]"), fmt.Sprintf(format, args...))
}

// Warn prints a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	if l.Level < LogLevelWarn {
		return
	}
	l.printf("%s  %s\n", l.prefix("⚠️", "[WARN]"), fmt.Sprintf(format, args...))
}

// Debug prints a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.Level < LogLevelDebug {
		return
	}
	l.printf("%s %s\n", l.prefix("🔍", "[DEBUG]"), fmt.Sprintf(format, args...))
}

// Progress prints a progress message
func (l *Logger) Progress(format string, args ...interface{}) {
	if l.SilentMode {
		return
	}
	l.printf("%s %s\n", l.prefix("🔄", "[PROGRESS]"), fmt.Sprintf(format, args...))
}

// FormatDuration formats a duration in a human-readable way
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%.1fm", d.Minutes())
	}
	return fmt.Sprintf("%.1fh", d.Hours())
}

// FormatCurrency formats a value as currency
func FormatCurrency(value float64) string {
	return fmt.Sprintf("$%.2f", value)
}
