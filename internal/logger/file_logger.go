package logger

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
)

// Logger writes an optimization session log file
type Logger struct {
	condition string
	runID     string
	logFile   *os.File
	logger    *log.Logger
	mu        sync.Mutex
	logPath   string
}

// LogLevel represents different types of log entries
type LogLevel string

const (
	LogLevelInfo    LogLevel = "INFO"
	LogLevelWarning LogLevel = "WARN"
	LogLevelError   LogLevel = "ERROR"
	LogLevelEngine  LogLevel = "ENGINE"
	LogLevelResult  LogLevel = "RESULT"
)

// NewLogger creates a session log in logDir for the given condition and run
func NewLogger(logDir, condition, runID string) (*Logger, error) {
	if logDir == "" {
		logDir = "logs"
	}
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	shortID := runID
	if len(shortID) > 8 {
		shortID = shortID[:8]
	}
	filename := fmt.Sprintf("%s_%s_%s.log", sanitize(condition), shortID, time.Now().Format("2006-01-02"))
	logPath := filepath.Join(logDir, filename)

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	l := &Logger{
		condition: condition,
		runID:     runID,
		logFile:   file,
		logger:    log.New(file, "", 0),
		logPath:   logPath,
	}

	l.writeSessionHeader()
	return l, nil
}

func sanitize(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return "session"
	}
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '/' || r == '\\' {
			return '_'
		}
		return r
	}, name)
}

func (l *Logger) writeSessionHeader() {
	l.mu.Lock()
	defer l.mu.Unlock()

	header := fmt.Sprintf(`
================================================================================
🚀 LENS OPTIMIZATION SESSION STARTED
================================================================================
Condition: %s | Run: %s
Started: %s
================================================================================
`, l.condition, l.runID, time.Now().Format("2006-01-02 15:04:05"))

	l.logger.Print(header)
}

// Log writes a formatted log entry with the specified level
func (l *Logger) Log(level LogLevel, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	message := fmt.Sprintf(format, args...)
	l.logger.Println(fmt.Sprintf("[%s] [%s] %s", timestamp, level, message))
}

// Info logs an info message
func (l *Logger) Info(format string, args ...interface{}) {
	l.Log(LogLevelInfo, format, args...)
}

// Warning logs a warning message
func (l *Logger) Warning(format string, args ...interface{}) {
	l.Log(LogLevelWarning, format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.Log(LogLevelError, format, args...)
}

// LogError logs error with context
func (l *Logger) LogError(context string, err error) {
	l.Error("%s: %v", context, err)
}

// LogResult logs one ranked configuration
func (l *Logger) LogResult(rank int, signature string, fitness, price float64) {
	l.Log(LogLevelResult, "#%d %s | fitness %.2f | price $%.2f", rank, signature, fitness, price)
}

// LogRunSummary logs the outcome of a finished run
func (l *Logger) LogRunSummary(generations int, best, average float64, duration time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	summary := fmt.Sprintf(`
[%s] [RESULT] ==================== RUN SUMMARY ====================
🧬 Generations: %d
🏆 Best Fitness: %.2f
📊 Final Average: %.2f
⏱️ Duration: %s
==============================================================`,
		timestamp, generations, best, average, duration.Round(time.Millisecond))

	l.logger.Println(summary)
}

// Logr returns a structured logger that writes engine records into the
// session file. Records above verbosity are dropped.
func (l *Logger) Logr(verbosity int) logr.Logger {
	return funcr.New(func(prefix, args string) {
		if prefix != "" {
			l.Log(LogLevelEngine, "%s: %s", prefix, args)
			return
		}
		l.Log(LogLevelEngine, "%s", args)
	}, funcr.Options{Verbosity: verbosity})
}

// Close writes the session footer and closes the log file
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.logFile == nil {
		return nil
	}

	footer := fmt.Sprintf(`
================================================================================
🛑 LENS OPTIMIZATION SESSION ENDED
================================================================================
Ended: %s
================================================================================

`, time.Now().Format("2006-01-02 15:04:05"))
	l.logger.Print(footer)

	err := l.logFile.Close()
	l.logFile = nil
	return err
}

// GetLogPath returns the session log file path
func (l *Logger) GetLogPath() string {
	return l.logPath
}
