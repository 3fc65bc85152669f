// Package filelog implements the structured append-only file logger (spec
// §4.4 activity.log): one timestamped, level-filtered, pipe-delimited
// record per line, opened in append mode so no writer coordination beyond
// the OS's atomic-append guarantee is required.
package filelog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const (
	levelTrace int = iota
	levelDebug
	levelInfo
	levelWarn
	levelError
)

// Logger appends formatted records to one file.
type Logger struct {
	mu    sync.Mutex
	file  *os.File
	level string
}

// New opens (creating if needed) the file at path in append mode. level is
// one of trace/debug/info/warn/error; an empty or unrecognized value
// defaults to "info".
func New(path, level string) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", path, err)
	}
	return &Logger{file: f, level: normalizeLevel(level)}, nil
}

// Close releases the underlying file handle.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.file.Close()
}

func normalizeLevel(level string) string {
	l := strings.ToLower(strings.TrimSpace(level))
	switch l {
	case "trace", "debug", "info", "warn", "error":
		return l
	default:
		return "info"
	}
}

func levelToInt(level string) int {
	switch level {
	case "trace":
		return levelTrace
	case "debug":
		return levelDebug
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

func (l *Logger) shouldLog(level string) bool {
	return levelToInt(level) >= levelToInt(l.level)
}

// Record writes one "time | level | event | message" line if level passes
// the logger's configured filter.
func (l *Logger) Record(level, event, message string) error {
	normalized := strings.ToLower(level)
	if !l.shouldLog(normalized) {
		return nil
	}
	line := fmt.Sprintf("%s | %-5s | %s | %s\n",
		time.Now().Format(time.RFC3339), strings.ToUpper(normalized), event, message)

	l.mu.Lock()
	defer l.mu.Unlock()
	_, err := l.file.WriteString(line)
	if err != nil {
		return fmt.Errorf("write log record: %w", err)
	}
	return nil
}

func (l *Logger) Trace(event, message string) error { return l.Record("trace", event, message) }
func (l *Logger) Debug(event, message string) error { return l.Record("debug", event, message) }
func (l *Logger) Info(event, message string) error  { return l.Record("info", event, message) }
func (l *Logger) Warn(event, message string) error  { return l.Record("warn", event, message) }
func (l *Logger) Error(event, message string) error { return l.Record("error", event, message) }
