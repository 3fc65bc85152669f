// Package consolelog implements the human-facing console logger: colorized
// when stdout is a terminal, plain otherwise. It is the only package
// permitted to emit ANSI codes directly outside internal/tui, since the
// TUI owns the screen once it takes over the terminal.
package consolelog

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

const (
	levelTrace int = iota
	levelDebug
	levelInfo
	levelWarn
	levelError
)

// Logger writes timestamped, level-filtered, optionally colorized lines to
// a writer — typically os.Stdout for CLI commands.
type Logger struct {
	mu       sync.Mutex
	writer   io.Writer
	level    string
	useColor bool
}

// New constructs a Logger. level is one of trace/debug/info/warn/error,
// case-insensitive; an empty or unrecognized value defaults to "info".
// Color is enabled only when writer is os.Stdout or os.Stderr and that
// stream is attached to a terminal.
func New(writer io.Writer, level string) *Logger {
	return &Logger{
		writer:   writer,
		level:    normalizeLevel(level),
		useColor: isTerminal(writer),
	}
}

func isTerminal(w io.Writer) bool {
	switch w {
	case os.Stdout:
		return isatty.IsTerminal(os.Stdout.Fd())
	case os.Stderr:
		return isatty.IsTerminal(os.Stderr.Fd())
	default:
		return false
	}
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

func (l *Logger) Trace(format string, args ...interface{}) { l.logf("TRACE", format, args...) }
func (l *Logger) Debug(format string, args ...interface{}) { l.logf("DEBUG", format, args...) }
func (l *Logger) Info(format string, args ...interface{})  { l.logf("INFO", format, args...) }
func (l *Logger) Warn(format string, args ...interface{})  { l.logf("WARN", format, args...) }
func (l *Logger) Error(format string, args ...interface{}) { l.logf("ERROR", format, args...) }

func (l *Logger) logf(levelLabel, format string, args ...interface{}) {
	if !l.shouldLog(strings.ToLower(levelLabel)) {
		return
	}
	message := fmt.Sprintf(format, args...)
	line := fmt.Sprintf("[%s] %s\n", time.Now().Format("15:04:05"), l.colorize(levelLabel, message))

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprint(l.writer, line)
}

func (l *Logger) colorize(levelLabel, message string) string {
	if !l.useColor {
		return fmt.Sprintf("[%s] %s", levelLabel, message)
	}
	var c *color.Color
	switch levelLabel {
	case "TRACE", "DEBUG":
		c = color.New(color.FgHiBlack)
	case "WARN":
		c = color.New(color.FgYellow)
	case "ERROR":
		c = color.New(color.FgRed, color.Bold)
	default:
		c = color.New(color.FgCyan)
	}
	return c.Sprintf("[%s]", levelLabel) + " " + message
}
