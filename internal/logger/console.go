// Package logger provides leveled loggers for pathfind runs.
//
// ConsoleLogger writes human-readable progress to stderr while stdout carries
// the result list; FileLogger keeps a per-run log on disk. Both are safe for
// concurrent use and filter by level (trace, debug, info, warn, error).
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/harrison/pathfind/internal/models"
)

// Log level constants for filtering
const (
	levelTrace int = 0
	levelDebug int = 1
	levelInfo  int = 2
	levelWarn  int = 3
	levelError int = 4
)

// ConsoleLogger logs run progress to a writer with [HH:MM:SS] timestamps.
// Color output is enabled only when the writer is a terminal.
type ConsoleLogger struct {
	writer      io.Writer
	logLevel    string
	mutex       sync.Mutex
	colorOutput bool
}

// NewConsoleLogger creates a ConsoleLogger that writes to writer.
// If writer is nil, messages are silently discarded. An empty or unknown
// logLevel defaults to "info".
func NewConsoleLogger(writer io.Writer, logLevel string) *ConsoleLogger {
	return &ConsoleLogger{
		writer:      writer,
		logLevel:    normalizeLogLevel(logLevel),
		colorOutput: isTerminal(writer),
	}
}

// isTerminal reports whether w is a TTY that should receive colors.
// NO_COLOR (via color.NoColor) always wins.
func isTerminal(w io.Writer) bool {
	if w == nil || color.NoColor {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// normalizeLogLevel lowercases level and falls back to "info".
func normalizeLogLevel(level string) string {
	normalized := strings.ToLower(strings.TrimSpace(level))

	switch normalized {
	case "trace", "debug", "info", "warn", "error":
		return normalized
	default:
		return "info"
	}
}

// ValidLevel reports whether level names a known log level.
func ValidLevel(level string) bool {
	return normalizeLogLevel(level) == strings.ToLower(strings.TrimSpace(level))
}

func (cl *ConsoleLogger) shouldLog(messageLevel string) bool {
	return logLevelToInt(messageLevel) >= logLevelToInt(cl.logLevel)
}

func logLevelToInt(level string) int {
	switch level {
	case "trace":
		return levelTrace
	case "debug":
		return levelDebug
	case "info":
		return levelInfo
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

// LogTrace logs a trace-level message.
func (cl *ConsoleLogger) LogTrace(message string) {
	cl.logWithLevel("TRACE", message)
}

// LogDebug logs a debug-level message.
func (cl *ConsoleLogger) LogDebug(message string) {
	cl.logWithLevel("DEBUG", message)
}

// LogInfo logs an info-level message.
func (cl *ConsoleLogger) LogInfo(message string) {
	cl.logWithLevel("INFO", message)
}

// LogWarn logs a warning-level message.
func (cl *ConsoleLogger) LogWarn(message string) {
	cl.logWithLevel("WARN", message)
}

// LogError logs an error-level message.
func (cl *ConsoleLogger) LogError(message string) {
	cl.logWithLevel("ERROR", message)
}

func (cl *ConsoleLogger) logWithLevel(level string, message string) {
	if cl.writer == nil || !cl.shouldLog(strings.ToLower(level)) {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := timestamp()
	if cl.colorOutput {
		fmt.Fprintf(cl.writer, "[%s] [%s] %s\n", ts, colorLevel(level), message)
		return
	}
	fmt.Fprintf(cl.writer, "[%s] [%s] %s\n", ts, level, message)
}

// LogSourceStart logs that a database is about to be searched (DEBUG).
// Format: "[HH:MM:SS] Searching <database>"
func (cl *ConsoleLogger) LogSourceStart(source string) {
	if cl.writer == nil || !cl.shouldLog("debug") {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	name := source
	if cl.colorOutput {
		name = color.New(color.Bold).Sprint(source)
	}
	fmt.Fprintf(cl.writer, "[%s] Searching %s\n", timestamp(), name)
}

// LogSourceResult logs how many lanes and paths a database produced (DEBUG).
// Format: "[HH:MM:SS] <database>: <n> lanes, <m> paths"
func (cl *ConsoleLogger) LogSourceResult(source string, lanes, paths int) {
	if cl.writer == nil || !cl.shouldLog("debug") {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	counts := fmt.Sprintf("%d lanes, %d paths", lanes, paths)
	if cl.colorOutput {
		scheme := newColorScheme()
		if paths > 0 {
			counts = scheme.success.Sprint(counts)
		} else {
			counts = scheme.warn.Sprint(counts)
		}
	}
	fmt.Fprintf(cl.writer, "[%s] %s: %s\n", timestamp(), source, counts)
}

// LogSummary logs the end-of-run summary at INFO level.
func (cl *ConsoleLogger) LogSummary(summary models.RunSummary) {
	if cl.writer == nil || !cl.shouldLog("info") {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := timestamp()
	var sb strings.Builder
	for _, line := range summaryLines(summary, cl.colorOutput) {
		fmt.Fprintf(&sb, "[%s] %s\n", ts, line)
	}
	io.WriteString(cl.writer, sb.String())
}

// summaryLines renders the summary body shared by console and file loggers.
func summaryLines(s models.RunSummary, colored bool) []string {
	scheme := newColorScheme()
	metric := func(label string, value interface{}) string {
		if colored {
			return formatColorizedMetric(label, value, scheme)
		}
		return fmt.Sprintf("%s: %v", label, value)
	}

	header := "=== Run Summary ==="
	if colored {
		header = color.New(color.Bold).Sprint(header)
	}
	lines := []string{
		header,
		metric("Search", s.Search.String()),
		metric("Source", orNone(s.Source)),
		metric("Paths", s.Paths),
	}
	if s.LinkTarget != "" {
		links := fmt.Sprintf("%d created, %d failed in %s", s.LinksCreated, s.LinksFailed, s.LinkTarget)
		if colored && s.LinksFailed > 0 {
			links = scheme.fail.Sprint(links)
		}
		lines = append(lines, metric("Links", links))
	}
	if s.Archive != "" {
		lines = append(lines, metric("Archive", s.Archive))
	}
	if s.StatsFile != "" {
		lines = append(lines, metric("Stats", s.StatsFile))
	}
	lines = append(lines, metric("Duration", formatDuration(s.Duration)))
	return lines
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}

// timestamp returns the current time formatted as "15:04:05" (HH:MM:SS).
func timestamp() string {
	return time.Now().Format("15:04:05")
}

// formatDuration converts a time.Duration to a short human-readable string.
// Examples: "250ms", "5s", "1m30s", "2h15m"
func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Hour:
		hours := d / time.Hour
		remainder := d % time.Hour
		if remainder == 0 {
			return fmt.Sprintf("%dh", hours)
		}
		minutes := remainder / time.Minute
		remainder = remainder % time.Minute
		if remainder == 0 {
			return fmt.Sprintf("%dh%dm", hours, minutes)
		}
		seconds := remainder / time.Second
		return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
	case d >= time.Minute:
		minutes := d / time.Minute
		remainder := d % time.Minute
		if remainder == 0 {
			return fmt.Sprintf("%dm", minutes)
		}
		seconds := remainder / time.Second
		return fmt.Sprintf("%dm%ds", minutes, seconds)
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	default:
		return fmt.Sprintf("%ds", int64(d.Seconds()))
	}
}

// NoOpLogger discards all log messages.
type NoOpLogger struct{}

// NewNoOpLogger creates a NoOpLogger instance.
func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{}
}

func (n *NoOpLogger) LogTrace(string) {}
func (n *NoOpLogger) LogDebug(string) {}
func (n *NoOpLogger) LogInfo(string) {}
func (n *NoOpLogger) LogWarn(string) {}
func (n *NoOpLogger) LogError(string) {}
func (n *NoOpLogger) LogSourceStart(string) {}
func (n *NoOpLogger) LogSourceResult(string, int, int) {}
func (n *NoOpLogger) LogSummary(models.RunSummary) {}
