package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/harrison/pathfind/internal/models"
)

// FileLogger appends a run's events to <logDir>/run-YYYYMMDD-HHMMSS.log and
// points <logDir>/latest.log at it.
type FileLogger struct {
	logDir   string
	runLog   *os.File
	runFile  string
	runID    string
	logLevel string
	mu       sync.Mutex
}

// NewFileLogger opens a run log in logDir. The header records the run ID and
// the invocation's command line.
func NewFileLogger(logDir, logLevel, runID string, args []string) (*FileLogger, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	started := time.Now()
	runFile := filepath.Join(logDir, fmt.Sprintf("run-%s.log", started.Format("20060102-150405")))

	file, err := os.OpenFile(runFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create run log file: %w", err)
	}

	symlinkPath := filepath.Join(logDir, "latest.log")
	if _, err := os.Lstat(symlinkPath); err == nil {
		if err := os.Remove(symlinkPath); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to remove old symlink: %w", err)
		}
	}
	if err := os.Symlink(filepath.Base(runFile), symlinkPath); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to create symlink: %w", err)
	}

	fl := &FileLogger{
		logDir:   logDir,
		runLog:   file,
		runFile:  runFile,
		runID:    runID,
		logLevel: normalizeLogLevel(logLevel),
	}

	fl.writeRunLog("=== pathfind run log ===\n")
	fl.writeRunLog(fmt.Sprintf("Run ID:     %s\n", runID))
	fl.writeRunLog(fmt.Sprintf("Command:    %s\n", strings.Join(args, " ")))
	fl.writeRunLog(fmt.Sprintf("Started at: %s\n\n", started.Format(time.RFC3339)))

	return fl, nil
}

// RunFile returns the path of the run log.
func (fl *FileLogger) RunFile() string {
	return fl.runFile
}

func (fl *FileLogger) shouldLog(messageLevel string) bool {
	return logLevelToInt(messageLevel) >= logLevelToInt(fl.logLevel)
}

// LogTrace logs a trace-level message.
func (fl *FileLogger) LogTrace(message string) {
	fl.logWithLevel("TRACE", message)
}

// LogDebug logs a debug-level message.
func (fl *FileLogger) LogDebug(message string) {
	fl.logWithLevel("DEBUG", message)
}

// LogInfo logs an info-level message.
func (fl *FileLogger) LogInfo(message string) {
	fl.logWithLevel("INFO", message)
}

// LogWarn logs a warning-level message.
func (fl *FileLogger) LogWarn(message string) {
	fl.logWithLevel("WARN", message)
}

// LogError logs an error-level message.
func (fl *FileLogger) LogError(message string) {
	fl.logWithLevel("ERROR", message)
}

func (fl *FileLogger) logWithLevel(level string, message string) {
	if !fl.shouldLog(strings.ToLower(level)) {
		return
	}
	fl.writeRunLog(fmt.Sprintf("[%s] [%s] %s\n", timestamp(), level, message))
}

// LogSourceStart records that a database is about to be searched.
func (fl *FileLogger) LogSourceStart(source string) {
	if !fl.shouldLog("debug") {
		return
	}
	fl.writeRunLog(fmt.Sprintf("[%s] Searching %s\n", timestamp(), source))
}

// LogSourceResult records a database's lane and path counts.
func (fl *FileLogger) LogSourceResult(source string, lanes, paths int) {
	if !fl.shouldLog("debug") {
		return
	}
	fl.writeRunLog(fmt.Sprintf("[%s] %s: %d lanes, %d paths\n", timestamp(), source, lanes, paths))
}

// LogSummary records the end-of-run summary.
func (fl *FileLogger) LogSummary(summary models.RunSummary) {
	if !fl.shouldLog("info") {
		return
	}

	ts := timestamp()
	var sb strings.Builder
	sb.WriteString("\n")
	for _, line := range summaryLines(summary, false) {
		fmt.Fprintf(&sb, "[%s] %s\n", ts, line)
	}
	fmt.Fprintf(&sb, "[%s] Completed at: %s\n", ts, time.Now().Format(time.RFC3339))
	fl.writeRunLog(sb.String())
}

// Close syncs and closes the run log.
func (fl *FileLogger) Close() error {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.runLog != nil {
		if err := fl.runLog.Sync(); err != nil {
			return fmt.Errorf("failed to sync run log: %w", err)
		}
		if err := fl.runLog.Close(); err != nil {
			return fmt.Errorf("failed to close run log: %w", err)
		}
		fl.runLog = nil
	}

	return nil
}

func (fl *FileLogger) writeRunLog(message string) {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.runLog != nil {
		fl.runLog.WriteString(message)
	}
}
