package logger

import (
	"errors"

	"github.com/harrison/pathfind/internal/models"
)

// Logger is the event sink of a pathfind run.
type Logger interface {
	LogTrace(message string)
	LogDebug(message string)
	LogInfo(message string)
	LogWarn(message string)
	LogError(message string)
	LogSourceStart(source string)
	LogSourceResult(source string, lanes, paths int)
	LogSummary(summary models.RunSummary)
}

var (
	_ Logger = (*ConsoleLogger)(nil)
	_ Logger = (*FileLogger)(nil)
	_ Logger = (*NoOpLogger)(nil)
	_ Logger = (*MultiLogger)(nil)
)

// MultiLogger fans every event out to several loggers.
type MultiLogger struct {
	loggers []Logger
}

// NewMultiLogger combines loggers; nil entries are skipped.
func NewMultiLogger(loggers ...Logger) *MultiLogger {
	m := &MultiLogger{}
	for _, l := range loggers {
		if l != nil {
			m.loggers = append(m.loggers, l)
		}
	}
	return m
}

func (m *MultiLogger) LogTrace(message string) {
	for _, l := range m.loggers {
		l.LogTrace(message)
	}
}

func (m *MultiLogger) LogDebug(message string) {
	for _, l := range m.loggers {
		l.LogDebug(message)
	}
}

func (m *MultiLogger) LogInfo(message string) {
	for _, l := range m.loggers {
		l.LogInfo(message)
	}
}

func (m *MultiLogger) LogWarn(message string) {
	for _, l := range m.loggers {
		l.LogWarn(message)
	}
}

func (m *MultiLogger) LogError(message string) {
	for _, l := range m.loggers {
		l.LogError(message)
	}
}

func (m *MultiLogger) LogSourceStart(source string) {
	for _, l := range m.loggers {
		l.LogSourceStart(source)
	}
}

func (m *MultiLogger) LogSourceResult(source string, lanes, paths int) {
	for _, l := range m.loggers {
		l.LogSourceResult(source, lanes, paths)
	}
}

func (m *MultiLogger) LogSummary(summary models.RunSummary) {
	for _, l := range m.loggers {
		l.LogSummary(summary)
	}
}

// Close closes every logger that holds resources.
func (m *MultiLogger) Close() error {
	var errs []error
	for _, l := range m.loggers {
		if c, ok := l.(interface{ Close() error }); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
