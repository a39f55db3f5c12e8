package logger

import "github.com/koba789/unrotate/internal/models"

// Logger is the set of events the collector reports.
type Logger interface {
	LogDebug(message string)
	LogInfo(message string)
	LogWarn(message string)
	LogError(message string)
	LogLinked(rec models.LogRecord, dest string)
	LogStepComplete(result models.StepResult)
}

// MultiLogger forwards every event to each of its loggers in order.
type MultiLogger struct {
	loggers []Logger
}

// NewMultiLogger creates a MultiLogger; nil entries are ignored.
func NewMultiLogger(loggers ...Logger) *MultiLogger {
	ml := &MultiLogger{}
	for _, l := range loggers {
		if l != nil {
			ml.loggers = append(ml.loggers, l)
		}
	}
	return ml
}

// LogDebug forwards to all loggers
func (ml *MultiLogger) LogDebug(message string) {
	for _, l := range ml.loggers {
		l.LogDebug(message)
	}
}

// LogInfo forwards to all loggers
func (ml *MultiLogger) LogInfo(message string) {
	for _, l := range ml.loggers {
		l.LogInfo(message)
	}
}

// LogWarn forwards to all loggers
func (ml *MultiLogger) LogWarn(message string) {
	for _, l := range ml.loggers {
		l.LogWarn(message)
	}
}

// LogError forwards to all loggers
func (ml *MultiLogger) LogError(message string) {
	for _, l := range ml.loggers {
		l.LogError(message)
	}
}

// LogLinked forwards to all loggers
func (ml *MultiLogger) LogLinked(rec models.LogRecord, dest string) {
	for _, l := range ml.loggers {
		l.LogLinked(rec, dest)
	}
}

// LogStepComplete forwards to all loggers
func (ml *MultiLogger) LogStepComplete(result models.StepResult) {
	for _, l := range ml.loggers {
		l.LogStepComplete(result)
	}
}
