package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/koba789/unrotate/internal/models"
)

// ConsoleLogger logs collector activity to a writer with timestamps.
// All output is prefixed with [HH:MM:SS].
// Color output is automatically enabled for terminal output (os.Stdout/os.Stderr).
type ConsoleLogger struct {
	writer      io.Writer
	logLevel    string
	mutex       sync.Mutex
	colorOutput bool
}

// NewConsoleLogger creates a ConsoleLogger that writes to the provided io.Writer.
// If writer is nil, messages are silently discarded.
// Valid levels: trace, debug, info, warn, error (case-insensitive); anything
// else falls back to "info".
func NewConsoleLogger(writer io.Writer, logLevel string) *ConsoleLogger {
	return &ConsoleLogger{
		writer:      writer,
		logLevel:    normalizeLogLevel(logLevel),
		colorOutput: isTerminal(writer),
	}
}

// isTerminal checks if the writer is a terminal that supports colors.
func isTerminal(w io.Writer) bool {
	if w == nil {
		return false
	}

	if w == os.Stdout || w == os.Stderr {
		// color.NoColor already accounts for NO_COLOR and non-TTY output
		return !color.NoColor
	}

	return false
}

func (cl *ConsoleLogger) shouldLog(messageLevel string) bool {
	return allows(cl.logLevel, messageLevel)
}

// LogTrace logs a trace-level message (most verbose).
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
	if cl.writer == nil {
		return
	}

	if !cl.shouldLog(strings.ToLower(level)) {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := timestamp()
	var formatted string
	if cl.colorOutput {
		formatted = fmt.Sprintf("[%s] [%s] %s\n", ts, colorLevel(level), message)
	} else {
		formatted = fmt.Sprintf("[%s] [%s] %s\n", ts, level, message)
	}

	cl.writer.Write([]byte(formatted))
}

func colorLevel(level string) string {
	switch level {
	case "TRACE":
		return color.New(color.FgHiBlack).Sprint(level)
	case "DEBUG":
		return color.New(color.FgCyan).Sprint(level)
	case "INFO":
		return color.New(color.FgBlue).Sprint(level)
	case "WARN":
		return color.New(color.FgYellow).Sprint(level)
	case "ERROR":
		return color.New(color.FgRed).Sprint(level)
	default:
		return level
	}
}

// LogLinked logs a newly created link at DEBUG level.
// Format: "[HH:MM:SS] [DEBUG] linked <file> (<date>) -> <dest>"
func (cl *ConsoleLogger) LogLinked(rec models.LogRecord, dest string) {
	cl.LogDebug(fmt.Sprintf("linked %s (%s) -> %s", rec.FileName(), rec.Date, dest))
}

// LogStepComplete logs the outcome of one step at INFO level.
// Steps that found nothing new are logged at DEBUG to keep the steady state quiet.
// Format: "[HH:MM:SS] Step complete: <n> candidates, <n> linked, <n> already present, <n> skipped (<duration>)"
func (cl *ConsoleLogger) LogStepComplete(result models.StepResult) {
	if cl.writer == nil {
		return
	}

	level := "info"
	if result.Linked == 0 {
		level = "debug"
	}
	if !cl.shouldLog(level) {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	linked := fmt.Sprintf("%d linked", result.Linked)
	if cl.colorOutput && result.Linked > 0 {
		linked = color.New(color.FgGreen).Sprint(linked)
	}

	message := fmt.Sprintf("[%s] Step complete: %d candidates, %s, %d already present, %d skipped (%s)\n",
		timestamp(),
		result.Candidates,
		linked,
		result.AlreadyPresent,
		result.Skipped,
		formatDuration(result.Duration),
	)

	cl.writer.Write([]byte(message))
}

// NoOpLogger is a Logger implementation that discards all log messages.
// Useful for testing or when logging is disabled.
type NoOpLogger struct{}

// NewNoOpLogger creates a NoOpLogger instance.
func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{}
}

func (n *NoOpLogger) LogTrace(message string)                     {}
func (n *NoOpLogger) LogDebug(message string)                     {}
func (n *NoOpLogger) LogInfo(message string)                      {}
func (n *NoOpLogger) LogWarn(message string)                      {}
func (n *NoOpLogger) LogError(message string)                     {}
func (n *NoOpLogger) LogLinked(rec models.LogRecord, dest string) {}
func (n *NoOpLogger) LogStepComplete(result models.StepResult)    {}
