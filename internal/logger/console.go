// Package logger provides logging implementations for codeagg runs.
//
// Loggers report root skipping, file selection, read failures and a final
// run summary. Implementations are safe for concurrent use and support
// console and file destinations.
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

	"github.com/harrison/codeagg/internal/models"
)

// ConsoleLogger logs run progress to a writer with timestamps and thread safety.
// All output is prefixed with [HH:MM:SS] timestamps.
// Color output is enabled automatically when writing to a terminal.
type ConsoleLogger struct {
	writer      io.Writer
	logLevel    string
	mutex       sync.Mutex
	colorOutput bool
}

// NewConsoleLogger creates a ConsoleLogger that writes to the provided io.Writer.
// If writer is nil, messages are silently discarded.
// Valid levels: trace, debug, info, warn, error (case-insensitive).
// If logLevel is empty or invalid, defaults to "info".
func NewConsoleLogger(writer io.Writer, logLevel string) *ConsoleLogger {
	return &ConsoleLogger{
		writer:      writer,
		logLevel:    normalizeLogLevel(logLevel),
		colorOutput: isTerminal(writer),
	}
}

// isTerminal reports whether w is a terminal file that should receive colors.
// NO_COLOR is honored through fatih/color's detection.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || f == nil {
		return false
	}
	if color.NoColor {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// shouldLog checks if a message at the given level should be logged.
func (cl *ConsoleLogger) shouldLog(messageLevel string) bool {
	return logLevelToInt(messageLevel) >= logLevelToInt(cl.logLevel)
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
// Format: "[HH:MM:SS] [INFO] <message>"
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

// LogRootSkipped logs a root whose directory does not exist at DEBUG level.
func (cl *ConsoleLogger) LogRootSkipped(root models.Root) {
	cl.LogDebug(fmt.Sprintf("Skipping root %s: %s not found", root.Name, root.Path))
}

// LogFileSelected logs a selected file at DEBUG level.
func (cl *ConsoleLogger) LogFileSelected(entry models.FileEntry) {
	cl.LogDebug(fmt.Sprintf("Adding %s [%s]", entry.Path, entry.Tag))
}

// LogReadError logs a file that could not be read at WARN level.
func (cl *ConsoleLogger) LogReadError(entry models.FileEntry, err error) {
	cl.LogWarn(fmt.Sprintf("Could not read %s: %v", entry.Path, err))
}

// LogSummary logs the run summary at INFO level.
// Format: "[HH:MM:SS] Aggregated <n> file(s) into <path> (<size>, <duration>)"
func (cl *ConsoleLogger) LogSummary(result *models.RunResult) {
	if cl.writer == nil || result == nil || !cl.shouldLog("info") {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := timestamp()
	files := pluralize(result.FileCount(), "file")
	size := formatBytes(result.BytesWritten)
	dur := result.Duration.Round(time.Millisecond).String()

	var output string
	if cl.colorOutput {
		output = fmt.Sprintf("[%s] Aggregated %s into %s (%s, %s)\n", ts,
			color.New(color.FgGreen).Sprint(files),
			color.New(color.Bold).Sprint(result.OutputPath), size, dur)
		if result.ReadErrors > 0 {
			output += fmt.Sprintf("[%s] %s\n", ts,
				color.New(color.FgRed).Sprintf("%s could not be read", pluralize(result.ReadErrors, "file")))
		}
	} else {
		output = fmt.Sprintf("[%s] Aggregated %s into %s (%s, %s)\n", ts, files, result.OutputPath, size, dur)
		if result.ReadErrors > 0 {
			output += fmt.Sprintf("[%s] %s could not be read\n", ts, pluralize(result.ReadErrors, "file"))
		}
	}

	cl.writer.Write([]byte(output))
}
