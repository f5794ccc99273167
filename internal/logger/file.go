package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/harrison/codeagg/internal/models"
)

// FileLogger writes a per-run log file into a log directory.
// Each run gets run-YYYYMMDD-HHMMSS.log and latest.log is re-pointed at it.
type FileLogger struct {
	logDir   string
	runLog   *os.File
	runFile  string
	logLevel string
	mu       sync.Mutex
}

// NewFileLogger creates a FileLogger writing into logDir at the given level.
// The directory is created if it doesn't exist.
func NewFileLogger(logDir string, logLevel string) (*FileLogger, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	runFile := filepath.Join(logDir, fmt.Sprintf("run-%s.log", time.Now().Format("20060102-150405")))
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
		logLevel: normalizeLogLevel(logLevel),
	}

	fl.write("=== codeagg Run Log ===\n")
	fl.write(fmt.Sprintf("Started at: %s\n\n", time.Now().Format(time.RFC3339)))

	return fl, nil
}

// RunFile returns the path of this run's log file.
func (fl *FileLogger) RunFile() string {
	return fl.runFile
}

// Close closes the run log file.
func (fl *FileLogger) Close() error {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.runLog == nil {
		return nil
	}
	err := fl.runLog.Close()
	fl.runLog = nil
	return err
}

func (fl *FileLogger) write(s string) {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.runLog != nil {
		fl.runLog.WriteString(s)
	}
}

func (fl *FileLogger) logWithLevel(level string, message string) {
	if logLevelToInt(strings.ToLower(level)) < logLevelToInt(fl.logLevel) {
		return
	}
	fl.write(fmt.Sprintf("[%s] [%s] %s\n", timestamp(), level, message))
}

// LogTrace logs a trace-level message.
func (fl *FileLogger) LogTrace(message string) { fl.logWithLevel("TRACE", message) }

// LogDebug logs a debug-level message.
func (fl *FileLogger) LogDebug(message string) { fl.logWithLevel("DEBUG", message) }

// LogInfo logs an info-level message.
func (fl *FileLogger) LogInfo(message string) { fl.logWithLevel("INFO", message) }

// LogWarn logs a warning-level message.
func (fl *FileLogger) LogWarn(message string) { fl.logWithLevel("WARN", message) }

// LogError logs an error-level message.
func (fl *FileLogger) LogError(message string) { fl.logWithLevel("ERROR", message) }

// LogRootSkipped records a missing root.
func (fl *FileLogger) LogRootSkipped(root models.Root) {
	fl.LogDebug(fmt.Sprintf("Skipping root %s: %s not found", root.Name, root.Path))
}

// LogFileSelected records a selected file.
func (fl *FileLogger) LogFileSelected(entry models.FileEntry) {
	fl.LogDebug(fmt.Sprintf("Adding %s [%s]", entry.Path, entry.Tag))
}

// LogReadError records a read failure.
func (fl *FileLogger) LogReadError(entry models.FileEntry, err error) {
	fl.LogWarn(fmt.Sprintf("Could not read %s: %v", entry.Path, err))
}

// LogSummary writes the run summary block at INFO level.
func (fl *FileLogger) LogSummary(result *models.RunResult) {
	if result == nil || logLevelToInt("info") < logLevelToInt(fl.logLevel) {
		return
	}

	ts := timestamp()
	status := "SUCCESS"
	if result.ReadErrors > 0 {
		status = "PARTIAL"
	}

	fl.write(fmt.Sprintf(
		"\n[%s] === RUN SUMMARY ===\n"+
			"[%s] Run ID:       %s\n"+
			"[%s] Root:         %s\n"+
			"[%s] Output:       %s\n"+
			"[%s] Files:        %d\n"+
			"[%s] Read errors:  %d\n"+
			"[%s] Size:         %s\n"+
			"[%s] Compacted:    %t\n"+
			"[%s] Total time:   %.3fs\n"+
			"[%s] Status:       %s\n",
		ts,
		ts, result.RunID,
		ts, result.RootDir,
		ts, result.OutputPath,
		ts, result.FileCount(),
		ts, result.ReadErrors,
		ts, formatBytes(result.BytesWritten),
		ts, result.Compacted,
		ts, result.Duration.Seconds(),
		ts, status,
	))
}
