package logger

import "github.com/harrison/codeagg/internal/models"

// Sink is the set of events a run reports.
type Sink interface {
	LogDebug(message string)
	LogInfo(message string)
	LogWarn(message string)
	LogRootSkipped(root models.Root)
	LogFileSelected(entry models.FileEntry)
	LogReadError(entry models.FileEntry, err error)
	LogSummary(result *models.RunResult)
}

// Multi fans every event out to each sink in order.
type Multi []Sink

// LogDebug forwards a debug message.
func (m Multi) LogDebug(message string) {
	for _, s := range m {
		s.LogDebug(message)
	}
}

// LogInfo forwards an info message.
func (m Multi) LogInfo(message string) {
	for _, s := range m {
		s.LogInfo(message)
	}
}

// LogWarn forwards a warning.
func (m Multi) LogWarn(message string) {
	for _, s := range m {
		s.LogWarn(message)
	}
}

// LogRootSkipped forwards a skipped root.
func (m Multi) LogRootSkipped(root models.Root) {
	for _, s := range m {
		s.LogRootSkipped(root)
	}
}

// LogFileSelected forwards a selected file.
func (m Multi) LogFileSelected(entry models.FileEntry) {
	for _, s := range m {
		s.LogFileSelected(entry)
	}
}

// LogReadError forwards a read failure.
func (m Multi) LogReadError(entry models.FileEntry, err error) {
	for _, s := range m {
		s.LogReadError(entry, err)
	}
}

// LogSummary forwards the run summary.
func (m Multi) LogSummary(result *models.RunResult) {
	for _, s := range m {
		s.LogSummary(result)
	}
}
