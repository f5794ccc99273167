package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// maxListedFiles caps the affected-file list; the rest are summarized.
const maxListedFiles = 10

// Warning represents a user-facing warning message
type Warning struct {
	Title      string   // Main warning title
	Message    string   // Detailed explanation (optional)
	Files      []string // Related files (optional)
	Suggestion string   // Action to take (optional)
}

// Display shows a formatted warning in yellow
func (w Warning) Display(out io.Writer) {
	var b strings.Builder

	b.WriteString("Warning: ")
	b.WriteString(w.Title)
	b.WriteString("\n")

	if w.Message != "" {
		b.WriteString("    ")
		b.WriteString(w.Message)
		b.WriteString("\n")
	}

	if len(w.Files) > 0 {
		if len(w.Files) == 1 {
			b.WriteString("    Affected file:\n")
		} else {
			b.WriteString("    Affected files:\n")
		}

		for i, file := range w.Files {
			if i == maxListedFiles {
				b.WriteString(fmt.Sprintf("      ... and %d more\n", len(w.Files)-maxListedFiles))
				break
			}
			b.WriteString(fmt.Sprintf("      %d. %s\n", i+1, file))
		}
	}

	if w.Suggestion != "" {
		b.WriteString("    Suggestion:\n")
		b.WriteString("    ")
		b.WriteString(w.Suggestion)
		b.WriteString("\n")
	}

	color.New(color.FgYellow).Fprint(out, b.String())
}

// WarnUnreadable creates a warning for files whose contents were replaced
// by a read-error placeholder.
func WarnUnreadable(files []string) Warning {
	return Warning{
		Title:      fmt.Sprintf("%d file(s) could not be read", len(files)),
		Message:    "Their blocks contain an error message instead of the file contents.",
		Files:      files,
		Suggestion: "Check file permissions and that the files are UTF-8 text",
	}
}

// WarnNoFiles creates a warning for a run that selected nothing.
func WarnNoFiles(rootDir string) Warning {
	return Warning{
		Title:      "No files selected",
		Message:    fmt.Sprintf("No configured root under %s contained a matching file.", rootDir),
		Suggestion: "Run 'codeagg list' to inspect selection, or adjust roots and --include",
	}
}
