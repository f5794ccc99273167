package models

import (
	"fmt"
	"strings"
	"time"
)

// TypeTag classifies a file by extension and selects its compaction strategy.
type TypeTag string

// Type tags known to the compactor
const (
	TagDefault  TypeTag = "default"  // Unknown type: blank lines only
	TagHash     TypeTag = "hash"     // '#' line comments (Python, shell, Ruby)
	TagMarkup   TypeTag = "markup"   // <!-- --> comments (HTML, XML)
	TagCStyle   TypeTag = "cstyle"   // /* */ and // comments (JS, Go, C)
	TagBlock    TypeTag = "block"    // /* */ comments only (CSS)
	TagData     TypeTag = "data"     // Structured data, no comments stripped
	TagMarkdown TypeTag = "markdown" // Markdown documents
)

// TypeTags lists every built-in type tag.
var TypeTags = []TypeTag{TagDefault, TagHash, TagMarkup, TagCStyle, TagBlock, TagData, TagMarkdown}

// ParseTypeTag returns the built-in tag named s (case-insensitive).
func ParseTypeTag(s string) (TypeTag, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, tag := range TypeTags {
		if string(tag) == s {
			return tag, true
		}
	}
	return "", false
}

// SeparatorWidth is the number of '=' characters in block and banner separators.
const SeparatorWidth = 80

// headerMarker surrounds the file path in each block header.
const headerMarker = "#### #### #### ####"

// Separator returns the fixed-width separator line (without newline).
func Separator() string {
	return strings.Repeat("=", SeparatorWidth)
}

// FileEntry is a resolved regular file chosen for aggregation.
type FileEntry struct {
	Path    string  // Path as shown in the block header (root dir joined with location)
	AbsPath string  // Absolute path, used for self-exclusion
	Root    string  // Name of the root the file was found under
	Ext     string  // Normalized extension (".py")
	Tag     TypeTag // Compaction type tag
}

// Block is one file's contribution to the output document.
type Block struct {
	Header string
	Body   string
}

// NewBlock builds the block for path with the given body.
func NewBlock(path, body string) Block {
	return Block{
		Header: fmt.Sprintf("\n%s This file: %s %s Contents:\n\n", headerMarker, path, headerMarker),
		Body:   body,
	}
}

// String renders the block in its output form: header, body, separator line.
func (b Block) String() string {
	return b.Header + b.Body + "\n" + Separator() + "\n"
}

// Banner renders the optional description banner that precedes all blocks.
// Format: "Description:\n<desc>\n\nAggregated on: <ts>\n<separator>\n\n"
func Banner(description, timestamp string) string {
	return "Description:\n" + description + "\n\nAggregated on: " + timestamp + "\n" + Separator() + "\n\n"
}

// RunResult summarizes a completed aggregation run.
type RunResult struct {
	RunID        string        // Unique run identifier (uuid)
	RootDir      string        // Root directory that was aggregated
	OutputPath   string        // Where the document was written
	Files        []FileEntry   // Entries aggregated, in output order
	ReadErrors   int           // Entries whose body is a read-error placeholder
	Unreadable   []string      // Paths of those entries, in output order
	BytesWritten int           // Size of the written document
	Compacted    bool          // Whether compaction was enabled
	StartedAt    time.Time     // When the run began
	Duration     time.Duration // Total run time
}

// FileCount returns the number of blocks in the document.
func (r *RunResult) FileCount() int {
	return len(r.Files)
}
