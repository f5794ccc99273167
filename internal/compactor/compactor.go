// Package compactor strips comments and blank lines from file contents.
//
// Stripping is line-oriented and regex-based rather than lexer-based: comment
// markers inside string literals are treated as comments, and block comments
// do not nest. Each file type tag maps to one Strategy; new types are added by
// registering an extension for an existing tag.
package compactor

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/harrison/codeagg/internal/models"
)

// Strategy transforms a file's text into its compacted form.
type Strategy func(text string) string

var (
	blockCommentRe  = regexp.MustCompile(`(?s)/\*.*?\*/`)
	markupCommentRe = regexp.MustCompile(`(?s)<!--.*?-->`)
)

// Compactor dispatches compaction by type tag.
type Compactor struct {
	strategies map[models.TypeTag]Strategy
	tags       map[string]models.TypeTag
}

// New returns a Compactor with the built-in strategies and extension table.
func New() *Compactor {
	c := &Compactor{
		strategies: map[models.TypeTag]Strategy{
			models.TagDefault:  StripBlankLines,
			models.TagData:     StripBlankLines,
			models.TagHash:     StripHashComments,
			models.TagMarkup:   StripMarkupComments,
			models.TagCStyle:   StripCStyleComments,
			models.TagBlock:    StripBlockComments,
			models.TagMarkdown: StripMarkdownComments,
		},
		tags: make(map[string]models.TypeTag),
	}

	for tag, exts := range defaultExtensions {
		for _, ext := range exts {
			c.tags[ext] = tag
		}
	}
	return c
}

var defaultExtensions = map[models.TypeTag][]string{
	models.TagHash:     {".py", ".sh", ".bash", ".zsh", ".rb", ".pl", ".r"},
	models.TagMarkup:   {".html", ".htm", ".xml", ".svg", ".vue"},
	models.TagCStyle:   {".js", ".jsx", ".ts", ".tsx", ".go", ".java", ".c", ".h", ".cpp", ".hpp", ".cs", ".rs", ".swift", ".kt", ".scss", ".less"},
	models.TagBlock:    {".css"},
	models.TagData:     {".json", ".yaml", ".yml", ".toml", ".csv", ".ini"},
	models.TagMarkdown: {".md", ".markdown"},
}

// WithExtension maps ext to tag, overriding any existing mapping.
func (c *Compactor) WithExtension(ext string, tag models.TypeTag) *Compactor {
	if n := models.NormalizeExt(ext); n != "" {
		c.tags[n] = tag
	}
	return c
}

// TagFor returns the type tag for an extension, or TagDefault if unknown.
func (c *Compactor) TagFor(ext string) models.TypeTag {
	if tag, ok := c.tags[models.NormalizeExt(ext)]; ok {
		return tag
	}
	return models.TagDefault
}

// Compact applies the strategy registered for tag. Unknown tags fall back to
// blank-line stripping.
func (c *Compactor) Compact(text string, tag models.TypeTag) string {
	if s, ok := c.strategies[tag]; ok {
		return s(text)
	}
	return StripBlankLines(text)
}

var std = New()

// TagFor returns the built-in type tag for an extension.
func TagFor(ext string) models.TypeTag {
	return std.TagFor(ext)
}

// Compact compacts text using the built-in strategies.
func Compact(text string, tag models.TypeTag) string {
	return std.Compact(text, tag)
}

// StripBlankLines drops whitespace-only lines and trims trailing whitespace.
func StripBlankLines(text string) string {
	return keepLines(text, func(line string) (string, bool) {
		return line, true
	})
}

// StripHashComments drops '#'-led lines and truncates the rest at the first '#'.
func StripHashComments(text string) string {
	return keepLines(text, func(line string) (string, bool) {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			return "", false
		}
		if i := strings.Index(line, "#"); i >= 0 {
			line = line[:i]
		}
		return line, true
	})
}

// StripMarkupComments removes <!-- --> spans, which may cross lines.
func StripMarkupComments(text string) string {
	return StripBlankLines(removeAll(markupCommentRe, text))
}

// StripBlockComments removes /* */ spans, which may cross lines.
func StripBlockComments(text string) string {
	return StripBlankLines(removeAll(blockCommentRe, text))
}

// StripCStyleComments removes /* */ spans then truncates each line at '//'.
func StripCStyleComments(text string) string {
	return keepLines(removeAll(blockCommentRe, text), func(line string) (string, bool) {
		if i := strings.Index(line, "//"); i >= 0 {
			line = line[:i]
		}
		return line, true
	})
}

// removeAll deletes matches of re until none remain. Removing one span can
// join its neighbours into a new one, e.g. "<!<!-- x -->-- y -->".
func removeAll(re *regexp.Regexp, text string) string {
	for re.MatchString(text) {
		text = re.ReplaceAllString(text, "")
	}
	return text
}

// keepLines runs fn over every line, trims trailing whitespace from the
// result and drops it if blank.
func keepLines(text string, fn func(line string) (string, bool)) string {
	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		out, ok := fn(line)
		if !ok {
			continue
		}
		out = strings.TrimRightFunc(out, unicode.IsSpace)
		if strings.TrimSpace(out) == "" {
			continue
		}
		kept = append(kept, out)
	}

	return strings.Join(kept, "\n")
}
