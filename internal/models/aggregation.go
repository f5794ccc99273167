package models

import (
	"path/filepath"
	"strings"
)

// Root describes one logical directory scanned during selection.
type Root struct {
	// Name identifies the root in logs and listings (e.g. "templates")
	Name string `yaml:"name" toml:"name"`

	// Path is relative to the aggregation root directory ("." for the root itself)
	Path string `yaml:"path" toml:"path"`

	// Recursive enables descending into subdirectories
	Recursive bool `yaml:"recursive" toml:"recursive"`

	// Extensions lists the allowed file extensions for this root (e.g. ".html")
	Extensions []string `yaml:"extensions" toml:"extensions"`
}

// Allows reports whether ext is in the root's allowed extension set.
// Comparison is case-insensitive and tolerant of a missing leading dot.
func (r Root) Allows(ext string) bool {
	ext = NormalizeExt(ext)
	for _, allowed := range r.Extensions {
		if NormalizeExt(allowed) == ext {
			return true
		}
	}
	return false
}

// DefaultRoots returns the fixed root layout in visitation priority order:
// primary language files, markup templates, stylesheets, scripts, structured data.
func DefaultRoots() []Root {
	return []Root{
		{Name: "root", Path: ".", Recursive: false, Extensions: []string{".py"}},
		{Name: "templates", Path: "templates", Recursive: true, Extensions: []string{".html"}},
		{Name: "styles", Path: filepath.Join("static", "css"), Recursive: false, Extensions: []string{".css"}},
		{Name: "scripts", Path: filepath.Join("static", "js"), Recursive: false, Extensions: []string{".js"}},
		{Name: "data", Path: "data", Recursive: false, Extensions: []string{".json", ".yaml", ".yml", ".toml", ".csv"}},
	}
}

// AggregationConfig holds the immutable settings for a single aggregation run.
//
// Filename rules take precedence over extension rules: a basename in
// ExcludeFiles is always rejected, a basename in IncludeFiles is otherwise
// always accepted, and only then are the root's extensions consulted.
type AggregationConfig struct {
	RootDir      string
	OutputPath   string
	Compact      bool
	ExcludeExts  map[string]bool
	IncludeFiles map[string]bool
	ExcludeFiles map[string]bool
	Description  string
	Roots        []Root
	SelfPaths    map[string]bool
}

// DefaultAggregationConfig returns the settings used when the caller supplies nothing.
func DefaultAggregationConfig() AggregationConfig {
	return AggregationConfig{
		RootDir:      ".",
		OutputPath:   "full_code_review.txt",
		Compact:      false,
		ExcludeExts:  map[string]bool{},
		IncludeFiles: map[string]bool{},
		ExcludeFiles: map[string]bool{},
		Roots:        DefaultRoots(),
		SelfPaths:    map[string]bool{},
	}
}

// IsSelf reports whether absPath refers to an artifact of the aggregator itself
// (its executable or its output document).
func (c AggregationConfig) IsSelf(absPath string) bool {
	return c.SelfPaths[filepath.Clean(absPath)]
}

// ExtensionExcluded reports whether ext is in the globally excluded set.
func (c AggregationConfig) ExtensionExcluded(ext string) bool {
	return c.ExcludeExts[NormalizeExt(ext)]
}

// NormalizeExt lowercases an extension and ensures a leading dot.
// The empty string stays empty.
func NormalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// ExtSet builds a normalized extension set from a list.
func ExtSet(exts []string) map[string]bool {
	set := make(map[string]bool, len(exts))
	for _, ext := range exts {
		if n := NormalizeExt(ext); n != "" {
			set[n] = true
		}
	}
	return set
}

// NameSet builds an exact-match basename set from a list.
func NameSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		if name = strings.TrimSpace(name); name != "" {
			set[name] = true
		}
	}
	return set
}
