package fileutil

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// DirEntry is a single entry returned by a directory listing.
type DirEntry struct {
	// Path is the entry path joined onto the listed directory
	Path string
	// Name is the entry's basename
	Name string
	// IsRegular is true for regular files (symlinks are resolved)
	IsRegular bool
	// AbsPath is the absolute, cleaned path of the entry
	AbsPath string
}

// Lister enumerates directory contents.
type Lister interface {
	// Exists reports whether path exists and is a directory.
	Exists(path string) bool
	// ListDirectory returns the entries under path in natural listing order.
	ListDirectory(path string, recursive bool) ([]DirEntry, error)
}

// OSLister lists directories on the local file system.
type OSLister struct{}

// Exists reports whether path is an existing directory.
func (OSLister) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// ListDirectory lists path. Non-recursive listings include subdirectories
// (IsRegular=false); recursive listings include only non-directory entries.
func (l OSLister) ListDirectory(path string, recursive bool) ([]DirEntry, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to access directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", path)
	}

	if !recursive {
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read directory %s: %w", path, err)
		}

		result := make([]DirEntry, 0, len(entries))
		for _, d := range entries {
			result = append(result, newEntry(filepath.Join(path, d.Name()), d))
		}
		return result, nil
	}

	result := make([]DirEntry, 0)
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == path {
				return err
			}
			// Skip unreadable subtrees and keep walking
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		result = append(result, newEntry(p, d))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory %s: %w", path, err)
	}

	return result, nil
}

// newEntry converts a fs.DirEntry, following symlinks to decide regularity.
func newEntry(path string, d fs.DirEntry) DirEntry {
	regular := d.Type().IsRegular()
	if d.Type()&fs.ModeSymlink != 0 {
		if info, err := os.Stat(path); err == nil {
			regular = info.Mode().IsRegular()
		}
	}

	return DirEntry{
		Path:      path,
		Name:      d.Name(),
		IsRegular: regular,
		AbsPath:   absPath(path),
	}
}

// absPath resolves path to an absolute cleaned path, falling back to the
// cleaned input if the working directory cannot be determined.
func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}
