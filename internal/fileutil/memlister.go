package fileutil

import (
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// MemLister is an in-memory Lister. Files are registered by slash-separated
// path; parent directories are implied. Special (non-regular) files can be
// registered with AddSpecial.
type MemLister struct {
	files   map[string]bool // path -> regular
	dirs    map[string]bool
	listErr map[string]error
}

// NewMemLister creates a MemLister containing the given regular files.
func NewMemLister(files ...string) *MemLister {
	m := &MemLister{
		files:   make(map[string]bool),
		dirs:    map[string]bool{".": true},
		listErr: make(map[string]error),
	}
	for _, f := range files {
		m.add(f, true)
	}
	return m
}

// AddDir registers an empty directory.
func (m *MemLister) AddDir(dir string) {
	dir = path.Clean(filepath.ToSlash(dir))
	for d := dir; d != "." && d != "/"; d = path.Dir(d) {
		m.dirs[d] = true
	}
}

// AddSpecial registers a non-regular file (socket, device, broken link).
func (m *MemLister) AddSpecial(file string) {
	m.add(file, false)
}

// FailList makes ListDirectory on dir return err.
func (m *MemLister) FailList(dir string, err error) {
	m.AddDir(dir)
	m.listErr[path.Clean(filepath.ToSlash(dir))] = err
}

func (m *MemLister) add(file string, regular bool) {
	file = path.Clean(filepath.ToSlash(file))
	m.files[file] = regular
	m.AddDir(path.Dir(file))
}

// Exists reports whether dir is a registered directory.
func (m *MemLister) Exists(dir string) bool {
	return m.dirs[path.Clean(filepath.ToSlash(dir))]
}

// ListDirectory mirrors OSLister ordering: names sorted within a directory,
// recursive listings emitted in walk order.
func (m *MemLister) ListDirectory(dir string, recursive bool) ([]DirEntry, error) {
	dir = path.Clean(filepath.ToSlash(dir))
	if !m.dirs[dir] {
		return nil, fmt.Errorf("failed to access directory: %s does not exist", dir)
	}
	if err := m.listErr[dir]; err != nil {
		return nil, err
	}

	var result []DirEntry
	if !recursive {
		seen := make(map[string]bool)
		for _, child := range m.children(dir) {
			name := path.Base(child)
			if seen[name] {
				continue
			}
			seen[name] = true
			regular, isFile := m.files[child]
			result = append(result, m.entry(child, isFile && regular))
		}
		return result, nil
	}

	var files []string
	for f := range m.files {
		if dir == "." || strings.HasPrefix(f, dir+"/") {
			files = append(files, f)
		}
	}
	sort.Slice(files, func(i, j int) bool {
		return walkKey(files[i]) < walkKey(files[j])
	})
	for _, f := range files {
		result = append(result, m.entry(f, m.files[f]))
	}
	return result, nil
}

// children returns the immediate children (files and directories) of dir, sorted.
func (m *MemLister) children(dir string) []string {
	var out []string
	for f := range m.files {
		if path.Dir(f) == dir {
			out = append(out, f)
		}
	}
	for d := range m.dirs {
		if d != dir && d != "." && path.Dir(d) == dir {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return path.Base(out[i]) < path.Base(out[j]) })
	return out
}

func (m *MemLister) entry(p string, regular bool) DirEntry {
	native := filepath.FromSlash(p)
	return DirEntry{
		Path:      native,
		Name:      path.Base(p),
		IsRegular: regular,
		AbsPath:   filepath.Join(string(filepath.Separator), "mem", native),
	}
}

// walkKey orders paths component-wise, matching filepath.WalkDir.
func walkKey(p string) string {
	return strings.ReplaceAll(p, "/", "\x00")
}
