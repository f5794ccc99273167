// Package selector chooses which files are aggregated and in what order.
package selector

import (
	"fmt"
	"path/filepath"

	"github.com/harrison/codeagg/internal/compactor"
	"github.com/harrison/codeagg/internal/fileutil"
	"github.com/harrison/codeagg/internal/models"
)

// Decision is the outcome of a filter rule.
type Decision int

const (
	// Undecided passes the file on to the next rule
	Undecided Decision = iota
	// Accept includes the file
	Accept
	// Reject excludes the file
	Reject
)

// Rule inspects a candidate file and either decides or defers.
type Rule func(cfg *models.AggregationConfig, root models.Root, name string) Decision

// rules is the filter chain, evaluated in order. The first decisive rule wins
// and a file no rule accepts is rejected.
var rules = []Rule{
	ExcludeByName,
	IncludeByName,
	ByExtension,
}

// ExcludeByName rejects files whose basename is explicitly excluded.
func ExcludeByName(cfg *models.AggregationConfig, _ models.Root, name string) Decision {
	if cfg.ExcludeFiles[name] {
		return Reject
	}
	return Undecided
}

// IncludeByName accepts files whose basename is explicitly included,
// regardless of extension.
func IncludeByName(cfg *models.AggregationConfig, _ models.Root, name string) Decision {
	if cfg.IncludeFiles[name] {
		return Accept
	}
	return Undecided
}

// ByExtension accepts files whose extension the root allows and that is not
// globally excluded.
func ByExtension(cfg *models.AggregationConfig, root models.Root, name string) Decision {
	ext := filepath.Ext(name)
	if root.Allows(ext) && !cfg.ExtensionExcluded(ext) {
		return Accept
	}
	return Undecided
}

// Accepts runs the rule chain for a single basename under root.
func Accepts(cfg *models.AggregationConfig, root models.Root, name string) bool {
	for _, rule := range rules {
		switch rule(cfg, root, name) {
		case Accept:
			return true
		case Reject:
			return false
		}
	}
	return false
}

// Select returns the files to aggregate: roots in configured order, entries
// in listing order within each root. Roots that do not exist are skipped.
// skipped, if non-nil, is called with each missing root.
func Select(cfg *models.AggregationConfig, lister fileutil.Lister, skipped func(models.Root)) ([]models.FileEntry, error) {
	var entries []models.FileEntry

	for _, root := range cfg.Roots {
		dir := filepath.Join(cfg.RootDir, root.Path)
		if !lister.Exists(dir) {
			if skipped != nil {
				skipped(root)
			}
			continue
		}

		listing, err := lister.ListDirectory(dir, root.Recursive)
		if err != nil {
			return nil, fmt.Errorf("list root %s: %w", root.Name, err)
		}

		for _, e := range listing {
			if !e.IsRegular || cfg.IsSelf(e.AbsPath) {
				continue
			}
			if !Accepts(cfg, root, e.Name) {
				continue
			}

			ext := models.NormalizeExt(filepath.Ext(e.Name))
			entries = append(entries, models.FileEntry{
				Path:    e.Path,
				AbsPath: e.AbsPath,
				Root:    root.Name,
				Ext:     ext,
				Tag:     compactor.TagFor(ext),
			})
		}
	}

	return entries, nil
}
