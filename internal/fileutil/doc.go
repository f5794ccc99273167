// Package fileutil provides the directory listing capability used to select
// files for aggregation.
//
// Listing is expressed as the Lister interface so that selection rules can be
// exercised against an in-memory tree (MemLister) as well as the real file
// system (OSLister).
//
// # Ordering
//
// Non-recursive listings return the entries of a single directory in the
// order os.ReadDir yields them (sorted by name). Recursive listings follow
// filepath.WalkDir order: entries are visited lexically and a subdirectory's
// contents are emitted as soon as the subdirectory is reached. Recursive
// listings only contain files; non-recursive listings also report
// subdirectories so callers can skip them explicitly.
//
// # Error Tolerance
//
// A missing or unreadable top-level directory is an error. Errors below the
// top level during a recursive walk (e.g. permission denied on a nested
// directory) are skipped and the walk continues.
//
// # Usage
//
//	lister := fileutil.OSLister{}
//	if !lister.Exists("templates") {
//	    return nil
//	}
//	entries, err := lister.ListDirectory("templates", true)
//	if err != nil {
//	    return err
//	}
//	for _, e := range entries {
//	    if e.IsRegular {
//	        fmt.Println(e.Path)
//	    }
//	}
package fileutil
