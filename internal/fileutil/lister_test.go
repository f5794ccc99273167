package fileutil

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTree(t *testing.T, root string, files []string) {
	t.Helper()
	for _, f := range files {
		path := filepath.Join(root, f)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("failed to create directory: %v", err)
		}
		if err := os.WriteFile(path, []byte("test content"), 0644); err != nil {
			t.Fatalf("failed to create file: %v", err)
		}
	}
}

func names(entries []DirEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Name)
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestOSListerNonRecursive(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, []string{
		"b.py",
		"a.py",
		"sub/nested.py",
	})

	lister := OSLister{}
	entries, err := lister.ListDirectory(tmpDir, false)
	if err != nil {
		t.Fatalf("ListDirectory failed: %v", err)
	}

	want := []string{"a.py", "b.py", "sub"}
	if got := names(entries); !equalStrings(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	for _, e := range entries {
		wantRegular := e.Name != "sub"
		if e.IsRegular != wantRegular {
			t.Errorf("%s: IsRegular = %v, want %v", e.Name, e.IsRegular, wantRegular)
		}
		if !filepath.IsAbs(e.AbsPath) {
			t.Errorf("%s: AbsPath %q is not absolute", e.Name, e.AbsPath)
		}
		if e.Path != filepath.Join(tmpDir, e.Name) {
			t.Errorf("%s: unexpected Path %q", e.Name, e.Path)
		}
	}
}

func TestOSListerRecursive(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, []string{
		"index.html",
		"a/page.html",
		"a/b/deep.html",
		"z.html",
	})

	entries, err := OSLister{}.ListDirectory(tmpDir, true)
	if err != nil {
		t.Fatalf("ListDirectory failed: %v", err)
	}

	want := []string{"deep.html", "page.html", "index.html", "z.html"}
	if got := names(entries); !equalStrings(got, want) {
		t.Fatalf("expected walk order %v, got %v", want, got)
	}
	for _, e := range entries {
		if !e.IsRegular {
			t.Errorf("%s should be regular", e.Name)
		}
	}
}

func TestOSListerSymlinkToFile(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, []string{"real.py"})
	if err := os.Symlink(filepath.Join(tmpDir, "real.py"), filepath.Join(tmpDir, "link.py")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}
	if err := os.Symlink(filepath.Join(tmpDir, "missing.py"), filepath.Join(tmpDir, "broken.py")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	entries, err := OSLister{}.ListDirectory(tmpDir, false)
	if err != nil {
		t.Fatalf("ListDirectory failed: %v", err)
	}

	regular := map[string]bool{}
	for _, e := range entries {
		regular[e.Name] = e.IsRegular
	}
	if !regular["link.py"] {
		t.Error("symlink to regular file should be reported as regular")
	}
	if regular["broken.py"] {
		t.Error("broken symlink should not be reported as regular")
	}
}

func TestOSListerErrors(t *testing.T) {
	tmpDir := t.TempDir()
	lister := OSLister{}

	if lister.Exists(filepath.Join(tmpDir, "nope")) {
		t.Error("Exists should be false for a missing directory")
	}
	if _, err := lister.ListDirectory(filepath.Join(tmpDir, "nope"), false); err == nil {
		t.Error("expected error listing a missing directory")
	}

	writeTree(t, tmpDir, []string{"file.txt"})
	if lister.Exists(filepath.Join(tmpDir, "file.txt")) {
		t.Error("Exists should be false for a regular file")
	}
	if _, err := lister.ListDirectory(filepath.Join(tmpDir, "file.txt"), true); err == nil {
		t.Error("expected error listing a file")
	}
}

func TestOSListerEmptyDirectory(t *testing.T) {
	tmpDir := t.TempDir()

	for _, recursive := range []bool{false, true} {
		entries, err := OSLister{}.ListDirectory(tmpDir, recursive)
		if err != nil {
			t.Fatalf("recursive=%v: unexpected error: %v", recursive, err)
		}
		if len(entries) != 0 {
			t.Errorf("recursive=%v: expected no entries, got %v", recursive, names(entries))
		}
	}
}

func TestMemListerMatchesWalkOrder(t *testing.T) {
	m := NewMemLister("t/index.html", "t/a/page.html", "t/a/b/deep.html", "t/z.html", "t/a-c.html")

	entries, err := m.ListDirectory("t", true)
	if err != nil {
		t.Fatalf("ListDirectory failed: %v", err)
	}

	want := []string{"deep.html", "page.html", "a-c.html", "index.html", "z.html"}
	if got := names(entries); !equalStrings(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestMemListerNonRecursive(t *testing.T) {
	m := NewMemLister("b.py", "a.py", "pkg/x.py")
	m.AddSpecial("sock.py")
	m.AddDir("empty")

	entries, err := m.ListDirectory(".", false)
	if err != nil {
		t.Fatalf("ListDirectory failed: %v", err)
	}

	want := []string{"a.py", "b.py", "empty", "pkg", "sock.py"}
	if got := names(entries); !equalStrings(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	regular := map[string]bool{}
	for _, e := range entries {
		regular[e.Name] = e.IsRegular
	}
	if !regular["a.py"] || regular["pkg"] || regular["empty"] || regular["sock.py"] {
		t.Errorf("unexpected regularity: %v", regular)
	}

	if !m.Exists("empty") || m.Exists("missing") {
		t.Error("Exists reported wrong result")
	}
	if _, err := m.ListDirectory("missing", false); err == nil {
		t.Error("expected error for missing directory")
	}
}
