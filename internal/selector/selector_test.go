package selector

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/harrison/codeagg/internal/fileutil"
	"github.com/harrison/codeagg/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newConfig() *models.AggregationConfig {
	cfg := models.DefaultAggregationConfig()
	return &cfg
}

func paths(entries []models.FileEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, filepath.ToSlash(e.Path))
	}
	return out
}

func TestSelectRootOrder(t *testing.T) {
	lister := fileutil.NewMemLister(
		"static/js/app.js",
		"data/seed.json",
		"static/css/site.css",
		"templates/base.html",
		"templates/users/list.html",
		"main.py",
		"app.py",
	)

	entries, err := Select(newConfig(), lister, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"app.py",
		"main.py",
		"templates/base.html",
		"templates/users/list.html",
		"static/css/site.css",
		"static/js/app.js",
		"data/seed.json",
	}, paths(entries))

	roots := make([]string, 0, len(entries))
	for _, e := range entries {
		roots = append(roots, e.Root)
	}
	assert.Equal(t, []string{"root", "root", "templates", "templates", "styles", "scripts", "data"}, roots)
	assert.Equal(t, models.TagHash, entries[0].Tag)
	assert.Equal(t, models.TagMarkup, entries[2].Tag)
	assert.Equal(t, models.TagBlock, entries[4].Tag)
	assert.Equal(t, models.TagCStyle, entries[5].Tag)
	assert.Equal(t, models.TagData, entries[6].Tag)
}

func TestSelectRecursionPolicy(t *testing.T) {
	lister := fileutil.NewMemLister(
		"pkg/nested.py",
		"static/css/vendor/bootstrap.css",
		"templates/a/b/c.html",
	)

	entries, err := Select(newConfig(), lister, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"templates/a/b/c.html"}, paths(entries))
}

func TestSelectMissingRootsSkipped(t *testing.T) {
	lister := fileutil.NewMemLister("a.py")

	var skipped []string
	entries, err := Select(newConfig(), lister, func(r models.Root) {
		skipped = append(skipped, r.Name)
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"a.py"}, paths(entries))
	assert.Equal(t, []string{"templates", "styles", "scripts", "data"}, skipped)
}

func TestSelectEmptyRoot(t *testing.T) {
	lister := fileutil.NewMemLister()
	lister.AddDir("templates")

	entries, err := Select(newConfig(), lister, nil)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSelectSkipsNonRegularAndSelf(t *testing.T) {
	lister := fileutil.NewMemLister("a.py", "codeagg.py")
	lister.AddSpecial("fifo.py")
	lister.AddDir("dir.py")

	cfg := newConfig()
	cfg.SelfPaths[filepath.Join(string(filepath.Separator), "mem", "codeagg.py")] = true

	entries, err := Select(cfg, lister, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.py"}, paths(entries))
}

func TestSelectFilterPrecedence(t *testing.T) {
	lister := fileutil.NewMemLister(
		"a.py",
		"both.py",
		"notes.txt",
		"README.md",
		"secret.py",
		"setup.cfg",
		"static/js/app.js",
		"static/js/app.min.js",
	)

	cfg := newConfig()
	cfg.IncludeFiles = models.NameSet([]string{"README.md", "both.py", "setup.cfg", "app.min.js"})
	cfg.ExcludeFiles = models.NameSet([]string{"both.py", "secret.py", "app.min.js"})

	entries, err := Select(cfg, lister, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"README.md", "a.py", "setup.cfg", "static/js/app.js"}, paths(entries))
	assert.Equal(t, models.TagMarkdown, entries[0].Tag)
	assert.Equal(t, ".cfg", entries[2].Ext)
	assert.Equal(t, models.TagDefault, entries[2].Tag)
}

func TestSelectExcludedExtensions(t *testing.T) {
	lister := fileutil.NewMemLister("a.py", "data/a.json", "data/b.yaml", "data/keep.yaml")

	cfg := newConfig()
	cfg.ExcludeExts = models.ExtSet([]string{"yaml", ".py"})
	cfg.IncludeFiles = models.NameSet([]string{"keep.yaml"})

	entries, err := Select(cfg, lister, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"data/a.json", "data/keep.yaml"}, paths(entries))
}

func TestAcceptedByExtensionInvariant(t *testing.T) {
	names := []string{"a.py", "b.PY", "c.pyc", "d.js", "e", ".py", "f.tar.py"}
	root := models.Root{Name: "root", Path: ".", Extensions: []string{".py"}}

	cfg := newConfig()
	cfg.ExcludeExts = models.ExtSet([]string{".js"})

	for _, name := range names {
		if !Accepts(cfg, root, name) {
			continue
		}
		ext := filepath.Ext(name)
		assert.True(t, root.Allows(ext), "%s accepted with disallowed extension", name)
		assert.False(t, cfg.ExtensionExcluded(ext), "%s accepted with excluded extension", name)
	}
}

func TestIncludeAndExcludeAlwaysRejected(t *testing.T) {
	cfg := newConfig()
	for _, name := range []string{"a.py", "x.txt", "Makefile"} {
		cfg.IncludeFiles[name] = true
		cfg.ExcludeFiles[name] = true
		for _, root := range cfg.Roots {
			assert.False(t, Accepts(cfg, root, name), "%s must be excluded under root %s", name, root.Name)
		}
	}
}

func TestSelectListError(t *testing.T) {
	lister := fileutil.NewMemLister("a.py")
	lister.FailList("templates", errors.New("permission denied"))

	_, err := Select(newConfig(), lister, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "templates")
}

func TestSelectOnDisk(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "a.py"), []byte("print(1)\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "b.txt"), []byte("x"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, "static", "js"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "static", "js", "x.js"), []byte("x()"), 0644))

	cfg := newConfig()
	cfg.RootDir = tmpDir

	entries, err := Select(cfg, fileutil.OSLister{}, nil)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, filepath.Join(tmpDir, "a.py"), entries[0].Path)
	assert.Equal(t, filepath.Join(tmpDir, "static", "js", "x.js"), entries[1].Path)
}
