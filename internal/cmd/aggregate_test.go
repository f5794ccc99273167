package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateWritesDocument(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"main.py":              "# entry point\nprint('hi')  # greet\n\n",
		"README.md":            "not selected\n",
		"templates/index.html": "<!-- nav -->\n<p>x</p>\n",
		"static/css/site.css":  "/* reset */\nbody {}\n",
	})

	_, err := executeCommand(t, dir, "--compact", "--no-history", "-d", "Review")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "full_code_review.txt"))
	require.NoError(t, err)
	doc := string(data)

	assert.True(t, strings.HasPrefix(doc, "Description:\nReview\n\nAggregated on: "))
	assert.Contains(t, doc, "This file: "+filepath.Join(dir, "main.py"))
	assert.Contains(t, doc, "print('hi')\n")
	assert.NotContains(t, doc, "# entry point")
	assert.Contains(t, doc, "<p>x</p>")
	assert.NotContains(t, doc, "nav")
	assert.Contains(t, doc, "body {}")
	assert.NotContains(t, doc, "README.md")

	// main.py comes before the templates and styles roots
	assert.Less(t, strings.Index(doc, "main.py"), strings.Index(doc, "index.html"))
	assert.Less(t, strings.Index(doc, "index.html"), strings.Index(doc, "site.css"))

	_, err = os.Stat(filepath.Join(dir, ".codeagg", "history.db"))
	assert.True(t, os.IsNotExist(err), "--no-history must not create a database")
}

func TestAggregateIncludeExclude(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"app.py":   "x = 1\n",
		"setup.py": "setup()\n",
		"Makefile": "all:\n",
	})

	_, err := executeCommand(t, dir, "--no-history", "--include", "Makefile", "--exclude", "setup.py")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "full_code_review.txt"))
	require.NoError(t, err)
	doc := string(data)

	assert.Contains(t, doc, "app.py")
	assert.Contains(t, doc, "Makefile")
	assert.NotContains(t, doc, "setup.py")
}

func TestAggregateCustomOutputIsNotSelfIncluded(t *testing.T) {
	dir := writeProject(t, map[string]string{"a.py": "a = 1\n"})

	for i := 0; i < 2; i++ {
		_, err := executeCommand(t, dir, "--no-history", "-o", "review.py")
		require.NoError(t, err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "review.py"))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "This file:"))
}

func TestAggregateConfigFile(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"a.py":                 "a = 1  # one\n",
		".codeagg/config.yaml": "output: from-config.txt\ncompact: true\nhistory:\n  enabled: false\n",
	})

	_, err := executeCommand(t, dir)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "from-config.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "a = 1\n")
	assert.NotContains(t, string(data), "# one")

	// --no-compact overrides the file
	_, err = executeCommand(t, dir, "--no-compact")
	require.NoError(t, err)
	data, err = os.ReadFile(filepath.Join(dir, "from-config.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "# one")
}

func TestAggregateConflictingCompactFlags(t *testing.T) {
	dir := writeProject(t, map[string]string{"a.py": "a = 1\n"})

	_, err := executeCommand(t, dir, "--compact", "--no-compact")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--compact")
}

func TestAggregateInvalidLogLevel(t *testing.T) {
	dir := writeProject(t, map[string]string{"a.py": "a = 1\n"})

	_, err := executeCommand(t, dir, "--log-level", "loud")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log_level")
}

func TestAggregateLogsSummary(t *testing.T) {
	dir := writeProject(t, map[string]string{"a.py": "a = 1\n", "b.py": "b = 2\n"})

	output, err := executeCommand(t, dir, "--no-history")
	require.NoError(t, err)
	assert.Contains(t, output, "Aggregated 2 files into")
}

func TestAggregateLogDir(t *testing.T) {
	dir := writeProject(t, map[string]string{"a.py": "a = 1\n"})
	logDir := filepath.Join(t.TempDir(), "logs")

	_, err := executeCommand(t, dir, "--no-history", "--log-dir", logDir)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(logDir, "latest.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "=== RUN SUMMARY ===")
	assert.Contains(t, string(data), "Files:        1")
}

func TestAggregateWarnsWhenNothingSelected(t *testing.T) {
	dir := writeProject(t, map[string]string{"notes.txt": "nothing to see\n"})

	output, err := executeCommand(t, dir, "--no-history")
	require.NoError(t, err)
	assert.Contains(t, output, "No files selected")
}

func TestAggregateWarnsOnUnreadableFile(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"good.py": "x = 1\n",
		"bad.py":  "\xff\xfe not utf-8\n",
	})

	output, err := executeCommand(t, dir, "--no-history")
	require.NoError(t, err)
	assert.Contains(t, output, "1 file(s) could not be read")
	assert.Contains(t, output, filepath.Join(dir, "bad.py"))
}
