// Package aggregator assembles the output document: it selects files, reads
// and optionally compacts each one, wraps it in a block and writes the result
// in a single pass.
//
// Read failures never abort a run. The failing file's body is replaced with
// a placeholder naming the error and aggregation continues. Only failures to
// list a root or to write the document are returned to the caller.
package aggregator

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/harrison/codeagg/internal/compactor"
	"github.com/harrison/codeagg/internal/filelock"
	"github.com/harrison/codeagg/internal/fileutil"
	"github.com/harrison/codeagg/internal/models"
	"github.com/harrison/codeagg/internal/selector"
)

// TimestampLayout formats the banner's generation time.
const TimestampLayout = "2006-01-02 15:04:05"

// Logger receives run events.
type Logger interface {
	LogRootSkipped(root models.Root)
	LogFileSelected(entry models.FileEntry)
	LogReadError(entry models.FileEntry, err error)
	LogSummary(result *models.RunResult)
}

// ReadFunc returns the full text of a file.
type ReadFunc func(path string) (string, error)

// WriteFunc replaces the contents of path with data.
type WriteFunc func(path string, data []byte) error

// Aggregator runs one aggregation for a fixed configuration.
type Aggregator struct {
	cfg       models.AggregationConfig
	lister    fileutil.Lister
	read      ReadFunc
	write     WriteFunc
	now       func() time.Time
	newID     func() string
	logger    Logger
	compactor *compactor.Compactor
}

// Option customizes an Aggregator.
type Option func(*Aggregator)

// WithLister sets the directory lister (default: fileutil.OSLister).
func WithLister(l fileutil.Lister) Option {
	return func(a *Aggregator) { a.lister = l }
}

// WithReader sets the file reader (default: ReadText).
func WithReader(r ReadFunc) Option {
	return func(a *Aggregator) { a.read = r }
}

// WithWriter sets the output writer (default: filelock.WriteDocument).
func WithWriter(w WriteFunc) Option {
	return func(a *Aggregator) { a.write = w }
}

// WithClock sets the time source used for the banner and run timing.
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) { a.now = now }
}

// WithLogger sets the event logger (default: discard).
func WithLogger(l Logger) Option {
	return func(a *Aggregator) { a.logger = l }
}

// WithCompactor sets the compactor used to detect type tags and compact content.
func WithCompactor(c *compactor.Compactor) Option {
	return func(a *Aggregator) { a.compactor = c }
}

// New creates an Aggregator for cfg. The output document and the running
// executable are added to the self-exclusion set so they are never aggregated.
func New(cfg models.AggregationConfig, opts ...Option) *Aggregator {
	cfg.SelfPaths = selfPaths(cfg)

	a := &Aggregator{
		cfg:       cfg,
		lister:    fileutil.OSLister{},
		read:      ReadText,
		write:     filelock.WriteDocument,
		now:       time.Now,
		newID:     func() string { return uuid.New().String() },
		logger:    discard{},
		compactor: compactor.New(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// selfPaths copies cfg.SelfPaths and adds the output path and executable.
func selfPaths(cfg models.AggregationConfig) map[string]bool {
	paths := make(map[string]bool, len(cfg.SelfPaths)+2)
	for p := range cfg.SelfPaths {
		paths[filepath.Clean(p)] = true
	}
	if cfg.OutputPath != "" {
		if abs, err := filepath.Abs(cfg.OutputPath); err == nil {
			paths[abs] = true
		}
	}
	if exe, err := os.Executable(); err == nil {
		paths[filepath.Clean(exe)] = true
	}
	return paths
}

// Config returns the effective configuration.
func (a *Aggregator) Config() models.AggregationConfig {
	return a.cfg
}

// Select returns the files the run would aggregate, in output order.
func (a *Aggregator) Select() ([]models.FileEntry, error) {
	entries, err := selector.Select(&a.cfg, a.lister, a.logger.LogRootSkipped)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].Tag = a.compactor.TagFor(entries[i].Ext)
	}
	return entries, nil
}

// Run selects, reads and formats every file, then writes the document.
// The context is checked between files; a cancelled run writes nothing.
func (a *Aggregator) Run(ctx context.Context) (*models.RunResult, error) {
	start := a.now()
	result := &models.RunResult{
		RunID:      a.newID(),
		RootDir:    a.cfg.RootDir,
		OutputPath: a.cfg.OutputPath,
		Compacted:  a.cfg.Compact,
		StartedAt:  start,
	}

	entries, err := a.Select()
	if err != nil {
		return nil, fmt.Errorf("select files: %w", err)
	}

	blocks := make([]string, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("aggregation cancelled: %w", err)
		}

		a.logger.LogFileSelected(entry)
		blocks = append(blocks, a.block(entry, result).String())
		result.Files = append(result.Files, entry)
	}

	doc := strings.Join(blocks, "\n")
	if a.cfg.Description != "" {
		doc = models.Banner(a.cfg.Description, start.Format(TimestampLayout)) + doc
	}

	if err := a.write(a.cfg.OutputPath, []byte(doc)); err != nil {
		return nil, fmt.Errorf("write output %s: %w", a.cfg.OutputPath, err)
	}

	result.BytesWritten = len(doc)
	result.Duration = a.now().Sub(start)
	a.logger.LogSummary(result)

	return result, nil
}

// block reads and formats one entry, recording read failures on result.
func (a *Aggregator) block(entry models.FileEntry, result *models.RunResult) models.Block {
	content, err := a.read(entry.Path)
	if err != nil {
		result.ReadErrors++
		result.Unreadable = append(result.Unreadable, entry.Path)
		a.logger.LogReadError(entry, err)
		return models.NewBlock(entry.Path, ReadErrorPlaceholder(err))
	}

	if a.cfg.Compact {
		content = a.compactor.Compact(content, entry.Tag)
	}
	return models.NewBlock(entry.Path, content)
}

// ReadErrorPlaceholder is the body substituted for a file that could not be read.
func ReadErrorPlaceholder(err error) string {
	return fmt.Sprintf("Error reading file: %v\n", err)
}

// ReadText reads a whole file as UTF-8 text. The handle is closed before
// returning, including on failure.
func ReadText(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%s: invalid UTF-8 content", path)
	}
	return string(data), nil
}

type discard struct{}

func (discard) LogRootSkipped(models.Root)           {}
func (discard) LogFileSelected(models.FileEntry)     {}
func (discard) LogReadError(models.FileEntry, error) {}
func (discard) LogSummary(*models.RunResult)         {}
