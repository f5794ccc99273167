package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/harrison/codeagg/internal/models"
)

// HistoryConfig controls the run history database
type HistoryConfig struct {
	// Enabled records every successful run
	Enabled bool `yaml:"enabled" toml:"enabled"`

	// DBPath is the history database path, relative to the root directory unless absolute
	DBPath string `yaml:"db_path" toml:"db_path"`
}

// Config represents codeagg configuration options
type Config struct {
	// RootDir is the project directory to aggregate
	RootDir string `yaml:"root_dir" toml:"root_dir"`

	// Output is the destination document path
	Output string `yaml:"output" toml:"output"`

	// Compact strips comments and blank lines from each file
	Compact bool `yaml:"compact" toml:"compact"`

	// ExcludeExtensions are never aggregated by extension (e.g. ".min.js" style ".map")
	ExcludeExtensions []string `yaml:"exclude_extensions" toml:"exclude_extensions"`

	// IncludeFiles are basenames always aggregated regardless of extension
	IncludeFiles []string `yaml:"include_files" toml:"include_files"`

	// ExcludeFiles are basenames never aggregated; wins over IncludeFiles
	ExcludeFiles []string `yaml:"exclude_files" toml:"exclude_files"`

	// Description is written in a banner at the top of the document
	Description string `yaml:"description" toml:"description"`

	// Roots are the scanned directories in visitation order
	Roots []models.Root `yaml:"roots" toml:"roots"`

	// Extensions maps extensions to compaction types (e.g. ".sql": hash),
	// overriding the built-in table
	Extensions map[string]string `yaml:"extensions" toml:"extensions"`

	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level" toml:"log_level"`

	// LogDir enables per-run log files in this directory when non-empty
	LogDir string `yaml:"log_dir" toml:"log_dir"`

	// History contains run history configuration
	History HistoryConfig `yaml:"history" toml:"history"`
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		RootDir:           ".",
		Output:            "full_code_review.txt",
		Compact:           false,
		ExcludeExtensions: []string{},
		IncludeFiles:      []string{},
		ExcludeFiles:      []string{},
		Roots:             models.DefaultRoots(),
		Extensions:        map[string]string{},
		LogLevel:          "info",
		History: HistoryConfig{
			Enabled: true,
			DBPath:  filepath.Join(".codeagg", "history.db"),
		},
	}
}

// fileConfig mirrors Config with pointer fields so that values present in
// the file can be told apart from zero values.
type fileConfig struct {
	RootDir           *string           `yaml:"root_dir" toml:"root_dir"`
	Output            *string           `yaml:"output" toml:"output"`
	Compact           *bool             `yaml:"compact" toml:"compact"`
	ExcludeExtensions []string          `yaml:"exclude_extensions" toml:"exclude_extensions"`
	IncludeFiles      []string          `yaml:"include_files" toml:"include_files"`
	ExcludeFiles      []string          `yaml:"exclude_files" toml:"exclude_files"`
	Description       *string           `yaml:"description" toml:"description"`
	Roots             []models.Root     `yaml:"roots" toml:"roots"`
	Extensions        map[string]string `yaml:"extensions" toml:"extensions"`
	LogLevel          *string           `yaml:"log_level" toml:"log_level"`
	LogDir            *string           `yaml:"log_dir" toml:"log_dir"`
	History           *historyConfig    `yaml:"history" toml:"history"`
}

type historyConfig struct {
	Enabled *bool   `yaml:"enabled" toml:"enabled"`
	DBPath  *string `yaml:"db_path" toml:"db_path"`
}

// LoadConfig loads configuration from the specified file path.
// Files ending in .toml are parsed as TOML, anything else as YAML.
// If the file doesn't exist, returns default configuration without error.
// If the file exists but is malformed, returns an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var fc fileConfig
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		err = toml.Unmarshal(data, &fc)
	} else {
		err = yaml.Unmarshal(data, &fc)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg.merge(fc)
	return cfg, nil
}

// merge applies every value present in the file over the defaults.
func (c *Config) merge(fc fileConfig) {
	if fc.RootDir != nil {
		c.RootDir = *fc.RootDir
	}
	if fc.Output != nil {
		c.Output = *fc.Output
	}
	if fc.Compact != nil {
		c.Compact = *fc.Compact
	}
	if fc.ExcludeExtensions != nil {
		c.ExcludeExtensions = fc.ExcludeExtensions
	}
	if fc.IncludeFiles != nil {
		c.IncludeFiles = fc.IncludeFiles
	}
	if fc.ExcludeFiles != nil {
		c.ExcludeFiles = fc.ExcludeFiles
	}
	if fc.Description != nil {
		c.Description = *fc.Description
	}
	if len(fc.Roots) > 0 {
		c.Roots = fc.Roots
	}
	for ext, tag := range fc.Extensions {
		c.Extensions[ext] = tag
	}
	if fc.LogLevel != nil {
		c.LogLevel = *fc.LogLevel
	}
	if fc.LogDir != nil {
		c.LogDir = *fc.LogDir
	}
	if fc.History != nil {
		if fc.History.Enabled != nil {
			c.History.Enabled = *fc.History.Enabled
		}
		if fc.History.DBPath != nil {
			c.History.DBPath = *fc.History.DBPath
		}
	}
}

// configFileNames are probed in order inside the .codeagg directory
var configFileNames = []string{"config.yaml", "config.yml", "config.toml"}

// LoadConfigFromDir loads configuration from .codeagg/config.{yaml,yml,toml}
// in the specified directory. The first file found wins.
// If no file exists, returns default configuration without error.
func LoadConfigFromDir(dir string) (*Config, error) {
	for _, name := range configFileNames {
		path := filepath.Join(dir, ".codeagg", name)
		if _, err := os.Stat(path); err == nil {
			return LoadConfig(path)
		}
	}
	return DefaultConfig(), nil
}

// FlagOverrides carries CLI flag values. Nil fields were not set on the
// command line and leave the configuration untouched.
type FlagOverrides struct {
	RootDir           *string
	Output            *string
	Compact           *bool
	ExcludeExtensions []string
	IncludeFiles      []string
	ExcludeFiles      []string
	Description       *string
	LogLevel          *string
	LogDir            *string
	NoHistory         *bool
}

// MergeWithFlags merges CLI flags into the configuration.
// Non-nil flag values override configuration values; list flags extend the
// configured lists.
func (c *Config) MergeWithFlags(f FlagOverrides) {
	if f.RootDir != nil {
		c.RootDir = *f.RootDir
	}
	if f.Output != nil {
		c.Output = *f.Output
	}
	if f.Compact != nil {
		c.Compact = *f.Compact
	}
	c.ExcludeExtensions = append(c.ExcludeExtensions, f.ExcludeExtensions...)
	c.IncludeFiles = append(c.IncludeFiles, f.IncludeFiles...)
	c.ExcludeFiles = append(c.ExcludeFiles, f.ExcludeFiles...)
	if f.Description != nil {
		c.Description = *f.Description
	}
	if f.LogLevel != nil {
		c.LogLevel = *f.LogLevel
	}
	if f.LogDir != nil {
		c.LogDir = *f.LogDir
	}
	if f.NoHistory != nil && *f.NoHistory {
		c.History.Enabled = false
	}
}

// Validate validates the configuration values
// Returns an error if any values are invalid
func (c *Config) Validate() error {
	if strings.TrimSpace(c.RootDir) == "" {
		return fmt.Errorf("root_dir cannot be empty")
	}
	if strings.TrimSpace(c.Output) == "" {
		return fmt.Errorf("output cannot be empty")
	}

	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}

	if len(c.Roots) == 0 {
		return fmt.Errorf("at least one root must be configured")
	}
	seen := make(map[string]bool)
	for i, root := range c.Roots {
		if strings.TrimSpace(root.Name) == "" {
			return fmt.Errorf("roots[%d].name cannot be empty", i)
		}
		if strings.TrimSpace(root.Path) == "" {
			return fmt.Errorf("roots[%d].path cannot be empty (use \".\" for the root directory)", i)
		}
		if seen[root.Name] {
			return fmt.Errorf("duplicate root name %q", root.Name)
		}
		seen[root.Name] = true
	}

	for ext, tag := range c.Extensions {
		if models.NormalizeExt(ext) == "" {
			return fmt.Errorf("extensions: empty extension")
		}
		if _, ok := models.ParseTypeTag(tag); !ok {
			return fmt.Errorf("extensions[%s]: unknown type %q, must be one of: %s", ext, tag, typeTagNames())
		}
	}

	if c.History.Enabled && strings.TrimSpace(c.History.DBPath) == "" {
		return fmt.Errorf("history.db_path cannot be empty when history is enabled")
	}

	return nil
}

func typeTagNames() string {
	names := make([]string, len(models.TypeTags))
	for i, tag := range models.TypeTags {
		names[i] = string(tag)
	}
	return strings.Join(names, ", ")
}

// TypeTagOverrides returns the validated extension overrides keyed by
// normalized extension.
func (c *Config) TypeTagOverrides() map[string]models.TypeTag {
	out := make(map[string]models.TypeTag, len(c.Extensions))
	for ext, name := range c.Extensions {
		if tag, ok := models.ParseTypeTag(name); ok {
			out[models.NormalizeExt(ext)] = tag
		}
	}
	return out
}

// HistoryPath resolves the history database path against the root directory.
func (c *Config) HistoryPath() string {
	return c.resolve(c.History.DBPath)
}

// LogPath resolves the log directory against the root directory. Empty
// means file logging is disabled.
func (c *Config) LogPath() string {
	if c.LogDir == "" {
		return ""
	}
	return c.resolve(c.LogDir)
}

func (c *Config) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.RootDir, path)
}

// OutputPath resolves the output document path against the root directory.
func (c *Config) OutputPath() string {
	return c.resolve(c.Output)
}

// ToAggregation builds the immutable settings for one aggregation run.
func (c *Config) ToAggregation() models.AggregationConfig {
	agg := models.DefaultAggregationConfig()
	agg.RootDir = c.RootDir
	agg.OutputPath = c.OutputPath()
	agg.Compact = c.Compact
	agg.ExcludeExts = models.ExtSet(c.ExcludeExtensions)
	agg.IncludeFiles = models.NameSet(c.IncludeFiles)
	agg.ExcludeFiles = models.NameSet(c.ExcludeFiles)
	agg.Description = c.Description
	agg.Roots = append([]models.Root(nil), c.Roots...)
	return agg
}
