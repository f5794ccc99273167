package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrison/codeagg/internal/config"
)

// loadConfig resolves the effective configuration for a command:
// defaults, then the project file, then the environment, then flags.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	rootDir := "."
	if len(args) > 0 {
		rootDir = args[0]
	}

	configPath, _ := cmd.Flags().GetString("config")
	var cfg *config.Config
	var err error

	if configPath != "" {
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
		}
	} else {
		cfg, err = config.LoadConfigFromDir(rootDir)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	env, err := config.LoadEnv(rootDir)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(env); err != nil {
		return nil, err
	}

	overrides, err := flagOverrides(cmd)
	if err != nil {
		return nil, err
	}
	if len(args) > 0 {
		overrides.RootDir = &rootDir
	}
	cfg.MergeWithFlags(overrides)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// flagOverrides collects the flags the user actually set. Flags the
// command does not define are ignored.
func flagOverrides(cmd *cobra.Command) (config.FlagOverrides, error) {
	var o config.FlagOverrides
	flags := cmd.Flags()

	changed := func(name string) bool {
		return flags.Lookup(name) != nil && flags.Changed(name)
	}

	if changed("compact") && changed("no-compact") {
		return o, fmt.Errorf("cannot use both --compact and --no-compact")
	}

	if changed("output") {
		v, _ := flags.GetString("output")
		o.Output = &v
	}
	if changed("compact") {
		v := true
		o.Compact = &v
	} else if changed("no-compact") {
		v := false
		o.Compact = &v
	}
	if changed("exclude-ext") {
		o.ExcludeExtensions, _ = flags.GetStringSlice("exclude-ext")
	}
	if changed("include") {
		o.IncludeFiles, _ = flags.GetStringSlice("include")
	}
	if changed("exclude") {
		o.ExcludeFiles, _ = flags.GetStringSlice("exclude")
	}
	if changed("description") {
		v, _ := flags.GetString("description")
		o.Description = &v
	}
	if changed("log-level") {
		v, _ := flags.GetString("log-level")
		o.LogLevel = &v
	}
	if changed("log-dir") {
		v, _ := flags.GetString("log-dir")
		o.LogDir = &v
	}
	if changed("no-history") {
		v, _ := flags.GetBool("no-history")
		o.NoHistory = &v
	}
	return o, nil
}
