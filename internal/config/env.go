package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables recognised by codeagg
const (
	EnvOutput      = "CODEAGG_OUTPUT"
	EnvCompact     = "CODEAGG_COMPACT"
	EnvDescription = "CODEAGG_DESCRIPTION"
	EnvLogLevel    = "CODEAGG_LOG_LEVEL"
	EnvHome        = "CODEAGG_HOME"
)

// LoadEnv returns the codeagg variables from dir/.env overlaid with the
// process environment. A missing .env file is not an error.
func LoadEnv(dir string) (map[string]string, error) {
	env := make(map[string]string)

	path := filepath.Join(dir, ".env")
	if _, err := os.Stat(path); err == nil {
		vars, err := godotenv.Read(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		for k, v := range vars {
			if strings.HasPrefix(k, "CODEAGG_") {
				env[k] = v
			}
		}
	}

	for _, key := range []string{EnvOutput, EnvCompact, EnvDescription, EnvLogLevel, EnvHome} {
		if v, ok := os.LookupEnv(key); ok {
			env[key] = v
		}
	}
	return env, nil
}

// ApplyEnv overrides configuration values with environment variables.
// CODEAGG_HOME relocates the history database when db_path is relative.
func (c *Config) ApplyEnv(env map[string]string) error {
	if v, ok := env[EnvOutput]; ok && v != "" {
		c.Output = v
	}
	if v, ok := env[EnvCompact]; ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvCompact, v, err)
		}
		c.Compact = b
	}
	if v, ok := env[EnvDescription]; ok {
		c.Description = v
	}
	if v, ok := env[EnvLogLevel]; ok && v != "" {
		c.LogLevel = v
	}
	if home, ok := env[EnvHome]; ok && home != "" && !filepath.IsAbs(c.History.DBPath) {
		c.History.DBPath = filepath.Join(home, filepath.Base(c.History.DBPath))
	}
	return nil
}
