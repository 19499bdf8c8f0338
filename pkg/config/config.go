// Package config loads a Cheddar project's manifest: where its modules
// live on disk, the file extension they use, and how pipeline sources
// should be written out.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// OutputFormat controls how StageSources are written to disk.
type OutputFormat string

const (
	// FormatSeparate writes vs/gs/fs to their own files.
	FormatSeparate OutputFormat = "separate"
	// FormatBundle writes all stages into one file, "// ---" delimited.
	FormatBundle OutputFormat = "bundle"
)

func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatSeparate, FormatBundle:
		return true
	default:
		return false
	}
}

// Config is a Cheddar project's complete manifest.
type Config struct {
	Modules ModulesConfig `toml:"modules"`
	Output  OutputConfig  `toml:"output"`
}

// ModulesConfig controls how ModuleKeys map onto the filesystem.
type ModulesConfig struct {
	// Root is the directory ModuleKey paths are resolved relative to.
	Root string `toml:"root"`

	// Extension is the module file suffix, without the leading dot.
	Extension string `toml:"extension"`
}

// OutputConfig controls where and how lowered stage sources land.
type OutputConfig struct {
	Dir    string       `toml:"dir"`
	Format OutputFormat `toml:"format"`
}

// DefaultConfig returns the configuration used when no cheddar.toml
// manifest is present.
func DefaultConfig() *Config {
	return &Config{
		Modules: ModulesConfig{
			Root:      ".",
			Extension: "chdr",
		},
		Output: OutputConfig{
			Dir:    "build",
			Format: FormatSeparate,
		},
	}
}

// Load reads cheddar.toml from dir, falling back to defaults for any
// field it doesn't set. A missing manifest is not an error.
func Load(dir string) (*Config, error) {
	cfg := DefaultConfig()

	path := filepath.Join(dir, "cheddar.toml")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate reports whether c holds a usable configuration.
func (c *Config) Validate() error {
	if c.Modules.Extension == "" {
		return fmt.Errorf("modules.extension must not be empty")
	}
	if !c.Output.Format.IsValid() {
		return fmt.Errorf("invalid output.format: %q (must be %q or %q)", c.Output.Format, FormatSeparate, FormatBundle)
	}
	return nil
}
