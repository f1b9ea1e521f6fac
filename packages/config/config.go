package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrNotFound reports that an explicitly requested config file does
// not exist. Callers decide whether that is fatal.
var ErrNotFound = errors.New("config file not found")

// PathDisplay is the cosmetic rewrite applied to paths in diagnostics.
type PathDisplay struct {
	Remove string `yaml:"remove,omitempty"`
	Add    string `yaml:"add,omitempty"`
}

// Config represents the fspec configuration
type Config struct {
	PathDisplay *PathDisplay `yaml:"pathDisplay,omitempty"`
	Output      string       `yaml:"output,omitempty"`
	Concurrency int          `yaml:"concurrency,omitempty"`
	HistoryPath string       `yaml:"historyPath,omitempty"`
	EnvFile     string       `yaml:"envFile,omitempty"`
	Parallel    *bool        `yaml:"parallel,omitempty"`
	Bail        *bool        `yaml:"bail,omitempty"`
	Verbose     *bool        `yaml:"verbose,omitempty"`
	NoColor     *bool        `yaml:"noColor,omitempty"`
}

// BoolPtr returns a pointer to a bool value
func BoolPtr(b bool) *bool {
	return &b
}

// getBool returns the value of a bool pointer, or the default if nil
func getBool(b *bool, defaultVal bool) bool {
	if b == nil {
		return defaultVal
	}
	return *b
}

// GetParallel returns the parallel setting, defaulting to false
func (c *Config) GetParallel() bool {
	return getBool(c.Parallel, false)
}

// GetBail returns the bail setting, defaulting to false
func (c *Config) GetBail() bool {
	return getBool(c.Bail, false)
}

// GetVerbose returns the verbose setting, defaulting to false
func (c *Config) GetVerbose() bool {
	return getBool(c.Verbose, false)
}

// GetNoColor returns the no color setting, defaulting to false
func (c *Config) GetNoColor() bool {
	return getBool(c.NoColor, false)
}

// GetPathDisplay returns the remove/add pair, empty when unset.
func (c *Config) GetPathDisplay() (remove, add string) {
	if c.PathDisplay == nil {
		return "", ""
	}
	return c.PathDisplay.Remove, c.PathDisplay.Add
}

// Filenames contains the possible config file names
var Filenames = []string{
	".fspec.yaml",
	".fspec.yml",
	"fspec.yaml",
}

// Load loads configuration from the specified path or searches for
// config files in the current directory. A missing explicit path
// returns ErrNotFound.
func Load(path string) (*Config, error) {
	if path != "" {
		return loadFromFile(path)
	}
	return FindAndLoad(".")
}

// FindAndLoad searches for a config file in the given directory,
// returning defaults when none exists.
func FindAndLoad(dir string) (*Config, error) {
	for _, filename := range Filenames {
		configPath := filepath.Join(dir, filename)
		if _, err := os.Stat(configPath); err == nil {
			return loadFromFile(configPath)
		}
	}
	return DefaultConfig(), nil
}

func loadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, err
	}

	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

// Merge merges another config into this one, with other taking precedence
func (c *Config) Merge(other *Config) *Config {
	if other == nil {
		return c
	}

	result := *c // Copy

	if other.PathDisplay != nil {
		result.PathDisplay = other.PathDisplay
	}
	if other.Output != "" {
		result.Output = other.Output
	}
	if other.Concurrency > 0 {
		result.Concurrency = other.Concurrency
	}
	if other.HistoryPath != "" {
		result.HistoryPath = other.HistoryPath
	}
	if other.EnvFile != "" {
		result.EnvFile = other.EnvFile
	}

	// Boolean flags - only override if explicitly set in other config
	if other.Parallel != nil {
		result.Parallel = other.Parallel
	}
	if other.Bail != nil {
		result.Bail = other.Bail
	}
	if other.Verbose != nil {
		result.Verbose = other.Verbose
	}
	if other.NoColor != nil {
		result.NoColor = other.NoColor
	}

	return &result
}
