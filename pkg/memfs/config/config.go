// Package config resolves memfs settings from defaults, an optional YAML
// file and MEMFS_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
)

// EnvPrefix prefixes every environment variable, e.g. MEMFS_STORE.
const EnvPrefix = "MEMFS"

// Compression algorithms accepted for the store.
const (
	CompressionNone = "none"
	CompressionZstd = "zstd"
)

// Config holds all memfs settings.
type Config struct {
	// Store is the path of the persisted store file.
	Store string `yaml:"store" envconfig:"STORE"`
	// Compression wraps the store stream: "none" or "zstd".
	Compression string `yaml:"compression" envconfig:"COMPRESSION"`
	// LogLevel is a zerolog level name.
	LogLevel string `yaml:"log_level" envconfig:"LOG_LEVEL"`
	// EOFMarker ends multi-line input in the shell's write command.
	EOFMarker string `yaml:"eof_marker" envconfig:"EOF_MARKER"`
	// Prompt is printed before every shell command.
	Prompt string `yaml:"prompt" envconfig:"PROMPT"`
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Store:       "fs_data.txt",
		Compression: CompressionNone,
		LogLevel:    "warn",
		EOFMarker:   "EOF",
		Prompt:      "memfs",
	}
}

// Load builds a Config from defaults, then the YAML file at path (skipped
// when path is empty), then the environment. It does not validate: callers
// layer their own overrides on top and call Validate once they are done.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from environment: %w", err)
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config file %s not found: %w", path, err)
		}
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// Validate rejects settings the rest of the program cannot honor.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Store) == "" {
		return fmt.Errorf("invalid config: store path is empty")
	}
	switch c.Compression {
	case CompressionNone, CompressionZstd:
	default:
		return fmt.Errorf("invalid config: unknown compression %q (want %s or %s)", c.Compression, CompressionNone, CompressionZstd)
	}
	if _, err := c.Level(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.EOFMarker == "" {
		return fmt.Errorf("invalid config: eof marker is empty")
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (zerolog.Level, error) {
	return zerolog.ParseLevel(strings.ToLower(c.LogLevel))
}
