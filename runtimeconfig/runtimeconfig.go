// Package runtimeconfig loads host-side settings for a logwire producer or
// consumer process: where the catalog sidecar lives, which compression
// codec it was written with, and where diagnostic output should go. None of
// this is part of the wire codec itself, since the catalog and its storage
// are an external collaborator; it is CLI/host glue, backed by a
// YAML-based config file.
package runtimeconfig

import (
	"fmt"
	"os"

	"github.com/arfz/logwire/format"
	"gopkg.in/yaml.v3"
)

// ErrorSinkTarget selects where the consumer's diagnostic ErrorSink writes.
type ErrorSinkTarget string

const (
	// ErrorSinkStderr writes diagnostics to the process's standard error.
	ErrorSinkStderr ErrorSinkTarget = "stderr"
	// ErrorSinkDiscard drops diagnostics entirely.
	ErrorSinkDiscard ErrorSinkTarget = "discard"
)

// Config holds the settings a logwire-using process loads at startup.
type Config struct {
	// CatalogPath is the sidecar file a catalog.Load call reads. Empty
	// disables cataloging: templates and strings are always encoded/decoded
	// inline.
	CatalogPath string `yaml:"catalog_path,omitempty"`

	// CatalogCompression names the codec the sidecar at CatalogPath was
	// written with. Only meaningful when CatalogPath is set.
	CatalogCompression format.CompressionType `yaml:"catalog_compression,omitempty"`

	// MaxDepth overrides the consumer's recursion-depth guard
	// (consumer.WithMaxDepth). Zero means "use the package default".
	MaxDepth int `yaml:"max_depth,omitempty"`

	// ErrorSink selects where parse/frame diagnostics are written.
	ErrorSink ErrorSinkTarget `yaml:"error_sink,omitempty"`
}

// DefaultConfig returns a Config with no catalog and diagnostics to stderr.
func DefaultConfig() *Config {
	return &Config{
		CatalogCompression: format.CompressionNone,
		ErrorSink:          ErrorSinkStderr,
	}
}

// Load reads Config from a YAML file at path. A missing file is not an
// error: Load returns DefaultConfig() instead, so a host can start with no
// config file present.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("runtimeconfig: read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("runtimeconfig: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path as YAML.
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("runtimeconfig: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("runtimeconfig: write %s: %w", path, err)
	}
	return nil
}
