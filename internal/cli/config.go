package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultOutput is the generated file name inside each package directory.
const DefaultOutput = "demo_gen.go"

// Config stores options for a single generation run.
type Config struct {
	// Packages are go list patterns.
	Packages []string `yaml:"packages"`
	// Types restricts generation to the named types. Empty selects every
	// type marked //derive:demo.
	Types    []string `yaml:"types"`
	Output   string   `yaml:"output"`
	Tags     []string `yaml:"tags"`
	LogLevel string   `yaml:"log_level"`

	ConfigFile  string `yaml:"-"`
	DryRun      bool   `yaml:"-"`
	ShowVersion bool   `yaml:"-"`
}

// OutputFilename returns the generated file path for a package directory.
func (c *Config) OutputFilename(pkgDir string) string {
	out := c.Output
	if out == "" {
		out = DefaultOutput
	}
	return filepath.Join(pkgDir, out)
}

// LoadFile reads a YAML config file. Unknown keys are rejected.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := &Config{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.ConfigFile = path
	return cfg, nil
}
