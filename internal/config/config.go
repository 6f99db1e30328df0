package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where the CLI looks for its configuration.
const DefaultPath = "kernel-splat.yaml"

type Config struct {
	Logger struct {
		Verbosity string `yaml:"verbosity"`
		Encoding  string `yaml:"encoding"`
	} `yaml:"logger"`
	Rewrite struct {
		Parallelism int `yaml:"parallelism"`
	} `yaml:"rewrite"`
	Output struct {
		Format string `yaml:"format"`
	} `yaml:"output"`
	Metrics struct {
		Textfile string `yaml:"textfile"`
	} `yaml:"metrics"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.Logger.Verbosity = "info"
	cfg.Logger.Encoding = "console"
	cfg.Rewrite.Parallelism = 4
	cfg.Output.Format = "json"
	return cfg
}

// LoadConfig reads path over the defaults. Fields missing from the file keep
// their default value.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := Default()
	err = yaml.Unmarshal(data, config)
	if err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return config, nil
}

// LoadConfigOrDefault is LoadConfig, except that a missing file yields the
// defaults.
func LoadConfigOrDefault(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Validate checks option values.
func (c *Config) Validate() error {
	if c.Rewrite.Parallelism < 1 {
		return fmt.Errorf("rewrite.parallelism must be at least 1, got %d", c.Rewrite.Parallelism)
	}
	switch c.Output.Format {
	case "json", "yaml":
	default:
		return fmt.Errorf("unknown output format %q", c.Output.Format)
	}
	return nil
}
