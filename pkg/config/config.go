// Package config loads and validates the driver configuration.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-communities/pkg/louvain"
)

var validate = validator.New()

// Config is the top-level configuration for the driver binaries.
type Config struct {
	// Input is the graph file to load.
	Input string `yaml:"input" validate:"required"`
	// Format is the input format: "edgelist" or "mtx".
	Format string `yaml:"format" validate:"oneof=edgelist mtx"`
	// Mode selects the execution mode: "serial" or "parallel".
	Mode string `yaml:"mode" validate:"oneof=serial parallel"`
	// Output, when set, is the path the membership snapshot is written to.
	Output string `yaml:"output"`
	// MetricsAddr, when set, serves Prometheus metrics on this address.
	MetricsAddr string `yaml:"metricsAddr"`
	// Louvain holds the algorithm options.
	Louvain louvain.Options `yaml:"louvain"`
}

// Default returns the default driver configuration.
func Default() Config {
	return Config{
		Format:  "edgelist",
		Mode:    "serial",
		Louvain: louvain.DefaultOptions(),
	}
}

// Load reads a yaml configuration file over the defaults and validates it.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the configuration, including the embedded algorithm
// options.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := c.Louvain.Validate(); err != nil {
		return fmt.Errorf("invalid louvain options: %w", err)
	}
	return nil
}
