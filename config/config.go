package config

import (
	"fmt"

	"github.com/kbukum/pipekit/logger"
)

// Config is the root configuration for pipekit.
type Config struct {
	Logging   logger.Config   `yaml:"logging" mapstructure:"logging"`
	Pipelines PipelinesConfig `yaml:"pipelines" mapstructure:"pipelines"`
	Defaults  DefaultsConfig  `yaml:"defaults" mapstructure:"defaults"`
}

// PipelinesConfig configures pipeline definition discovery.
type PipelinesConfig struct {
	// Dirs lists directories searched for pipeline definition files.
	Dirs []string `yaml:"dirs" mapstructure:"dirs"`
}

// DefaultsConfig holds defaults applied to ops built from definitions.
type DefaultsConfig struct {
	// Retries is the retry count for ops that do not set one.
	Retries int `yaml:"retries" mapstructure:"retries"`
	// GPUVendor is the vendor used when a definition requests GPUs without one.
	GPUVendor string `yaml:"gpu_vendor" mapstructure:"gpu_vendor"`
}

// ApplyDefaults applies default values to the configuration.
func (c *Config) ApplyDefaults() {
	c.Logging.ApplyDefaults()
	if len(c.Pipelines.Dirs) == 0 {
		c.Pipelines.Dirs = []string{"./pipelines"}
	}
	if c.Defaults.GPUVendor == "" {
		c.Defaults.GPUVendor = "nvidia"
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	if c.Defaults.Retries < 0 {
		return fmt.Errorf("defaults.retries must be >= 0 (got: %d)", c.Defaults.Retries)
	}
	if c.Defaults.GPUVendor != "nvidia" && c.Defaults.GPUVendor != "amd" {
		return fmt.Errorf("defaults.gpu_vendor must be one of [nvidia, amd] (got: %s)", c.Defaults.GPUVendor)
	}
	return nil
}
