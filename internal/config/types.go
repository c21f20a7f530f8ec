package config

import "time"

// Config represents the taskpool configuration file structure
type Config struct {
	// Pool holds worker pool settings
	Pool PoolConfig `yaml:"pool,omitempty" json:"pool,omitempty" mapstructure:"pool"`

	// Output holds report rendering settings
	Output OutputConfig `yaml:"output,omitempty" json:"output,omitempty" mapstructure:"output"`
}

// PoolConfig configures the executor pool
type PoolConfig struct {
	// Workers is the fixed worker count; 0 means one less than the processor count
	Workers int `yaml:"workers,omitempty" json:"workers,omitempty" mapstructure:"workers"`

	// Throttle is the delay applied before each blocking submission
	Throttle time.Duration `yaml:"throttle,omitempty" json:"throttle,omitempty" mapstructure:"throttle"`

	// ThrottleMode is "serialized" or "concurrent"
	ThrottleMode string `yaml:"throttleMode,omitempty" json:"throttleMode,omitempty" mapstructure:"throttleMode"`

	// ShutdownTimeout bounds how long shutdown waits for workers to drain
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout,omitempty" json:"shutdownTimeout,omitempty" mapstructure:"shutdownTimeout"`
}

// OutputConfig configures result rendering
type OutputConfig struct {
	// Format is the report format (table, json, yaml)
	Format string `yaml:"format,omitempty" json:"format,omitempty" mapstructure:"format"`

	// NoColor disables colored output
	NoColor bool `yaml:"noColor,omitempty" json:"noColor,omitempty" mapstructure:"noColor"`
}
