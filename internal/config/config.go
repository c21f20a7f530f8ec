package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/aryankumar/taskpool/internal/executor"
	"github.com/aryankumar/taskpool/internal/util"
)

const (
	defaultConfigName = ".taskpool"
	defaultConfigDir  = ".taskpool"
	defaultConfigFile = "config.yaml"
	envPrefix         = "TASKPOOL"

	// DefaultShutdownTimeout bounds the drain wait when nothing is configured
	DefaultShutdownTimeout = 30 * time.Second

	// DefaultOutputFormat is used when no format is configured
	DefaultOutputFormat = "table"
)

// Manager handles taskpool configuration
type Manager struct {
	configPath string
	config     *Config
	viper      *viper.Viper
}

// NewManager creates a new configuration manager
func NewManager(configPath string) *Manager {
	return &Manager{
		configPath: configPath,
		viper:      viper.New(),
		config:     &Config{},
	}
}

// Viper exposes the underlying viper instance so callers can bind flags
func (m *Manager) Viper() *viper.Viper {
	return m.viper
}

// Load loads the configuration from file, environment and bound flags
func (m *Manager) Load() (*Config, error) {
	if m.configPath != "" {
		m.viper.SetConfigFile(m.configPath)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}

		// ~/.taskpool/config.yaml, then ~/.taskpool.yaml
		dirConfig := filepath.Join(home, defaultConfigDir, defaultConfigFile)
		if _, err := os.Stat(dirConfig); err == nil {
			m.viper.SetConfigFile(dirConfig)
		} else {
			m.viper.AddConfigPath(home)
			m.viper.SetConfigName(defaultConfigName)
			m.viper.SetConfigType("yaml")
		}
	}

	// TASKPOOL_POOL_WORKERS overrides pool.workers
	m.viper.SetEnvPrefix(envPrefix)
	m.viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	m.viper.AutomaticEnv()
	m.setDefaults()

	m.config = &Config{}

	if err := m.viper.ReadInConfig(); err != nil {
		// Only the home directory search may come up empty
		var notFound viper.ConfigFileNotFoundError
		if m.configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := m.viper.Unmarshal(m.config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := m.config.Validate(); err != nil {
		return nil, err
	}

	return m.config, nil
}

// setDefaults registers every key so Unmarshal also sees env overrides
func (m *Manager) setDefaults() {
	m.viper.SetDefault("pool.workers", 0)
	m.viper.SetDefault("pool.throttle", executor.DefaultThrottleDelay)
	m.viper.SetDefault("pool.throttleMode", executor.ThrottleSerialized.String())
	m.viper.SetDefault("pool.shutdownTimeout", DefaultShutdownTimeout)
	m.viper.SetDefault("output.format", DefaultOutputFormat)
	m.viper.SetDefault("output.noColor", false)
}

// Save writes the current configuration to path. An empty path means the
// file the manager was created with, or $HOME/.taskpool/config.yaml.
// It returns the path written.
func (m *Manager) Save(path string) (string, error) {
	if path == "" {
		path = m.configPath
	}
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, defaultConfigDir, defaultConfigFile)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	m.viper.Set("pool", map[string]interface{}{
		"workers":         m.config.Pool.Workers,
		"throttle":        m.config.Pool.Throttle.String(),
		"throttleMode":    m.config.Pool.ThrottleMode,
		"shutdownTimeout": m.config.Pool.ShutdownTimeout.String(),
	})
	m.viper.Set("output", map[string]interface{}{
		"format":  m.config.Output.Format,
		"noColor": m.config.Output.NoColor,
	})

	if err := m.viper.WriteConfigAs(path); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}

	return path, nil
}

// GetConfig returns the current configuration
func (m *Manager) GetConfig() *Config {
	return m.config
}

// Validate checks every field and reports all problems at once
func (c *Config) Validate() error {
	errs := &util.MultiError{}

	if c.Pool.Workers < 0 {
		errs.Add(util.NewConfigError("pool.workers", c.Pool.Workers, "must not be negative"))
	}
	if c.Pool.Throttle < 0 {
		errs.Add(util.NewConfigError("pool.throttle", c.Pool.Throttle, "must not be negative"))
	}
	if _, err := executor.ParseThrottleMode(c.Pool.ThrottleMode); err != nil {
		errs.Add(util.NewConfigError("pool.throttleMode", c.Pool.ThrottleMode, "must be serialized or concurrent"))
	}
	if c.Pool.ShutdownTimeout <= 0 {
		errs.Add(util.NewConfigError("pool.shutdownTimeout", c.Pool.ShutdownTimeout, "must be positive"))
	}
	switch c.Output.Format {
	case "table", "json", "yaml":
	default:
		errs.Add(util.NewConfigError("output.format", c.Output.Format, "must be table, json or yaml"))
	}

	return errs.ErrorOrNil()
}

// PoolOptions converts the pool section into executor options
func (c *Config) PoolOptions() ([]executor.Option, error) {
	mode, err := executor.ParseThrottleMode(c.Pool.ThrottleMode)
	if err != nil {
		return nil, err
	}
	return []executor.Option{executor.WithThrottle(c.Pool.Throttle, mode)}, nil
}

// Settings flattens the configuration into display keys with printable
// durations and the resolved worker count
func (c *Config) Settings() map[string]interface{} {
	return map[string]interface{}{
		"pool.workers":         c.EffectiveWorkers(),
		"pool.throttle":        c.Pool.Throttle.String(),
		"pool.throttleMode":    c.Pool.ThrottleMode,
		"pool.shutdownTimeout": c.Pool.ShutdownTimeout.String(),
		"output.format":        c.Output.Format,
		"output.noColor":       c.Output.NoColor,
	}
}

// EffectiveWorkers resolves the configured worker count
func (c *Config) EffectiveWorkers() int {
	if c.Pool.Workers > 0 {
		return c.Pool.Workers
	}
	return executor.DefaultWorkers()
}
