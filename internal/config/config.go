package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Isolation modes for search workers.
const (
	IsolationTask    = "task"
	IsolationProcess = "process"
)

// Config represents myfind configuration options
type Config struct {
	// Isolation selects how workers run: "task" (goroutine per target) or
	// "process" (child process per target)
	Isolation string `yaml:"isolation"`

	// LogLevel sets the logging verbosity (debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// LogFormat is "console" or "json"
	LogFormat string `yaml:"log_format"`

	// Progress shows the live worker view when stderr is a terminal
	Progress bool `yaml:"progress"`

	// MetricsFile, when set, receives run metrics in Prometheus text format
	MetricsFile string `yaml:"metrics_file"`
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		Isolation: IsolationTask,
		LogLevel:  "warn",
		LogFormat: "console",
		Progress:  true,
	}
}

// DefaultPath returns the per-user config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "myfind", "config.yaml")
}

// LoadConfig loads configuration from the specified file path
// If the file doesn't exist, returns default configuration without error
// If the file exists but is malformed, returns an error
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that every option holds a supported value
func (c *Config) Validate() error {
	switch c.Isolation {
	case IsolationTask, IsolationProcess:
	default:
		return fmt.Errorf("isolation must be %q or %q, got %q", IsolationTask, IsolationProcess, c.Isolation)
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be one of debug, info, warn, error, got %q", c.LogLevel)
	}

	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("log_format must be \"console\" or \"json\", got %q", c.LogFormat)
	}
	return nil
}
