package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, IsolationTask, cfg.Isolation)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
	assert.True(t, cfg.Progress)
	assert.Empty(t, cfg.MetricsFile)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfig_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
isolation: process
log_level: debug
progress: false
metrics_file: /tmp/myfind.prom
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, IsolationProcess, cfg.Isolation)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat, "unset keys keep their default")
	assert.False(t, cfg.Progress)
	assert.Equal(t, "/tmp/myfind.prom", cfg.MetricsFile)
}

func TestLoadConfig_Malformed(t *testing.T) {
	path := writeConfig(t, "isolation: [task\n")

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoadConfig_InvalidValue(t *testing.T) {
	path := writeConfig(t, "isolation: threads\n")

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `isolation must be "task" or "process", got "threads"`)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"json logs", func(c *Config) { c.LogFormat = "json" }, ""},
		{"bad level", func(c *Config) { c.LogLevel = "trace" }, "log_level"},
		{"bad format", func(c *Config) { c.LogFormat = "xml" }, "log_format"},
		{"empty isolation", func(c *Config) { c.Isolation = "" }, "isolation"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}
