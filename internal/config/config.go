// Package config loads the loom.json server configuration.
//
// Resolution order: built-in defaults, then the JSON file, then LOOM_*
// environment variables. Environment always wins so deployments can
// override a checked-in file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

const (
	// FileName is the default configuration file name.
	FileName = "loom.json"

	// DefaultHost is the default listen host.
	DefaultHost = "localhost"

	// DefaultPort is the default listen port.
	DefaultPort = 3000

	// DefaultBatchBuffer is the default per-session mutation buffer size
	// in bytes.
	DefaultBatchBuffer = 256 * 1024
)

// Config is the loom.json schema.
type Config struct {
	// Name is the application name, used in logs and metrics labels.
	Name string `json:"name,omitempty"`

	// Host is the listen host.
	Host string `json:"host,omitempty"`

	// Port is the listen port.
	Port int `json:"port,omitempty"`

	// BatchBuffer is the per-session mutation buffer size in bytes.
	BatchBuffer int `json:"batchBuffer,omitempty"`

	// MetricsNamespace is the Prometheus namespace (default: "loom").
	MetricsNamespace string `json:"metricsNamespace,omitempty"`

	// LogLevel is the slog level name: debug, info, warn, or error.
	LogLevel string `json:"logLevel,omitempty"`
}

// New returns a config holding the defaults.
func New() *Config {
	return &Config{
		Name:             "loom",
		Host:             DefaultHost,
		Port:             DefaultPort,
		BatchBuffer:      DefaultBatchBuffer,
		MetricsNamespace: "loom",
		LogLevel:         "info",
	}
}

// Load reads path, merges it over the defaults, applies environment
// overrides, and validates the result. A missing file is not an error;
// defaults and environment still apply.
func Load(path string) (*Config, error) {
	cfg := New()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Defaults only.
	case err != nil:
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overlays LOOM_* environment variables.
func (c *Config) applyEnv() {
	if v := os.Getenv("LOOM_HOST"); v != "" {
		c.Host = v
	}
	if v := os.Getenv("LOOM_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Port = n
		}
	}
	if v := os.Getenv("LOOM_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("LOOM_BATCH_BUFFER"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.BatchBuffer = n
		}
	}
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config: port %d out of range", c.Port)
	}
	if c.BatchBuffer < 1024 {
		return fmt.Errorf("config: batchBuffer %d below 1024 bytes", c.BatchBuffer)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown logLevel %q", c.LogLevel)
	}
	return nil
}

// Addr returns the host:port listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
