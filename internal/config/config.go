package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the tool settings. All fields have working
// defaults; the settings file itself is optional. Repository
// credentials are not part of this file, they live in the credential
// store (~/.amr/config.json).
type Config struct {
	HTTP     HTTPConfig     `mapstructure:"http"`
	Transfer TransferConfig `mapstructure:"transfer"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	History  HistoryConfig  `mapstructure:"history"`
}

// HTTPConfig contains HTTP client settings
type HTTPConfig struct {
	Timeout string `mapstructure:"timeout"`
}

// TransferConfig contains download settings
type TransferConfig struct {
	BufferSizeKB int    `mapstructure:"buffer_size_kb"`
	PartSuffix   string `mapstructure:"part_suffix"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// HistoryConfig contains transfer history settings
type HistoryConfig struct {
	Path     string `mapstructure:"path"`
	Disabled bool   `mapstructure:"disabled"`
}

// Dir returns the per-user configuration directory (~/.amr).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".amr"), nil
}

// Load loads settings from the given file path. An empty path loads
// ~/.amr/settings.yaml; a missing file is not an error and yields the
// defaults. AMR_* environment variables override file values.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	explicit := configPath != ""
	if !explicit {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		configPath = filepath.Join(dir, "settings.yaml")
	}
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("amr")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set defaults
	v.SetDefault("http.timeout", "30s")
	v.SetDefault("transfer.buffer_size_kb", 64)
	v.SetDefault("transfer.part_suffix", ".part")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("history.path", "")
	v.SetDefault("history.disabled", false)

	if err := v.ReadInConfig(); err != nil {
		// Only an explicitly requested settings file has to exist.
		if explicit || !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if _, err := time.ParseDuration(c.HTTP.Timeout); err != nil {
		return fmt.Errorf("invalid http.timeout: %w", err)
	}
	if c.Transfer.BufferSizeKB <= 0 {
		return fmt.Errorf("transfer.buffer_size_kb must be positive")
	}
	if c.Transfer.PartSuffix == "" {
		return fmt.Errorf("transfer.part_suffix is required")
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging.level: %s", c.Logging.Level)
	}

	switch c.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("invalid logging.format: %s", c.Logging.Format)
	}

	return nil
}

// GetTimeout returns the HTTP timeout as time.Duration
func (c *HTTPConfig) GetTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	if d == 0 {
		return 30 * time.Second
	}
	return d
}

// GetBufferSize returns the copy buffer size in bytes
func (c *TransferConfig) GetBufferSize() int {
	if c.BufferSizeKB <= 0 {
		return 64 * 1024
	}
	return c.BufferSizeKB * 1024
}

// GetPath returns the history database path, defaulting to
// ~/.amr/history.db.
func (c *HistoryConfig) GetPath() (string, error) {
	if c.Path != "" {
		return c.Path, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history.db"), nil
}
