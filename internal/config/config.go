// Package config loads the hueru configuration file.
package config

import (
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration. Every field has a
// working default; the config file is optional.
type Config struct {
	Bridge   BridgeConfig   `yaml:"bridge"`
	Capture  CaptureConfig  `yaml:"capture"`
	Sync     SyncConfig     `yaml:"sync"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
}

// BridgeConfig contains Hue bridge connection settings. Host and
// Username normally come from the credential store after pairing;
// setting them here overrides whatever is stored.
type BridgeConfig struct {
	Host     string `yaml:"host"`
	Username string `yaml:"username"`

	// Link-button pairing settings
	PairWindow   Duration `yaml:"pair_window"`   // How long to wait for the link button (default: 60s)
	PairInterval Duration `yaml:"pair_interval"` // Delay between pairing attempts (default: 5s)
}

// CaptureConfig contains screen capture settings.
type CaptureConfig struct {
	Width    int      `yaml:"width"`    // Downscaled frame width (default: 160)
	Height   int      `yaml:"height"`   // Downscaled frame height (default: 90)
	Interval Duration `yaml:"interval"` // Pause between grabs (default: 50ms)
}

// SyncConfig contains settings for the ambient sync loop.
type SyncConfig struct {
	RateLimitRPS float64 `yaml:"rate_limit_rps"` // Light updates per second (default: 10)
}

// DatabaseConfig contains credential store settings.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level   string `yaml:"level"`
	UseJSON bool   `yaml:"json"`
	Colors  bool   `yaml:"colors"`
}

// GetLevel returns the configured log level with default
func (c *LogConfig) GetLevel() string {
	if c.Level == "" {
		return "info"
	}
	return c.Level
}

// Duration is a wrapper around time.Duration for YAML unmarshalling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Load reads and parses the configuration file. A missing file is not
// an error: defaults apply.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	} else {
		// Expand environment variables
		expanded := expandEnvVars(string(data))
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, err
		}
	}

	// Bridge defaults
	if cfg.Bridge.PairWindow == 0 {
		cfg.Bridge.PairWindow = Duration(60 * time.Second)
	}
	if cfg.Bridge.PairInterval == 0 {
		cfg.Bridge.PairInterval = Duration(5 * time.Second)
	}

	// Capture defaults
	if cfg.Capture.Width == 0 {
		cfg.Capture.Width = 160
	}
	if cfg.Capture.Height == 0 {
		cfg.Capture.Height = 90
	}
	if cfg.Capture.Interval == 0 {
		cfg.Capture.Interval = Duration(50 * time.Millisecond)
	}

	// Sync defaults
	if cfg.Sync.RateLimitRPS == 0 {
		cfg.Sync.RateLimitRPS = 10.0 // 10 updates per second
	}

	// Database defaults
	if cfg.Database.Path == "" {
		cfg.Database.Path = "./hueru.sqlite"
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	return &cfg, nil
}

// expandEnvVars expands environment variables in the format ${VAR} or ${VAR:default}
func expandEnvVars(input string) string {
	// Match ${VAR} or ${VAR:default}
	re := regexp.MustCompile(`\$\{([^}:]+)(?::([^}]*))?\}`)

	return re.ReplaceAllStringFunc(input, func(match string) string {
		parts := re.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		varName := parts[1]
		defaultVal := ""
		if len(parts) >= 3 {
			defaultVal = parts[2]
		}

		if val := os.Getenv(varName); val != "" {
			return val
		}
		return defaultVal
	})
}
