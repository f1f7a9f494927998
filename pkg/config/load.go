package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified
// path. It applies default values, validates the configuration, and
// returns any errors. Environment variables are not consulted; use
// LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and
// applies environment variable overrides. Variables follow the naming
// convention FABCOST_SECTION_FIELD (e.g. FABCOST_SOURCING_MODE) and
// always take precedence over file-based configuration.
//
// If the file does not exist, the built-in defaults are used as the
// base so the tool works without a config file.
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	var cfg *Config

	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg = DefaultConfig()
	} else {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies FABCOST_* environment variable overrides.
func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("FABCOST_SOURCING_MODE"); val != "" {
		cfg.Sourcing.Mode = val
	}
	if val := os.Getenv("FABCOST_SOURCING_EU_PREMIUM_THRESHOLD"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Sourcing.EUPremiumThreshold = f
		}
	}
	if val := os.Getenv("FABCOST_ESTIMATOR_WORKERS"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			cfg.Estimator.Workers = n
		}
	}
	if val := os.Getenv("FABCOST_CACHE_DIRECTORY"); val != "" {
		cfg.Cache.Directory = val
	}
	if val := os.Getenv("FABCOST_CACHE_DISTRIBUTOR_TTL"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Cache.DistributorTTL = d
		}
	}
	if val := os.Getenv("FABCOST_CACHE_ADVISORY_TTL"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Cache.AdvisoryTTL = d
		}
	}
	if val := os.Getenv("FABCOST_LOGGING_LEVEL"); val != "" {
		cfg.Logging.Level = val
	}
	if val := os.Getenv("FABCOST_LOGGING_FORMAT"); val != "" {
		cfg.Logging.Format = val
	}
	if val := os.Getenv("FABCOST_METRICS_LISTEN_ADDRESS"); val != "" {
		cfg.Metrics.ListenAddress = val
	}
}

// SaveConfig writes the configuration to a YAML file, creating parent
// directories as needed. The configuration is validated before writing.
func SaveConfig(cfg *Config, path string) error {
	if err := Validate(cfg); err != nil {
		return fmt.Errorf("refusing to save invalid configuration: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create configuration directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write configuration file %q: %w", path, err)
	}
	return nil
}

// DataDir returns the directory for durable state (cache databases,
// the component store). Cache.Directory wins when set; otherwise a
// per-user default is used.
func (c *Config) DataDir() (string, error) {
	if c.Cache.Directory != "" {
		return c.Cache.Directory, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".fabcost"), nil
}
