// Package config loads the meshdb YAML configuration file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/meshdb/meshdb-go/pkg/identity"
	"github.com/meshdb/meshdb-go/pkg/nodedb"
)

// Storage backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Config represents the application configuration.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Device  DeviceConfig  `yaml:"device"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// StorageConfig selects where snapshots are kept.
type StorageConfig struct {
	Backend string `yaml:"backend"`  // "file", "sqlite" or "memory"
	DataDir string `yaml:"data_dir"` // directory for the file backend and the sqlite database
}

// DeviceConfig describes the local device.
type DeviceConfig struct {
	// MAC is the hardware address as hex, with or without separators.
	// Empty reads it from a network interface.
	MAC string `yaml:"mac,omitempty"`

	// Interface names the network interface to read the MAC from.
	Interface string `yaml:"interface,omitempty"`

	// MACSeed derives a stable MAC from a string when no interface has one.
	// Defaults to the hostname.
	MACSeed string `yaml:"mac_seed,omitempty"`

	LongName  string `yaml:"long_name,omitempty"`
	ShortName string `yaml:"short_name,omitempty"`
	HasGPS    bool   `yaml:"has_gps,omitempty"`

	// OnlineThresholdSecs is how recently a node must have been heard from
	// to count as online.
	OnlineThresholdSecs uint32 `yaml:"online_threshold_secs"`
}

// LoggingConfig configures operational and event logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error

	// EventLog is the path of the CBOR event log. Empty disables it.
	EventLog string `yaml:"event_log,omitempty"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	// Listen is the address for /metrics, e.g. ":9464". Empty disables it.
	Listen string `yaml:"listen,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend: BackendFile,
			DataDir: "./meshdb-data",
		},
		Device: DeviceConfig{
			OnlineThresholdSecs: nodedb.DefaultOnlineThreshold,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads the configuration file at path on top of Default. Environment
// variables in the file are expanded.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration and fills in defaults for empty fields.
func (c *Config) Validate() error {
	var errs []error

	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	switch c.Storage.Backend {
	case "":
		c.Storage.Backend = BackendFile
	case BackendFile, BackendSQLite, BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("storage.backend: unknown backend %q", c.Storage.Backend))
	}
	if c.Storage.Backend != BackendMemory && c.Storage.DataDir == "" {
		errs = append(errs, errors.New("storage.data_dir: required for the "+c.Storage.Backend+" backend"))
	}

	if c.Device.MAC != "" {
		if _, err := identity.ParseMAC(c.Device.MAC); err != nil {
			errs = append(errs, fmt.Errorf("device.mac: %w", err))
		}
	}
	if c.Device.OnlineThresholdSecs == 0 {
		c.Device.OnlineThresholdSecs = nodedb.DefaultOnlineThreshold
	}

	if _, err := parseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("logging.level: %w", err))
	}

	return errors.Join(errs...)
}

// MACSource returns the hardware address source the device section selects.
func (c *Config) MACSource() (identity.MACSource, error) {
	if c.Device.MAC != "" {
		return identity.ParseMAC(c.Device.MAC)
	}

	var fallback identity.MACSource
	if c.Device.MACSeed != "" {
		fallback = identity.DerivedMAC{Seed: c.Device.MACSeed}
	}
	return identity.InterfaceMAC{Name: c.Device.Interface, Fallback: fallback}, nil
}

// SlogLevel returns the configured log level.
func (c *Config) SlogLevel() slog.Level {
	level, _ := parseLevel(c.Logging.Level)
	return level
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown level %q", s)
	}
}

// Write saves the configuration as YAML, refusing to replace an existing
// file unless force is set.
func (c *Config) Write(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", path)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
