// Package config provides configuration management for the Fragmenta CLI
// using Viper for flexible configuration loading from files, environment
// variables, and command-line flags.
//
// The configuration system supports YAML files and environment variable
// overrides with the FRAGMENTA_ prefix. It covers the source directory name,
// the entity construction worker bound, and logging options; the on-disk
// marker conventions themselves are fixed and not configurable.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Source SourceConfig `yaml:"source"`
	Scan   ScanConfig   `yaml:"scan"`
	Log    LogConfig    `yaml:"log"`
}

type SourceConfig struct {
	// Dir is the directory under the project root holding collections and
	// page templates
	Dir string `yaml:"dir"`
}

type ScanConfig struct {
	// Workers bounds concurrent entity construction; 1 forces the fully
	// sequential reference behavior, 0 selects the default
	Workers int `yaml:"workers"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// maxWorkers caps the configurable worker bound; beyond this the pool only
// adds scheduling overhead for directory-sized batches.
const maxWorkers = 64

func Load() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Apply defaults only if not explicitly set
	if config.Source.Dir == "" {
		config.Source.Dir = "src"
	}
	if config.Log.Level == "" {
		config.Log.Level = "info"
	}
	if config.Log.Format == "" {
		config.Log.Format = "text"
	}

	// Handle values set via viper (workaround for viper key handling)
	if viper.IsSet("source.dir") && viper.GetString("source.dir") != "" {
		config.Source.Dir = viper.GetString("source.dir")
	}
	if viper.IsSet("scan.workers") {
		config.Scan.Workers = viper.GetInt("scan.workers")
	}
	if viper.IsSet("log.level") && viper.GetString("log.level") != "" {
		config.Log.Level = viper.GetString("log.level")
	}
	if viper.IsSet("log.format") && viper.GetString("log.format") != "" {
		config.Log.Format = viper.GetString("log.format")
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// validateConfig validates configuration values for security and correctness
func validateConfig(config *Config) error {
	if err := validateSourceConfig(&config.Source); err != nil {
		return fmt.Errorf("source config: %w", err)
	}

	if err := validateScanConfig(&config.Scan); err != nil {
		return fmt.Errorf("scan config: %w", err)
	}

	if err := validateLogConfig(&config.Log); err != nil {
		return fmt.Errorf("log config: %w", err)
	}

	return nil
}

// validateSourceConfig validates the source directory name
func validateSourceConfig(config *SourceConfig) error {
	cleanPath := filepath.Clean(config.Dir)

	// Reject path traversal attempts
	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("dir contains path traversal: %s", config.Dir)
	}

	// The source dir is a name under the project root, not a location
	if filepath.IsAbs(cleanPath) {
		return fmt.Errorf("dir should be relative to the project root: %s", config.Dir)
	}

	return nil
}

// validateScanConfig validates worker bounds
func validateScanConfig(config *ScanConfig) error {
	if config.Workers < 0 || config.Workers > maxWorkers {
		return fmt.Errorf("workers %d is not in valid range 0-%d", config.Workers, maxWorkers)
	}

	return nil
}

// validateLogConfig validates logging options
func validateLogConfig(config *LogConfig) error {
	switch strings.ToLower(config.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown log level: %s", config.Level)
	}

	switch strings.ToLower(config.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format: %s", config.Format)
	}

	return nil
}
