// Package config provides configuration loading and validation for the
// uivet CLI and servers.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Sentinel validation errors.
var (
	ErrInvalidPort     = errors.New("invalid server port")
	ErrInvalidWorkers  = errors.New("batch workers must not be negative")
	ErrInvalidEngine   = errors.New("unknown syntax engine")
	ErrInvalidMaxInput = errors.New("max input bytes must be positive")
)

// Syntax engine names.
const (
	EngineLexical    = "lexical"
	EngineTreeSitter = "treesitter"
)

// Default configuration values.
const (
	defaultPort          = 8080
	defaultHost          = "0.0.0.0"
	defaultMaxInputBytes = 1 << 20
	maxPort              = 65535
)

// Config holds all configuration for uivet.
type Config struct {
	Validator ValidatorConfig `mapstructure:"validator"`
	Patterns  PatternsConfig  `mapstructure:"patterns"`
	Batch     BatchConfig     `mapstructure:"batch"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Server    ServerConfig    `mapstructure:"server"`
	Cache     CacheConfig     `mapstructure:"cache"`
}

// ValidatorConfig selects the syntax engine and bounds input size.
type ValidatorConfig struct {
	Engine        string `mapstructure:"engine"`
	MaxInputBytes int    `mapstructure:"max_input_bytes"`
}

// PatternsConfig points at an optional custom import-pattern file.
type PatternsConfig struct {
	File string `mapstructure:"file"`
}

// BatchConfig controls the parallel file walker.
type BatchConfig struct {
	Extensions []string `mapstructure:"extensions"`
	Workers    int      `mapstructure:"workers"`
	FailFast   bool     `mapstructure:"fail_fast"`
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// TelemetryConfig holds OTel export configuration.
type TelemetryConfig struct {
	OTLPEndpoint    string  `mapstructure:"otlp_endpoint"`
	DiagnosticsAddr string  `mapstructure:"diagnostics_addr"`
	SampleRatio     float64 `mapstructure:"sample_ratio"`
	Insecure        bool    `mapstructure:"insecure"`
}

// ServerConfig holds HTTP API server configuration.
type ServerConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	ReadTimeoutSec  int    `mapstructure:"read_timeout_sec"`
	WriteTimeoutSec int    `mapstructure:"write_timeout_sec"`
	IdleTimeoutSec  int    `mapstructure:"idle_timeout_sec"`
}

// CacheConfig controls the content-hash result cache for batch runs.
type CacheConfig struct {
	Directory string `mapstructure:"directory"`
	Enabled   bool   `mapstructure:"enabled"`
}

// Load reads configuration from file and environment variables. An
// empty configPath falls back to the standard search path.
func Load(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName("uivet")
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("./config")
		viperCfg.AddConfigPath("/etc/uivet")
	}

	viperCfg.SetEnvPrefix("UIVET")
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var config Config

	unmarshalErr := viperCfg.Unmarshal(&config)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	validateErr := validate(&config)
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &config, nil
}

// setDefaults sets default configuration values.
func setDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("validator.engine", EngineLexical)
	viperCfg.SetDefault("validator.max_input_bytes", defaultMaxInputBytes)

	viperCfg.SetDefault("patterns.file", "")

	viperCfg.SetDefault("batch.workers", 0)
	viperCfg.SetDefault("batch.extensions", []string{})
	viperCfg.SetDefault("batch.fail_fast", false)

	viperCfg.SetDefault("logging.level", "info")
	viperCfg.SetDefault("logging.format", "text")

	viperCfg.SetDefault("telemetry.otlp_endpoint", "")
	viperCfg.SetDefault("telemetry.insecure", false)
	viperCfg.SetDefault("telemetry.sample_ratio", 0.0)
	viperCfg.SetDefault("telemetry.diagnostics_addr", "")

	viperCfg.SetDefault("server.host", defaultHost)
	viperCfg.SetDefault("server.port", defaultPort)
	viperCfg.SetDefault("server.read_timeout_sec", 30)
	viperCfg.SetDefault("server.write_timeout_sec", 30)
	viperCfg.SetDefault("server.idle_timeout_sec", 60)

	viperCfg.SetDefault("cache.enabled", false)
	viperCfg.SetDefault("cache.directory", "")
}

// validate checks the configuration against the sentinel errors.
func validate(config *Config) error {
	if config.Server.Port <= 0 || config.Server.Port > maxPort {
		return fmt.Errorf("%w: %d", ErrInvalidPort, config.Server.Port)
	}

	if config.Batch.Workers < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkers, config.Batch.Workers)
	}

	if config.Validator.MaxInputBytes <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidMaxInput, config.Validator.MaxInputBytes)
	}

	switch config.Validator.Engine {
	case EngineLexical, EngineTreeSitter:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidEngine, config.Validator.Engine)
	}

	return nil
}
