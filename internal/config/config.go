// Package config loads CLI-level configuration (alphabet selection,
// logging, metrics, input sampling) from a YAML file and environment
// variables. It never configures the core tree's algorithmic behavior,
// which takes explicit constructor arguments.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Sentinel validation errors.
var (
	ErrInvalidAlphabet   = errors.New("invalid alphabet name")
	ErrInvalidLogLevel   = errors.New("invalid logging level")
	ErrInvalidLogFormat  = errors.New("invalid logging format")
	ErrInvalidSampleRate = errors.New("sample-every must be positive")
	ErrInvalidMetricAddr = errors.New("metrics address must be non-empty when metrics are enabled")
)

// Default configuration values.
const (
	defaultAlphabet    = "dna-n"
	defaultLogLevel    = "info"
	defaultLogFormat   = "text"
	defaultSampleEvery = 1000
	defaultMetricsAddr = "127.0.0.1:9595"
	envPrefix          = "SUFFTREE"
)

// validAlphabets enumerates the built-in alphabet names accepted by
// --alphabet; "custom" requires AlphabetConfig.CustomPath.
var validAlphabets = map[string]bool{
	"dna":     true,
	"dna-n":   true,
	"protein": true,
	"custom":  true,
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"text": true,
	"json": true,
}

// Config holds all configuration for the sufftree CLI.
type Config struct {
	Alphabet AlphabetConfig `mapstructure:"alphabet"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Input    InputConfig    `mapstructure:"input"`
}

// AlphabetConfig selects and, for custom alphabets, locates the symbol
// table the tree is built over.
type AlphabetConfig struct {
	Name       string `mapstructure:"name"`
	CustomPath string `mapstructure:"custom_path"`
}

// LoggingConfig controls the internal/obslog handler.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MetricsConfig controls the optional Prometheus/OTel scrape endpoint
// served for the duration of a build.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
}

// InputConfig controls sampling of the input sequence. Decompression is
// chosen by file extension in internal/seqio, not configured here.
type InputConfig struct {
	SampleEvery int `mapstructure:"sample_every"`
}

// LoadConfig loads configuration from an optional file plus SUFFTREE_-
// prefixed environment variable overrides. An empty configPath looks for
// "sufftree.yaml" in the current directory and "/etc/sufftree"; a missing
// file is not an error, since every field has a usable default.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName("sufftree")
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("/etc/sufftree")
	}

	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("read config file: %w", readErr)
		}
	}

	var cfg Config

	if err := viperCfg.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("alphabet.name", defaultAlphabet)
	viperCfg.SetDefault("alphabet.custom_path", "")

	viperCfg.SetDefault("logging.level", defaultLogLevel)
	viperCfg.SetDefault("logging.format", defaultLogFormat)

	viperCfg.SetDefault("metrics.enabled", false)
	viperCfg.SetDefault("metrics.addr", defaultMetricsAddr)

	viperCfg.SetDefault("input.sample_every", defaultSampleEvery)
}

func validateConfig(cfg *Config) error {
	name := strings.ToLower(cfg.Alphabet.Name)
	if !validAlphabets[name] {
		return fmt.Errorf("%w: %q", ErrInvalidAlphabet, cfg.Alphabet.Name)
	}

	cfg.Alphabet.Name = name

	if !validLogLevels[strings.ToLower(cfg.Logging.Level)] {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, cfg.Logging.Level)
	}

	if !validLogFormats[strings.ToLower(cfg.Logging.Format)] {
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, cfg.Logging.Format)
	}

	if cfg.Input.SampleEvery <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSampleRate, cfg.Input.SampleEvery)
	}

	if cfg.Metrics.Enabled && cfg.Metrics.Addr == "" {
		return ErrInvalidMetricAddr
	}

	return nil
}
