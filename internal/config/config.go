// Package config defines the data structures related to configuration and
// includes functions for loading and validating it.
package config

import (
	"errors"
	"io"
	"io/fs"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"

	"github.com/iwvelando/lender-marketplace/pkg/constants"
)

// Configuration holds all configuration for the lender marketplace.
type Configuration struct {
	Logging  LoggingConfig  `yaml:"logging,omitempty" mapstructure:"logging"`
	Output   OutputConfig   `yaml:"output,omitempty" mapstructure:"output"`
	Server   ServerConfig   `yaml:"server,omitempty" mapstructure:"server"`
	Catalog  CatalogConfig  `yaml:"catalog,omitempty" mapstructure:"catalog"`
	Scoring  ScoringConfig  `yaml:"scoring,omitempty" mapstructure:"scoring"`
	Recorder RecorderConfig `yaml:"recorder,omitempty" mapstructure:"recorder"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty" mapstructure:"level"`            // debug, info, warn, error
	Format     string `yaml:"format,omitempty" mapstructure:"format"`          // json, console
	OutputFile string `yaml:"outputFile,omitempty" mapstructure:"output_file"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty" mapstructure:"format"` // pretty, csv, json
}

// ServerConfig holds HTTP server options.
type ServerConfig struct {
	Address     string `yaml:"address,omitempty" mapstructure:"address"`
	MaxBodySize string `yaml:"maxBodySize,omitempty" mapstructure:"max_body_size"` // e.g. "64K"
	Version     string `yaml:"version,omitempty" mapstructure:"version"`
	// AllowedOrigins for CORS; empty allows any origin.
	AllowedOrigins []string `yaml:"allowedOrigins,omitempty" mapstructure:"allowed_origins"`
}

// CatalogConfig locates the lender catalog and controls reloading.
type CatalogConfig struct {
	Path            string `yaml:"path,omitempty" mapstructure:"path"`
	Watch           bool   `yaml:"watch,omitempty" mapstructure:"watch"`
	RefreshSchedule string `yaml:"refreshSchedule,omitempty" mapstructure:"refresh_schedule"` // cron spec, optional
}

// ScoringConfig locates the external probability-of-default service.
type ScoringConfig struct {
	URL            string `yaml:"url,omitempty" mapstructure:"url"`
	TimeoutSeconds int    `yaml:"timeoutSeconds,omitempty" mapstructure:"timeout_seconds"`
	MaxAttempts    int    `yaml:"maxAttempts,omitempty" mapstructure:"max_attempts"`
}

// Timeout returns the per-attempt scoring timeout.
func (s ScoringConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// RecorderConfig selects where search decisions are recorded.
type RecorderConfig struct {
	Driver string `yaml:"driver,omitempty" mapstructure:"driver"` // noop, sqlite
	Path   string `yaml:"path,omitempty" mapstructure:"path"`
}

func newViper() *viper.Viper {
	v := viper.New()

	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("output.format", constants.OutputFormatPretty)
	v.SetDefault("server.address", constants.DefaultServerAddress)
	v.SetDefault("server.max_body_size", "64K")
	v.SetDefault("server.version", constants.DefaultVersion)
	v.SetDefault("server.allowed_origins", []string{})
	v.SetDefault("catalog.path", constants.DefaultCatalogFile)
	v.SetDefault("catalog.watch", true)
	v.SetDefault("catalog.refresh_schedule", "")
	v.SetDefault("scoring.url", "")
	v.SetDefault("scoring.timeout_seconds", constants.DefaultScoringTimeoutSeconds)
	v.SetDefault("scoring.max_attempts", constants.DefaultScoringMaxAttempts)
	v.SetDefault("recorder.driver", constants.RecorderDriverNoop)
	v.SetDefault("recorder.path", "")

	return v
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. A missing file at the default location is not an
// error; defaults and environment overrides apply.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		if configPath != constants.DefaultConfigFile || !isNotFound(err) {
			return nil, eris.Wrapf(err, "error reading config file %s", configPath)
		}
	}

	return decode(v)
}

// LoadConfigurationFromReader loads YAML configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	v.SetConfigType("yaml")

	if err := v.ReadConfig(r); err != nil {
		return nil, eris.Wrap(err, "error reading config data")
	}

	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, eris.Wrap(err, "unable to decode into struct")
	}
	return &configuration, nil
}

func isNotFound(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}
