// Package config loads the validator's YAML run configuration.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hadproc/cmorval/cmorval"
)

// Config holds everything a validation run needs. Every field has a
// usable default except the source, which must name either a local
// directory or an S3 location.
type Config struct {
	Convention   string       `yaml:"convention"`
	CellMeasures bool         `yaml:"cell_measures"`
	Workers      int          `yaml:"workers"`
	Checksum     string       `yaml:"checksum"` // "", "md5" or "sha256"
	LogLevel     string       `yaml:"log_level"`
	LogFormat    string       `yaml:"log_format"` // "text" or "json"
	Source       SourceConfig `yaml:"source"`
	Report       ReportConfig `yaml:"report"`
}

// SourceConfig selects where candidate files come from. Exactly one of
// Path and S3 must be set.
type SourceConfig struct {
	Path string    `yaml:"path"`
	S3   *S3Config `yaml:"s3"`
}

// S3Config mirrors source.S3Options.
type S3Config struct {
	Bucket     string `yaml:"bucket"`
	Prefix     string `yaml:"prefix"`
	Region     string `yaml:"region"`
	Endpoint   string `yaml:"endpoint"`
	AccessKey  string `yaml:"access_key"`
	SecretKey  string `yaml:"secret_key"`
	ScratchDir string `yaml:"scratch_dir"`
}

// ReportConfig names the optional report outputs.
type ReportConfig struct {
	JSON    string `yaml:"json"`    // ".gz" suffix compresses
	Parquet string `yaml:"parquet"` // flattened issue table
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		Convention: string(cmorval.CMIP6),
		Workers:    4,
		LogLevel:   "info",
		LogFormat:  "text",
	}
}

// Load reads and validates a configuration file on top of the
// defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks field values and fills defaulted ones.
func (c *Config) Validate() error {
	if !cmorval.Convention(c.Convention).Valid() {
		return fmt.Errorf("convention must be %s or %s, got %q", cmorval.CMIP5, cmorval.CMIP6, c.Convention)
	}
	if c.Workers <= 0 {
		c.Workers = 4
	}
	switch c.Checksum {
	case "", "md5", "sha256":
	default:
		return fmt.Errorf("checksum must be md5 or sha256, got %q", c.Checksum)
	}
	switch c.LogFormat {
	case "", "text", "json":
	default:
		return fmt.Errorf("log_format must be text or json, got %q", c.LogFormat)
	}
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be debug, info, warn or error, got %q", c.LogLevel)
	}
	if c.Source.Path != "" && c.Source.S3 != nil {
		return errors.New("source: path and s3 are mutually exclusive")
	}
	if c.Source.S3 != nil && c.Source.S3.Bucket == "" {
		return errors.New("source.s3: bucket is required")
	}
	return nil
}
