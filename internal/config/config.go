// Package config loads the eepbuilder YAML configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/eepbuilder/internal/errors"
)

// CurrentVersion is the configuration format version written by Init.
const CurrentVersion = "1.0"

// DefaultPath is the configuration file looked up when --config is not given.
const DefaultPath = "eepbuilder.yaml"

// Config represents the eepbuilder configuration file.
type Config struct {
	Version string        `yaml:"version"`
	Build   BuildConfig   `yaml:"build"`
	Reader  ReaderConfig  `yaml:"reader"`
	Writer  WriterConfig  `yaml:"writer"`
	Serve   ServeConfig   `yaml:"serve"`
	Logging LoggingConfig `yaml:"logging"`
}

// BuildConfig controls directory builds.
type BuildConfig struct {
	Source      string `yaml:"source"`      // Directory holding eep-NNNN.md files
	Output      string `yaml:"output"`      // Directory receiving eep-NNNN.html files
	Incremental bool   `yaml:"incremental"` // Skip sources unchanged since the last build
	Workers     int    `yaml:"workers"`     // Documents rendered in parallel
	Index       *bool  `yaml:"index,omitempty"`
	GitDates    bool   `yaml:"git_dates"` // Fill empty Last-Modified fields from git history
	CopySources *bool  `yaml:"copy_sources,omitempty"`
}

// ReaderConfig mirrors reader.Settings. Unset toggles keep their defaults.
type ReaderConfig struct {
	EEPReferences      *bool  `yaml:"eep_references,omitempty"`
	RFCReferences      *bool  `yaml:"rfc_references,omitempty"`
	EEPBaseURL         string `yaml:"eep_base_url,omitempty"`
	EEPFileURLTemplate string `yaml:"eep_file_url_template,omitempty"`
	RFCBaseURL         string `yaml:"rfc_base_url,omitempty"`
	RFCFileURLTemplate string `yaml:"rfc_file_url_template,omitempty"`
	TOC                *bool  `yaml:"toc,omitempty"`
	StripComments      bool   `yaml:"strip_comments,omitempty"`
}

// WriterConfig mirrors writer.Settings.
type WriterConfig struct {
	Template        string `yaml:"template,omitempty"`
	StylesheetPath  string `yaml:"stylesheet_path,omitempty"`
	EmbedStylesheet bool   `yaml:"embed_stylesheet,omitempty"`
	ErlangHome      string `yaml:"erlang_home,omitempty"`
	EEPHome         string `yaml:"eep_home,omitempty"`
	OutputEncoding  string `yaml:"output_encoding,omitempty"`
	NoRandom        bool   `yaml:"no_random,omitempty"`
}

// ServeConfig controls the preview server. The server always exposes
// /metrics.
type ServeConfig struct {
	Addr     string `yaml:"addr"`
	Debounce string `yaml:"debounce,omitempty"` // Go duration, e.g. "300ms"
}

// LoggingConfig controls the process logger.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{Version: CurrentVersion}
	applyDefaults(cfg)
	return cfg
}

// Load loads and validates the configuration file at configPath.
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, errors.ConfigNotFound(configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, errors.ConfigInvalid(configPath, err)
	}

	// Expand environment variables in the YAML content
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, errors.ConfigInvalid(configPath, fmt.Errorf("unmarshal: %w", err))
	}
	if cfg.Version == "" {
		cfg.Version = CurrentVersion
	}
	if cfg.Version != CurrentVersion {
		return nil, errors.ConfigInvalid(configPath,
			fmt.Errorf("unsupported configuration version: %s (expected %s)", cfg.Version, CurrentVersion))
	}

	if err := normalize(&cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOptional loads configPath, falling back to Default when the file does
// not exist and required is false.
func LoadOptional(configPath string, required bool) (*Config, error) {
	if !required {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			loadEnvFiles()
			return Default(), nil
		}
	}
	return Load(configPath)
}

// Init writes an example configuration file.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return errors.New(errors.CategoryValidation, errors.SeverityFatal,
			fmt.Sprintf("configuration file already exists: %s (use --force to overwrite)", configPath))
	}

	data, err := yaml.Marshal(Default())
	if err != nil {
		return errors.InternalError("failed to marshal config", err)
	}
	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return errors.FileSystemError("write config", err).WithContext("path", configPath)
	}
	return nil
}
