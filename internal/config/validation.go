package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"git.home.luguber.info/inful/eepbuilder/internal/errors"
)

// normalize case-folds enumerations before defaults are applied.
func normalize(cfg *Config) error {
	if cfg.Logging.Level != "" {
		lvl, err := logLevelNormalizer.NormalizeWithError(string(cfg.Logging.Level))
		if err != nil {
			return errors.ValidationFailed("logging.level", err.Error())
		}
		cfg.Logging.Level = lvl
	}
	if cfg.Logging.Format != "" {
		f, err := logFormatNormalizer.NormalizeWithError(string(cfg.Logging.Format))
		if err != nil {
			return errors.ValidationFailed("logging.format", err.Error())
		}
		cfg.Logging.Format = f
	}
	cfg.Writer.OutputEncoding = strings.ToLower(strings.TrimSpace(cfg.Writer.OutputEncoding))
	return nil
}

// Validate checks a configuration that already has defaults applied.
func Validate(cfg *Config) error {
	b := cfg.Build
	if b.Workers < 1 {
		return errors.ValidationFailed("build.workers", fmt.Sprintf("must be at least 1, got %d", b.Workers))
	}
	if b.Source == "" {
		return errors.ValidationFailed("build.source", "must not be empty")
	}
	if b.Output == "" {
		return errors.ValidationFailed("build.output", "must not be empty")
	}
	if filepath.Clean(b.Source) == filepath.Clean(b.Output) {
		return errors.ValidationFailed("build.output", "must differ from build.source")
	}

	if err := validateURLTemplate("reader.eep_file_url_template", cfg.Reader.EEPFileURLTemplate); err != nil {
		return err
	}
	if err := validateURLTemplate("reader.rfc_file_url_template", cfg.Reader.RFCFileURLTemplate); err != nil {
		return err
	}

	if cfg.Serve.Debounce != "" {
		d, err := time.ParseDuration(cfg.Serve.Debounce)
		if err != nil {
			return errors.ValidationFailed("serve.debounce", err.Error())
		}
		if d < 0 {
			return errors.ValidationFailed("serve.debounce", "must not be negative")
		}
	}
	return nil
}

// validateURLTemplate requires exactly one integer verb.
func validateURLTemplate(field, tmpl string) error {
	if tmpl == "" {
		return nil
	}
	if strings.Count(strings.ReplaceAll(tmpl, "%%", ""), "%") != 1 {
		return errors.ValidationFailed(field, "must contain exactly one integer verb such as %04d")
	}
	if out := fmt.Sprintf(tmpl, 1); strings.Contains(out, "%!") {
		return errors.ValidationFailed(field, fmt.Sprintf("invalid verb in %q", tmpl))
	}
	return nil
}

// DebounceDuration returns the parsed preview debounce.
func (s ServeConfig) DebounceDuration() time.Duration {
	d, err := time.ParseDuration(s.Debounce)
	if err != nil {
		return 300 * time.Millisecond
	}
	return d
}
