package config

import (
	"git.home.luguber.info/inful/eepbuilder/internal/reader"
	"git.home.luguber.info/inful/eepbuilder/internal/writer"
)

const (
	defaultSource   = "."
	defaultOutput   = "./site"
	defaultWorkers  = 4
	defaultAddr     = "127.0.0.1:8080"
	defaultDebounce = "300ms"
)

func boolPtr(b bool) *bool { return &b }

// applyDefaults fills every unset field. Reader and writer defaults come from
// their packages so the two never drift apart.
func applyDefaults(cfg *Config) {
	if cfg.Version == "" {
		cfg.Version = CurrentVersion
	}

	b := &cfg.Build
	if b.Source == "" {
		b.Source = defaultSource
	}
	if b.Output == "" {
		b.Output = defaultOutput
	}
	if b.Workers == 0 {
		b.Workers = defaultWorkers
	}
	if b.Index == nil {
		b.Index = boolPtr(true)
	}
	if b.CopySources == nil {
		b.CopySources = boolPtr(true)
	}

	rd := reader.DefaultSettings()
	r := &cfg.Reader
	if r.EEPReferences == nil {
		r.EEPReferences = boolPtr(rd.EEPReferences)
	}
	if r.RFCReferences == nil {
		r.RFCReferences = boolPtr(rd.RFCReferences)
	}
	if r.TOC == nil {
		r.TOC = boolPtr(rd.TOC)
	}
	if r.EEPBaseURL == "" {
		r.EEPBaseURL = rd.EEPBaseURL
	}
	if r.EEPFileURLTemplate == "" {
		r.EEPFileURLTemplate = rd.EEPFileURLTemplate
	}
	if r.RFCBaseURL == "" {
		r.RFCBaseURL = rd.RFCBaseURL
	}
	if r.RFCFileURLTemplate == "" {
		r.RFCFileURLTemplate = rd.RFCFileURLTemplate
	}

	wd := writer.DefaultSettings()
	w := &cfg.Writer
	if w.StylesheetPath == "" {
		w.StylesheetPath = wd.StylesheetPath
	}
	if w.ErlangHome == "" {
		w.ErlangHome = wd.ErlangHome
	}
	if w.EEPHome == "" {
		w.EEPHome = wd.EEPHome
	}
	if w.OutputEncoding == "" {
		w.OutputEncoding = wd.OutputEncoding
	}

	if cfg.Serve.Addr == "" {
		cfg.Serve.Addr = defaultAddr
	}
	if cfg.Serve.Debounce == "" {
		cfg.Serve.Debounce = defaultDebounce
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = LogLevelInfo
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = LogFormatText
	}
}

// ReaderSettings converts the reader section. The last-modified resolver is
// left for the caller to attach.
func (c *Config) ReaderSettings() reader.Settings {
	s := reader.DefaultSettings()
	r := c.Reader
	if r.EEPReferences != nil {
		s.EEPReferences = *r.EEPReferences
	}
	if r.RFCReferences != nil {
		s.RFCReferences = *r.RFCReferences
	}
	if r.TOC != nil {
		s.TOC = *r.TOC
	}
	if r.EEPBaseURL != "" {
		s.EEPBaseURL = r.EEPBaseURL
	}
	if r.EEPFileURLTemplate != "" {
		s.EEPFileURLTemplate = r.EEPFileURLTemplate
	}
	if r.RFCBaseURL != "" {
		s.RFCBaseURL = r.RFCBaseURL
	}
	if r.RFCFileURLTemplate != "" {
		s.RFCFileURLTemplate = r.RFCFileURLTemplate
	}
	s.StripComments = r.StripComments
	return s
}

// WriterSettings converts the writer section.
func (c *Config) WriterSettings() writer.Settings {
	s := writer.DefaultSettings()
	w := c.Writer
	s.Template = w.Template
	if w.StylesheetPath != "" {
		s.StylesheetPath = w.StylesheetPath
	}
	s.EmbedStylesheet = w.EmbedStylesheet
	if w.ErlangHome != "" {
		s.ErlangHome = w.ErlangHome
	}
	if w.EEPHome != "" {
		s.EEPHome = w.EEPHome
	}
	if w.OutputEncoding != "" {
		s.OutputEncoding = w.OutputEncoding
	}
	s.NoRandom = w.NoRandom
	return s
}

// IndexEnabled reports whether the build generates the EEP 0 index.
func (b BuildConfig) IndexEnabled() bool { return b.Index == nil || *b.Index }

// CopySourcesEnabled reports whether sources are copied next to the pages.
func (b BuildConfig) CopySourcesEnabled() bool { return b.CopySources == nil || *b.CopySources }
