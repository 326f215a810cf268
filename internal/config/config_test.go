package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/eepbuilder/internal/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "eepbuilder.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, CurrentVersion, cfg.Version)
	assert.Equal(t, defaultWorkers, cfg.Build.Workers)
	assert.True(t, cfg.Build.IndexEnabled())
	assert.True(t, cfg.Build.CopySourcesEnabled())
	assert.Equal(t, LogLevelInfo, cfg.Logging.Level)
	assert.Equal(t, LogFormatText, cfg.Logging.Format)
	require.NoError(t, Validate(cfg))

	rs := cfg.ReaderSettings()
	assert.True(t, rs.EEPReferences)
	assert.True(t, rs.RFCReferences)
	assert.True(t, rs.TOC)
	assert.Equal(t, "eep-%04d.html", rs.EEPFileURLTemplate)

	ws := cfg.WriterSettings()
	assert.Equal(t, "http://www.erlang.org", ws.ErlangHome)
	assert.Equal(t, "utf-8", ws.OutputEncoding)
}

func TestLoad(t *testing.T) {
	t.Setenv("EEP_OUT", "/tmp/eeps-out")
	path := writeConfig(t, `
version: "1.0"
build:
  source: ./eeps
  output: ${EEP_OUT}
  workers: 2
  index: false
reader:
  rfc_references: false
  toc: false
writer:
  erlang_home: ".."
  output_encoding: " ISO-8859-1 "
logging:
  level: DEBUG
  format: Json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/eeps-out", cfg.Build.Output)
	assert.Equal(t, 2, cfg.Build.Workers)
	assert.False(t, cfg.Build.IndexEnabled())
	assert.Equal(t, LogLevelDebug, cfg.Logging.Level)
	assert.Equal(t, LogFormatJSON, cfg.Logging.Format)

	rs := cfg.ReaderSettings()
	assert.True(t, rs.EEPReferences)
	assert.False(t, rs.RFCReferences)
	assert.False(t, rs.TOC)

	ws := cfg.WriterSettings()
	assert.Equal(t, "..", ws.ErlangHome)
	assert.Equal(t, "iso-8859-1", ws.OutputEncoding)
	assert.Equal(t, ".", ws.EEPHome)
}

func TestLoad_NotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryConfig))
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		category errors.ErrorCategory
	}{
		{"bad yaml", "build: [", errors.CategoryConfig},
		{"bad version", "version: \"2.0\"\n", errors.CategoryConfig},
		{"bad level", "logging:\n  level: loud\n", errors.CategoryValidation},
		{"negative workers", "build:\n  workers: -1\n", errors.CategoryValidation},
		{"same dirs", "build:\n  source: out\n  output: ./out\n", errors.CategoryValidation},
		{"bad url template", "reader:\n  eep_file_url_template: eep.html\n", errors.CategoryValidation},
		{"bad debounce", "serve:\n  debounce: soon\n", errors.CategoryValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Equal(t, tt.category, errors.GetCategory(err))
		})
	}
}

func TestLoadOptional(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "eepbuilder.yaml")

	cfg, err := LoadOptional(missing, false)
	require.NoError(t, err)
	assert.Equal(t, defaultOutput, cfg.Build.Output)

	_, err = LoadOptional(missing, true)
	require.Error(t, err)
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eepbuilder.yaml")

	require.NoError(t, Init(path, false))
	require.Error(t, Init(path, false), "existing file without force")
	require.NoError(t, Init(path, true))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadEnvFiles_DoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(".env", []byte("EEP_A=from-file\nEEP_B=from-file\n"), 0o600))
	t.Setenv("EEP_A", "from-env")
	t.Setenv("EEP_B", "")
	require.NoError(t, os.Unsetenv("EEP_B"))

	loadEnvFiles()

	assert.Equal(t, "from-env", os.Getenv("EEP_A"))
	assert.Equal(t, "from-file", os.Getenv("EEP_B"))
}

func TestServeConfig_DebounceDuration(t *testing.T) {
	assert.Equal(t, 300*time.Millisecond, ServeConfig{Debounce: "300ms"}.DebounceDuration())
	assert.Equal(t, 2*time.Second, ServeConfig{Debounce: "2s"}.DebounceDuration())
	assert.Equal(t, 300*time.Millisecond, ServeConfig{Debounce: "bogus"}.DebounceDuration())
}

func TestNormalizeLogLevel(t *testing.T) {
	assert.Equal(t, LogLevelWarn, NormalizeLogLevel(" Warning "))
	assert.Equal(t, LogLevelInfo, NormalizeLogLevel("nonsense"))
	assert.Equal(t, LogFormatJSON, NormalizeLogFormat("JSON"))
}
