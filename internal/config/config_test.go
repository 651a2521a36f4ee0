package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfrederiksen/visa-bulletin/internal/export"
	"github.com/pfrederiksen/visa-bulletin/internal/scraper"
)

func TestLoad_Defaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(New(), "")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".cache", "visa-bulletin"), cfg.CacheDir)
	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, export.FormatCSV, cfg.Format)
	assert.Equal(t, 100*time.Millisecond, cfg.Delay)
	assert.Equal(t, 4, cfg.Concurrency)
	assert.Equal(t, scraper.BaseURL, cfg.BaseURL)
	assert.Equal(t, scraper.Timeout, cfg.Timeout)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_File(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "visa.yaml")
	content := `
cache_dir: /tmp/pages
data_dir: /tmp/out
format: xlsx
delay: 2s
concurrency: 8
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(New(), path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/pages", cfg.CacheDir)
	assert.Equal(t, "/tmp/out", cfg.DataDir)
	assert.Equal(t, export.FormatXLSX, cfg.Format)
	assert.Equal(t, 2*time.Second, cfg.Delay)
	assert.Equal(t, 8, cfg.Concurrency)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("VISA_BULLETIN_FORMAT", "json")
	t.Setenv("VISA_BULLETIN_LOG_LEVEL", "warn")

	path := filepath.Join(t.TempDir(), "visa.yaml")
	require.NoError(t, os.WriteFile(path, []byte("format: xlsx\n"), 0644))

	cfg, err := Load(New(), path)
	require.NoError(t, err)

	assert.Equal(t, export.FormatJSON, cfg.Format)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(New(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		return Config{
			CacheDir:    "cache",
			DataDir:     "data",
			Format:      export.FormatCSV,
			Delay:       0,
			Concurrency: 1,
			Timeout:     time.Second,
			LogLevel:    "info",
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"sqlite format", func(c *Config) { c.Format = export.FormatSQLite }, false},
		{"unknown format", func(c *Config) { c.Format = "pdf" }, true},
		{"zero concurrency", func(c *Config) { c.Concurrency = 0 }, true},
		{"negative delay", func(c *Config) { c.Delay = -time.Second }, true},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, true},
		{"missing cache dir", func(c *Config) { c.CacheDir = "" }, true},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("BULLETIN_ROOT", "/srv/bulletin")

	assert.Equal(t, home, ExpandPath("~"))
	assert.Equal(t, filepath.Join(home, "pages"), ExpandPath("~/pages"))
	assert.Equal(t, "/srv/bulletin/pages", ExpandPath("$BULLETIN_ROOT/pages"))
	assert.Equal(t, "relative/dir", ExpandPath("relative/dir"))
}
