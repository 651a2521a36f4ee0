package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/pfrederiksen/visa-bulletin/internal/export"
	"github.com/pfrederiksen/visa-bulletin/internal/logger"
	"github.com/pfrederiksen/visa-bulletin/internal/scraper"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "VISA_BULLETIN"

// Keys
const (
	KeyCacheDir    = "cache_dir"
	KeyDataDir     = "data_dir"
	KeyFormat      = "format"
	KeyDelay       = "delay"
	KeyConcurrency = "concurrency"
	KeyBaseURL     = "base_url"
	KeyUserAgent   = "user_agent"
	KeyTimeout     = "timeout"
	KeyLogLevel    = "log.level"
)

// Config holds the resolved settings of one run
type Config struct {
	CacheDir    string
	DataDir     string
	Format      export.Format
	Delay       time.Duration
	Concurrency int
	BaseURL     string
	UserAgent   string
	Timeout     time.Duration
	LogLevel    string
}

// New returns a viper instance with defaults and environment binding set up
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault(KeyCacheDir, "~/.cache/visa-bulletin")
	v.SetDefault(KeyDataDir, "data")
	v.SetDefault(KeyFormat, string(export.FormatCSV))
	v.SetDefault(KeyDelay, 100*time.Millisecond)
	v.SetDefault(KeyConcurrency, 4)
	v.SetDefault(KeyBaseURL, scraper.BaseURL)
	v.SetDefault(KeyUserAgent, scraper.UserAgent)
	v.SetDefault(KeyTimeout, scraper.Timeout)
	v.SetDefault(KeyLogLevel, "info")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads the config file into v and resolves the settings.
// An explicit cfgFile must exist; otherwise config.yaml is searched in
// $HOME/.config/visa-bulletin and the working directory, and its absence is fine.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	if cfgFile != "" {
		v.SetConfigFile(ExpandPath(cfgFile))
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "visa-bulletin"))
		}
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{
		CacheDir:    ExpandPath(v.GetString(KeyCacheDir)),
		DataDir:     ExpandPath(v.GetString(KeyDataDir)),
		Format:      export.Format(strings.ToLower(strings.TrimSpace(v.GetString(KeyFormat)))),
		Delay:       v.GetDuration(KeyDelay),
		Concurrency: v.GetInt(KeyConcurrency),
		BaseURL:     v.GetString(KeyBaseURL),
		UserAgent:   v.GetString(KeyUserAgent),
		Timeout:     v.GetDuration(KeyTimeout),
		LogLevel:    v.GetString(KeyLogLevel),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the run cannot work with
func (c *Config) Validate() error {
	if _, err := export.ParseFormat(string(c.Format)); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("invalid config: concurrency must be at least 1, got %d", c.Concurrency)
	}
	if c.Delay < 0 {
		return fmt.Errorf("invalid config: delay must not be negative, got %s", c.Delay)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("invalid config: timeout must be positive, got %s", c.Timeout)
	}
	if c.CacheDir == "" || c.DataDir == "" {
		return errors.New("invalid config: cache_dir and data_dir are required")
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// ScraperOptions returns the fetcher settings
func (c *Config) ScraperOptions() []scraper.Option {
	return []scraper.Option{
		scraper.WithBaseURL(c.BaseURL),
		scraper.WithUserAgent(c.UserAgent),
		scraper.WithTimeout(c.Timeout),
	}
}

// ExpandPath expands $VARS and a leading ~ in a path
func ExpandPath(path string) string {
	path = os.ExpandEnv(path)
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
		}
	}
	return path
}
