package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/pflag"
)

const (
	DefaultAPIURL       = "http://localhost:3000/api"
	DefaultDBPath       = "journal.db"
	DefaultSyncInterval = time.Second
	DefaultLogLevel     = "info"
	DefaultLogBackend   = "slog"
)

// Config holds runtime settings for the journal client.
//
// Fields:
//   - APIURL: base URL of the journal HTTP API.
//   - DBPath: SQLite file holding the persisted session.
//   - SyncInterval: how often to look for session changes made by other
//     client processes.
//   - RequestTimeout: per-request timeout; zero means none.
//   - RateLimit: outbound requests per second; zero means unlimited.
//   - LogLevel, LogBackend: see package logging.
type Config struct {
	APIURL         string
	DBPath         string
	SyncInterval   time.Duration
	RequestTimeout time.Duration
	RateLimit      float64
	LogLevel       string
	LogBackend     string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIURL = DefaultAPIURL
	c.DBPath = DefaultDBPath
	c.SyncInterval = DefaultSyncInterval
	c.RequestTimeout = 0
	c.RateLimit = 0
	c.LogLevel = DefaultLogLevel
	c.LogBackend = DefaultLogBackend
}

// Validate reports settings the client cannot run with.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil {
		return fmt.Errorf("invalid api url %q: %w", c.APIURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid api url %q: scheme must be http or https", c.APIURL)
	}
	if c.DBPath == "" {
		return errors.New("db path must not be empty")
	}
	if c.SyncInterval <= 0 {
		return fmt.Errorf("sync interval must be positive, got %s", c.SyncInterval)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request timeout must not be negative, got %s", c.RequestTimeout)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rate limit must not be negative, got %v", c.RateLimit)
	}
	return nil
}

// LoadConfig constructs a Config from defaults, then the JSON file named by
// the --config flag, then JOURNAL_* environment variables, then flags the
// user set explicitly. Later sources take precedence over earlier ones.
func LoadConfig(fs *pflag.FlagSet) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	path, err := fs.GetString(flagConfig)
	if err != nil {
		return nil, err
	}
	if err := parseJSON(cfg, path); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := applyFlags(cfg, fs); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
