package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "JOURNAL_"

// parseEnv overlays cfg with JOURNAL_* variables, e.g. JOURNAL_API_URL or
// JOURNAL_SYNC_INTERVAL=5s.
func parseEnv(cfg *Config) error {
	k := koanf.New(".")

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(key, value string) (string, any) {
			return strings.ToLower(strings.TrimPrefix(key, envPrefix)), value
		},
	}), nil); err != nil {
		return fmt.Errorf("load environment: %w", err)
	}

	if k.Exists("api_url") {
		cfg.APIURL = k.String("api_url")
	}
	if k.Exists("db_path") {
		cfg.DBPath = k.String("db_path")
	}
	if k.Exists("log_level") {
		cfg.LogLevel = k.String("log_level")
	}
	if k.Exists("log_backend") {
		cfg.LogBackend = k.String("log_backend")
	}

	for key, dst := range map[string]*time.Duration{
		"sync_interval":   &cfg.SyncInterval,
		"request_timeout": &cfg.RequestTimeout,
	} {
		if !k.Exists(key) {
			continue
		}
		d, err := time.ParseDuration(k.String(key))
		if err != nil {
			return fmt.Errorf("%s%s: %w", envPrefix, strings.ToUpper(key), err)
		}
		*dst = d
	}

	if k.Exists("rate_limit") {
		r, err := strconv.ParseFloat(k.String("rate_limit"), 64)
		if err != nil {
			return fmt.Errorf("%sRATE_LIMIT: %w", envPrefix, err)
		}
		cfg.RateLimit = r
	}

	return nil
}
