package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/myjournal/internal/timex"
)

// JSONConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields tell "absent" apart from zero values; durations accept "3s" or
// integer nanoseconds.
type JSONConfig struct {
	APIURL         *string         `json:"api_url"`
	DBPath         *string         `json:"db_path"`
	SyncInterval   *timex.Duration `json:"sync_interval"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
	RateLimit      *float64        `json:"rate_limit"`
	LogLevel       *string         `json:"log_level"`
	LogBackend     *string         `json:"log_backend"`
}

// parseJSON overlays cfg with the fields present in the file at path. An
// empty path loads nothing.
func parseJSON(cfg *Config, path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var jc JSONConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if jc.APIURL != nil {
		cfg.APIURL = *jc.APIURL
	}
	if jc.DBPath != nil {
		cfg.DBPath = *jc.DBPath
	}
	if jc.SyncInterval != nil {
		cfg.SyncInterval = jc.SyncInterval.Duration
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.RateLimit != nil {
		cfg.RateLimit = *jc.RateLimit
	}
	if jc.LogLevel != nil {
		cfg.LogLevel = *jc.LogLevel
	}
	if jc.LogBackend != nil {
		cfg.LogBackend = *jc.LogBackend
	}
	return nil
}
