package config

import (
	"github.com/spf13/pflag"
)

const (
	flagConfig         = "config"
	flagAPIURL         = "api"
	flagDBPath         = "db"
	flagSyncInterval   = "sync-interval"
	flagRequestTimeout = "timeout"
	flagRateLimit      = "rate-limit"
	flagLogLevel       = "log-level"
	flagLogBackend     = "log-backend"
)

// BindFlags registers the configuration flags on fs. Defaults shown in help
// are the built-in ones; flags only override other sources when set.
func BindFlags(fs *pflag.FlagSet) {
	fs.StringP(flagConfig, "c", "", "path to JSON config file")
	fs.StringP(flagAPIURL, "a", DefaultAPIURL, "base URL of the journal API")
	fs.String(flagDBPath, DefaultDBPath, "local database holding the session")
	fs.DurationP(flagSyncInterval, "i", DefaultSyncInterval, "how often to pick up session changes from other clients")
	fs.Duration(flagRequestTimeout, 0, "per-request timeout (0 = none)")
	fs.Float64(flagRateLimit, 0, "max API requests per second (0 = unlimited)")
	fs.String(flagLogLevel, DefaultLogLevel, "log level: debug, info, warn, error")
	fs.String(flagLogBackend, DefaultLogBackend, "log backend: slog or zap")
}

// applyFlags copies explicitly set flags into cfg.
func applyFlags(cfg *Config, fs *pflag.FlagSet) error {
	var err error
	fs.Visit(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case flagAPIURL:
			cfg.APIURL, err = fs.GetString(f.Name)
		case flagDBPath:
			cfg.DBPath, err = fs.GetString(f.Name)
		case flagSyncInterval:
			cfg.SyncInterval, err = fs.GetDuration(f.Name)
		case flagRequestTimeout:
			cfg.RequestTimeout, err = fs.GetDuration(f.Name)
		case flagRateLimit:
			cfg.RateLimit, err = fs.GetFloat64(f.Name)
		case flagLogLevel:
			cfg.LogLevel, err = fs.GetString(f.Name)
		case flagLogBackend:
			cfg.LogBackend, err = fs.GetString(f.Name)
		}
	})
	return err
}
