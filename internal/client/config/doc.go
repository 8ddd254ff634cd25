// Package config loads runtime configuration for the journal client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJSON) selected via -c or --config.
//  3. JOURNAL_* environment variables (see parseEnv).
//  4. Command-line flags the user set explicitly (see applyFlags).
//
// Supported flags
//
//	-c, --config string          JSON config file
//	-a, --api string             base URL of the journal API
//	    --db string              local session database
//	-i, --sync-interval duration session change polling interval
//	    --timeout duration       per-request timeout (0 = none)
//	    --rate-limit float       max requests per second (0 = unlimited)
//	    --log-level string       debug, info, warn, error
//	    --log-backend string     slog or zap
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "3s" or integer nanoseconds:
//
//	{
//	  "api_url": "http://localhost:3000/api",
//	  "db_path": "journal.db",
//	  "sync_interval": "1s",
//	  "request_timeout": "10s",
//	  "rate_limit": 5,
//	  "log_level": "info",
//	  "log_backend": "slog"
//	}
//
// Environment variables use the same names upper-cased with a JOURNAL_
// prefix, e.g. JOURNAL_API_URL.
package config
