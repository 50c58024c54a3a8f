// Package config loads runtime configuration for the ScholarSphere CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Environment variables (see parseEnv), SCHOLARSPHERE_* names.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the REST backend
//	-t int      request timeout (seconds)
//	-d string   data directory for the local store
//
// # JSON schema
//
// Durations use timex.Duration, so values can be strings like "500ms" or
// integer nanoseconds:
//
//	{
//	  "server_base_url": "http://127.0.0.1:5000",
//	  "request_timeout": "10s",
//	  "username_check_delay": "500ms",
//	  "signup_state_ttl": "24h",
//	  "data_dir": ".scholarsphere",
//	  "log_backend": "slog"
//	}
//
// Invalid JSON, environment values or flags panic; the CLI cannot start with
// a half-applied configuration.
package config
