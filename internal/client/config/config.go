package config

import (
	"os"
	"time"
)

// Config holds runtime settings for the ScholarSphere CLI.
//
// Fields:
//   - ServerBaseURL: scheme://host:port of the REST backend (the /api prefix is added by the client).
//   - RequestTimeout: per-request HTTP timeout.
//   - UsernameCheckDelay: debounce window of the username availability probe.
//   - SignupStateTTL: how long an unfinished signup keeps its faculty linkage.
//   - DataDir: directory holding the local sqlite store.
//   - LogBackend: "slog" or "zap".
type Config struct {
	ServerBaseURL      string        `env:"SCHOLARSPHERE_SERVER_URL"`
	RequestTimeout     time.Duration `env:"SCHOLARSPHERE_REQUEST_TIMEOUT"`
	UsernameCheckDelay time.Duration `env:"SCHOLARSPHERE_USERNAME_CHECK_DELAY"`
	SignupStateTTL     time.Duration `env:"SCHOLARSPHERE_SIGNUP_STATE_TTL"`
	DataDir            string        `env:"SCHOLARSPHERE_DATA_DIR"`
	LogBackend         string        `env:"SCHOLARSPHERE_LOG_BACKEND"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:5000"
	c.RequestTimeout = 10 * time.Second
	c.UsernameCheckDelay = 500 * time.Millisecond
	c.SignupStateTTL = 24 * time.Hour
	c.DataDir = ".scholarsphere"
	c.LogBackend = "slog"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment and command-line flags. Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, os.Args[1:])
	parseEnv(cfg)
	parseFlags(cfg, os.Args[1:])
	return cfg
}
