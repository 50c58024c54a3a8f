package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/scholarsphere/internal/flagx"
	"github.com/dmitrijs2005/scholarsphere/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Absent keys
// leave the corresponding Config field untouched.
type JsonConfig struct {
	ServerBaseURL      *string         `json:"server_base_url"`
	RequestTimeout     *timex.Duration `json:"request_timeout"`
	UsernameCheckDelay *timex.Duration `json:"username_check_delay"`
	SignupStateTTL     *timex.Duration `json:"signup_state_ttl"`
	DataDir            *string         `json:"data_dir"`
	LogBackend         *string         `json:"log_backend"`
}

// parseJson overlays cfg with the JSON file named by -c/-config in args.
// Without such a flag it does nothing. Read or decode errors panic.
func parseJson(cfg *Config, args []string) {
	path := flagx.ConfigPath(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerBaseURL != nil {
		cfg.ServerBaseURL = *jc.ServerBaseURL
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.UsernameCheckDelay != nil {
		cfg.UsernameCheckDelay = jc.UsernameCheckDelay.Duration
	}
	if jc.SignupStateTTL != nil {
		cfg.SignupStateTTL = jc.SignupStateTTL.Duration
	}
	if jc.DataDir != nil {
		cfg.DataDir = *jc.DataDir
	}
	if jc.LogBackend != nil {
		cfg.LogBackend = *jc.LogBackend
	}
}
