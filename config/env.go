package config

import (
	"strconv"
	"time"
)

// Environment overrides, applied after the config file
const (
	EnvLogLevel   = "TERMSENSE_LOG_LEVEL"
	EnvLogFile    = "TERMSENSE_LOG_FILE"
	EnvBaseDelay  = "TERMSENSE_BASE_DELAY"
	EnvMaxStage   = "TERMSENSE_MAX_STAGE"
	EnvStaleAfter = "TERMSENSE_STALE_AFTER"
)

// LookupFunc matches os.LookupEnv
type LookupFunc func(key string) (string, bool)

// ApplyEnv overrides cfg from the environment; unparsable values are ignored
func ApplyEnv(cfg *Config, lookup LookupFunc) {
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		cfg.Log.Level = v
	}
	if v, ok := lookup(EnvLogFile); ok && v != "" {
		cfg.Log.File = v
	}
	if v, ok := lookup(EnvBaseDelay); ok {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Resolver.BaseDelay.Duration = d
		}
	}
	if v, ok := lookup(EnvMaxStage); ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Resolver.MaxStage = n
		}
	}
	if v, ok := lookup(EnvStaleAfter); ok {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Requests.StaleAfter.Duration = d
		}
	}
}
