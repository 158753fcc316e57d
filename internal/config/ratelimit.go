package config

import (
	"os"
	"strconv"
	"time"
)

// RateLimitConfig controls the fixed-window limiter applied to every
// authenticated request. The window length is fixed at one minute; only
// the threshold and the failure policy vary between deployments.
type RateLimitConfig struct {
	Enabled   bool          // disable entirely (tests, local dev)
	Threshold int           // max requests per credential per window
	Window    time.Duration // window length; buckets are floor(now/Window)
	FailOpen  bool          // on limiter infrastructure failure: true = let the request through
	Prefix    string        // key namespace, e.g. "rate"
}

// LoadRateLimitConfig reads limiter settings from the environment,
// falling back to defaults that match the production deployment
// (100 requests per credential per minute, fail-open).
func LoadRateLimitConfig() RateLimitConfig {
	cfg := RateLimitConfig{
		Enabled:   envBool("RATE_LIMIT_ENABLED", true),
		Threshold: envInt("RATE_LIMIT_THRESHOLD", 100),
		Window:    envDur("RATE_LIMIT_WINDOW", time.Minute),
		FailOpen:  envBool("RATE_LIMIT_FAIL_OPEN", true),
		Prefix:    envStr("RATE_LIMIT_PREFIX", "rate"),
	}
	if cfg.Threshold < 1 {
		cfg.Threshold = 1
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	return cfg
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	switch v {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}
