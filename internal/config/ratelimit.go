package config

import "time"

// RateLimitConfig drives the fixed-window request limiter.  Each client
// (IP or authenticated username) may send Limit requests per Window;
// further requests get 429 until the window rolls over.
type RateLimitConfig struct {
    Enabled bool
    Limit   int
    Window  time.Duration
    Prefix  string
}

// LoadRateLimitConfig reads environment variables with sane defaults.
func LoadRateLimitConfig() RateLimitConfig {
    cfg := RateLimitConfig{
        Enabled: getenv("RATE_LIMIT_ENABLED", "true") == "true",
        Limit:   atoi(getenv("RATE_LIMIT_REQUESTS", "60")),
        Window:  parseDur(getenv("RATE_LIMIT_WINDOW", "1m")),
        Prefix:  getenv("RATE_LIMIT_PREFIX", "rl"),
    }
    if cfg.Limit < 1 {
        cfg.Limit = 1
    }
    // The limiter derives its window bucket from whole seconds.
    if cfg.Window < time.Second {
        cfg.Window = time.Minute
    }
    return cfg
}
