package middleware

import (
    "context"
    "fmt"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/iliyamo/room-reservation/internal/config"
)

// RateLimit returns a fixed-window request limiter backed by Redis.
// Each caller gets cfg.Limit requests per cfg.Window per route; the
// counter lives in a Redis key that expires with the window, so the
// limit holds across server instances.  When rate limiting is disabled
// or Redis is unavailable the middleware is a pass-through: losing the
// limiter must never take the API down with it.
func RateLimit(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
    if !cfg.Enabled || rdb == nil {
        return func(next echo.HandlerFunc) echo.HandlerFunc {
            return func(c echo.Context) error { return next(c) }
        }
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            window := time.Now().Unix() / int64(cfg.Window/time.Second)
            key := fmt.Sprintf("%s:%s:%s:%d", cfg.Prefix, callerID(c), c.Path(), window)

            ctx, cancel := context.WithTimeout(c.Request().Context(), 500*time.Millisecond)
            defer cancel()

            n, err := rdb.Incr(ctx, key).Result()
            if err != nil {
                // Redis trouble: let the request through.
                return next(c)
            }
            if n == 1 {
                rdb.Expire(ctx, key, cfg.Window)
            }
            if n > int64(cfg.Limit) {
                retry := cfg.Window - time.Duration(time.Now().Unix()%int64(cfg.Window/time.Second))*time.Second
                c.Response().Header().Set("Retry-After", strconv.Itoa(int(retry/time.Second)))
                return c.JSON(http.StatusTooManyRequests, echo.Map{"message": "too many requests"})
            }
            return next(c)
        }
    }
}
