package middleware

import (
    "context"
    "crypto/sha1"
    "encoding/hex"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/iliyamo/room-reservation/internal/config"
)

// Cache returns a middleware that serves successful GET responses from
// Redis for cfg.TTL.  The booking list endpoints are read far more
// often than bookings change, so a short TTL absorbs the web client's
// polling.  Only 200 responses up to cfg.MaxBodyBytes are stored.
// Writes flush the cached lists through InvalidateCache, so a booking
// that was just created shows up in the very next list request; the
// TTL only bounds staleness for entries a mutation missed.
func Cache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
    if !cfg.Enabled || rdb == nil {
        return func(next echo.HandlerFunc) echo.HandlerFunc {
            return func(c echo.Context) error { return next(c) }
        }
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if c.Request().Method != http.MethodGet {
                return next(c)
            }
            key := cacheKey(cfg.Prefix, c)

            ctx, cancel := context.WithTimeout(c.Request().Context(), 500*time.Millisecond)
            defer cancel()

            if body, err := rdb.Get(ctx, key).Bytes(); err == nil {
                c.Response().Header().Set("X-Cache", "HIT")
                return c.JSONBlob(http.StatusOK, body)
            }

            rec := newRecorder(c.Response().Writer, cfg.MaxBodyBytes)
            c.Response().Writer = rec
            if err := next(c); err != nil {
                return err
            }
            if rec.status == http.StatusOK && !rec.overflow {
                // Fresh context: the lookup context may have expired
                // while the handler ran.
                setCtx, setCancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
                defer setCancel()
                rdb.Set(setCtx, key, rec.body, cfg.TTL)
            }
            return nil
        }
    }
}

// InvalidateCache returns a middleware for mutating routes that deletes
// every cached entry of the given GET routes after the handler commits
// a 2xx response.  The key layout keeps the route in clear text exactly
// so this pattern delete can target one route's entries.
func InvalidateCache(cfg config.CacheConfig, rdb *redis.Client, routes ...string) echo.MiddlewareFunc {
    if !cfg.Enabled || rdb == nil {
        return func(next echo.HandlerFunc) echo.HandlerFunc {
            return func(c echo.Context) error { return next(c) }
        }
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if err := next(c); err != nil {
                return err
            }
            status := c.Response().Status
            if status < http.StatusOK || status >= http.StatusMultipleChoices {
                return nil
            }
            ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
            defer cancel()
            for _, route := range routes {
                iter := rdb.Scan(ctx, 0, routePattern(cfg.Prefix, route), 0).Iterator()
                for iter.Next(ctx) {
                    rdb.Del(ctx, iter.Val())
                }
            }
            return nil
        }
    }
}

// cacheKey keys an entry by route in clear text plus a hash of method,
// query string and caller, so users never see each other's cached
// my-bookings responses and mutations can flush a route wholesale.
func cacheKey(prefix string, c echo.Context) string {
    r := c.Request()
    sum := sha1.Sum([]byte(r.Method + "|" + r.URL.RawQuery + "|" + callerID(c)))
    return prefix + ":" + c.Path() + ":" + hex.EncodeToString(sum[:])
}

// routePattern is the Redis MATCH glob covering every cacheKey of one
// route.
func routePattern(prefix, route string) string {
    return prefix + ":" + route + ":*"
}

// recorder captures the response body while forwarding it to the client.
type recorder struct {
    http.ResponseWriter
    status   int
    body     []byte
    limit    int
    overflow bool
}

func newRecorder(w http.ResponseWriter, limit int) *recorder {
    return &recorder{ResponseWriter: w, status: http.StatusOK, limit: limit}
}

func (r *recorder) WriteHeader(code int) {
    r.status = code
    r.ResponseWriter.WriteHeader(code)
}

func (r *recorder) Write(b []byte) (int, error) {
    if !r.overflow {
        if len(r.body)+len(b) <= r.limit {
            r.body = append(r.body, b...)
        } else {
            r.overflow = true
            r.body = nil
        }
    }
    return r.ResponseWriter.Write(b)
}
