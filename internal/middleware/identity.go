package middleware

// identity.go defines helpers shared across middleware files.  The rate
// limiter and the cache key requests per caller: authenticated requests
// are keyed by the username injected by JWTAuth, everything else falls
// back to the client IP.

import "github.com/labstack/echo/v4"

// callerID returns the authenticated username from context, or the
// client IP for guests.
func callerID(c echo.Context) string {
    if v, ok := c.Get("username").(string); ok && v != "" {
        return v
    }
    return c.RealIP()
}
