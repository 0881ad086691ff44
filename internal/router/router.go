package router // package router defines how HTTP routes are registered for the API

import (
    "github.com/labstack/echo/v4" // import the Echo web framework to handle routing
    "github.com/redis/go-redis/v9"

    "github.com/iliyamo/room-reservation/internal/config"
    "github.com/iliyamo/room-reservation/internal/handler"
    "github.com/iliyamo/room-reservation/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
    e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints under /api/auth.
// Both operations are unauthenticated; a successful register or login
// returns the bearer token used by /api/my-bookings.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
    g := e.Group("/api/auth")
    g.POST("/register", a.Register)
    g.POST("/login", a.Login)
}

// RegisterBooking registers the booking API.  The paths and bodies
// mirror the Express predecessor exactly so the existing web client
// keeps working.  Rate limiting applies to the whole group; the
// response cache only accelerates the GET list endpoints and every
// mutation flushes it, so a created booking is visible to the very
// next list request.  Only /api/my-bookings requires a token.
func RegisterBooking(e *echo.Echo, h *handler.BookingHandler, jwtSecret string, rdb *redis.Client) {
    g := e.Group("/api", middleware.RateLimit(config.LoadRateLimitConfig(), rdb))

    cacheCfg := config.LoadCacheConfig()
    flush := middleware.InvalidateCache(cacheCfg, rdb, "/api/bookings", "/api/my-bookings")

    g.POST("/check-availability", h.CheckAvailability)
    g.POST("/book", h.Book, flush)
    g.PUT("/book/:id", h.UpdateBook, flush)
    g.DELETE("/book/:id", h.CancelByID, flush)
    g.POST("/cancel-booking", h.CancelBooking, flush)

    cached := middleware.Cache(cacheCfg, rdb)
    g.GET("/bookings", h.ListBookings, cached)
    g.GET("/my-bookings", h.MyBookings, middleware.JWTAuth(jwtSecret), cached)
}
