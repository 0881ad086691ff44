package middleware

import (
	"net/http"
	"net/http/httptest"
	"path"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/room-reservation/internal/config"
)

func listContext(t *testing.T, route, query, username string) echo.Context {
	t.Helper()
	e := echo.New()
	target := route
	if query != "" {
		target += "?" + query
	}
	req := httptest.NewRequest(http.MethodGet, target, nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath(route)
	if username != "" {
		c.Set("username", username)
	}
	return c
}

func TestCacheKey(t *testing.T) {
	t.Parallel()

	t.Run("keys keep the route addressable for invalidation", func(t *testing.T) {
		c := listContext(t, "/api/bookings", "", "")
		key := cacheKey("cache", c)

		if !strings.HasPrefix(key, "cache:/api/bookings:") {
			t.Fatalf("key %q does not expose its route", key)
		}
		ok, err := path.Match(routePattern("cache", "/api/bookings"), key)
		if err != nil || !ok {
			t.Fatalf("flush pattern must match key %q, got ok=%v err=%v", key, ok, err)
		}
	})

	t.Run("a flush of one route leaves other routes alone", func(t *testing.T) {
		key := cacheKey("cache", listContext(t, "/api/my-bookings", "", "budi"))

		if ok, _ := path.Match(routePattern("cache", "/api/bookings"), key); ok {
			t.Fatalf("bookings pattern must not match my-bookings key %q", key)
		}
	})

	t.Run("distinct callers never share an entry", func(t *testing.T) {
		a := cacheKey("cache", listContext(t, "/api/my-bookings", "", "budi"))
		b := cacheKey("cache", listContext(t, "/api/my-bookings", "", "sari"))
		if a == b {
			t.Fatalf("callers share cache key %q", a)
		}
	})

	t.Run("the query string is part of the key", func(t *testing.T) {
		a := cacheKey("cache", listContext(t, "/api/bookings", "", ""))
		b := cacheKey("cache", listContext(t, "/api/bookings", "page=2", ""))
		if a == b {
			t.Fatalf("queries share cache key %q", a)
		}
	})
}

func TestCacheDisabledPassThrough(t *testing.T) {
	t.Parallel()

	called := false
	next := func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	}
	c := listContext(t, "/api/bookings", "", "")

	if err := Cache(config.CacheConfig{Enabled: false}, nil)(next)(c); err != nil {
		t.Fatalf("cache middleware errored: %v", err)
	}
	if !called {
		t.Fatal("disabled cache must pass the request through")
	}

	called = false
	if err := InvalidateCache(config.CacheConfig{Enabled: true}, nil, "/api/bookings")(next)(c); err != nil {
		t.Fatalf("invalidate middleware errored: %v", err)
	}
	if !called {
		t.Fatal("invalidation without redis must pass the request through")
	}
}
