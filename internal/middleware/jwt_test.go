package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/room-reservation/internal/utils"
)

const testSecret = "local-test-secret"

func runGuarded(t *testing.T, authHeader string) (*httptest.ResponseRecorder, *string) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/my-bookings", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seenUsername *string
	next := func(c echo.Context) error {
		if u, ok := c.Get("username").(string); ok {
			seenUsername = &u
		}
		return c.NoContent(http.StatusOK)
	}
	if err := JWTAuth(testSecret)(next)(c); err != nil {
		t.Fatalf("middleware returned error: %v", err)
	}
	return rec, seenUsername
}

func TestJWTAuth(t *testing.T) {
	t.Parallel()

	t.Run("missing header is rejected", func(t *testing.T) {
		rec, _ := runGuarded(t, "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		rec, _ := runGuarded(t, "Bearer not-a-jwt")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("token signed with another secret is rejected", func(t *testing.T) {
		tok, err := utils.NewAccessToken("other-secret", 1, "budi", 5)
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		rec, _ := runGuarded(t, "Bearer "+tok.Token)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("valid token passes and exposes the username", func(t *testing.T) {
		tok, err := utils.NewAccessToken(testSecret, 1, "budi", 5)
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		rec, username := runGuarded(t, "Bearer "+tok.Token)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if username == nil || *username != "budi" {
			t.Fatalf("expected username claim in context, got %v", username)
		}
	})
}
