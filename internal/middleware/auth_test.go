package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/campusbook/room-booking/internal/utils"
)

func okHandler(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func request(t *testing.T, mw echo.MiddlewareFunc, authHeader string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := mw(okHandler)(c); err != nil {
		t.Fatalf("middleware returned error: %v", err)
	}
	return rec
}

func TestJWTAuth(t *testing.T) {
	const secret = "unit-test-secret"

	t.Run("valid token passes and exposes claims", func(t *testing.T) {
		at, err := utils.NewAccessToken(secret, 9, "USER", 3, 5)
		if err != nil {
			t.Fatalf("issue token: %v", err)
		}

		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+at.Token)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		var gotRole interface{}
		inspectClaims := func(c echo.Context) error {
			gotRole = c.Get("role")
			return c.String(http.StatusOK, "ok")
		}
		if err := JWTAuth(secret)(inspectClaims)(c); err != nil {
			t.Fatalf("middleware: %v", err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotRole != "USER" {
			t.Fatalf("expected role claim USER, got %v", gotRole)
		}
	})

	t.Run("missing header is rejected", func(t *testing.T) {
		rec := request(t, JWTAuth(secret), "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("wrong secret is rejected", func(t *testing.T) {
		at, err := utils.NewAccessToken("other-secret", 9, "USER", 3, 5)
		if err != nil {
			t.Fatalf("issue token: %v", err)
		}
		rec := request(t, JWTAuth(secret), "Bearer "+at.Token)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		rec := request(t, JWTAuth(secret), "Bearer not.a.jwt")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}

func TestRequireRole(t *testing.T) {
	run := func(t *testing.T, role interface{}, mw echo.MiddlewareFunc) *httptest.ResponseRecorder {
		t.Helper()
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if role != nil {
			c.Set("role", role)
		}
		if err := mw(okHandler)(c); err != nil {
			t.Fatalf("middleware: %v", err)
		}
		return rec
	}

	t.Run("allowed role passes", func(t *testing.T) {
		rec := run(t, "ADMIN", RequireRole("ADMIN"))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("other role is forbidden", func(t *testing.T) {
		rec := run(t, "USER", RequireRole("ADMIN"))
		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
	})

	t.Run("missing role is forbidden", func(t *testing.T) {
		rec := run(t, nil, RequireRole("USER", "ADMIN"))
		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
	})
}
