package middleware

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/opsboard/gatekeeper/internal/core/domain"
)

func TestSession_ValidToken(t *testing.T) {
	f := newFixture(&domain.User{Email: "alice@example.com", Role: domain.RoleDeveloper})

	called := false
	rec := serve(f.bearer("s1", "alice@example.com"), func(c echo.Context) error {
		called = true
		s := SessionFrom(c)
		if s == nil || s.ID != "s1" || s.Email != "alice@example.com" {
			t.Fatalf("session not set: %+v", s)
		}
		res := ResolutionFrom(c)
		if res == nil || !res.Result(c.Request().Context()).OK() {
			t.Fatalf("expected resolvable identity")
		}
		return c.NoContent(http.StatusOK)
	}, Session(f.tokens, f.resolver))

	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestSession_AnonymousVariants(t *testing.T) {
	f := newFixture()
	headers := map[string]string{
		"missing header": "",
		"wrong scheme":   "Token abc",
		"garbage token":  "Bearer not-a-jwt",
		"empty bearer":   "Bearer ",
	}

	for name, header := range headers {
		t.Run(name, func(t *testing.T) {
			rec := serve(header, func(c echo.Context) error {
				if SessionFrom(c) != nil {
					t.Fatalf("expected no session")
				}
				if ResolutionFrom(c) == nil {
					t.Fatalf("expected a resolution even when anonymous")
				}
				if ResolutionFrom(c).Result(c.Request().Context()).OK() {
					t.Fatalf("expected unauthenticated resolution")
				}
				return c.NoContent(http.StatusOK)
			}, Session(f.tokens, f.resolver))

			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}
		})
	}
}
