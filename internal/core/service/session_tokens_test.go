package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/opsboard/gatekeeper/internal/core/domain"
)

func TestSessionTokens_RoundTrip(t *testing.T) {
	tokens := testTokens()
	raw, err := tokens.Issue(domain.Session{ID: "s1", Email: "a@example.com"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	s, err := tokens.Parse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if s.ID != "s1" || s.Email != "a@example.com" {
		t.Fatalf("unexpected session: %+v", s)
	}
}

func TestSessionTokens_Expired(t *testing.T) {
	tokens := testTokens()
	raw, _ := tokens.Issue(domain.Session{ID: "s1", Email: "a@example.com"})

	tokens.now = func() time.Time { return fixedNow.Add(2 * time.Hour) }
	if _, err := tokens.Parse(raw); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated for expired token, got %v", err)
	}
}

func TestSessionTokens_WrongSecret(t *testing.T) {
	raw, _ := testTokens().Issue(domain.Session{ID: "s1", Email: "a@example.com"})

	other := NewSessionTokens("another-secret", time.Hour)
	other.now = fixedClock
	if _, err := other.Parse(raw); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestSessionTokens_MissingSessionID(t *testing.T) {
	claims := jwt.MapClaims{
		"sub": "a@example.com",
		"exp": fixedNow.Add(time.Hour).Unix(),
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := testTokens().Parse(raw); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated without sid, got %v", err)
	}
}
