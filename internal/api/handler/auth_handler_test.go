package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/opsboard/gatekeeper/internal/core/domain"
	"github.com/opsboard/gatekeeper/internal/core/ports"
)

func TestAuthHandler_Login_Success(t *testing.T) {
	a := newApp()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, username, password string) (*ports.LoginResult, error) {
			if username != "alice" || password != "s3cret" {
				t.Fatalf("unexpected args: %s %s", username, password)
			}
			return &ports.LoginResult{
				Token:      "tok",
				Session:    domain.Session{ID: "s1", Email: "alice@example.com"},
				Credential: &domain.Credential{ID: "c1", Username: "alice", Role: domain.RoleTechnician, PasswordHash: "$2a$hash"},
				Dashboard:  domain.PageTechnicianDashboard,
			}, nil
		},
	}
	h := NewAuthHandler(stub)

	rec := a.do(http.MethodPost, "/auth/login", `{"username":"alice","password":"s3cret"}`, "", h.Login)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "tok" || resp["session_id"] != "s1" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if resp["dashboard"] != "TechnicianDashboard" || resp["dashboard_url"] != "/TechnicianDashboard" {
		t.Fatalf("unexpected dashboard: %+v", resp)
	}
	cred, ok := resp["credential"].(map[string]any)
	if !ok {
		t.Fatalf("expected credential in response")
	}
	if _, leaked := cred["password_hash"]; leaked {
		t.Fatalf("password hash must not be serialised")
	}
	if _, leaked := cred["PasswordHash"]; leaked {
		t.Fatalf("password hash must not be serialised")
	}
}

func TestAuthHandler_Login_Errors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"missing fields", domain.ErrMissingFields, http.StatusBadRequest},
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{"locked", domain.ErrAccountLocked, http.StatusLocked},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := newApp()
			h := NewAuthHandler(&stubAuthService{
				loginFn: func(context.Context, string, string) (*ports.LoginResult, error) { return nil, tc.err },
			})
			rec := a.do(http.MethodPost, "/auth/login", `{"username":"bob","password":"x"}`, "", h.Login)
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, rec.Code)
			}
		})
	}
}

func TestAuthHandler_Login_InvalidPayload(t *testing.T) {
	a := newApp()
	h := NewAuthHandler(&stubAuthService{
		loginFn: func(context.Context, string, string) (*ports.LoginResult, error) {
			t.Fatalf("service should not be called")
			return nil, nil
		},
	})
	rec := a.do(http.MethodPost, "/auth/login", `{"username":`, "", h.Login)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	a := newApp()
	var got domain.Session
	h := NewAuthHandler(&stubAuthService{
		logoutFn: func(_ context.Context, s domain.Session) error {
			got = s
			return nil
		},
	})

	rec := a.do(http.MethodPost, "/auth/logout", "", a.bearer("s1", "alice@example.com"), h.Logout)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if got.ID != "s1" {
		t.Fatalf("expected logout for s1, got %+v", got)
	}

	rec = a.do(http.MethodPost, "/auth/logout", "", "", h.Logout)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a session, got %d", rec.Code)
	}
}
