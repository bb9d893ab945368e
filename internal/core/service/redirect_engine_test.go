package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/opsboard/gatekeeper/internal/core/domain"
)

type redirectFixture struct {
	users    *stubUserRepo
	store    *stubImpersonationStore
	resolver *IdentityResolver
	engine   *RedirectEngine
}

func newRedirectFixture(cfg RedirectConfig, users ...*domain.User) *redirectFixture {
	f := &redirectFixture{users: newStubUserRepo(users...), store: newStubImpersonationStore()}
	f.resolver = NewIdentityResolver(f.users, PolicyFailClosed, zerolog.Nop())
	f.engine = NewRedirectEngine(NewAccessGate(f.store, zerolog.Nop()), cfg, zerolog.Nop())
	return f
}

func (f *redirectFixture) evaluate(session *domain.Session, path string) domain.RedirectDecision {
	return f.engine.Mount(f.resolver.Begin(session), path).Evaluate(context.Background())
}

func TestRedirectEngine_Decisions(t *testing.T) {
	dev := &domain.User{Email: "dev@example.com", Role: domain.RoleDeveloper}
	devSession := sessionPtr("s1", "dev@example.com")

	cases := []struct {
		name       string
		session    *domain.Session
		path       string
		wantKind   domain.RedirectKind
		wantTarget domain.Page
	}{
		{"authenticated on home", devSession, "/", domain.RedirectToRoleDashboard, domain.PageDeveloperDashboard},
		{"authenticated on login", devSession, "/Login", domain.RedirectToRoleDashboard, domain.PageDeveloperDashboard},
		{"authenticated on pricing", devSession, "/Pricing", domain.RenderInPlace, domain.PagePricing},
		{"authenticated on legal notice", devSession, "/LegalNotice", domain.RenderInPlace, domain.PageLegalNotice},
		{"authenticated on private page", devSession, "/DeveloperDashboard", domain.RenderInPlace, domain.PageDeveloperDashboard},
		{"anonymous on private page", nil, "/AdminDashboard", domain.RedirectToPublicHome, domain.PageHome},
		{"anonymous on pricing", nil, "/Pricing", domain.RenderInPlace, domain.PagePricing},
		{"anonymous on home", nil, "/", domain.RenderInPlace, domain.PageHome},
		{"anonymous on root with query", nil, "/?utm=x", domain.RenderInPlace, domain.PageHome},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newRedirectFixture(DefaultRedirectConfig(), dev)
			d := f.evaluate(tc.session, tc.path)
			if d.Kind != tc.wantKind || d.Target != tc.wantTarget {
				t.Fatalf("expected %s -> %s, got %s -> %s", tc.wantKind, tc.wantTarget, d.Kind, d.Target)
			}
			if d.Replayed {
				t.Fatalf("first evaluation must not be a replay")
			}
		})
	}
}

func TestRedirectEngine_OverrideChoosesDashboard(t *testing.T) {
	f := newRedirectFixture(DefaultRedirectConfig(), &domain.User{Email: "u@example.com", Role: domain.RoleUser})
	f.store.roles["s1"] = domain.RoleAdmin

	d := f.evaluate(sessionPtr("s1", "u@example.com"), "/")
	if d.Kind != domain.RedirectToRoleDashboard || d.Target != domain.PageAdminDashboard {
		t.Fatalf("expected admin dashboard via override, got %+v", d)
	}
}

func TestRedirectEngine_LookupErrorIsUnauthenticated(t *testing.T) {
	f := newRedirectFixture(DefaultRedirectConfig())
	f.users.err = errors.New("timeout")

	d := f.evaluate(sessionPtr("s1", "a@example.com"), "/UserDashboard")
	if d.Kind != domain.RedirectToPublicHome {
		t.Fatalf("expected redirect home on lookup failure, got %+v", d)
	}
}

func TestRedirectEngine_DelayHint(t *testing.T) {
	cfg := DefaultRedirectConfig()
	cfg.Delay = 150 * time.Millisecond
	f := newRedirectFixture(cfg)

	if d := f.evaluate(nil, "/AdminDashboard"); d.Delay != 150*time.Millisecond {
		t.Fatalf("expected delay hint on redirect, got %v", d.Delay)
	}
	if d := f.evaluate(nil, "/Pricing"); d.Delay != 0 {
		t.Fatalf("expected no delay when rendering in place, got %v", d.Delay)
	}
}

func TestMount_EvaluatesOnce(t *testing.T) {
	f := newRedirectFixture(DefaultRedirectConfig(), &domain.User{Email: "a@example.com", Role: domain.RoleAdmin})
	m := f.engine.Mount(f.resolver.Begin(sessionPtr("s1", "a@example.com")), "/")

	if m.State() != MountIdle {
		t.Fatalf("expected idle mount, got %s", m.State())
	}

	first := m.Evaluate(context.Background())
	if m.State() != MountDone {
		t.Fatalf("expected done mount, got %s", m.State())
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			again := m.Evaluate(context.Background())
			if !again.Replayed || again.Kind != first.Kind || again.Target != first.Target {
				t.Errorf("expected replay of %+v, got %+v", first, again)
			}
		}()
	}
	wg.Wait()

	if f.users.callCount() != 1 {
		t.Fatalf("expected a single identity lookup, got %d", f.users.callCount())
	}
	if f.store.reads != 1 {
		t.Fatalf("expected a single override read, got %d", f.store.reads)
	}
}
