package domain

import (
	"strings"
	"time"
)

// Page identifies a routable dashboard view.
type Page string

const (
	PageHome        Page = "Home"
	PageLogin       Page = "Login"
	PagePricing     Page = "Pricing"
	PageLegalNotice Page = "LegalNotice"

	PageUserDashboard       Page = "UserDashboard"
	PageTechnicianDashboard Page = "TechnicianDashboard"
	PageDeveloperDashboard  Page = "DeveloperDashboard"
	PageAdminDashboard      Page = "AdminDashboard"
)

var dashboards = map[Role]Page{
	RoleUser:       PageUserDashboard,
	RoleTechnician: PageTechnicianDashboard,
	RoleDeveloper:  PageDeveloperDashboard,
	RoleAdmin:      PageAdminDashboard,
}

// Dashboard returns the landing dashboard for r. Unknown roles land on the
// user dashboard.
func Dashboard(r Role) Page {
	if p, ok := dashboards[r]; ok {
		return p
	}
	return PageUserDashboard
}

// PublicPages is the default allow-list of pages exempt from forced
// redirection of anonymous visitors.
func PublicPages() []Page {
	return []Page{PageHome, PageLogin, PagePricing, PageLegalNotice}
}

// AlwaysPublicPages are utility pages that stay in place even for
// authenticated visitors.
func AlwaysPublicPages() []Page {
	return []Page{PagePricing, PageLegalNotice}
}

// URL returns the path a client navigates to for p.
func (p Page) URL() string {
	if p == PageHome {
		return "/"
	}
	return "/" + string(p)
}

var knownPages = func() map[string]Page {
	m := make(map[string]Page)
	for _, p := range []Page{
		PageHome, PageLogin, PagePricing, PageLegalNotice,
		PageUserDashboard, PageTechnicianDashboard, PageDeveloperDashboard, PageAdminDashboard,
	} {
		m[strings.ToLower(string(p))] = p
	}
	return m
}()

// PageFromPath extracts the page identifier from the first path segment.
// The root path yields PageHome. Known pages match case-insensitively.
func PageFromPath(path string) Page {
	trimmed := strings.Trim(stripQuery(path), "/")
	if trimmed == "" {
		return PageHome
	}
	if i := strings.IndexByte(trimmed, '/'); i >= 0 {
		trimmed = trimmed[:i]
	}
	if p, ok := knownPages[strings.ToLower(trimmed)]; ok {
		return p
	}
	return Page(trimmed)
}

// IsRootPath reports whether path addresses the site root.
func IsRootPath(path string) bool {
	p := stripQuery(path)
	return p == "" || p == "/"
}

func stripQuery(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		return path[:i]
	}
	return path
}

// RedirectKind is the outcome of a page-entry evaluation.
type RedirectKind string

const (
	RenderInPlace           RedirectKind = "render-in-place"
	RedirectToRoleDashboard RedirectKind = "redirect-to-role-dashboard"
	RedirectToPublicHome    RedirectKind = "redirect-to-public-home"
)

// RedirectDecision is computed once per page mount and never persisted.
type RedirectDecision struct {
	Kind   RedirectKind
	Target Page
	// Delay is a hint so the client can paint its loading state first.
	Delay time.Duration
	// Replayed is set when a mount is asked again after it already settled;
	// callers must not navigate on a replayed decision.
	Replayed bool
}

// Redirecting reports whether the client should hold a loading state and
// navigate to Target.
func (d RedirectDecision) Redirecting() bool {
	return d.Kind != RenderInPlace
}
