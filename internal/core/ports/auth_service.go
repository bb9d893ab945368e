package ports

import (
	"context"

	"github.com/opsboard/gatekeeper/internal/core/domain"
)

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token      string
	Session    domain.Session
	Credential *domain.Credential
	Dashboard  domain.Page
}

type AuthService interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	Logout(ctx context.Context, session domain.Session) error
}

// ImpersonationService lets an admin pick the role their session acts as.
type ImpersonationService interface {
	Start(ctx context.Context, actor *domain.Identity, session domain.Session, role domain.Role) (domain.RoleContext, error)
	Stop(ctx context.Context, actor *domain.Identity, session domain.Session) (domain.RoleContext, error)
}
