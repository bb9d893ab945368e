package ports

import (
	"context"

	"github.com/opsboard/gatekeeper/internal/core/domain"
)

// CredentialRepository defines persistence for login credentials. Credentials
// are provisioned elsewhere; the login flow only reads them and applies
// partial login updates.
type CredentialRepository interface {
	// FindActiveByUsername returns the active credential for username or
	// domain.ErrCredentialNotFound.
	FindActiveByUsername(ctx context.Context, username string) (*domain.Credential, error)
	// RecordLogin applies a partial update of last_login, login_attempts and
	// locked_until to the credential with the given id.
	RecordLogin(ctx context.Context, id string, update domain.LoginUpdate) error
}

// UserRepository is the identity lookup backing "who am I".
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}
