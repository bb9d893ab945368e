package ports

import (
	"context"

	"github.com/opsboard/gatekeeper/internal/core/domain"
)

// ImpersonationStore holds at most one role override per session.
type ImpersonationStore interface {
	// Get returns the override for sessionID; ok is false when none is set.
	Get(ctx context.Context, sessionID string) (role domain.Role, ok bool, err error)
	Set(ctx context.Context, sessionID string, role domain.Role) error
	Clear(ctx context.Context, sessionID string) error
}
