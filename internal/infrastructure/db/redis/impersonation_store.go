package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/opsboard/gatekeeper/internal/core/domain"
)

// ImpersonationStore keeps one role override per session in Redis.
// Key format: impersonated_role:<session_id>
type ImpersonationStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewImpersonationStore creates a store whose keys expire with the session.
func NewImpersonationStore(client redis.Cmdable, ttl time.Duration) *ImpersonationStore {
	return &ImpersonationStore{client: client, ttl: ttl}
}

func (s *ImpersonationStore) Get(ctx context.Context, sessionID string) (domain.Role, bool, error) {
	v, err := s.client.Get(ctx, s.key(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("impersonation get: %w", err)
	}
	return domain.Role(v), true, nil
}

// Set replaces any existing override for the session.
func (s *ImpersonationStore) Set(ctx context.Context, sessionID string, role domain.Role) error {
	if err := s.client.Set(ctx, s.key(sessionID), string(role), s.ttl).Err(); err != nil {
		return fmt.Errorf("impersonation set: %w", err)
	}
	return nil
}

func (s *ImpersonationStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("impersonation clear: %w", err)
	}
	return nil
}

func (s *ImpersonationStore) key(sessionID string) string {
	return "impersonated_role:" + sessionID
}
