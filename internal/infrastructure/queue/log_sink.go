package queue

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/opsboard/gatekeeper/internal/core/domain"
)

// LogSink writes audit events to the structured log. It is used when no
// broker is configured.
type LogSink struct {
	log zerolog.Logger
}

func NewLogSink(log zerolog.Logger) *LogSink {
	return &LogSink{log: log.With().Str("component", "audit").Logger()}
}

func (s *LogSink) Deliver(_ context.Context, event domain.AuditEvent) error {
	s.log.Info().
		Str("action", string(event.Action)).
		Str("actor", event.Actor).
		Str("session_id", event.SessionID).
		Str("role", string(event.Role)).
		Str("reason", event.Reason).
		Time("occurred_at", event.OccurredAt).
		Msg("audit")
	return nil
}
