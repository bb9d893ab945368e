package ports

import (
	"context"

	"github.com/opsboard/gatekeeper/internal/core/domain"
)

// AuditRecorder accepts audit events without blocking the caller.
type AuditRecorder interface {
	Record(event domain.AuditEvent)
}

// AuditSink delivers a single audit event to its final destination.
type AuditSink interface {
	Deliver(ctx context.Context, event domain.AuditEvent) error
}
