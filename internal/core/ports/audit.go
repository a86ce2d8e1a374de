package ports

import (
	"context"

	"github.com/salesdesk/crm-api/internal/core/domain"
)

// AuditRepository persists audit events.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuditEvent) error
}

// AuditSink accepts audit events for asynchronous persistence. Enqueue must
// not block the request path.
type AuditSink interface {
	Enqueue(event domain.AuditEvent)
}

// AuditService processes a single dequeued audit event.
type AuditService interface {
	Record(ctx context.Context, event domain.AuditEvent) error
}
