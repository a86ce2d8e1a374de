package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/salesdesk/crm-api/internal/core/domain"
	"github.com/salesdesk/crm-api/internal/core/ports"
	"github.com/salesdesk/crm-api/internal/pkg/metrics"
)

type auditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

// NewAuditService returns an AuditService that persists events to repo.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, log: log}
}

// Record persists a single audit event.
func (s *auditService) Record(ctx context.Context, event domain.AuditEvent) error {
	start := time.Now()
	defer func() {
		metrics.AuditProcessingDuration.Observe(time.Since(start).Seconds())
	}()

	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}
	if err := s.repo.Insert(ctx, &event); err != nil {
		metrics.AuditEventsTotal.WithLabelValues("failed").Inc()
		return fmt.Errorf("record audit event: %w", err)
	}

	metrics.AuditEventsTotal.WithLabelValues("persisted").Inc()
	s.log.Debug().
		Str("actor_id", event.ActorID).
		Str("action", event.Action).
		Str("resource", event.Resource).
		Str("record_id", event.RecordID).
		Msg("audit event persisted")
	return nil
}
