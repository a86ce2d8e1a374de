package service

import (
	"context"
	"errors"
	"testing"

	"github.com/salesdesk/crm-api/internal/core/domain"
)

type stubAuditRepo struct {
	events []domain.AuditEvent
	err    error
}

func (r *stubAuditRepo) Insert(_ context.Context, e *domain.AuditEvent) error {
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, *e)
	return nil
}

func TestAuditService_Record(t *testing.T) {
	repo := &stubAuditRepo{}
	svc := NewAuditService(repo, discardLogger)

	err := svc.Record(context.Background(), domain.AuditEvent{ActorID: "u1", Action: "create", Resource: "leads", RecordID: "l1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.events) != 1 {
		t.Fatalf("expected one event, got %d", len(repo.events))
	}
	if repo.events[0].At.IsZero() {
		t.Fatal("timestamp should be defaulted")
	}
}

func TestAuditService_Record_KeepsTimestamp(t *testing.T) {
	repo := &stubAuditRepo{}
	svc := NewAuditService(repo, discardLogger)

	if err := svc.Record(context.Background(), domain.AuditEvent{RecordID: "l1", At: fixedNow}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !repo.events[0].At.Equal(fixedNow) {
		t.Fatalf("expected %v, got %v", fixedNow, repo.events[0].At)
	}
}

func TestAuditService_Record_StoreError(t *testing.T) {
	boom := errors.New("boom")
	svc := NewAuditService(&stubAuditRepo{err: boom}, discardLogger)

	if err := svc.Record(context.Background(), domain.AuditEvent{RecordID: "l1"}); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}
