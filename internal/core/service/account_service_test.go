package service

import (
	"context"
	"errors"
	"testing"

	"github.com/salesdesk/crm-api/internal/core/domain"
	"github.com/salesdesk/crm-api/internal/core/ports"
)

func TestAccountService_CreateAndScope(t *testing.T) {
	repo := newStubAccountRepo()
	svc := NewAccountService(repo, &stubAuditSink{}, nil, discardLogger)
	svc.now = fixedClock

	res, err := svc.Create(context.Background(), salesExec, &domain.Account{Name: "Globex"}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Record.Type != domain.DefaultAccountType || res.Record.Status != domain.DefaultAccountStatus {
		t.Fatalf("unexpected defaults: %+v", res.Record)
	}

	repo.put(&domain.Account{ID: "acc-2", Name: "Initech", AssignedTo: "u2", Type: "Partner", Status: "Active"})

	page, err := svc.List(context.Background(), salesExec, ports.AccountFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Total != 1 || page.Items[0].Name != "Globex" {
		t.Fatalf("expected only own account, got %+v", page.Items)
	}

	if _, err := svc.Get(context.Background(), salesExec, "acc-2"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestAccountService_Validation(t *testing.T) {
	svc := NewAccountService(newStubAccountRepo(), nil, nil, discardLogger)

	_, err := svc.Create(context.Background(), manager, &domain.Account{Name: "Globex", Type: "Vendor"}, "")
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
