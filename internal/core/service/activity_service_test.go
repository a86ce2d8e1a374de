package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/salesdesk/crm-api/internal/core/domain"
	"github.com/salesdesk/crm-api/internal/core/ports"
)

func newActivityFixture() (*ActivityService, *stubActivityRepo) {
	repo := newStubActivityRepo()
	svc := NewActivityService(repo, &stubAuditSink{}, nil, discardLogger)
	svc.now = fixedClock
	return svc, repo
}

func TestActivityService_Create_Defaults(t *testing.T) {
	svc, _ := newActivityFixture()

	res, err := svc.Create(context.Background(), marketing, &domain.Activity{
		Type:    "Call",
		Title:   "Intro call",
		DueDate: fixedNow.Add(time.Hour),
	}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	a := res.Record
	if a.Status != domain.ActivityPending || a.Priority != domain.DefaultActivityPriority || a.RelatedTo != domain.DefaultActivityRelatedTo {
		t.Fatalf("unexpected defaults: %+v", a)
	}
	if a.AssignedTo != "mk-1" {
		t.Fatalf("expected owner mk-1, got %q", a.AssignedTo)
	}
}

func TestActivityService_Create_RejectsUnknownType(t *testing.T) {
	svc, _ := newActivityFixture()

	_, err := svc.Create(context.Background(), manager, &domain.Activity{Type: "Lunch", Title: "x", DueDate: fixedNow}, "")
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestActivityService_UpcomingReminders(t *testing.T) {
	svc, repo := newActivityFixture()
	past := fixedNow.Add(-time.Hour)
	future := fixedNow.Add(time.Hour)

	repo.put(&domain.Activity{ID: "a1", AssignedTo: "u1", Status: domain.ActivityPending, Reminder: domain.Reminder{Enabled: true, ReminderDate: &past}})
	repo.put(&domain.Activity{ID: "a2", AssignedTo: "u1", Status: domain.ActivityPending, Reminder: domain.Reminder{Enabled: true, ReminderDate: &future}})
	repo.put(&domain.Activity{ID: "a3", AssignedTo: "u1", Status: domain.ActivityCompleted, Reminder: domain.Reminder{Enabled: true, ReminderDate: &past}})
	repo.put(&domain.Activity{ID: "a4", AssignedTo: "u2", Status: domain.ActivityInProgress, Reminder: domain.Reminder{Enabled: true, ReminderDate: &past}})

	got, err := svc.UpcomingReminders(context.Background(), salesExec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "a1" {
		t.Fatalf("expected only a1, got %+v", got)
	}
	if repo.lastScope.AssignedTo != "u1" {
		t.Fatalf("expected scope u1, got %+v", repo.lastScope)
	}

	all, err := svc.UpcomingReminders(context.Background(), manager)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected a1 and a4 for manager, got %d", len(all))
	}
}

func TestActivityService_List_CustomerForbidden(t *testing.T) {
	svc, _ := newActivityFixture()
	if _, err := svc.List(context.Background(), customer, ports.ActivityFilter{}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestActivityService_Update_Complete(t *testing.T) {
	svc, repo := newActivityFixture()
	repo.put(&domain.Activity{
		ID: "a1", Type: "Task", Title: "Send deck", DueDate: fixedNow,
		Status: domain.ActivityPending, Priority: "High", RelatedTo: "None", AssignedTo: "u1",
	})

	status := domain.ActivityCompleted
	done := fixedNow
	got, err := svc.Update(context.Background(), salesExec, "a1", domain.ActivityPatch{Status: &status, CompletedDate: &done})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != domain.ActivityCompleted || got.CompletedDate == nil {
		t.Fatalf("activity not completed: %+v", got)
	}
}
