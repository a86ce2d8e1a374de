package queue

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/salesdesk/crm-api/internal/core/domain"
)

type recordingAuditService struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func (s *recordingAuditService) Record(_ context.Context, e domain.AuditEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return nil
}

func (s *recordingAuditService) snapshot() []domain.AuditEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.AuditEvent(nil), s.events...)
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(4, &recordingAuditService{}, zerolog.Nop())
	for _, id := range []string{"a", "lead-1", "deal-42", ""} {
		first := d.shardIndex(id)
		if first < 0 || first >= 4 {
			t.Fatalf("shard %d out of range for %q", first, id)
		}
		for i := 0; i < 10; i++ {
			if got := d.shardIndex(id); got != first {
				t.Fatalf("shard for %q changed from %d to %d", id, first, got)
			}
		}
	}
}

func TestDispatcher_DefaultWorkers(t *testing.T) {
	d := NewDispatcher(0, &recordingAuditService{}, zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Fatalf("expected %d workers, got %d", defaultWorkers, len(d.workers))
	}
}

func TestDispatcher_PreservesPerRecordOrder(t *testing.T) {
	svc := &recordingAuditService{}
	d := NewDispatcher(4, svc, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	const perRecord = 20
	for i := 0; i < perRecord; i++ {
		for _, rec := range []string{"l1", "l2", "l3"} {
			d.Enqueue(domain.AuditEvent{RecordID: rec, Action: fmt.Sprintf("%d", i)})
		}
	}

	deadline := time.Now().Add(2 * time.Second)
	for len(svc.snapshot()) < 3*perRecord && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	d.Wait()

	next := map[string]int{}
	for _, e := range svc.snapshot() {
		want := fmt.Sprintf("%d", next[e.RecordID])
		if e.Action != want {
			t.Fatalf("record %s: expected action %s, got %s", e.RecordID, want, e.Action)
		}
		next[e.RecordID]++
	}
	for _, rec := range []string{"l1", "l2", "l3"} {
		if next[rec] != perRecord {
			t.Fatalf("record %s: expected %d events, got %d", rec, perRecord, next[rec])
		}
	}
}

func TestDispatcher_DropsWhenFull(t *testing.T) {
	svc := &recordingAuditService{}
	d := NewDispatcher(1, svc, zerolog.Nop())

	// Workers are not started, so the queue only fills.
	for i := 0; i < channelBuffer+10; i++ {
		d.Enqueue(domain.AuditEvent{RecordID: "l1"})
	}
	if got := len(d.workers[0]); got != channelBuffer {
		t.Fatalf("expected a full queue of %d, got %d", channelBuffer, got)
	}
}

func TestDispatcher_DrainsOnShutdown(t *testing.T) {
	svc := &recordingAuditService{}
	d := NewDispatcher(2, svc, zerolog.Nop())

	for i := 0; i < 5; i++ {
		d.Enqueue(domain.AuditEvent{RecordID: fmt.Sprintf("r%d", i)})
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.Start(ctx)
	d.Wait()

	if got := len(svc.snapshot()); got != 5 {
		t.Fatalf("expected 5 drained events, got %d", got)
	}
}
