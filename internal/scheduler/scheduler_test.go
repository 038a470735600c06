package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type captureNotifier struct {
	mu     sync.Mutex
	events []Event
}

func (n *captureNotifier) Notify(_ context.Context, e Event) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, e)
	return nil
}

func (n *captureNotifier) captured() []Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]Event, len(n.events))
	copy(out, n.events)
	return out
}

func newTestScheduler(n Notifier) *Scheduler {
	return New(n, zap.NewNop(), time.Second, time.Second)
}

func TestSchedule_ReplacesExistingJob(t *testing.T) {
	t.Parallel()

	s := newTestScheduler(&captureNotifier{})
	id := uuid.New()
	at := time.Date(2024, 1, 1, 6, 0, 0, 0, time.UTC)

	s.Schedule(Event{ReminderID: id, MedicineName: "Aspirin", RemindAt: at})
	s.Schedule(Event{ReminderID: id, MedicineName: "Aspirin", RemindAt: at.Add(time.Hour)})

	if s.Len() != 1 {
		t.Fatalf("job count: got %d want 1", s.Len())
	}
	if !s.HasJob(id) {
		t.Fatal("expected job for reminder id")
	}
}

func TestCancel_UnknownReminderIsNoOp(t *testing.T) {
	t.Parallel()

	s := newTestScheduler(&captureNotifier{})
	s.Schedule(Event{ReminderID: uuid.New(), RemindAt: time.Now().Add(time.Hour)})

	s.Cancel(uuid.New())

	if s.Len() != 1 {
		t.Fatalf("job count after no-op cancel: got %d want 1", s.Len())
	}
}

func TestCancel_RemovesJob(t *testing.T) {
	t.Parallel()

	s := newTestScheduler(&captureNotifier{})
	id := uuid.New()
	s.Schedule(Event{ReminderID: id, RemindAt: time.Now().Add(time.Hour)})

	s.Cancel(id)

	if s.HasJob(id) {
		t.Fatal("job still registered after cancel")
	}
}

func TestFireDue_FiresInInstantOrderAndRemoves(t *testing.T) {
	t.Parallel()

	n := &captureNotifier{}
	s := newTestScheduler(n)

	base := time.Date(2024, 1, 1, 6, 0, 0, 0, time.UTC)
	late := Event{ReminderID: uuid.New(), MedicineName: "B", RemindAt: base.Add(time.Hour)}
	early := Event{ReminderID: uuid.New(), MedicineName: "A", RemindAt: base}
	future := Event{ReminderID: uuid.New(), MedicineName: "C", RemindAt: base.Add(48 * time.Hour)}

	s.Schedule(late)
	s.Schedule(early)
	s.Schedule(future)

	s.fireDue(base.Add(2 * time.Hour))

	got := n.captured()
	if len(got) != 2 {
		t.Fatalf("fired count: got %d want 2", len(got))
	}
	if got[0].MedicineName != "A" || got[1].MedicineName != "B" {
		t.Fatalf("fire order: got %s,%s want A,B", got[0].MedicineName, got[1].MedicineName)
	}

	if s.HasJob(early.ReminderID) || s.HasJob(late.ReminderID) {
		t.Fatal("fired jobs must be removed from the table")
	}
	if !s.HasJob(future.ReminderID) {
		t.Fatal("future job must stay registered")
	}
}

func TestFireDue_FiresExactlyOnce(t *testing.T) {
	t.Parallel()

	n := &captureNotifier{}
	s := newTestScheduler(n)

	at := time.Date(2024, 1, 1, 6, 0, 0, 0, time.UTC)
	s.Schedule(Event{ReminderID: uuid.New(), RemindAt: at})

	s.fireDue(at)
	s.fireDue(at.Add(time.Minute))

	if len(n.captured()) != 1 {
		t.Fatalf("fired count: got %d want 1", len(n.captured()))
	}
}

func TestScheduler_PastInstantFiresOnNextTick(t *testing.T) {
	t.Parallel()

	n := &captureNotifier{}
	s := New(n, zap.NewNop(), 10*time.Millisecond, time.Second)
	s.Start()
	defer s.Stop()

	s.Schedule(Event{ReminderID: uuid.New(), MedicineName: "Aspirin", RemindAt: time.Now().Add(-time.Minute)})

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(n.captured()) == 1 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("past-due job never fired")
}

func TestScheduler_ConcurrentScheduleAndCancel(t *testing.T) {
	t.Parallel()

	s := New(&captureNotifier{}, zap.NewNop(), 5*time.Millisecond, time.Second)
	s.Start()
	defer s.Stop()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				id := uuid.New()
				s.Schedule(Event{ReminderID: id, RemindAt: time.Now().Add(time.Duration(j) * time.Millisecond)})
				s.Cancel(id)
			}
		}()
	}
	wg.Wait()
}
