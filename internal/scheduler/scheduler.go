// Package scheduler owns the in-memory reminder job table and the background
// worker that fires notifications. The table is a disposable cache of "what
// should fire next": persistence stays the source of truth and the table is
// rebuilt from it on startup. Delivery is at-most-once, best-effort; there is
// no retry and no durable outbox.
package scheduler

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Scheduler struct {
	notifier Notifier
	log      *zap.Logger

	tick            time.Duration
	shutdownTimeout time.Duration

	mu   sync.Mutex
	jobs map[uuid.UUID]Event

	startOnce sync.Once
	stopOnce  sync.Once
	stop      chan struct{}
	done      chan struct{}
}

func New(notifier Notifier, log *zap.Logger, tick, shutdownTimeout time.Duration) *Scheduler {
	if tick <= 0 {
		tick = time.Second
	}
	return &Scheduler{
		notifier:        notifier,
		log:             log,
		tick:            tick,
		shutdownTimeout: shutdownTimeout,
		jobs:            make(map[uuid.UUID]Event),
		stop:            make(chan struct{}),
		done:            make(chan struct{}),
	}
}

// Start launches the worker goroutine. Safe to call once.
func (s *Scheduler) Start() {
	s.startOnce.Do(func() {
		go s.run()
		s.log.Info("reminder scheduler started", zap.Duration("tick", s.tick))
	})
}

// Stop signals the worker and waits for it to drain, up to the shutdown
// timeout. Registered jobs are discarded; they are recovered from the store
// on the next start.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
		select {
		case <-s.done:
			s.log.Info("reminder scheduler stopped")
		case <-time.After(s.shutdownTimeout):
			s.log.Warn("reminder scheduler shutdown timed out")
		}
	})
}

// Schedule registers a job for the event, replacing any existing job with the
// same reminder ID. The call only mutates the job table and returns
// immediately; an instant already in the past fires on the next tick.
func (s *Scheduler) Schedule(e Event) {
	s.mu.Lock()
	s.jobs[e.ReminderID] = e
	s.mu.Unlock()

	s.log.Info("scheduled reminder job",
		zap.String("reminder_id", e.ReminderID.String()),
		zap.Time("remind_at", e.RemindAt),
	)
}

// Cancel removes the job for the reminder if one is registered. Cancelling an
// absent job is a no-op; if the worker has already picked the job up, the
// notification still happens.
func (s *Scheduler) Cancel(reminderID uuid.UUID) {
	s.mu.Lock()
	_, found := s.jobs[reminderID]
	delete(s.jobs, reminderID)
	s.mu.Unlock()

	if found {
		s.log.Info("cancelled reminder job", zap.String("reminder_id", reminderID.String()))
	} else {
		s.log.Debug("cancel for unknown reminder job", zap.String("reminder_id", reminderID.String()))
	}
}

// HasJob reports whether a job is registered for the reminder.
func (s *Scheduler) HasJob(reminderID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.jobs[reminderID]
	return ok
}

// Len returns the number of registered jobs.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

func (s *Scheduler) run() {
	defer close(s.done)

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case now := <-ticker.C:
			s.fireDue(now)
		}
	}
}

// fireDue removes every job due at or before now and invokes the notifier for
// each, ordered by firing instant. Notification runs on the worker goroutine;
// a failed delivery is logged and dropped.
func (s *Scheduler) fireDue(now time.Time) {
	s.mu.Lock()
	var due []Event
	for id, e := range s.jobs {
		if !e.RemindAt.After(now) {
			due = append(due, e)
			delete(s.jobs, id)
		}
	}
	s.mu.Unlock()

	if len(due) == 0 {
		return
	}
	sort.Slice(due, func(i, j int) bool { return due[i].RemindAt.Before(due[j].RemindAt) })

	for _, e := range due {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := s.notifier.Notify(ctx, e); err != nil {
			s.log.Error("reminder notification failed",
				zap.String("reminder_id", e.ReminderID.String()),
				zap.Error(err),
			)
		}
		cancel()
	}
}
