package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mediguard/mediguard/internal/domain/medicine"
	"github.com/mediguard/mediguard/internal/domain/reminder"
	"github.com/mediguard/mediguard/internal/scheduler"
	"github.com/mediguard/mediguard/pkg/metrics"
)

type ReminderService struct {
	repo         reminder.Repository
	medicineRepo medicine.Repository
	jobs         JobScheduler
	auditSvc     *AuditService
	collector    *metrics.Collector
	log          *zap.Logger
	now          func() time.Time
}

func NewReminderService(
	repo reminder.Repository,
	medicineRepo medicine.Repository,
	jobs JobScheduler,
	auditSvc *AuditService,
	collector *metrics.Collector,
	log *zap.Logger,
) *ReminderService {
	return &ReminderService{
		repo:         repo,
		medicineRepo: medicineRepo,
		jobs:         jobs,
		auditSvc:     auditSvc,
		collector:    collector,
		log:          log,
		now:          time.Now,
	}
}

// RecoverPending re-registers a job for every persisted pending reminder
// whose firing instant is still in the future. Past-due pending reminders are
// left alone and never fire; delivery is at-most-once, best-effort. Must run
// before reminders start coming due, i.e. during startup.
func (s *ReminderService) RecoverPending(ctx context.Context) error {
	pending, err := s.repo.ListPendingAfter(ctx, s.now())
	if err != nil {
		return fmt.Errorf("listing pending reminders: %w", err)
	}

	recovered := 0
	for _, r := range pending {
		m, err := s.medicineRepo.GetByID(ctx, r.MedicineID)
		if err != nil {
			s.log.Warn("skipping reminder with missing medicine",
				zap.String("reminder_id", r.ID.String()),
				zap.Error(err),
			)
			continue
		}
		s.jobs.Schedule(scheduler.Event{
			ReminderID:   r.ID,
			MedicineName: m.Name,
			UserID:       r.UserID,
			RemindAt:     r.RemindAt,
		})
		s.collector.RemindersScheduled.Inc()
		recovered++
	}

	s.log.Info("rescheduled pending reminders", zap.Int("count", recovered))
	return nil
}

func (s *ReminderService) ListReminders(ctx context.Context, q *reminder.ListRemindersQuery) (*reminder.PagedReminders, error) {
	if q.PageSize <= 0 || q.PageSize > 100 {
		q.PageSize = 15
	}
	if q.Page <= 0 {
		q.Page = 1
	}
	return s.repo.List(ctx, q)
}

// MarkTaken moves a pending reminder to taken and cancels its job. The
// status write happens first; job cancellation is best-effort and a race
// with the firing worker is benign.
func (s *ReminderService) MarkTaken(ctx context.Context, id, callerID uuid.UUID, ip string) (*reminder.Reminder, error) {
	return s.resolve(ctx, id, callerID, reminder.StatusTaken, ip)
}

// Skip moves a pending reminder to skipped and cancels its job.
func (s *ReminderService) Skip(ctx context.Context, id, callerID uuid.UUID, ip string) (*reminder.Reminder, error) {
	return s.resolve(ctx, id, callerID, reminder.StatusSkipped, ip)
}

func (s *ReminderService) resolve(ctx context.Context, id, callerID uuid.UUID, status reminder.Status, ip string) (*reminder.Reminder, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.UserID != callerID {
		return nil, ErrForbidden
	}
	if !r.IsPending() {
		return nil, reminder.ErrInvalidStatusTransition
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("updating reminder status: %w", err)
	}
	r.Status = status

	s.jobs.Cancel(id)
	s.collector.RemindersCancelled.Inc()

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, Action: "update",
		ResourceType: "reminder", ResourceID: id.String(), IPAddress: ip,
		Changes: fmt.Sprintf(`{"status":%q}`, status),
	})

	return r, nil
}

// Upcoming returns the caller's pending reminders inside the next window,
// ordered by firing instant. The dashboard uses a 24 hour window.
func (s *ReminderService) Upcoming(ctx context.Context, callerID uuid.UUID, window time.Duration) ([]*reminder.Reminder, error) {
	now := s.now()
	return s.repo.ListUpcomingByUser(ctx, callerID, now, now.Add(window))
}
