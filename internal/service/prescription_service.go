package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mediguard/mediguard/internal/domain/authenticity"
	"github.com/mediguard/mediguard/internal/domain/medicine"
	"github.com/mediguard/mediguard/internal/domain/prescription"
	"github.com/mediguard/mediguard/internal/domain/reminder"
	"github.com/mediguard/mediguard/internal/extract"
	"github.com/mediguard/mediguard/internal/scheduler"
	"github.com/mediguard/mediguard/pkg/metrics"
)

// JobScheduler is what services need from the reminder scheduler.
type JobScheduler interface {
	Schedule(e scheduler.Event)
	Cancel(reminderID uuid.UUID)
}

type PrescriptionService struct {
	repo         prescription.Repository
	medicineRepo medicine.Repository
	reminderRepo reminder.Repository
	ocr          *extract.OCR
	jobs         JobScheduler
	auditSvc     *AuditService
	collector    *metrics.Collector
	log          *zap.Logger
	now          func() time.Time
}

func NewPrescriptionService(
	repo prescription.Repository,
	medicineRepo medicine.Repository,
	reminderRepo reminder.Repository,
	ocr *extract.OCR,
	jobs JobScheduler,
	auditSvc *AuditService,
	collector *metrics.Collector,
	log *zap.Logger,
) *PrescriptionService {
	return &PrescriptionService{
		repo:         repo,
		medicineRepo: medicineRepo,
		reminderRepo: reminderRepo,
		ocr:          ocr,
		jobs:         jobs,
		auditSvc:     auditSvc,
		collector:    collector,
		log:          log,
		now:          time.Now,
	}
}

// Extract runs OCR over an uploaded prescription image and returns the raw
// text plus the parsed medicine candidates for user review.
func (s *PrescriptionService) Extract(imagePath string) extract.Result {
	return s.ocr.ExtractPrescription(imagePath)
}

// SavePrescription persists the reviewed prescription with its medicines in
// one transaction, then generates and schedules dose reminders per medicine.
// Reminders for each medicine are written before their jobs are registered;
// a reminder-persistence failure for one medicine is logged and skips only
// that medicine's schedule.
func (s *PrescriptionService) SavePrescription(ctx context.Context, cmd *prescription.SavePrescriptionCommand, ip string) (*prescription.Prescription, error) {
	if len(cmd.Medicines) == 0 {
		return nil, prescription.ErrNoMedicines
	}
	for _, in := range cmd.Medicines {
		if in.Duration < 0 {
			return nil, medicine.ErrInvalidDuration
		}
	}

	p := &prescription.Prescription{
		UserID:     cmd.UserID,
		Filename:   cmd.Filename,
		ImagePath:  cmd.ImagePath,
		RawText:    cmd.RawText,
		UploadedOn: s.now(),
	}
	for _, in := range cmd.Medicines {
		p.Medicines = append(p.Medicines, &medicine.Medicine{
			UserID:   cmd.UserID,
			Name:     in.Name,
			Dosage:   in.Dosage,
			Timing:   in.Timing,
			Duration: in.Duration,
			Verified: authenticity.StatusUnverified,
		})
	}

	if err := s.repo.CreateWithMedicines(ctx, p); err != nil {
		return nil, fmt.Errorf("creating prescription: %w", err)
	}
	s.collector.PrescriptionsUploaded.Inc()

	for _, m := range p.Medicines {
		s.generateReminders(ctx, m)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: cmd.UserID, Action: "create",
		ResourceType: "prescription", ResourceID: p.ID.String(), IPAddress: ip,
	})

	return p, nil
}

// generateReminders expands the medicine's dosing schedule, persists the
// whole batch, and registers a job per persisted reminder. The batch is
// all-or-nothing: on a persistence failure nothing is scheduled.
func (s *PrescriptionService) generateReminders(ctx context.Context, m *medicine.Medicine) {
	now := s.now()
	slots := reminder.GenerateSlots(m.Timing, m.Duration, now)
	if len(slots) == 0 {
		return
	}

	reminders := make([]*reminder.Reminder, 0, len(slots))
	for _, slot := range slots {
		reminders = append(reminders, &reminder.Reminder{
			MedicineID: m.ID,
			UserID:     m.UserID,
			RemindAt:   slot.RemindAt,
			Status:     reminder.StatusPending,
		})
	}

	if err := s.reminderRepo.CreateBatch(ctx, reminders); err != nil {
		s.log.Error("failed to persist reminders",
			zap.String("medicine_id", m.ID.String()),
			zap.Error(err),
		)
		return
	}

	for _, r := range reminders {
		s.jobs.Schedule(scheduler.Event{
			ReminderID:   r.ID,
			MedicineName: m.Name,
			UserID:       r.UserID,
			RemindAt:     r.RemindAt,
		})
		s.collector.RemindersScheduled.Inc()
	}

	s.log.Info("generated reminders",
		zap.String("medicine", m.Name),
		zap.Int("count", len(reminders)),
	)
}

func (s *PrescriptionService) GetPrescription(ctx context.Context, id, callerID uuid.UUID, ip string) (*prescription.Prescription, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.UserID != callerID {
		return nil, ErrForbidden
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, Action: "read",
		ResourceType: "prescription", ResourceID: id.String(), IPAddress: ip,
	})

	return p, nil
}

func (s *PrescriptionService) ListPrescriptions(ctx context.Context, q *prescription.ListPrescriptionsQuery) (*prescription.PagedPrescriptions, error) {
	if q.PageSize <= 0 || q.PageSize > 100 {
		q.PageSize = 10
	}
	if q.Page <= 0 {
		q.Page = 1
	}
	return s.repo.List(ctx, q)
}

// DeletePrescription removes the prescription, its medicines, and their
// reminders, and cancels any live jobs for those reminders.
func (s *PrescriptionService) DeletePrescription(ctx context.Context, id, callerID uuid.UUID, ip string) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p.UserID != callerID {
		return ErrForbidden
	}

	for _, m := range p.Medicines {
		s.cancelMedicineJobs(ctx, m.ID)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting prescription: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, Action: "delete",
		ResourceType: "prescription", ResourceID: id.String(), IPAddress: ip,
	})

	return nil
}

func (s *PrescriptionService) cancelMedicineJobs(ctx context.Context, medicineID uuid.UUID) {
	reminders, err := s.reminderRepo.ListByMedicine(ctx, medicineID)
	if err != nil {
		s.log.Warn("could not list reminders for job cancellation", zap.Error(err))
		return
	}
	for _, r := range reminders {
		s.jobs.Cancel(r.ID)
		s.collector.RemindersCancelled.Inc()
	}
}
