package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mediguard/mediguard/internal/domain/authenticity"
	"github.com/mediguard/mediguard/internal/domain/medicine"
	"github.com/mediguard/mediguard/internal/domain/reminder"
	"github.com/mediguard/mediguard/pkg/metrics"
)

type MedicineService struct {
	repo         medicine.Repository
	reminderRepo reminder.Repository
	jobs         JobScheduler
	auditSvc     *AuditService
	collector    *metrics.Collector
	log          *zap.Logger
}

func NewMedicineService(
	repo medicine.Repository,
	reminderRepo reminder.Repository,
	jobs JobScheduler,
	auditSvc *AuditService,
	collector *metrics.Collector,
	log *zap.Logger,
) *MedicineService {
	return &MedicineService{
		repo:         repo,
		reminderRepo: reminderRepo,
		jobs:         jobs,
		auditSvc:     auditSvc,
		collector:    collector,
		log:          log,
	}
}

func (s *MedicineService) UpdateMedicine(ctx context.Context, id, callerID uuid.UUID, cmd *medicine.UpdateMedicineCommand, ip string) (*medicine.Medicine, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.UserID != callerID {
		return nil, ErrForbidden
	}

	if cmd.Name != nil {
		m.Name = strings.TrimSpace(*cmd.Name)
	}
	if cmd.Dosage != nil {
		m.Dosage = strings.TrimSpace(*cmd.Dosage)
	}
	if cmd.Timing != nil {
		m.Timing = strings.TrimSpace(*cmd.Timing)
	}
	if cmd.Duration != nil {
		if *cmd.Duration < 0 {
			return nil, medicine.ErrInvalidDuration
		}
		m.Duration = *cmd.Duration
	}

	if err := s.repo.Update(ctx, m); err != nil {
		return nil, fmt.Errorf("updating medicine: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, Action: "update",
		ResourceType: "medicine", ResourceID: id.String(), IPAddress: ip,
	})

	return m, nil
}

// DeleteMedicine removes the medicine and its reminders, cancelling any live
// jobs first.
func (s *MedicineService) DeleteMedicine(ctx context.Context, id, callerID uuid.UUID, ip string) error {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if m.UserID != callerID {
		return ErrForbidden
	}

	reminders, err := s.reminderRepo.ListByMedicine(ctx, id)
	if err != nil {
		s.log.Warn("could not list reminders for job cancellation", zap.Error(err))
	}
	for _, r := range reminders {
		s.jobs.Cancel(r.ID)
		s.collector.RemindersCancelled.Inc()
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting medicine: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, Action: "delete",
		ResourceType: "medicine", ResourceID: id.String(), IPAddress: ip,
	})

	return nil
}

// ListMedicines returns the caller's medicines bucketed by verification
// status, newest first inside each bucket.
func (s *MedicineService) ListMedicines(ctx context.Context, callerID uuid.UUID) (*medicine.Grouped, error) {
	all, err := s.repo.ListByUser(ctx, callerID)
	if err != nil {
		return nil, err
	}

	grouped := &medicine.Grouped{}
	for _, m := range all {
		switch m.Verified {
		case authenticity.StatusValid:
			grouped.Verified = append(grouped.Verified, m)
		case authenticity.StatusFake:
			grouped.Fake = append(grouped.Fake, m)
		case authenticity.StatusSuspicious:
			grouped.Suspicious = append(grouped.Suspicious, m)
		default:
			grouped.Unverified = append(grouped.Unverified, m)
		}
	}
	return grouped, nil
}
