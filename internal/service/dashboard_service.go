package service

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mediguard/mediguard/internal/domain/authenticity"
	"github.com/mediguard/mediguard/internal/domain/medicine"
	"github.com/mediguard/mediguard/internal/domain/prescription"
	"github.com/mediguard/mediguard/internal/domain/reminder"
)

const (
	dashboardReminderWindow   = 24 * time.Hour
	dashboardRecentPrescCount = 3
)

type DashboardService struct {
	prescriptionRepo prescription.Repository
	medicineRepo     medicine.Repository
	reminderRepo     reminder.Repository
	log              *zap.Logger
	now              func() time.Time
}

func NewDashboardService(
	prescriptionRepo prescription.Repository,
	medicineRepo medicine.Repository,
	reminderRepo reminder.Repository,
	log *zap.Logger,
) *DashboardService {
	return &DashboardService{
		prescriptionRepo: prescriptionRepo,
		medicineRepo:     medicineRepo,
		reminderRepo:     reminderRepo,
		log:              log,
		now:              time.Now,
	}
}

type DashboardSummary struct {
	UpcomingReminders   []*reminder.Reminder         `json:"upcoming_reminders"`
	RecentPrescriptions []*prescription.Prescription `json:"recent_prescriptions"`
	TotalMedicines      int                          `json:"total_medicines"`
	VerifiedCount       int                          `json:"verified_count"`
	FakeCount           int                          `json:"fake_count"`
	SuspiciousCount     int                          `json:"suspicious_count"`
	VerifiedPercentage  float64                      `json:"verified_percentage"`
}

// Summary assembles the home dashboard: pending reminders for the next 24
// hours, the three most recent prescriptions, and verification statistics
// over the user's medicines.
func (s *DashboardService) Summary(ctx context.Context, callerID uuid.UUID) (*DashboardSummary, error) {
	now := s.now()
	upcoming, err := s.reminderRepo.ListUpcomingByUser(ctx, callerID, now, now.Add(dashboardReminderWindow))
	if err != nil {
		return nil, err
	}

	recent, err := s.prescriptionRepo.ListRecentByUser(ctx, callerID, dashboardRecentPrescCount)
	if err != nil {
		return nil, err
	}

	all, err := s.medicineRepo.ListByUser(ctx, callerID)
	if err != nil {
		return nil, err
	}

	summary := &DashboardSummary{
		UpcomingReminders:   upcoming,
		RecentPrescriptions: recent,
		TotalMedicines:      len(all),
	}
	for _, m := range all {
		switch m.Verified {
		case authenticity.StatusValid:
			summary.VerifiedCount++
		case authenticity.StatusFake:
			summary.FakeCount++
		case authenticity.StatusSuspicious:
			summary.SuspiciousCount++
		}
	}
	if summary.TotalMedicines > 0 {
		pct := float64(summary.VerifiedCount) / float64(summary.TotalMedicines) * 100
		summary.VerifiedPercentage = math.Round(pct*10) / 10
	}

	return summary, nil
}
