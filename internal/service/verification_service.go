package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mediguard/mediguard/internal/domain/authenticity"
	"github.com/mediguard/mediguard/internal/domain/medicine"
	"github.com/mediguard/mediguard/internal/extract"
	"github.com/mediguard/mediguard/pkg/metrics"
)

type VerificationService struct {
	repo         authenticity.Repository
	medicineRepo medicine.Repository
	decoder      *extract.BarcodeDecoder
	auditSvc     *AuditService
	collector    *metrics.Collector
	log          *zap.Logger
	now          func() time.Time
}

func NewVerificationService(
	repo authenticity.Repository,
	medicineRepo medicine.Repository,
	decoder *extract.BarcodeDecoder,
	auditSvc *AuditService,
	collector *metrics.Collector,
	log *zap.Logger,
) *VerificationService {
	return &VerificationService{
		repo:         repo,
		medicineRepo: medicineRepo,
		decoder:      decoder,
		auditSvc:     auditSvc,
		collector:    collector,
		log:          log,
		now:          time.Now,
	}
}

// VerificationResult bundles what the scan step decoded with what the rule
// engine concluded.
type VerificationResult struct {
	Scan    authenticity.ScanResult
	Outcome authenticity.Outcome
	LogID   uuid.UUID
}

// VerifyScan decodes the uploaded scan image, runs the authenticity rules,
// and records the result. When the scan is linked to one of the caller's
// medicines, that medicine's verification status is updated too; a link to
// someone else's medicine is ignored rather than rejected.
func (s *VerificationService) VerifyScan(ctx context.Context, callerID uuid.UUID, imagePath string, medicineID *uuid.UUID, ip string) (*VerificationResult, error) {
	scan := s.decoder.DecodeScan(imagePath)
	outcome := authenticity.Verify(scan, s.now())

	entry := &authenticity.Log{
		UserID:         callerID,
		Batch:          scan.Batch,
		Expiry:         scan.Expiry,
		Manufacturer:   scan.Manufacturer,
		VerifiedStatus: outcome.Status,
		Confidence:     outcome.Confidence,
		Details:        strings.Join(outcome.Details, "\n"),
	}

	if medicineID != nil {
		m, err := s.medicineRepo.GetByID(ctx, *medicineID)
		if err == nil && m.UserID == callerID {
			entry.MedicineID = &m.ID
			if err := s.medicineRepo.UpdateVerified(ctx, m.ID, outcome.Status); err != nil {
				s.log.Warn("could not update medicine verification status",
					zap.String("medicine_id", m.ID.String()),
					zap.Error(err),
				)
			}
		}
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("recording verification: %w", err)
	}
	s.collector.MedicinesVerified.WithLabelValues(string(outcome.Status)).Inc()

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, Action: "create",
		ResourceType: "authenticity_log", ResourceID: entry.ID.String(), IPAddress: ip,
		Changes: fmt.Sprintf(`{"status":%q,"confidence":%d}`, outcome.Status, outcome.Confidence),
	})

	return &VerificationResult{Scan: scan, Outcome: outcome, LogID: entry.ID}, nil
}

// History returns the caller's most recent verification scans.
func (s *VerificationService) History(ctx context.Context, callerID uuid.UUID, limit int) ([]*authenticity.Log, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.ListByUser(ctx, callerID, limit)
}
