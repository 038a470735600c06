package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mediguard/mediguard/internal/domain/authenticity"
	"github.com/mediguard/mediguard/internal/domain/medicine"
	"github.com/mediguard/mediguard/internal/extract"
)

type fakeAuthenticityRepo struct {
	mu   sync.Mutex
	logs []*authenticity.Log
}

func (f *fakeAuthenticityRepo) Create(_ context.Context, l *authenticity.Log) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	l.ID = uuid.New()
	f.logs = append(f.logs, l)
	return nil
}

func (f *fakeAuthenticityRepo) ListByUser(_ context.Context, userID uuid.UUID, limit int) ([]*authenticity.Log, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*authenticity.Log
	for i := len(f.logs) - 1; i >= 0 && len(out) < limit; i-- {
		if f.logs[i].UserID == userID {
			out = append(out, f.logs[i])
		}
	}
	return out, nil
}

func newTestVerificationService(medicineRepo *fakeMedicineRepo) (*VerificationService, *fakeAuthenticityRepo) {
	repo := &fakeAuthenticityRepo{}
	svc := NewVerificationService(
		repo, medicineRepo, extract.NewBarcodeDecoder(),
		newTestAuditService(), testCollector, zap.NewNop(),
	)
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }
	return svc, repo
}

func TestVerifyScanValidImage(t *testing.T) {
	t.Parallel()

	medicineRepo := newFakeMedicineRepo()
	svc, repo := newTestVerificationService(medicineRepo)

	scanPath := filepath.Join(t.TempDir(), "scan.png")
	if err := os.WriteFile(scanPath, []byte("img"), 0o600); err != nil {
		t.Fatalf("writing scan file: %v", err)
	}

	userID := uuid.New()
	res, err := svc.VerifyScan(context.Background(), userID, scanPath, nil, "127.0.0.1")
	if err != nil {
		t.Fatalf("VerifyScan: %v", err)
	}
	if res.Outcome.Status != authenticity.StatusValid {
		t.Fatalf("status = %q, want valid", res.Outcome.Status)
	}
	if res.Outcome.Confidence < 95 {
		t.Fatalf("confidence = %d, want >= 95", res.Outcome.Confidence)
	}

	if len(repo.logs) != 1 {
		t.Fatalf("got %d logs, want 1", len(repo.logs))
	}
	entry := repo.logs[0]
	if entry.UserID != userID {
		t.Fatal("log not attributed to caller")
	}
	if !strings.Contains(entry.Details, "✓") {
		t.Fatalf("details missing pass markers: %q", entry.Details)
	}
}

func TestVerifyScanMissingImageIsSuspicious(t *testing.T) {
	t.Parallel()

	svc, _ := newTestVerificationService(newFakeMedicineRepo())

	res, err := svc.VerifyScan(context.Background(), uuid.New(), "/nonexistent/scan.png", nil, "")
	if err != nil {
		t.Fatalf("VerifyScan: %v", err)
	}
	if res.Outcome.Status != authenticity.StatusSuspicious {
		t.Fatalf("status = %q, want suspicious", res.Outcome.Status)
	}
}

func TestVerifyScanUpdatesOwnedMedicineOnly(t *testing.T) {
	t.Parallel()

	medicineRepo := newFakeMedicineRepo()
	svc, repo := newTestVerificationService(medicineRepo)

	scanPath := filepath.Join(t.TempDir(), "scan.png")
	if err := os.WriteFile(scanPath, []byte("img"), 0o600); err != nil {
		t.Fatalf("writing scan file: %v", err)
	}

	owner := uuid.New()
	mine := &medicine.Medicine{UserID: owner, Name: "Mine", Verified: authenticity.StatusUnverified}
	theirs := &medicine.Medicine{UserID: uuid.New(), Name: "Theirs", Verified: authenticity.StatusUnverified}
	for _, m := range []*medicine.Medicine{mine, theirs} {
		if err := medicineRepo.Create(context.Background(), m); err != nil {
			t.Fatalf("seed medicine: %v", err)
		}
	}

	if _, err := svc.VerifyScan(context.Background(), owner, scanPath, &mine.ID, ""); err != nil {
		t.Fatalf("VerifyScan owned: %v", err)
	}
	if mine.Verified != authenticity.StatusValid {
		t.Fatalf("owned medicine verified = %q, want valid", mine.Verified)
	}
	if repo.logs[0].MedicineID == nil || *repo.logs[0].MedicineID != mine.ID {
		t.Fatal("log not linked to owned medicine")
	}

	// A scan linked to someone else's medicine still records, without linking.
	if _, err := svc.VerifyScan(context.Background(), owner, scanPath, &theirs.ID, ""); err != nil {
		t.Fatalf("VerifyScan foreign: %v", err)
	}
	if theirs.Verified != authenticity.StatusUnverified {
		t.Fatalf("foreign medicine verified = %q, want unverified", theirs.Verified)
	}
	if repo.logs[1].MedicineID != nil {
		t.Fatal("log linked to foreign medicine")
	}
}

func TestHistoryLimitsAndOrders(t *testing.T) {
	t.Parallel()

	svc, repo := newTestVerificationService(newFakeMedicineRepo())
	userID := uuid.New()

	for i := 0; i < 25; i++ {
		if err := repo.Create(context.Background(), &authenticity.Log{UserID: userID}); err != nil {
			t.Fatalf("seed log: %v", err)
		}
	}

	logs, err := svc.History(context.Background(), userID, 0)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(logs) != 20 {
		t.Fatalf("got %d logs with default limit, want 20", len(logs))
	}
}
