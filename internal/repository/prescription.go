package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mediguard/mediguard/internal/domain/prescription"
)

type PrescriptionRepository struct {
	db *gorm.DB
}

func NewPrescriptionRepository(db *gorm.DB) *PrescriptionRepository {
	return &PrescriptionRepository{db: db}
}

// CreateWithMedicines writes the prescription and its medicines atomically.
// Gorm cascades the Medicines association inside one transaction, so a
// failure anywhere rolls back the whole batch.
func (r *PrescriptionRepository) CreateWithMedicines(ctx context.Context, p *prescription.Prescription) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PrescriptionRepository) GetByID(ctx context.Context, id uuid.UUID) (*prescription.Prescription, error) {
	var p prescription.Prescription
	err := r.db.WithContext(ctx).
		Preload("Medicines").
		First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, prescription.ErrPrescriptionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Delete removes the prescription together with its medicines and their
// reminders in a single transaction.
func (r *PrescriptionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(
			`DELETE FROM clinical.reminders WHERE medicine_id IN
			   (SELECT id FROM clinical.medicines WHERE prescription_id = ?)`, id,
		).Error; err != nil {
			return err
		}
		if err := tx.Exec(`DELETE FROM clinical.medicines WHERE prescription_id = ?`, id).Error; err != nil {
			return err
		}
		res := tx.Exec(`DELETE FROM clinical.prescriptions WHERE id = ?`, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return prescription.ErrPrescriptionNotFound
		}
		return nil
	})
}

func (r *PrescriptionRepository) List(ctx context.Context, q *prescription.ListPrescriptionsQuery) (*prescription.PagedPrescriptions, error) {
	query := r.db.WithContext(ctx).
		Model(&prescription.Prescription{}).
		Where("user_id = ?", q.UserID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var items []*prescription.Prescription
	err := query.
		Preload("Medicines").
		Order("uploaded_on DESC").
		Offset((q.Page - 1) * q.PageSize).
		Limit(q.PageSize).
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	totalPages := int(total) / q.PageSize
	if int(total)%q.PageSize != 0 {
		totalPages++
	}

	return &prescription.PagedPrescriptions{
		Prescriptions: items,
		TotalCount:    total,
		Page:          q.Page,
		PageSize:      q.PageSize,
		TotalPages:    totalPages,
	}, nil
}

func (r *PrescriptionRepository) ListRecentByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*prescription.Prescription, error) {
	var items []*prescription.Prescription
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("uploaded_on DESC").
		Limit(limit).
		Find(&items).Error
	return items, err
}
