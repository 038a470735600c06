package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mediguard/mediguard/internal/domain/authenticity"
	"github.com/mediguard/mediguard/internal/domain/medicine"
)

type MedicineRepository struct {
	db *gorm.DB
}

func NewMedicineRepository(db *gorm.DB) *MedicineRepository {
	return &MedicineRepository{db: db}
}

func (r *MedicineRepository) Create(ctx context.Context, m *medicine.Medicine) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *MedicineRepository) GetByID(ctx context.Context, id uuid.UUID) (*medicine.Medicine, error) {
	var m medicine.Medicine
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, medicine.ErrMedicineNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MedicineRepository) Update(ctx context.Context, m *medicine.Medicine) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *MedicineRepository) UpdateVerified(ctx context.Context, id uuid.UUID, status authenticity.Status) error {
	res := r.db.WithContext(ctx).
		Model(&medicine.Medicine{}).
		Where("id = ?", id).
		Update("verified", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return medicine.ErrMedicineNotFound
	}
	return nil
}

// Delete removes the medicine and its reminders in a single transaction.
func (r *MedicineRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`DELETE FROM clinical.reminders WHERE medicine_id = ?`, id).Error; err != nil {
			return err
		}
		res := tx.Exec(`DELETE FROM clinical.medicines WHERE id = ?`, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return medicine.ErrMedicineNotFound
		}
		return nil
	})
}

func (r *MedicineRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*medicine.Medicine, error) {
	var items []*medicine.Medicine
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

func (r *MedicineRepository) ListByPrescription(ctx context.Context, prescriptionID uuid.UUID) ([]*medicine.Medicine, error) {
	var items []*medicine.Medicine
	err := r.db.WithContext(ctx).
		Where("prescription_id = ?", prescriptionID).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}
