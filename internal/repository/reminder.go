package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mediguard/mediguard/internal/domain/reminder"
)

type ReminderRepository struct {
	db *gorm.DB
}

func NewReminderRepository(db *gorm.DB) *ReminderRepository {
	return &ReminderRepository{db: db}
}

func (r *ReminderRepository) CreateBatch(ctx context.Context, reminders []*reminder.Reminder) error {
	if len(reminders) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(reminders).Error
}

func (r *ReminderRepository) GetByID(ctx context.Context, id uuid.UUID) (*reminder.Reminder, error) {
	var rem reminder.Reminder
	err := r.db.WithContext(ctx).First(&rem, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, reminder.ErrReminderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rem, nil
}

func (r *ReminderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status reminder.Status) error {
	res := r.db.WithContext(ctx).
		Model(&reminder.Reminder{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return reminder.ErrReminderNotFound
	}
	return nil
}

func (r *ReminderRepository) DeleteByMedicine(ctx context.Context, medicineID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("medicine_id = ?", medicineID).
		Delete(&reminder.Reminder{}).Error
}

func (r *ReminderRepository) ListByMedicine(ctx context.Context, medicineID uuid.UUID) ([]*reminder.Reminder, error) {
	var items []*reminder.Reminder
	err := r.db.WithContext(ctx).
		Where("medicine_id = ?", medicineID).
		Order("remind_at ASC").
		Find(&items).Error
	return items, err
}

func (r *ReminderRepository) List(ctx context.Context, q *reminder.ListRemindersQuery) (*reminder.PagedReminders, error) {
	query := r.db.WithContext(ctx).
		Model(&reminder.Reminder{}).
		Where("user_id = ?", q.UserID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var items []*reminder.Reminder
	err := query.
		Order("remind_at DESC").
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

	return &reminder.PagedReminders{
		Reminders:  items,
		TotalCount: total,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: totalPages,
	}, nil
}

func (r *ReminderRepository) ListPendingAfter(ctx context.Context, after time.Time) ([]*reminder.Reminder, error) {
	var items []*reminder.Reminder
	err := r.db.WithContext(ctx).
		Where("status = ? AND remind_at > ?", reminder.StatusPending, after).
		Order("remind_at ASC").
		Find(&items).Error
	return items, err
}

func (r *ReminderRepository) ListUpcomingByUser(ctx context.Context, userID uuid.UUID, from, until time.Time) ([]*reminder.Reminder, error) {
	var items []*reminder.Reminder
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ? AND remind_at >= ? AND remind_at <= ?",
			userID, reminder.StatusPending, from, until).
		Order("remind_at ASC").
		Find(&items).Error
	return items, err
}
