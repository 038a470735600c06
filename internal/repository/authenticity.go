package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mediguard/mediguard/internal/domain"
	"github.com/mediguard/mediguard/internal/domain/authenticity"
)

type AuthenticityRepository struct {
	db *gorm.DB
}

func NewAuthenticityRepository(db *gorm.DB) *AuthenticityRepository {
	return &AuthenticityRepository{db: db}
}

func (r *AuthenticityRepository) Create(ctx context.Context, l *authenticity.Log) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *AuthenticityRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*authenticity.Log, error) {
	var items []*authenticity.Log
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("scanned_on DESC").
		Limit(limit).
		Find(&items).Error
	return items, err
}

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Create(ctx context.Context, entry *domain.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}
