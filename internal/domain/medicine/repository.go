package medicine

import (
	"context"

	"github.com/google/uuid"

	"github.com/mediguard/mediguard/internal/domain/authenticity"
)

type Repository interface {
	Create(ctx context.Context, m *Medicine) error
	GetByID(ctx context.Context, id uuid.UUID) (*Medicine, error)
	Update(ctx context.Context, m *Medicine) error
	UpdateVerified(ctx context.Context, id uuid.UUID, status authenticity.Status) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Medicine, error)
	ListByPrescription(ctx context.Context, prescriptionID uuid.UUID) ([]*Medicine, error)
}
