package prescription

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// CreateWithMedicines persists the prescription and all of its medicines
	// in a single transaction. A failure rolls back the whole batch.
	CreateWithMedicines(ctx context.Context, p *Prescription) error
	GetByID(ctx context.Context, id uuid.UUID) (*Prescription, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, q *ListPrescriptionsQuery) (*PagedPrescriptions, error)
	ListRecentByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*Prescription, error)
}
