package authenticity

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, l *Log) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*Log, error)
}
