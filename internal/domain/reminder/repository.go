package reminder

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	// CreateBatch persists all reminders in one transaction; a failure rolls
	// back the whole batch.
	CreateBatch(ctx context.Context, reminders []*Reminder) error
	GetByID(ctx context.Context, id uuid.UUID) (*Reminder, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
	DeleteByMedicine(ctx context.Context, medicineID uuid.UUID) error
	ListByMedicine(ctx context.Context, medicineID uuid.UUID) ([]*Reminder, error)
	List(ctx context.Context, q *ListRemindersQuery) (*PagedReminders, error)
	// ListPendingAfter returns pending reminders due strictly after the given
	// instant, ordered by remind_at. Used for startup recovery.
	ListPendingAfter(ctx context.Context, after time.Time) ([]*Reminder, error)
	// ListUpcomingByUser returns a user's pending reminders inside
	// [from, until], ordered by remind_at. Used by the dashboard.
	ListUpcomingByUser(ctx context.Context, userID uuid.UUID, from, until time.Time) ([]*Reminder, error)
}
