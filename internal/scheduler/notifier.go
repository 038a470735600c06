package scheduler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Event carries everything a delivery transport needs to tell a user to take
// a dose.
type Event struct {
	ReminderID   uuid.UUID
	MedicineName string
	UserID       uuid.UUID
	RemindAt     time.Time
}

// Notifier is the delivery seam. Real transports (push, SMS, email) plug in
// here without touching scheduling logic.
type Notifier interface {
	Notify(ctx context.Context, e Event) error
}

// LogNotifier writes a structured log line per reminder. It is the default
// transport.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(_ context.Context, e Event) error {
	n.log.Info("time to take medicine",
		zap.String("reminder_id", e.ReminderID.String()),
		zap.String("user_id", e.UserID.String()),
		zap.String("medicine", e.MedicineName),
		zap.Time("scheduled_for", e.RemindAt),
	)
	return nil
}
