package reminder

import (
	"time"

	"github.com/google/uuid"
)

// Reminder lifecycle: pending → taken | skipped | completed. Terminal states
// are final. The background scheduler never mutates status; callers do.
type Status string

const (
	StatusPending   Status = "pending"
	StatusTaken     Status = "taken"
	StatusSkipped   Status = "skipped"
	StatusCompleted Status = "completed"
)

type Reminder struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	MedicineID uuid.UUID `gorm:"column:medicine_id;type:uuid;not null;index"`
	UserID     uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`

	RemindAt time.Time `gorm:"column:remind_at;not null;index"`
	Status   Status    `gorm:"column:status;type:varchar(50);not null;default:'pending';index"`
}

func (Reminder) TableName() string {
	return "clinical.reminders"
}

func (r *Reminder) IsPending() bool {
	return r.Status == StatusPending
}

type ListRemindersQuery struct {
	UserID   uuid.UUID
	Page     int
	PageSize int
}

type PagedReminders struct {
	Reminders  []*Reminder
	TotalCount int64
	Page       int
	PageSize   int
	TotalPages int
}
