package medicine

import (
	"time"

	"github.com/google/uuid"

	"github.com/mediguard/mediguard/internal/domain/authenticity"
)

type Medicine struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime"`
	DeletedAt *time.Time `gorm:"index"`

	PrescriptionID *uuid.UUID `gorm:"column:prescription_id;type:uuid;index"`
	UserID         uuid.UUID  `gorm:"column:user_id;type:uuid;not null;index"`

	Name     string `gorm:"column:name;type:varchar(255);not null"`
	Dosage   string `gorm:"column:dosage;type:varchar(128);not null"`   // e.g. "500mg"
	Timing   string `gorm:"column:timing;type:varchar(128);not null"`   // e.g. "2x/day"
	Duration int    `gorm:"column:duration;not null"`                   // in days

	Verified authenticity.Status `gorm:"column:verified;type:varchar(50);not null;default:'unverified';index"`
}

func (Medicine) TableName() string {
	return "clinical.medicines"
}

type UpdateMedicineCommand struct {
	Name     *string
	Dosage   *string
	Timing   *string
	Duration *int
}

// Grouped holds a user's medicines bucketed by verification status.
type Grouped struct {
	Verified   []*Medicine
	Fake       []*Medicine
	Suspicious []*Medicine
	Unverified []*Medicine
}
