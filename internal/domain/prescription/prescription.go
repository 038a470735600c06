package prescription

import (
	"time"

	"github.com/google/uuid"

	"github.com/mediguard/mediguard/internal/domain/medicine"
)

type Prescription struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time  `gorm:"autoCreateTime"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime"`
	DeletedAt *time.Time `gorm:"index"`

	UserID uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`

	Filename   string    `gorm:"column:filename;type:varchar(255);not null"`
	ImagePath  string    `gorm:"column:image_path;type:varchar(500);not null"`
	RawText    string    `gorm:"column:raw_text;type:text"`
	UploadedOn time.Time `gorm:"column:uploaded_on;not null;index"`

	Medicines []*medicine.Medicine `gorm:"foreignKey:PrescriptionID"`
}

func (Prescription) TableName() string {
	return "clinical.prescriptions"
}

// MedicineInput is one extracted (or user-corrected) medicine entry from the
// upload review step.
type MedicineInput struct {
	Name     string
	Dosage   string
	Timing   string
	Duration int
}

type SavePrescriptionCommand struct {
	UserID    uuid.UUID
	Filename  string
	ImagePath string
	RawText   string
	Medicines []MedicineInput
}

type ListPrescriptionsQuery struct {
	UserID   uuid.UUID
	Page     int
	PageSize int
}

type PagedPrescriptions struct {
	Prescriptions []*Prescription
	TotalCount    int64
	Page          int
	PageSize      int
	TotalPages    int
}
