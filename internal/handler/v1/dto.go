package v1

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mediguard/mediguard/internal/domain"
	"github.com/mediguard/mediguard/internal/domain/authenticity"
	"github.com/mediguard/mediguard/internal/domain/medicine"
	"github.com/mediguard/mediguard/internal/domain/prescription"
	"github.com/mediguard/mediguard/internal/domain/reminder"
)

type UserResponse struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	Phone    string    `json:"phone,omitempty"`
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:       u.ID,
		Name:     u.Name,
		Username: u.Username,
		Email:    u.Email,
		Phone:    u.Phone,
	}
}

type MedicineResponse struct {
	ID             uuid.UUID  `json:"id"`
	PrescriptionID *uuid.UUID `json:"prescription_id,omitempty"`
	Name           string     `json:"name"`
	Dosage         string     `json:"dosage"`
	Timing         string     `json:"timing"`
	Duration       int        `json:"duration"`
	Verified       string     `json:"verified"`
	CreatedAt      time.Time  `json:"created_at"`
}

func toMedicineResponse(m *medicine.Medicine) MedicineResponse {
	return MedicineResponse{
		ID:             m.ID,
		PrescriptionID: m.PrescriptionID,
		Name:           m.Name,
		Dosage:         m.Dosage,
		Timing:         m.Timing,
		Duration:       m.Duration,
		Verified:       string(m.Verified),
		CreatedAt:      m.CreatedAt,
	}
}

func toMedicineResponses(ms []*medicine.Medicine) []MedicineResponse {
	out := make([]MedicineResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, toMedicineResponse(m))
	}
	return out
}

type PrescriptionResponse struct {
	ID         uuid.UUID          `json:"id"`
	Filename   string             `json:"filename"`
	RawText    string             `json:"raw_text,omitempty"`
	UploadedOn time.Time          `json:"uploaded_on"`
	Medicines  []MedicineResponse `json:"medicines"`
}

func toPrescriptionResponse(p *prescription.Prescription) PrescriptionResponse {
	return PrescriptionResponse{
		ID:         p.ID,
		Filename:   p.Filename,
		RawText:    p.RawText,
		UploadedOn: p.UploadedOn,
		Medicines:  toMedicineResponses(p.Medicines),
	}
}

type PagedResponse[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"total_count"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

type ReminderResponse struct {
	ID         uuid.UUID `json:"id"`
	MedicineID uuid.UUID `json:"medicine_id"`
	RemindAt   time.Time `json:"remind_at"`
	Status     string    `json:"status"`
}

func toReminderResponse(r *reminder.Reminder) ReminderResponse {
	return ReminderResponse{
		ID:         r.ID,
		MedicineID: r.MedicineID,
		RemindAt:   r.RemindAt,
		Status:     string(r.Status),
	}
}

func toReminderResponses(rs []*reminder.Reminder) []ReminderResponse {
	out := make([]ReminderResponse, 0, len(rs))
	for _, r := range rs {
		out = append(out, toReminderResponse(r))
	}
	return out
}

type VerificationLogResponse struct {
	ID           uuid.UUID  `json:"id"`
	MedicineID   *uuid.UUID `json:"medicine_id,omitempty"`
	Batch        string     `json:"batch"`
	Expiry       string     `json:"expiry"`
	Manufacturer string     `json:"manufacturer"`
	Status       string     `json:"status"`
	Confidence   int        `json:"confidence"`
	Details      []string   `json:"details"`
	ScannedOn    time.Time  `json:"scanned_on"`
}

func toVerificationLogResponse(l *authenticity.Log) VerificationLogResponse {
	var details []string
	if l.Details != "" {
		details = strings.Split(l.Details, "\n")
	}
	return VerificationLogResponse{
		ID:           l.ID,
		MedicineID:   l.MedicineID,
		Batch:        l.Batch,
		Expiry:       l.Expiry,
		Manufacturer: l.Manufacturer,
		Status:       string(l.VerifiedStatus),
		Confidence:   l.Confidence,
		Details:      details,
		ScannedOn:    l.ScannedOn,
	}
}
