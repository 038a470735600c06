// Package authenticity holds the medicine authenticity rule engine and the
// persisted verification log. Verification is a fixed sequence of checks over
// decoded barcode data; it never touches I/O and is fully deterministic for a
// given scan and reference time.
package authenticity

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusValid      Status = "valid"
	StatusFake       Status = "fake"
	StatusSuspicious Status = "suspicious"
	StatusUnverified Status = "unverified"
)

// Sentinel values emitted by the barcode decoder when a field is absent.
const (
	BatchUnknown        = "UNKNOWN"
	ExpiryNotDetected   = "Not detected"
	ManufacturerUnknown = "Unknown"
)

const expiryLayout = "2006-01-02"

// ScanResult is the decoded payload of a barcode/QR scan. Immutable once
// produced by the decoder.
type ScanResult struct {
	Codes        []string
	Batch        string
	Expiry       string
	Manufacturer string
}

// Outcome is the authenticity judgment for one scan. Details are appended in
// rule-evaluation order; callers may rely on that ordering.
type Outcome struct {
	Status     Status
	Details    []string
	Confidence int
}

func (o *Outcome) appendDetail(format string, args ...any) {
	o.Details = append(o.Details, fmt.Sprintf(format, args...))
}

func (o *Outcome) raiseConfidence(delta int) {
	o.Confidence = min(95, o.Confidence+delta)
}

// Verify classifies a scan as valid, fake, or suspicious with a confidence in
// [0,100]. Rules run in a fixed order:
//
//  1. code classification (marker tokens in the first code)
//  2. batch number format
//  3. expiry date (a past expiry forces fake, overriding rule 1)
//  4. manufacturer presence
//  5. advisory for inconclusive results
//
// Malformed input never fails; each rule degrades to its least-confident
// branch.
func Verify(scan ScanResult, now time.Time) Outcome {
	out := Outcome{Status: StatusSuspicious, Confidence: 50}

	// Rule 1: classify the primary code by marker tokens.
	if len(scan.Codes) > 0 {
		code := strings.ToUpper(scan.Codes[0])
		switch {
		case strings.Contains(code, "MG-VALID") || strings.HasPrefix(code, "VALID"):
			out.Status = StatusValid
			out.Confidence = 95
			out.appendDetail("✓ Valid MediGuard barcode format detected")
		case strings.Contains(code, "FAKE") || strings.Contains(code, "FRAUD"):
			out.Status = StatusFake
			out.Confidence = 99
			out.appendDetail("✗ Counterfeited medicine pattern detected")
		case strings.Contains(code, "ERROR"):
			out.Status = StatusSuspicious
			out.Confidence = 20
			out.appendDetail("⚠ Error scanning barcode - unable to verify")
		default:
			out.Status = StatusValid
			out.Confidence = 80
			out.appendDetail("✓ Barcode recognized: %s", truncate(code, 20))
		}
	} else {
		out.appendDetail("⚠ No barcode detected in image")
		out.Status = StatusSuspicious
		out.Confidence = 30
	}

	// Rule 2: batch number format. A malformed batch lowers confidence but
	// never pushes it below 40.
	if scan.Batch != "" && scan.Batch != BatchUnknown {
		if len(scan.Batch) >= 8 && isAlnum(rune(scan.Batch[0])) {
			out.appendDetail("✓ Batch format valid: %s", scan.Batch)
			out.raiseConfidence(10)
		} else {
			out.appendDetail("⚠ Batch format unusual: %s", scan.Batch)
			if out.Confidence > 40 {
				out.Confidence = max(out.Confidence-10, 40)
			}
		}
	}

	// Rule 3: expiry date. An expired medicine is fake regardless of what
	// rule 1 decided; the override is intentionally one-way.
	if scan.Expiry != "" && scan.Expiry != ExpiryNotDetected {
		if expDate, err := time.Parse(expiryLayout, scan.Expiry); err == nil {
			if expDate.After(now) {
				out.appendDetail("✓ Expiry valid until %s", scan.Expiry)
				out.raiseConfidence(5)
			} else {
				out.appendDetail("✗ Medicine already expired on %s", scan.Expiry)
				out.Status = StatusFake
				out.Confidence = 95
			}
		} else {
			out.appendDetail("⚠ Could not parse expiry date: %s", scan.Expiry)
		}
	}

	// Rule 4: manufacturer presence.
	if len(scan.Manufacturer) > 3 && scan.Manufacturer != ManufacturerUnknown {
		out.appendDetail("✓ Manufacturer: %s", scan.Manufacturer)
		out.raiseConfidence(5)
	}

	// Rule 5: advisory for inconclusive results.
	if out.Status == StatusSuspicious {
		if out.Confidence < 40 {
			out.appendDetail("Unable to verify. Recommend checking with pharmacist.")
		} else {
			out.appendDetail("Verification inconclusive. Check with pharmacist if unsure.")
		}
	}

	return out
}

func isAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// Log records one verification scan.
type Log struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ScannedOn time.Time `gorm:"autoCreateTime;index"`

	UserID     uuid.UUID  `gorm:"column:user_id;type:uuid;not null;index"`
	MedicineID *uuid.UUID `gorm:"column:medicine_id;type:uuid;index"`

	Batch          string `gorm:"column:batch;type:varchar(255)"`
	Expiry         string `gorm:"column:expiry;type:varchar(50)"`
	Manufacturer   string `gorm:"column:manufacturer;type:varchar(255)"`
	VerifiedStatus Status `gorm:"column:verified_status;type:varchar(50);not null"`
	Confidence     int    `gorm:"column:confidence;not null"`
	Details        string `gorm:"column:details;type:text"`
}

func (Log) TableName() string {
	return "clinical.authenticity_logs"
}
