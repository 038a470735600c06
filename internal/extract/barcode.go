package extract

import (
	"os"

	"github.com/mediguard/mediguard/internal/domain/authenticity"
)

// BarcodeDecoder decodes barcode/QR payloads from scan images. The current
// implementation returns simulated demo data for consistent behavior; a real
// decoder slots in behind the same method.
type BarcodeDecoder struct{}

func NewBarcodeDecoder() *BarcodeDecoder {
	return &BarcodeDecoder{}
}

// DecodeScan returns the decoded payload for a scan image. An unreadable
// image degrades to the error payload, which the rule engine classifies as
// suspicious.
func (d *BarcodeDecoder) DecodeScan(imagePath string) authenticity.ScanResult {
	if _, err := os.Stat(imagePath); err != nil {
		return authenticity.ScanResult{
			Codes:        []string{"ERROR-SCAN"},
			Batch:        authenticity.BatchUnknown,
			Expiry:       "2025-12-31",
			Manufacturer: authenticity.ManufacturerUnknown,
		}
	}

	return authenticity.ScanResult{
		Codes:        []string{"MG-VALID-ABC123-BATCH2024"},
		Batch:        "BATCH2024001",
		Expiry:       "2026-12-31",
		Manufacturer: "MediCorp Pharma",
	}
}
