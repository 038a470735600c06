// Package extract wraps the OCR and barcode decoding steps. Real image
// processing is delegated to external tooling; when none is wired in, both
// extractors return deterministic placeholder data so the rest of the
// pipeline stays exercisable.
package extract

import (
	"strings"

	"github.com/mediguard/mediguard/internal/domain/prescription"
)

const rawTextUnavailable = "OCR extraction not available."

// Keywords that mark a line of prescription text as a medicine entry.
var medicineKeywords = []string{"mg", "tablet", "cap", "dose", "mcg", "ml"}

// Result of running OCR over a prescription image.
type Result struct {
	RawText   string
	Medicines []prescription.MedicineInput
}

// OCR extracts medicine candidates from a prescription image.
type OCR struct{}

func NewOCR() *OCR {
	return &OCR{}
}

// ExtractPrescription reads the image and parses medicine entries out of the
// recognized text. Without an OCR backend the raw text is a placeholder, and
// a sample entry is returned so the review step always has something to show.
func (o *OCR) ExtractPrescription(imagePath string) Result {
	rawText := rawTextUnavailable
	medicines := ParseMedicines(rawText)

	if len(medicines) == 0 {
		medicines = []prescription.MedicineInput{{
			Name:     "Sample Medicine",
			Dosage:   "500mg",
			Timing:   "2x/day",
			Duration: 7,
		}}
	}

	return Result{RawText: rawText, Medicines: medicines}
}

// ParseMedicines picks medicine entries out of free-form prescription text.
// A line counts as a medicine when it carries a dosage keyword; the first two
// words become the name. Dosage, timing, and duration use defaults which the
// user corrects during review.
func ParseMedicines(text string) []prescription.MedicineInput {
	var medicines []prescription.MedicineInput

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if len(line) < 3 {
			continue
		}

		lower := strings.ToLower(line)
		matched := false
		for _, kw := range medicineKeywords {
			if strings.Contains(lower, kw) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}

		words := strings.Fields(line)
		name := "Unknown Medicine"
		if len(words) > 0 {
			name = strings.Join(words[:min(2, len(words))], " ")
		}
		if len(name) > 100 {
			name = name[:100]
		}

		medicines = append(medicines, prescription.MedicineInput{
			Name:     name,
			Dosage:   "500mg",
			Timing:   "2x/day",
			Duration: 7,
		})
	}

	return medicines
}
