package prescription

import "errors"

var (
	ErrPrescriptionNotFound = errors.New("prescription not found")
	ErrNoMedicines          = errors.New("prescription must contain at least one medicine")
)
