package medicine

import "errors"

var (
	ErrMedicineNotFound = errors.New("medicine not found")
	ErrInvalidDuration  = errors.New("duration must be a non-negative number of days")
)
