package reminder

import "errors"

var (
	ErrReminderNotFound        = errors.New("reminder not found")
	ErrInvalidStatusTransition = errors.New("reminder is no longer pending")
)
