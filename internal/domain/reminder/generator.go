package reminder

import (
	"strconv"
	"strings"
	"time"
)

// Dosing window: first dose at 06:00, remaining doses spread toward 22:00.
const (
	firstDoseHour = 6
	doseWindow    = 16
)

// Slot is one computed future dosing instant before persistence.
type Slot struct {
	DayOffset int
	SlotIndex int
	RemindAt  time.Time
}

// ParseTimesPerDay reads the leading integer of a timing string such as
// "2x/day" or "3X daily". Anything unparseable defaults to one dose per day.
func ParseTimesPerDay(timing string) int {
	lower := strings.ToLower(timing)
	idx := strings.Index(lower, "x")
	if idx <= 0 {
		return 1
	}
	n, err := strconv.Atoi(strings.TrimSpace(lower[:idx]))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// GenerateSlots expands a timing string and duration into the dosing schedule
// starting at now. Doses are spaced from 06:00 across a 16-hour window, so
// "3x/day" lands at 06:00, 11:00, and 16:00 offsets from now's date. Slots are
// produced in (day, slot) order; any slot whose instant is not strictly after
// now is dropped, which matters on day zero once the computed hour has passed.
func GenerateSlots(timing string, durationDays int, now time.Time) []Slot {
	timesPerDay := ParseTimesPerDay(timing)
	spacing := doseWindow / max(1, timesPerDay)

	var slots []Slot
	for day := 0; day < durationDays; day++ {
		for slot := 0; slot < timesPerDay; slot++ {
			hour := firstDoseHour + slot*spacing
			remindAt := now.Add(time.Duration(day)*24*time.Hour + time.Duration(hour)*time.Hour)
			if remindAt.After(now) {
				slots = append(slots, Slot{DayOffset: day, SlotIndex: slot, RemindAt: remindAt})
			}
		}
	}
	return slots
}
