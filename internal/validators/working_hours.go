package validators

import (
	"errors"

	"github.com/BruksfildServices01/spa-scheduler/internal/timezone"
)

var (
	ErrInvalidClock = errors.New("invalid time, expected HH:MM")
	ErrEmptyDay     = errors.New("end time must be after start time")
	ErrLunchOutside = errors.New("lunch break must lie inside working hours")
)

// WorkingDay checks one day of a therapist's schedule. Inactive days are not checked.
func WorkingDay(active bool, start, end, lunchStart, lunchEnd string) error {
	if !active {
		return nil
	}

	s, err := timezone.ParseClock(start)
	if err != nil {
		return ErrInvalidClock
	}
	e, err := timezone.ParseClock(end)
	if err != nil {
		return ErrInvalidClock
	}
	if e <= s {
		return ErrEmptyDay
	}

	if lunchStart == "" && lunchEnd == "" {
		return nil
	}

	ls, err := timezone.ParseClock(lunchStart)
	if err != nil {
		return ErrInvalidClock
	}
	le, err := timezone.ParseClock(lunchEnd)
	if err != nil {
		return ErrInvalidClock
	}
	if le <= ls || ls < s || le > e {
		return ErrLunchOutside
	}

	return nil
}
