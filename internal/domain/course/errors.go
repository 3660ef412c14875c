package course

import (
	"errors"
	"fmt"
	"time"

	"github.com/BruksfildServices01/spa-scheduler/internal/timezone"
)

var (
	ErrInvalidSpec     = errors.New("course: invalid recurrence")
	ErrCourseNotFound  = errors.New("course: not found")
	ErrSessionNotFound = errors.New("course: session not found")
	ErrSessionBooked   = errors.New("course: session already has an appointment")
	ErrSessionClosed   = errors.New("course: session is not scheduled")
)

// RecurrenceBoundsError flags sessions generated past the course expiry. It is a warning.
type RecurrenceBoundsError struct {
	ExpiryDate time.Time
	PastExpiry int
}

func (e *RecurrenceBoundsError) Error() string {
	return fmt.Sprintf("%d session(s) fall after course expiry %s", e.PastExpiry, timezone.DateKey(e.ExpiryDate))
}
