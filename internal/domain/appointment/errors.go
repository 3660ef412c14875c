package appointment

import (
	"errors"
	"fmt"
	"strings"
)

var ErrAppointmentNotFound = errors.New("appointment not found")

// ValidationError means the request is missing data; nothing was attempted.
type ValidationError struct {
	Fields []string
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Detail != "" {
		return "validation failed: " + e.Detail
	}
	return "validation failed: missing " + strings.Join(e.Fields, ", ")
}

// SlotConflictError is retryable with a different slot.
type SlotConflictError struct {
	ServiceID uint
	Date      string
	Time      string
	Reason    Reason
}

func (e *SlotConflictError) Error() string {
	return fmt.Sprintf("slot conflict for service %d at %s %s: %s", e.ServiceID, e.Date, e.Time, e.Reason)
}

// PersistenceConflictError wraps a storage-level unique or exclusion violation.
type PersistenceConflictError struct {
	Err error
}

func (e *PersistenceConflictError) Error() string {
	return "persistence conflict: " + e.Err.Error()
}

func (e *PersistenceConflictError) Unwrap() error {
	return e.Err
}
