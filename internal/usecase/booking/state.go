package booking

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/spa-scheduler/internal/audit"
	"github.com/BruksfildServices01/spa-scheduler/internal/models"
)

// ======================================================
// STATE MACHINE
// ======================================================

type State string

const (
	StateDraft      State = "draft"
	StateValidating State = "validating"
	StateCommitting State = "committing"
	StateCommitted  State = "committed"
	StateRejected   State = "rejected"
)

type RejectReason string

const (
	RejectSlotConflict  RejectReason = "slot_conflict"
	RejectPromoInvalid  RejectReason = "promo_invalid"
	RejectMissingFields RejectReason = "missing_fields"
)

// RejectedError is returned when an attempt ends in StateRejected.
// Nothing has been persisted when it is returned.
type RejectedError struct {
	Reason RejectReason
	Err    error
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("booking rejected (%s): %v", e.Reason, e.Err)
}

func (e *RejectedError) Unwrap() error {
	return e.Err
}

// Warning is a non-fatal notice shown to the user after a committed booking.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ======================================================
// INPUT / OUTPUT
// ======================================================

type CreateBookingInput struct {
	ClientID    uint
	TherapistID *uint

	// ServiceIDs are stacked in order starting at Time.
	ServiceIDs []uint

	Date string // YYYY-MM-DD
	Time string // HH:mm

	PromoCode string

	// NumberOfSessions > 1 opens a treatment course for the first service.
	NumberOfSessions int
	SessionsPerWeek  int
	WeekDays         []int

	Notes string
}

type Outcome struct {
	State        State                   `json:"state"`
	GroupID      string                  `json:"group_id"`
	Appointments []models.Appointment    `json:"appointments"`
	Course       *models.TreatmentCourse `json:"course,omitempty"`

	Subtotal decimal.Decimal `json:"subtotal"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`

	Warnings []Warning `json:"warnings"`
}

type AuditSink interface {
	Dispatch(ev audit.Event)
}
