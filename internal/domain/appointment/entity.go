package appointment

import (
	"time"

	"github.com/BruksfildServices01/spa-scheduler/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func Confirm(ap *models.Appointment, now time.Time) error {
	if err := CanTransition(Status(ap.Status), StatusUpcoming); err != nil {
		return err
	}

	ap.Status = string(StatusUpcoming)
	ap.ConfirmedAt = &now
	return nil
}

func Start(ap *models.Appointment, now time.Time) error {
	if err := CanTransition(Status(ap.Status), StatusInProgress); err != nil {
		return err
	}

	ap.Status = string(StatusInProgress)
	ap.StartedAt = &now
	return nil
}

func Cancel(ap *models.Appointment, reason string, now time.Time) error {
	if err := CanCancel(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCancelled)
	ap.CancelledAt = &now
	if reason != "" {
		ap.RejectionReason = &reason
	}
	return nil
}

func Complete(ap *models.Appointment, now time.Time) error {
	if err := CanComplete(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCompleted)
	ap.CompletedAt = &now
	return nil
}

// SessionStatusFor maps a terminal appointment status onto its linked course session.
func SessionStatusFor(s Status) (string, bool) {
	switch s {
	case StatusCompleted:
		return models.SessionCompleted, true
	case StatusCancelled:
		return models.SessionCancelled, true
	default:
		return "", false
	}
}
