package appointment

import (
	"context"
	"errors"

	"github.com/BruksfildServices01/spa-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/spa-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/spa-scheduler/internal/httperr"
	"github.com/BruksfildServices01/spa-scheduler/internal/models"
)

type AuditSink interface {
	Dispatch(ev audit.Event)
}

// Actor is the authenticated user performing a status change.
type Actor struct {
	UserID uint
	Role   string
}

// loadForActor fetches the appointment and checks the actor may touch it:
// staff always, a therapist when assigned, a client when it is theirs.
func loadForActor(
	ctx context.Context,
	repo domain.Repository,
	actor Actor,
	appointmentID uint,
) (*models.Appointment, error) {

	ap, err := repo.GetAppointment(ctx, appointmentID)
	if errors.Is(err, domain.ErrAppointmentNotFound) {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}
	if err != nil {
		return nil, err
	}

	switch actor.Role {
	case models.RoleStaff:
		return ap, nil
	case models.RoleTherapist:
		if ap.TherapistID != nil && *ap.TherapistID == actor.UserID {
			return ap, nil
		}
	case models.RoleClient:
		if ap.ClientID == actor.UserID {
			return ap, nil
		}
	}

	return nil, httperr.ErrBusiness("appointment_not_found")
}

// saveWithSession stores ap and mirrors a terminal status onto its course session
// in one transaction.
func saveWithSession(ctx context.Context, repo domain.Repository, ap *models.Appointment) error {
	return repo.Transaction(ctx, func(tx domain.Repository) error {
		if err := tx.UpdateAppointment(ctx, ap); err != nil {
			return err
		}

		if ap.SessionID == nil {
			return nil
		}
		status, ok := domain.SessionStatusFor(domain.Status(ap.Status))
		if !ok {
			return nil
		}
		return tx.UpdateSessionStatus(ctx, *ap.SessionID, status)
	})
}
