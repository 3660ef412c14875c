package appointment

import (
	"context"

	"github.com/BruksfildServices01/spa-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/spa-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/spa-scheduler/internal/httperr"
	"github.com/BruksfildServices01/spa-scheduler/internal/models"
	"github.com/BruksfildServices01/spa-scheduler/internal/timezone"
)

// ConfirmAppointment moves a pending booking to upcoming.
type ConfirmAppointment struct {
	repo  domain.Repository
	audit AuditSink
	clock timezone.Clock
}

func NewConfirmAppointment(
	repo domain.Repository,
	audit AuditSink,
	clock timezone.Clock,
) *ConfirmAppointment {
	return &ConfirmAppointment{
		repo:  repo,
		audit: audit,
		clock: clock,
	}
}

func (uc *ConfirmAppointment) Execute(
	ctx context.Context,
	actor Actor,
	appointmentID uint,
) (*models.Appointment, error) {

	if actor.Role == models.RoleClient {
		return nil, httperr.ErrBusiness(httperr.CodeForbidden)
	}

	ap, err := loadForActor(ctx, uc.repo, actor, appointmentID)
	if err != nil {
		return nil, err
	}

	if err := domain.Confirm(ap, uc.clock.Now()); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &actor.UserID,
		Action:   "appointment_confirmed",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}
