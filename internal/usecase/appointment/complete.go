package appointment

import (
	"context"

	"github.com/BruksfildServices01/spa-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/spa-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/spa-scheduler/internal/httperr"
	"github.com/BruksfildServices01/spa-scheduler/internal/models"
	"github.com/BruksfildServices01/spa-scheduler/internal/timezone"
)

type CompleteAppointment struct {
	repo  domain.Repository
	audit AuditSink
	clock timezone.Clock
}

func NewCompleteAppointment(
	repo domain.Repository,
	audit AuditSink,
	clock timezone.Clock,
) *CompleteAppointment {
	return &CompleteAppointment{
		repo:  repo,
		audit: audit,
		clock: clock,
	}
}

func (uc *CompleteAppointment) Execute(
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

	if err := domain.Complete(ap, uc.clock.Now()); err != nil {
		return nil, err
	}

	if err := saveWithSession(ctx, uc.repo, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &actor.UserID,
		Action:   "appointment_completed",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}
