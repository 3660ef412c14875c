package appointment

import (
	"context"

	"github.com/BruksfildServices01/spa-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/spa-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/spa-scheduler/internal/httperr"
	"github.com/BruksfildServices01/spa-scheduler/internal/models"
	"github.com/BruksfildServices01/spa-scheduler/internal/timezone"
)

type CancelAppointment struct {
	repo  domain.Repository
	audit AuditSink
	clock timezone.Clock
}

func NewCancelAppointment(
	repo domain.Repository,
	audit AuditSink,
	clock timezone.Clock,
) *CancelAppointment {
	return &CancelAppointment{
		repo:  repo,
		audit: audit,
		clock: clock,
	}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	actor Actor,
	appointmentID uint,
	reason string,
) (*models.Appointment, error) {

	if actor.Role == models.RoleClient {
		return nil, httperr.ErrBusiness(httperr.CodeForbidden)
	}

	ap, err := loadForActor(ctx, uc.repo, actor, appointmentID)
	if err != nil {
		return nil, err
	}

	if err := domain.Cancel(ap, reason, uc.clock.Now()); err != nil {
		return nil, err
	}

	if err := saveWithSession(ctx, uc.repo, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &actor.UserID,
		Action:   "appointment_cancelled",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{"reason": reason},
	})

	return ap, nil
}
