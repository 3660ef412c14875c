package appointment

import (
	"context"
	"strings"

	"github.com/BruksfildServices01/spa-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/spa-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/spa-scheduler/internal/httperr"
	"github.com/BruksfildServices01/spa-scheduler/internal/models"
)

const maxNotesLen = 255

// UpdateNotes is the only edit allowed on an appointment in any status.
type UpdateNotes struct {
	repo  domain.Repository
	audit AuditSink
}

func NewUpdateNotes(
	repo domain.Repository,
	audit AuditSink,
) *UpdateNotes {
	return &UpdateNotes{
		repo:  repo,
		audit: audit,
	}
}

func (uc *UpdateNotes) Execute(
	ctx context.Context,
	actor Actor,
	appointmentID uint,
	notes string,
) (*models.Appointment, error) {

	notes = strings.TrimSpace(notes)
	if len(notes) > maxNotesLen {
		return nil, httperr.ErrBusiness("notes_too_long")
	}

	ap, err := loadForActor(ctx, uc.repo, actor, appointmentID)
	if err != nil {
		return nil, err
	}

	ap.Notes = notes

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &actor.UserID,
		Action:   "appointment_notes_updated",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}
