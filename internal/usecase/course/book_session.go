package course

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/spa-scheduler/internal/audit"
	"github.com/BruksfildServices01/spa-scheduler/internal/domain/appointment"
	domain "github.com/BruksfildServices01/spa-scheduler/internal/domain/course"
	"github.com/BruksfildServices01/spa-scheduler/internal/models"
	"github.com/BruksfildServices01/spa-scheduler/internal/timezone"
)

type AuditSink interface {
	Dispatch(ev audit.Event)
}

// BookSession materialises the appointment of a scheduled course session.
type BookSession struct {
	repo  domain.Repository
	audit AuditSink
	log   *zap.Logger
	clock timezone.Clock
	loc   *time.Location
}

func NewBookSession(
	repo domain.Repository,
	audit AuditSink,
	log *zap.Logger,
	clock timezone.Clock,
	loc *time.Location,
) *BookSession {
	return &BookSession{
		repo:  repo,
		audit: audit,
		log:   log,
		clock: clock,
		loc:   loc,
	}
}

func (uc *BookSession) Execute(
	ctx context.Context,
	actor Actor,
	courseID uint,
	sequence int,
) (*models.Appointment, error) {

	c, err := uc.repo.GetCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if !canSee(actor, c) {
		return nil, domain.ErrCourseNotFound
	}
	if c.Status != models.CourseActive {
		return nil, domain.ErrSessionClosed
	}

	service, err := uc.repo.GetService(ctx, c.ServiceID)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now().In(uc.loc)
	var ap *models.Appointment

	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		s, err := tx.LockSession(ctx, courseID, sequence)
		if err != nil {
			return err
		}
		if s.AppointmentID != nil {
			return domain.ErrSessionBooked
		}
		if s.Status != models.SessionScheduled {
			return domain.ErrSessionClosed
		}

		start, err := timezone.ParseClock(s.Time)
		if err != nil {
			return err
		}
		y, m, d := s.Date.Date()
		day := time.Date(y, m, d, 0, 0, 0, 0, uc.loc)
		slot := appointment.Slot{Date: day, Start: start}

		therapistID := s.TherapistID
		if therapistID == nil {
			therapistID = c.TherapistID
		}

		clientBookings, err := tx.LockBookingsForClient(ctx, c.ClientID, day)
		if err != nil {
			return err
		}
		v := appointment.Check(slot, service.DurationMin, clientBookings, now)

		if v.OK() && therapistID != nil {
			therapistBookings, err := tx.LockBookingsForTherapist(ctx, *therapistID, day)
			if err != nil {
				return err
			}
			v = appointment.Check(slot, service.DurationMin, therapistBookings, now)
		}

		if !v.OK() {
			return &appointment.SlotConflictError{
				ServiceID: service.ID,
				Date:      timezone.DateKey(day),
				Time:      s.Time,
				Reason:    v.Reason,
			}
		}

		sessionID := s.ID
		ap = &models.Appointment{
			ServiceID:     service.ID,
			ClientID:      c.ClientID,
			TherapistID:   therapistID,
			Date:          timezone.CivilDate(day),
			Time:          s.Time,
			DurationMin:   service.DurationMin,
			Price:         service.Price,
			Status:        string(appointment.InitialStatus()),
			PaymentStatus: models.PaymentUnpaid,
			SessionID:     &sessionID,
		}

		if err := tx.CreateAppointment(ctx, ap); err != nil {
			return err
		}

		return tx.LinkSessionAppointment(ctx, s.ID, ap.ID)
	})

	var persistence *appointment.PersistenceConflictError
	if errors.As(err, &persistence) {
		err = &appointment.SlotConflictError{
			ServiceID: service.ID,
			Date:      timezone.DateKey(ap.Date),
			Time:      ap.Time,
			Reason:    appointment.ReasonOverlap,
		}
	}
	if err != nil {
		uc.log.Info("course session booking failed",
			zap.Uint("course_id", courseID),
			zap.Int("sequence", sequence),
			zap.Error(err),
		)
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &actor.UserID,
		Action:   "course_session_booked",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{"course_id": courseID, "sequence": sequence},
	})

	return ap, nil
}
