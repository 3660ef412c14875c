package course

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/spa-scheduler/internal/audit"
	"github.com/BruksfildServices01/spa-scheduler/internal/domain/appointment"
	domain "github.com/BruksfildServices01/spa-scheduler/internal/domain/course"
	"github.com/BruksfildServices01/spa-scheduler/internal/models"
	"github.com/BruksfildServices01/spa-scheduler/internal/timezone"
)

var ict = time.FixedZone("ICT", 7*60*60)

type memRepo struct {
	course       models.TreatmentCourse
	service      models.SpaService
	appointments []models.Appointment
	nextID       uint
	failCreate   error
}

func (r *memRepo) GetCourse(ctx context.Context, id uint) (*models.TreatmentCourse, error) {
	if id != r.course.ID {
		return nil, domain.ErrCourseNotFound
	}
	c := r.course
	return &c, nil
}

func (r *memRepo) GetService(ctx context.Context, id uint) (*models.SpaService, error) {
	s := r.service
	return &s, nil
}

func (r *memRepo) LockSession(ctx context.Context, courseID uint, seq int) (*models.Session, error) {
	for _, s := range r.course.Sessions {
		if s.Sequence == seq {
			return &s, nil
		}
	}
	return nil, domain.ErrSessionNotFound
}

func (r *memRepo) bookings(match func(models.Appointment) bool, date time.Time) []models.Appointment {
	var out []models.Appointment
	for _, ap := range r.appointments {
		if timezone.DateKey(ap.Date) == timezone.DateKey(date) && match(ap) {
			out = append(out, ap)
		}
	}
	return out
}

func (r *memRepo) LockBookingsForClient(ctx context.Context, clientID uint, date time.Time) ([]models.Appointment, error) {
	return r.bookings(func(ap models.Appointment) bool { return ap.ClientID == clientID }, date), nil
}

func (r *memRepo) LockBookingsForTherapist(ctx context.Context, therapistID uint, date time.Time) ([]models.Appointment, error) {
	return r.bookings(func(ap models.Appointment) bool {
		return ap.TherapistID != nil && *ap.TherapistID == therapistID
	}, date), nil
}

func (r *memRepo) CreateAppointment(ctx context.Context, ap *models.Appointment) error {
	if r.failCreate != nil {
		return r.failCreate
	}
	r.nextID++
	ap.ID = r.nextID
	r.appointments = append(r.appointments, *ap)
	return nil
}

func (r *memRepo) LinkSessionAppointment(ctx context.Context, sessionID, appointmentID uint) error {
	for i := range r.course.Sessions {
		if r.course.Sessions[i].ID == sessionID {
			id := appointmentID
			r.course.Sessions[i].AppointmentID = &id
		}
	}
	return nil
}

func (r *memRepo) Transaction(ctx context.Context, fn func(tx domain.Repository) error) error {
	return fn(r)
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type recordingSink struct {
	mu     sync.Mutex
	events []audit.Event
}

func (s *recordingSink) Dispatch(ev audit.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

func courseFixture() (*memRepo, *recordingSink, *BookSession) {
	therapist := uint(2)
	firstAppointment := uint(500)

	day := func(d int) time.Time { return time.Date(2026, time.October, d, 0, 0, 0, 0, time.UTC) }

	repo := &memRepo{
		nextID:  600,
		service: models.SpaService{ID: 10, DurationMin: 60, Price: decimal.NewFromInt(400000), Active: true},
		course: models.TreatmentCourse{
			ID:          7,
			ServiceID:   10,
			ClientID:    1,
			TherapistID: &therapist,
			Status:      models.CourseActive,
			Sessions: []models.Session{
				{ID: 70, Sequence: 1, Date: day(19), Time: "10:00", Status: models.SessionScheduled, AppointmentID: &firstAppointment},
				{ID: 71, Sequence: 2, Date: day(22), Time: "10:00", Status: models.SessionScheduled},
				{ID: 72, Sequence: 3, Date: day(26), Time: "10:00", Status: models.SessionCancelled},
			},
		},
	}

	sink := &recordingSink{}
	clock := fixedClock{t: time.Date(2026, time.October, 17, 9, 0, 0, 0, ict)}
	return repo, sink, NewBookSession(repo, sink, zap.NewNop(), clock, ict)
}

func TestBookSession(t *testing.T) {
	client := Actor{UserID: 1, Role: models.RoleClient}
	ctx := context.Background()

	t.Run("books the next session", func(t *testing.T) {
		repo, sink, uc := courseFixture()

		ap, err := uc.Execute(ctx, client, 7, 2)
		require.NoError(t, err)

		assert.Equal(t, "2026-10-22", timezone.DateKey(ap.Date))
		assert.Equal(t, "10:00", ap.Time)
		assert.Equal(t, string(appointment.StatusPending), ap.Status)
		require.NotNil(t, ap.SessionID)
		assert.Equal(t, uint(71), *ap.SessionID)
		require.NotNil(t, repo.course.Sessions[1].AppointmentID)
		assert.Equal(t, ap.ID, *repo.course.Sessions[1].AppointmentID)

		require.Len(t, sink.events, 1)
		assert.Equal(t, "course_session_booked", sink.events[0].Action)
	})

	t.Run("session already booked", func(t *testing.T) {
		_, _, uc := courseFixture()
		_, err := uc.Execute(ctx, client, 7, 1)
		assert.ErrorIs(t, err, domain.ErrSessionBooked)
	})

	t.Run("cancelled session", func(t *testing.T) {
		_, _, uc := courseFixture()
		_, err := uc.Execute(ctx, client, 7, 3)
		assert.ErrorIs(t, err, domain.ErrSessionClosed)
	})

	t.Run("unknown sequence", func(t *testing.T) {
		_, _, uc := courseFixture()
		_, err := uc.Execute(ctx, client, 7, 9)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("other client's course", func(t *testing.T) {
		_, _, uc := courseFixture()
		_, err := uc.Execute(ctx, Actor{UserID: 5, Role: models.RoleClient}, 7, 2)
		assert.ErrorIs(t, err, domain.ErrCourseNotFound)
	})

	t.Run("therapist busy at the session time", func(t *testing.T) {
		repo, _, uc := courseFixture()
		other := uint(2)
		repo.appointments = append(repo.appointments, models.Appointment{
			ID:          900,
			ClientID:    99,
			TherapistID: &other,
			Date:        time.Date(2026, time.October, 22, 0, 0, 0, 0, time.UTC),
			Time:        "09:30",
			DurationMin: 60,
			Status:      string(appointment.StatusUpcoming),
		})

		_, err := uc.Execute(ctx, client, 7, 2)
		var conflict *appointment.SlotConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, appointment.ReasonOverlap, conflict.Reason)
		assert.Nil(t, repo.course.Sessions[1].AppointmentID)
	})

	t.Run("unique index conflict becomes a slot conflict", func(t *testing.T) {
		repo, sink, uc := courseFixture()
		repo.failCreate = &appointment.PersistenceConflictError{
			Err: errors.New("duplicate key value violates unique constraint \"ux_appointments_therapist_slot\""),
		}

		_, err := uc.Execute(ctx, client, 7, 2)
		var conflict *appointment.SlotConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, "2026-10-22", conflict.Date)
		assert.Equal(t, "10:00", conflict.Time)
		assert.Equal(t, uint(10), conflict.ServiceID)
		assert.Nil(t, repo.course.Sessions[1].AppointmentID)
		assert.Empty(t, sink.events)
	})
}
